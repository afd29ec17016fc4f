// Package main provides the entry point for the lifestory CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version       = "0.1.0-dev"
	globalVerbose bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "lifestory",
		Short:         "A personal journal of life events, wishes and achievements",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Log diagnostics to stderr")

	rootCmd.AddCommand(
		newInitCmd(),
		newSignUpCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoAmICmd(),
		newVerifyEmailCmd(),
		newAddCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newTimelineCmd(),
		newStatsCmd(),
		newRelatedCmd(),
		newLinkCmd(),
		newUnlinkCmd(),
		newFeelCmd(),
		newEmotionsCmd(),
		newSeedCmd(),
		newExportCmd(),
		newImportCmd(),
		newVoiceCmd(),
		newTagCmd(),
		newSearchCmd(),
		newReindexCmd(),
		newHistoryCmd(),
		newServeCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
