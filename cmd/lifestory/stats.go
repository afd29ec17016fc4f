package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				printStats(os.Stdout, d.Journal.HandleStats())
				return nil
			})
		},
	}
}

func printStats(w io.Writer, s services.Stats) {
	fmt.Fprintf(w, "Total:        %d\n", s.Total)
	fmt.Fprintf(w, "Achievements: %d\n", s.Achievements)
	fmt.Fprintf(w, "Wishes:       %d\n", s.Wishes)
	fmt.Fprintf(w, "Last %d days: %d\n", services.RecentWindowDays, s.Recent)

	fmt.Fprintln(w, "\nImportance:")
	for _, level := range entities.ImportanceLevels {
		fmt.Fprintf(w, "  %s: %d\n", level.Label(), s.ByImportance[level])
	}

	fmt.Fprintln(w, "\nFeelings:")
	for _, p := range []entities.Polarity{entities.PolarityPositive, entities.PolarityNeutral, entities.PolarityNegative} {
		fmt.Fprintf(w, "  %s: %d\n", p, s.ByPolarity[p])
	}
}
