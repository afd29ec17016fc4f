package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

type importFlags struct {
	format     string
	dryRun     bool
	onConflict string
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import events from JSON or CSV",
		Long: "Imports events from a structured file, such as the output of 'lifestory export'. " +
			"Every row is validated; related-event ids are remapped to the newly created records.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "skip", "Conflict handling (skip, overwrite)")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	strategy := services.ConflictStrategy(flags.onConflict)
	if strategy != services.ConflictSkip && strategy != services.ConflictOverwrite {
		return fmt.Errorf("invalid --on-conflict value %q (valid: skip, overwrite)", flags.onConflict)
	}

	ctx := cmd.Context()

	return withImportHandler(cmd, func(handler *handlers.ImportHandler) error {
		opts := handlers.ImportOptions{
			Format:     flags.format,
			DryRun:     flags.dryRun,
			OnConflict: strategy,
		}

		fmt.Printf("Importing %s...\n", filePath)

		result, err := handler.Handle(ctx, filePath, opts)
		if err != nil {
			return fmt.Errorf("importing file: %w", err)
		}

		if len(result.Errors) > 0 {
			fmt.Printf("\nValidation errors (%d):\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Printf("  %s\n", e.Error())
			}
		}

		fmt.Println()
		if flags.dryRun {
			fmt.Printf("Dry run: %d events would be imported", result.Imported)
		} else {
			fmt.Printf("Imported: %d events", result.Imported)
		}

		if result.Skipped > 0 {
			fmt.Printf(", %d skipped (already exist)", result.Skipped)
		}

		if len(result.Errors) > 0 {
			fmt.Printf(", %d errors", len(result.Errors))
		}

		fmt.Println()

		for _, code := range result.RejectedCodes() {
			fmt.Printf("  %-20s %d\n", code, result.Rejected[code])
		}

		return nil
	})
}

// withImportHandler creates an ImportHandler and calls the provided function.
func withImportHandler(cmd *cobra.Command, fn func(*handlers.ImportHandler) error) error {
	return withInternalDeps(cmd.Context(), recallOptional, func(d *internalDeps) error {
		importService := services.NewImportService(d.journal, d.logger)
		return fn(handlers.NewImportHandler(importService))
	})
}
