package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample events into your journal",
		Long:  "Adds a fixed set of sample events dated relative to today. Failed drafts are reported and skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withInternalDeps(ctx, recallOptional, func(d *internalDeps) error {
				if d.Demo {
					fmt.Println("Demo records are already seeded on every run.")
					return nil
				}

				handler := handlers.NewSeedHandler(services.NewSeeder(d.logger), d.records, d.journal)
				result, err := handler.Handle(ctx)
				if err != nil {
					return err
				}

				for _, f := range result.Failures {
					fmt.Printf("  failed %q: %v\n", f.Title, f.Err)
				}
				fmt.Printf("Seeded %d of %d sample events.\n", result.Created(), len(result.IDs))
				return nil
			})
		},
	}
}
