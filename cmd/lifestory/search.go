package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find events by meaning",
		Long:  "Searches your events semantically, e.g. 'times I felt proud of my family'.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			return withInternalDeps(ctx, recallRequired, func(d *internalDeps) error {
				result, err := d.Recall.Handle(ctx, query, limit)
				if err != nil {
					return err
				}
				if len(result.Hits) == 0 {
					fmt.Println("No matching events. Run 'lifestory reindex' if you recorded events before recall was set up.")
					return nil
				}

				fmt.Printf("Results for %q:\n\n", result.Query)
				for _, hit := range result.Hits {
					ev, err := d.Journal.HandleGet(hit.Event.ID)
					if err != nil {
						continue
					}
					fmt.Printf("(%.2f) ", hit.Score)
					printEventLine(os.Stdout, ev)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultSearchLimit, "Maximum number of results")
	return cmd
}

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from your events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withInternalDeps(ctx, recallRequired, func(d *internalDeps) error {
				n, err := d.Recall.HandleReindex(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Indexed %d events.\n", n)
				return nil
			})
		},
	}
}
