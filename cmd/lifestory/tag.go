package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/services"
	llm "github.com/messixieziyi/life-story/internal/infrastructure/llm/openai"
)

func newTagCmd() *cobra.Command {
	var opts handlers.TagOptions

	cmd := &cobra.Command{
		Use:   "tag <id>",
		Short: "Suggest tags and a category for an event",
		Long:  "Asks the configured LLM for tags and a category. Suggested tags are merged with existing ones.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withInternalDeps(ctx, recallOptional, func(d *internalDeps) error {
				client, err := llm.NewClient(d.Config.LLM)
				if err != nil {
					return fmt.Errorf("creating llm client: %w", err)
				}

				handler := handlers.NewTagHandler(services.NewTaggingService(client, d.journal))
				result, err := handler.Handle(ctx, args[0], opts)
				if err != nil {
					return err
				}

				fmt.Printf("Tags:     %s\n", strings.Join(result.Suggestion.Tags, ", "))
				fmt.Printf("Category: %s\n", result.Suggestion.Category)
				if result.Event != nil {
					fmt.Printf("Saved %s (tags: %s)\n", result.Event.ID, strings.Join(result.Event.Tags, ", "))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show the suggestion without saving")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "Replace an existing category")
	return cmd
}
