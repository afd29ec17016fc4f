package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show the write history of your journal or one event",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var eventID string
			if len(args) == 1 {
				eventID = args[0]
			}

			return withAuditLog(ctx, func(audit ports.AuditLog, user *entities.User) error {
				entries, err := audit.FindAuditLog(ctx, user.ID, eventID)
				if err != nil {
					return fmt.Errorf("reading history: %w", err)
				}
				if len(entries) == 0 {
					fmt.Println("No history yet.")
					return nil
				}
				if limit > 0 && len(entries) > limit {
					entries = entries[:limit]
				}

				for _, e := range entries {
					fmt.Printf("%s  %-8s", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Action)
					if e.EventID != "" {
						fmt.Printf(" #%s", e.EventID)
					}
					if title, ok := e.Details["title"].(string); ok && title != "" {
						fmt.Printf("  %s", title)
					}
					fmt.Println()
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultHistorySize, "Maximum number of entries (0 for all)")
	return cmd
}
