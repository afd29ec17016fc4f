package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded event",
		Long:  "Deletes an event. Records that reference it keep the reference, which then renders as missing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				ev, err := d.Journal.HandleGet(args[0])
				if err != nil {
					return err
				}

				if !force {
					question := fmt.Sprintf("Delete %q?", ev.Title)
					if n := len(ev.Backlinks); n > 0 {
						question = fmt.Sprintf("Delete %q? %d record(s) reference it.", ev.Title, n)
					}
					if !confirmAction(question) {
						fmt.Println("Cancelled.")
						return nil
					}
				}

				if err := d.Journal.HandleDelete(cmd.Context(), ev.ID); err != nil {
					return fmt.Errorf("deleting event: %w", err)
				}
				fmt.Printf("Deleted %s\n", ev.ID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func confirmAction(question string) bool {
	answer := strings.ToLower(prompt(question + " [y/N]"))
	return answer == "y" || answer == "yes"
}
