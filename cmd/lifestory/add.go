package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

func newAddCmd() *cobra.Command {
	var flags eventFlags

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Record a life event",
		Long:  "Records a new event, wish or achievement. The date defaults to now.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var draft entities.Draft
			flags.apply(cmd, &draft)
			if len(args) > 0 && !cmd.Flags().Changed("title") {
				draft.Title = args[0]
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				ev, err := d.Journal.HandleAdd(cmd.Context(), draft)
				if err != nil {
					return describeWriteError(err)
				}
				fmt.Printf("Saved %s: %s\n", ev.ID, ev.Title)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newEditCmd() *cobra.Command {
	var flags eventFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a recorded event",
		Long:  "Only the flags given are changed; everything else keeps its stored value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.anyChanged(cmd) {
				return errors.New("nothing to change (pass at least one field flag)")
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				ev, err := d.Journal.HandleEdit(cmd.Context(), args[0], func(draft *entities.Draft) {
					flags.apply(cmd, draft)
				})
				if err != nil {
					return describeWriteError(err)
				}
				fmt.Printf("Updated %s: %s\n", ev.ID, ev.Title)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// describeWriteError swaps a validation error for its localized message.
func describeWriteError(err error) error {
	var verr *entities.ValidationError
	if errors.As(err, &verr) {
		return errors.New(verr.Message)
	}
	return err
}
