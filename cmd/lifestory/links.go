package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/entities"
)

func newRelatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "related <id>",
		Short: "Show an event with the events it links to and from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				ev, err := d.Journal.HandleGet(args[0])
				if err != nil {
					return err
				}
				links, err := d.Links.HandleList(args[0])
				if err != nil {
					return err
				}
				printEventDetail(os.Stdout, ev)
				printLinks(os.Stdout, links)
				return nil
			})
		},
	}
}

func newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <id> <related-id>",
		Short: "Mark an event as related to another",
		Long:  "Adds related-id to the event's related events. The other event is not changed.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				ev, err := d.Links.HandleLink(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Printf("%s now links to %d event(s)\n", ev.ID, len(ev.RelatedEvents))
				return nil
			})
		},
	}
}

func newUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <id> <related-id>",
		Short: "Remove a related event reference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				ev, err := d.Links.HandleUnlink(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Printf("%s now links to %d event(s)\n", ev.ID, len(ev.RelatedEvents))
				return nil
			})
		},
	}
}

func printLinks(w io.Writer, links *handlers.LinksResult) {
	printRefs(w, "Related", links.Related)
	printRefs(w, "Referenced by", links.Backlinks)
	if len(links.Dangling) > 0 {
		fmt.Fprintf(w, "\nMissing (%d):\n", len(links.Dangling))
		for _, id := range links.Dangling {
			fmt.Fprintf(w, "  - %s\n", id)
		}
	}
}

func printRefs(w io.Writer, heading string, events []entities.LifeEvent) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", heading, len(events))
	for _, ev := range events {
		fmt.Fprintf(w, "  - %s  #%s\n", ev.Title, ev.ID)
	}
}
