package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/application/handlers"
)

func newEmotionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "emotions",
		Short: "List the emotions that can be attached to an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			printEmotions(os.Stdout, handlers.NewEmotionHandler().HandleList())
			return nil
		},
	}
}

func newFeelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feel <id> <emotion>",
		Short: "Toggle an emotion on an event",
		Long:  "Adds the emotion to the event, or removes it when already present. Accepts a value or a label.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				ev, err := d.Journal.HandleToggleEmotion(cmd.Context(), args[0], args[1])
				if err != nil {
					return describeWriteError(err)
				}
				labels := make([]string, len(ev.Emotions))
				for i, e := range ev.Emotions {
					labels[i] = e.Label()
				}
				fmt.Printf("%s: %v\n", ev.Title, labels)
				return nil
			})
		},
	}
}

func printEmotions(w io.Writer, groups []handlers.EmotionGroup) {
	for _, g := range groups {
		fmt.Fprintf(w, "%s:\n", g.Polarity)
		for _, opt := range g.Options {
			fmt.Fprintf(w, "  %-12s %s\n", opt.Value, opt.Label)
		}
	}
}
