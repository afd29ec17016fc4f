package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

type timelineFlags struct {
	eventType string
	emotion   string
	year      int
	tag       string
	limit     int
}

func newTimelineCmd() *cobra.Command {
	var flags timelineFlags

	cmd := &cobra.Command{
		Use:     "timeline",
		Aliases: []string{"list"},
		Short:   "Show recorded events newest first, grouped by year",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				result := d.Journal.HandleTimeline(filter)
				if result.Total == 0 {
					fmt.Println("No events found.")
					return nil
				}
				printTimeline(os.Stdout, result)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flags.eventType, "type", "t", "", "Filter by type (achievement, wish, event)")
	cmd.Flags().StringVarP(&flags.emotion, "emotion", "e", "", "Filter by emotion value or label")
	cmd.Flags().IntVarP(&flags.year, "year", "y", 0, "Filter by year")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "Filter by tag")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultTimelineSize, "Maximum number of events to display (0 for all)")

	return cmd
}

func (f timelineFlags) filter() (handlers.TimelineFilter, error) {
	filter := handlers.TimelineFilter{Year: f.year, Tag: f.tag, Limit: f.limit}
	if f.eventType != "" {
		t := entities.EventType(strings.ToLower(f.eventType))
		if !t.IsValid() {
			return filter, fmt.Errorf("invalid type %q, valid types: %v", f.eventType, entities.EventTypes)
		}
		filter.Type = t
	}
	if f.emotion != "" {
		e, ok := entities.ParseEmotion(f.emotion)
		if !ok {
			return filter, fmt.Errorf("unknown emotion %q (see 'lifestory emotions')", f.emotion)
		}
		filter.Emotion = e
	}
	return filter, nil
}

func printTimeline(w io.Writer, result *handlers.TimelineResult) {
	if len(result.Events) < result.Total {
		fmt.Fprintf(w, "Showing %d of %d events:\n\n", len(result.Events), result.Total)
	} else {
		fmt.Fprintf(w, "%d events:\n\n", result.Total)
	}

	for _, group := range result.Groups {
		fmt.Fprintf(w, "== %s ==\n", group.Label)
		for i := range group.Events {
			printEventLine(w, &group.Events[i])
		}
		fmt.Fprintln(w)
	}
}

func printEventLine(w io.Writer, ev *services.EnrichedEvent) {
	fmt.Fprintf(w, "%s  [%s] %s", ev.DateLabel, ev.TypeLabel, ev.Title)
	if ev.Importance == entities.ImportanceMajor {
		fmt.Fprintf(w, " (%s)", ev.ImportanceLabel)
	}
	fmt.Fprintf(w, "  #%s\n", ev.ID)
	if len(ev.EmotionLabels) > 0 {
		fmt.Fprintf(w, "    %s\n", strings.Join(ev.EmotionLabels, " "))
	}
}

func printEventDetail(w io.Writer, ev *services.EnrichedEvent) {
	fmt.Fprintf(w, "%s  #%s\n", ev.Title, ev.ID)
	fmt.Fprintf(w, "  %s · %s · %s\n", ev.DateLabel, ev.TypeLabel, ev.ImportanceLabel)
	if ev.Description != "" {
		fmt.Fprintf(w, "  %s\n", ev.Description)
	}
	if len(ev.EmotionLabels) > 0 {
		fmt.Fprintf(w, "  Feelings: %s\n", strings.Join(ev.EmotionLabels, ", "))
	}
	if ev.EmotionNote != "" {
		fmt.Fprintf(w, "  Note: %s\n", ev.EmotionNote)
	}
	if ev.Location != nil {
		fmt.Fprintf(w, "  Where: %s\n", ev.Location.Name)
	}
	if len(ev.Participants) > 0 {
		fmt.Fprintf(w, "  With: %s\n", strings.Join(ev.Participants, ", "))
	}
	if len(ev.Tags) > 0 {
		fmt.Fprintf(w, "  Tags: %s\n", strings.Join(ev.Tags, ", "))
	}
	if ev.Category != "" {
		fmt.Fprintf(w, "  Category: %s\n", ev.Category)
	}
}
