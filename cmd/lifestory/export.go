package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
	"github.com/messixieziyi/life-story/internal/infrastructure/parsers"
)

type exportFlags struct {
	format string
	output string
	timelineFlags
}

type exporter struct {
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events to file",
		Long:  "Exports events to JSON, CSV, or markdown. JSON and CSV output can be read back with 'lifestory import'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&flags.eventType, "type", "t", "", "Filter by type")
	cmd.Flags().IntVarP(&flags.year, "year", "y", 0, "Filter by year")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "Filter by tag")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	filter, err := flags.filter()
	if err != nil {
		return err
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		result := d.Journal.HandleTimeline(filter)
		if result.Total == 0 {
			return fmt.Errorf("no events found to export")
		}

		e := &exporter{format: flags.format, output: flags.output}
		return e.export(result.Events)
	})
}

func (e *exporter) export(events []services.EnrichedEvent) (err error) {
	var w io.Writer
	var f *os.File

	if e.output != "" {
		f, err = os.OpenFile(e.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	if err := e.formatEvents(w, events); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if e.output != "" {
		fmt.Printf("Exported %d events to %s\n", len(events), e.output)
	}

	return nil
}

func (e *exporter) formatEvents(w io.Writer, events []services.EnrichedEvent) error {
	switch e.format {
	case "json":
		return formatJSON(w, events)
	case "csv":
		return formatCSV(w, events)
	case "markdown":
		return formatMarkdown(w, events)
	default:
		return fmt.Errorf("unknown format: %s", e.format)
	}
}

// formatJSON writes the stored records, which the JSON parser reads back as-is.
func formatJSON(w io.Writer, events []services.EnrichedEvent) error {
	records := make([]entities.LifeEvent, 0, len(events))
	for _, ev := range events {
		records = append(records, ev.LifeEvent)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(records)
}

func formatCSV(w io.Writer, events []services.EnrichedEvent) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(parsers.CSVColumns); err != nil {
		return err
	}

	for _, ev := range events {
		var date string
		if !ev.Date.IsZero() {
			date = ev.Date.Format(time.RFC3339)
		}
		var location, lat, lng string
		if ev.Location != nil {
			location = ev.Location.Name
			if c := ev.Location.Coordinates; c != nil {
				lat = strconv.FormatFloat(c.Lat, 'f', -1, 64)
				lng = strconv.FormatFloat(c.Lng, 'f', -1, 64)
			}
		}
		emotions := make([]string, len(ev.Emotions))
		for i, e := range ev.Emotions {
			emotions[i] = string(e)
		}

		row := []string{
			ev.ID,
			ev.Title,
			ev.Description,
			string(ev.Type),
			date,
			string(ev.Importance),
			strings.Join(emotions, parsers.ListSeparator),
			ev.EmotionNote,
			location,
			lat,
			lng,
			strings.Join(ev.Participants, ","),
			strings.Join(ev.Tags, parsers.ListSeparator),
			ev.Category,
			strings.Join(ev.RelatedEvents, parsers.ListSeparator),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMarkdown(w io.Writer, events []services.EnrichedEvent) error {
	if _, err := fmt.Fprintf(w, "# My Life Story\n\nTotal: %d events\n", len(events)); err != nil {
		return err
	}

	for _, group := range services.GroupByYear(events) {
		if _, err := fmt.Fprintf(w, "\n## %s\n\n", group.Label); err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, "| Date | Type | Title | Feelings | Related |\n|------|------|-------|----------|---------|\n"); err != nil {
			return err
		}
		for _, ev := range group.Events {
			related := make([]string, len(ev.Related))
			for i, r := range ev.Related {
				related[i] = r.Title
			}
			if _, err := fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
				ev.DateLabel,
				ev.TypeLabel,
				escapeMarkdown(ev.Title),
				escapeMarkdown(strings.Join(ev.EmotionLabels, ", ")),
				escapeMarkdown(strings.Join(related, ", ")),
			); err != nil {
				return err
			}
		}
	}

	return nil
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
