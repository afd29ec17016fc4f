package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// CSVColumns is the column layout written by the exporter. Only title is required.
var CSVColumns = []string{
	"id", "title", "description", "type", "date", "importance", "emotions",
	"emotion_note", "location", "lat", "lng", "participants", "tags",
	"category", "related_events",
}

// ListSeparator joins multi-value cells (emotions, tags, related_events).
const ListSeparator = ";"

// CSVParser parses events from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed events.
func (p *CSVParser) Parse(r io.Reader) ([]RawEvent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(strings.TrimPrefix(col, "\uFEFF"))] = i
	}

	if _, ok := colIndex["title"]; !ok {
		return nil, fmt.Errorf("missing required column: title")
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawEvents.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawEvent, error) {
	var events []RawEvent
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		event, err := p.parseRecord(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// parseRecord converts a CSV record to a RawEvent.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) (RawEvent, error) {
	event := RawEvent{
		ID:            getColumn(record, colIndex, "id"),
		Title:         getColumn(record, colIndex, "title"),
		Description:   getColumn(record, colIndex, "description"),
		Type:          getColumn(record, colIndex, "type"),
		Importance:    getColumn(record, colIndex, "importance"),
		Emotions:      splitList(getColumn(record, colIndex, "emotions")),
		EmotionNote:   getColumn(record, colIndex, "emotion_note"),
		Tags:          splitList(getColumn(record, colIndex, "tags")),
		Category:      getColumn(record, colIndex, "category"),
		RelatedEvents: splitList(getColumn(record, colIndex, "related_events")),
		LineNum:       lineNum,
	}

	if date := getColumn(record, colIndex, "date"); date != "" {
		event.Date = RawDate{Value: date}
	}

	if participants := getColumn(record, colIndex, "participants"); participants != "" {
		// the validator splits on commas again
		event.Participants = []string{participants}
	}

	if name := getColumn(record, colIndex, "location"); name != "" {
		event.Location = &RawLocation{Name: name}
		latStr := getColumn(record, colIndex, "lat")
		lngStr := getColumn(record, colIndex, "lng")
		if latStr != "" || lngStr != "" {
			lat, err := strconv.ParseFloat(latStr, 64)
			if err != nil {
				return RawEvent{}, fmt.Errorf("line %d: invalid lat value %q: %w", lineNum, latStr, err)
			}
			lng, err := strconv.ParseFloat(lngStr, 64)
			if err != nil {
				return RawEvent{}, fmt.Errorf("line %d: invalid lng value %q: %w", lineNum, lngStr, err)
			}
			event.Location.Coordinates = &entities.Coordinates{Lat: lat, Lng: lng}
		}
	}

	return event, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func splitList(cell string) []string {
	if cell == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(cell, ListSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
