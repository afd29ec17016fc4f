package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// EnrichedEvent is a record prepared for display.
type EnrichedEvent struct {
	entities.LifeEvent

	// Anchor addresses the record from outside (scroll-to, deep links).
	Anchor string
	// At is the resolved ordering instant; HasDate is false when neither
	// date nor createdAt resolved.
	At      time.Time
	HasDate bool

	DateLabel       string
	TypeLabel       string
	ImportanceLabel string
	EmotionLabels   []string

	// Related are the resolved outgoing links; Backlinks are records linking here.
	Related   []entities.LifeEvent
	Backlinks []entities.LifeEvent
}

// TimelineGroup is a year bucket of a projection. Year is 0 for undated records.
type TimelineGroup struct {
	Year   int
	Label  string
	Events []EnrichedEvent
}

// AnchorFor returns the external address of a record id.
func AnchorFor(id string) string {
	return "event-" + id
}

// Project returns all records ordered most recent first with display fields
// resolved. Ties keep collection order and undated records sort last.
// all is not modified.
func Project(all []entities.LifeEvent) []EnrichedEvent {
	type keyed struct {
		pos int
		at  time.Time
		ok  bool
	}
	keys := make([]keyed, len(all))
	for i := range all {
		at, ok := all[i].ResolvedDate()
		keys[i] = keyed{pos: i, at: at, ok: ok}
	}

	sort.SliceStable(keys, func(a, b int) bool {
		if keys[a].ok != keys[b].ok {
			return keys[a].ok
		}
		return keys[a].at.After(keys[b].at)
	})

	byID := indexByID(all)
	rev := ReverseIndex(all)

	out := make([]EnrichedEvent, 0, len(all))
	for _, k := range keys {
		ev := all[k.pos]
		enriched := EnrichedEvent{
			LifeEvent:       ev,
			Anchor:          AnchorFor(ev.ID),
			At:              k.at,
			HasDate:         k.ok,
			DateLabel:       entities.MissingDateLabel,
			TypeLabel:       ev.Type.Label(),
			ImportanceLabel: ev.Importance.Label(),
			EmotionLabels:   make([]string, 0, len(ev.Emotions)),
			Related:         resolveWith(&ev, all, byID),
			Backlinks:       backlinksWith(ev.ID, all, rev, byID),
		}
		if k.ok {
			enriched.DateLabel = k.at.Format(entities.DateLabelLayout)
		}
		for _, e := range ev.Emotions {
			enriched.EmotionLabels = append(enriched.EmotionLabels, e.Label())
		}
		out = append(out, enriched)
	}
	return out
}

// GroupByYear buckets a projection by year, newest first, undated last.
func GroupByYear(projection []EnrichedEvent) []TimelineGroup {
	var groups []TimelineGroup
	var undated []EnrichedEvent
	for _, ev := range projection {
		if !ev.HasDate {
			undated = append(undated, ev)
			continue
		}
		year := ev.At.Year()
		if n := len(groups); n == 0 || groups[n-1].Year != year {
			groups = append(groups, TimelineGroup{Year: year, Label: fmt.Sprintf("%d年", year)})
		}
		groups[len(groups)-1].Events = append(groups[len(groups)-1].Events, ev)
	}
	if len(undated) > 0 {
		groups = append(groups, TimelineGroup{Label: entities.MissingDateLabel, Events: undated})
	}
	return groups
}

// Locate returns the position of id in projection, or -1.
func Locate(projection []EnrichedEvent, id string) int {
	for i := range projection {
		if projection[i].ID == id {
			return i
		}
	}
	return -1
}
