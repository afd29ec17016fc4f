package services

import (
	"time"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// RecentWindowDays is the length of the trailing "recent" window in calendar days.
const RecentWindowDays = 30

// Stats is a summary of a record set.
type Stats struct {
	Total        int `json:"total"`
	Achievements int `json:"achievements"`
	Wishes       int `json:"wishes"`
	Recent       int `json:"recent"`

	ByImportance map[entities.Importance]int `json:"byImportance"`
	// ByPolarity counts emotion occurrences. Unknown emotions are not counted.
	ByPolarity map[entities.Polarity]int `json:"byPolarity"`
}

// RecentCutoff is the inclusive lower bound of the recent window ending at now.
func RecentCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -RecentWindowDays)
}

// Summarize counts records by type, importance, emotion polarity and recency.
func Summarize(all []entities.LifeEvent, now time.Time) Stats {
	stats := Stats{
		Total:        len(all),
		ByImportance: make(map[entities.Importance]int),
		ByPolarity:   make(map[entities.Polarity]int),
	}
	cutoff := RecentCutoff(now)

	for i := range all {
		ev := &all[i]
		switch ev.Type {
		case entities.EventTypeAchievement:
			stats.Achievements++
		case entities.EventTypeWish:
			stats.Wishes++
		}

		importance := ev.Importance
		if importance == "" {
			importance = entities.ImportanceNormal
		}
		stats.ByImportance[importance]++

		for _, e := range ev.Emotions {
			if opt, ok := entities.LookupEmotion(e); ok {
				stats.ByPolarity[opt.Polarity]++
			}
		}

		if at, ok := ev.ResolvedDate(); ok && !at.Before(cutoff) {
			stats.Recent++
		}
	}
	return stats
}
