package services

import (
	"slices"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// indexByID maps ids to positions in all. The first record wins on duplicate ids.
func indexByID(all []entities.LifeEvent) map[string]int {
	idx := make(map[string]int, len(all))
	for i := range all {
		if _, ok := idx[all[i].ID]; !ok {
			idx[all[i].ID] = i
		}
	}
	return idx
}

// ResolveRelated looks up record's related ids in all, preserving their order.
// Ids with no matching record are skipped.
func ResolveRelated(record *entities.LifeEvent, all []entities.LifeEvent) []entities.LifeEvent {
	return resolveWith(record, all, indexByID(all))
}

func resolveWith(record *entities.LifeEvent, all []entities.LifeEvent, byID map[string]int) []entities.LifeEvent {
	out := make([]entities.LifeEvent, 0, len(record.RelatedEvents))
	for _, id := range record.RelatedEvents {
		if i, ok := byID[id]; ok {
			out = append(out, all[i])
		}
	}
	return out
}

// DanglingReferences returns record's related ids that match no record in all.
func DanglingReferences(record *entities.LifeEvent, all []entities.LifeEvent) []string {
	byID := indexByID(all)
	var out []string
	for _, id := range record.RelatedEvents {
		if _, ok := byID[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// ReverseIndex maps each referenced id to the ids of records pointing at it,
// in collection order. Dangling targets are indexed too.
func ReverseIndex(all []entities.LifeEvent) map[string][]string {
	rev := make(map[string][]string)
	for i := range all {
		src := all[i].ID
		for _, target := range all[i].RelatedEvents {
			if !slices.Contains(rev[target], src) {
				rev[target] = append(rev[target], src)
			}
		}
	}
	return rev
}

// Backlinks returns the records whose related list contains record.ID.
func Backlinks(record *entities.LifeEvent, all []entities.LifeEvent) []entities.LifeEvent {
	return backlinksWith(record.ID, all, ReverseIndex(all), indexByID(all))
}

func backlinksWith(id string, all []entities.LifeEvent, rev map[string][]string, byID map[string]int) []entities.LifeEvent {
	sources := rev[id]
	out := make([]entities.LifeEvent, 0, len(sources))
	for _, src := range sources {
		if i, ok := byID[src]; ok {
			out = append(out, all[i])
		}
	}
	return out
}
