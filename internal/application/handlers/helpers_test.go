package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/mocks"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

var fixedNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.Local)

// setupJournal returns a journal over a mock store holding events, already refreshed.
func setupJournal(t *testing.T, events ...entities.LifeEvent) (*services.JournalService, *mocks.RecordStore) {
	t.Helper()
	store := &mocks.RecordStore{Events: events}
	journal := services.NewJournalService(store, services.WithClock(func() time.Time { return fixedNow }))
	_, err := journal.Refresh(context.Background())
	require.NoError(t, err)
	return journal, store
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 9, 0, 0, 0, time.Local)
}
