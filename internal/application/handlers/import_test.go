package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportHandler_Handle_JSONFile(t *testing.T) {
	journal, store := setupJournal(t)
	handler := NewImportHandler(services.NewImportService(journal, nil))

	path := writeFile(t, "events.json", `[
		{"id": "x1", "title": "大学毕业", "type": "achievement", "date": "2019-06-30", "relatedEvents": ["x2"]},
		{"id": "x2", "title": "第一份工作", "date": "2019-08-01"}
	]`)

	result, err := handler.Handle(context.Background(), path, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)

	require.Len(t, store.Events, 2)
	assert.Equal(t, []string{"ev-2"}, store.Events[0].RelatedEvents, "forward reference rewired to the new id")
}

func TestImportHandler_Handle_CSVFile(t *testing.T) {
	journal, store := setupJournal(t)
	handler := NewImportHandler(services.NewImportService(journal, nil))

	path := writeFile(t, "events.csv", "title,type,emotions\n学会游泳,achievement,happy;proud\n")

	result, err := handler.Handle(context.Background(), path, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.Events, 1)
	assert.Equal(t, []entities.Emotion{entities.EmotionHappy, entities.EmotionProud}, store.Events[0].Emotions)
}

func TestImportHandler_Handle_ExplicitFormat(t *testing.T) {
	journal, _ := setupJournal(t)
	handler := NewImportHandler(services.NewImportService(journal, nil))

	path := writeFile(t, "events.txt", `[{"title": "看海"}]`)

	_, err := handler.Handle(context.Background(), path, ImportOptions{Format: "auto"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	result, err := handler.Handle(context.Background(), path, ImportOptions{Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestImportHandler_Handle_DryRun(t *testing.T) {
	journal, store := setupJournal(t)
	handler := NewImportHandler(services.NewImportService(journal, nil))

	path := writeFile(t, "events.json", `[{"title": "a"}, {"title": ""}]`)

	result, err := handler.Handle(context.Background(), path, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Line)
	assert.Equal(t, 0, store.CreateCallCount)
}

func TestImportHandler_Handle_SkipExisting(t *testing.T) {
	journal, store := setupJournal(t, entities.LifeEvent{ID: "keep", Title: "旧的"})
	handler := NewImportHandler(services.NewImportService(journal, nil))

	path := writeFile(t, "events.json", `[{"id": "keep", "title": "新的"}]`)

	result, err := handler.Handle(context.Background(), path, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "旧的", store.Events[0].Title)

	result, err = handler.Handle(context.Background(), path, ImportOptions{OnConflict: services.ConflictOverwrite})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, "新的", store.Events[0].Title)
}

func TestImportHandler_Handle_EmptyAndMissing(t *testing.T) {
	journal, _ := setupJournal(t)
	handler := NewImportHandler(services.NewImportService(journal, nil))

	result, err := handler.Handle(context.Background(), writeFile(t, "empty.json", "[]"), ImportOptions{})
	require.NoError(t, err)
	assert.Zero(t, result.Imported)

	_, err = handler.Handle(context.Background(), filepath.Join(t.TempDir(), "none.json"), ImportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening file")
}

func TestImportHandler_Handle_RejectedByCode(t *testing.T) {
	journal, store := setupJournal(t)
	handler := NewImportHandler(services.NewImportService(journal, nil))

	path := writeFile(t, "events.json", `[
		{"title": ""},
		{"title": "ok"},
		{"title": "  "},
		{"title": "x", "emotions": ["nostalgic"]}
	]`)

	result, err := handler.Handle(context.Background(), path, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 1, result.Imported)
	assert.Len(t, store.Events, 1)

	require.Len(t, result.Errors, 3)
	assert.Equal(t, entities.CodeEmptyTitle, result.Errors[0].Code)
	assert.Equal(t, entities.CodeUnknownEmotion, result.Errors[2].Code)
	assert.Equal(t, "nostalgic", result.Errors[2].Value)

	assert.Equal(t, map[entities.ValidationCode]int{
		entities.CodeEmptyTitle:     2,
		entities.CodeUnknownEmotion: 1,
	}, result.Rejected)
	assert.Equal(t, []entities.ValidationCode{entities.CodeEmptyTitle, entities.CodeUnknownEmotion}, result.RejectedCodes())
}

func TestImportHandler_Handle_UnknownFormat(t *testing.T) {
	journal, _ := setupJournal(t)
	handler := NewImportHandler(services.NewImportService(journal, nil))

	_, err := handler.Handle(context.Background(), writeFile(t, "events.json", "[]"), ImportOptions{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "xml"`)
}
