package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/mocks"
	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

var fixedNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.Local)

func fixture() []entities.LifeEvent {
	return []entities.LifeEvent{
		{
			ID: "a", Title: "大学毕业", Type: entities.EventTypeAchievement,
			Date:       time.Date(2019, 6, 20, 9, 0, 0, 0, time.Local),
			Importance: entities.ImportanceMajor,
			Emotions:   []entities.Emotion{entities.EmotionProud},
		},
		{
			ID: "b", Title: "去冰岛看极光", Type: entities.EventTypeWish,
			Date:          time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local),
			Importance:    entities.ImportanceNormal,
			RelatedEvents: []string{"a"},
		},
	}
}

func setupServer(t *testing.T, recall *services.RecallService) (*Server, *mocks.RecordStore) {
	t.Helper()
	store := &mocks.RecordStore{Events: fixture()}
	journal := services.NewJournalService(store, services.WithClock(func() time.Time { return fixedNow }))
	_, err := journal.Refresh(context.Background())
	require.NoError(t, err)

	var rh *handlers.RecallHandler
	if recall != nil {
		rh = handlers.NewRecallHandler(recall, journal)
	}
	return NewServer(Config{}, handlers.NewJournalHandler(journal), handlers.NewLinkHandler(journal), rh), store
}

func do(t *testing.T, s *Server, method, target, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func ids(t *testing.T, data any) []string {
	t.Helper()
	items, ok := data.([]any)
	require.True(t, ok)
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.(map[string]any)["id"].(string)
	}
	return out
}

func TestHealthz(t *testing.T) {
	s, _ := setupServer(t, nil)
	code, body := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestListEvents(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantCode int
		wantIDs  []string
	}{
		{name: "all", target: "/api/v1/events", wantCode: http.StatusOK, wantIDs: []string{"b", "a"}},
		{name: "by type", target: "/api/v1/events?type=wish", wantCode: http.StatusOK, wantIDs: []string{"b"}},
		{name: "by year", target: "/api/v1/events?year=2019", wantCode: http.StatusOK, wantIDs: []string{"a"}},
		{name: "by emotion", target: "/api/v1/events?emotion=proud", wantCode: http.StatusOK, wantIDs: []string{"a"}},
		{name: "limit", target: "/api/v1/events?limit=1", wantCode: http.StatusOK, wantIDs: []string{"b"}},
		{name: "bad type", target: "/api/v1/events?type=dream", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := setupServer(t, nil)
			code, body := do(t, s, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantCode, code)
			if tt.wantCode != http.StatusOK {
				assert.NotEmpty(t, body["error"])
				return
			}
			assert.Equal(t, tt.wantIDs, ids(t, body["data"]))
		})
	}
}

func TestCreateEvent(t *testing.T) {
	s, store := setupServer(t, nil)

	code, body := do(t, s, http.MethodPost, "/api/v1/events",
		`{"title":"搬进新家","type":"event","date":"2024-05-01","emotions":["开心"],"participants":["妈妈","我"]}`)
	require.Equal(t, http.StatusCreated, code, body)

	data := body["data"].(map[string]any)
	assert.Equal(t, "ev-1", data["id"])
	assert.Equal(t, []any{"happy"}, data["emotions"])
	require.Len(t, store.Events, 3)
	assert.Equal(t, []string{"妈妈", "我"}, store.Events[2].Participants)
}

func TestCreateEvent_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "empty title", body: `{"title":" "}`, wantCode: string(entities.CodeEmptyTitle)},
		{name: "unknown emotion", body: `{"title":"x","emotions":["nostalgic"]}`, wantCode: string(entities.CodeUnknownEmotion)},
		{name: "bad type", body: `{"title":"x","type":"dream"}`, wantCode: string(entities.CodeInvalidType)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := setupServer(t, nil)
			code, body := do(t, s, http.MethodPost, "/api/v1/events", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Len(t, store.Events, 2)
		})
	}
}

func TestGetEvent(t *testing.T) {
	s, _ := setupServer(t, nil)

	code, body := do(t, s, http.MethodGet, "/api/v1/events/a", "")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "大学毕业", data["title"])
	assert.Equal(t, "大事", data["importanceLabel"])
	assert.Equal(t, []string{"b"}, ids(t, data["backlinks"]))

	code, _ = do(t, s, http.MethodGet, "/api/v1/events/missing", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateEvent(t *testing.T) {
	s, store := setupServer(t, nil)

	code, body := do(t, s, http.MethodPatch, "/api/v1/events/b", `{"title":"去冰岛看极光（已订票）","importance":"major"}`)
	require.Equal(t, http.StatusOK, code, body)

	var saved entities.LifeEvent
	for _, ev := range store.Events {
		if ev.ID == "b" {
			saved = ev
		}
	}
	assert.Equal(t, "去冰岛看极光（已订票）", saved.Title)
	assert.Equal(t, entities.ImportanceMajor, saved.Importance)
	assert.Equal(t, entities.EventTypeWish, saved.Type)
	assert.Equal(t, []string{"a"}, saved.RelatedEvents)

	code, _ = do(t, s, http.MethodPatch, "/api/v1/events/missing", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteEvent(t *testing.T) {
	s, store := setupServer(t, nil)

	code, _ := do(t, s, http.MethodDelete, "/api/v1/events/a", "")
	assert.Equal(t, http.StatusNoContent, code)
	assert.Len(t, store.Events, 1)

	code, _ = do(t, s, http.MethodDelete, "/api/v1/events/a", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestToggleEmotion(t *testing.T) {
	s, _ := setupServer(t, nil)

	code, body := do(t, s, http.MethodPost, "/api/v1/events/a/emotions/proud", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["data"].(map[string]any)["emotions"])

	code, body = do(t, s, http.MethodPost, "/api/v1/events/a/emotions/nostalgic", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(entities.CodeUnknownEmotion), body["code"])
}

func TestLinks(t *testing.T) {
	s, _ := setupServer(t, nil)

	code, _ := do(t, s, http.MethodPut, "/api/v1/events/a/related/a", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, s, http.MethodPut, "/api/v1/events/a/related/missing", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, s, http.MethodPut, "/api/v1/events/a/related/b", "")
	require.Equal(t, http.StatusOK, code)

	code, body := do(t, s, http.MethodGet, "/api/v1/events/a/related", "")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, []string{"b"}, ids(t, data["related"]))
	assert.Equal(t, []string{"b"}, ids(t, data["backlinks"]))

	code, _ = do(t, s, http.MethodDelete, "/api/v1/events/a/related/b", "")
	require.Equal(t, http.StatusOK, code)
	_, body = do(t, s, http.MethodGet, "/api/v1/events/a/related", "")
	assert.Empty(t, body["data"].(map[string]any)["related"])
}

func TestStoredParamsSurviveLaterRequests(t *testing.T) {
	s, store := setupServer(t, nil)

	code, _ := do(t, s, http.MethodPut, "/api/v1/events/a/related/b", "")
	require.Equal(t, http.StatusOK, code)
	code, _ = do(t, s, http.MethodPost, "/api/v1/events/a/emotions/happy", "")
	require.Equal(t, http.StatusOK, code)

	for i := 0; i < 50; i++ {
		do(t, s, http.MethodGet, "/api/v1/events?tag=zzzzzzzzzzzzzzzzzzzz&limit=3", "")
		do(t, s, http.MethodGet, "/api/v1/events/b/related", "")
		do(t, s, http.MethodGet, "/healthz", "")
	}

	code, body := do(t, s, http.MethodGet, "/api/v1/events/a", "")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, []any{"b"}, data["relatedEvents"])
	assert.Equal(t, []any{string(entities.EmotionProud), string(entities.EmotionHappy)}, data["emotions"])

	assert.Equal(t, []string{"b"}, store.Events[0].RelatedEvents)
	assert.Equal(t, []entities.Emotion{entities.EmotionProud, entities.EmotionHappy}, store.Events[0].Emotions)
}

func TestStats(t *testing.T) {
	s, _ := setupServer(t, nil)

	code, body := do(t, s, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 2, data["total"])
	assert.EqualValues(t, 1, data["wishes"])
}

func TestEmotions(t *testing.T) {
	s, _ := setupServer(t, nil)

	code, body := do(t, s, http.MethodGet, "/api/v1/emotions", "")
	require.Equal(t, http.StatusOK, code)
	groups := body["data"].([]any)
	require.Len(t, groups, 3)
	assert.Equal(t, "positive", groups[0].(map[string]any)["polarity"])
	assert.EqualValues(t, len(entities.EmotionOptions), body["meta"].(map[string]any)["count"])
}

func TestSearch(t *testing.T) {
	s, _ := setupServer(t, nil)
	code, _ := do(t, s, http.MethodGet, "/api/v1/search?q=aurora", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	index := mocks.NewEventIndex()
	index.Hits = []ports.IndexHit{{ID: "b", Score: 0.8}}
	recall := services.NewRecallService(&mocks.Embedder{EmbeddingResult: []float32{1, 0}}, index, "u1", nil)
	s, _ = setupServer(t, recall)

	code, _ = do(t, s, http.MethodGet, "/api/v1/search", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := do(t, s, http.MethodGet, "/api/v1/search?q=aurora&limit=2", "")
	require.Equal(t, http.StatusOK, code)
	hits := body["data"].([]any)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].(map[string]any)["event"].(map[string]any)["id"])
	assert.Equal(t, 2, index.LastSearchLimit)
}
