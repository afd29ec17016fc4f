package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

var testNow = time.Date(2024, time.June, 30, 12, 0, 0, 0, time.Local)

func ptr[T any](v T) *T { return &v }

func TestNormalize_Title(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		want    string
		wantErr bool
	}{
		{name: "empty", title: "", wantErr: true},
		{name: "spaces only", title: "   ", wantErr: true},
		{name: "tabs and newlines", title: "\t\n", wantErr: true},
		{name: "plain", title: "毕业", want: "毕业"},
		{name: "trimmed", title: "  毕业典礼  ", want: "毕业典礼"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Normalize(entities.Draft{Title: tt.title}, nil, testNow)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, entities.ErrEmptyTitle))
				var verr *entities.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, entities.CodeEmptyTitle, verr.Code)
				assert.Nil(t, ev)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Title)
		})
	}
}

func TestNormalize_Defaults(t *testing.T) {
	ev, err := Normalize(entities.Draft{Title: "x"}, nil, testNow)
	require.NoError(t, err)

	assert.Empty(t, ev.ID)
	assert.Equal(t, entities.EventTypeEvent, ev.Type)
	assert.Equal(t, entities.ImportanceNormal, ev.Importance)
	assert.NotNil(t, ev.Emotions)
	assert.Empty(t, ev.Emotions)
	assert.Equal(t, testNow, ev.Date)
	assert.Equal(t, testNow, ev.CreatedAt)
	assert.Equal(t, testNow, ev.UpdatedAt)
	assert.Nil(t, ev.Location)
	assert.Nil(t, ev.Media)
}

func TestNormalize_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		draft entities.Draft
		code  entities.ValidationCode
		is    error
	}{
		{
			name:  "bad type",
			draft: entities.Draft{Title: "x", Type: "memory"},
			code:  entities.CodeInvalidType,
			is:    entities.ErrInvalidType,
		},
		{
			name:  "bad importance",
			draft: entities.Draft{Title: "x", Importance: "huge"},
			code:  entities.CodeInvalidImportance,
			is:    entities.ErrInvalidImportance,
		},
		{
			name:  "unknown emotion",
			draft: entities.Draft{Title: "x", Emotions: []string{"happy", "ecstatic"}},
			code:  entities.CodeUnknownEmotion,
			is:    entities.ErrUnknownEmotion,
		},
		{
			name:  "bad date",
			draft: entities.Draft{Title: "x", Date: "yesterday"},
			code:  entities.CodeInvalidDate,
			is:    entities.ErrInvalidDate,
		},
		{
			name:  "latitude out of range",
			draft: entities.Draft{Title: "x", Location: &entities.LocationInput{Name: "北极", Lat: ptr(91.0), Lng: ptr(0.0)}},
			code:  entities.CodeInvalidCoordinates,
			is:    entities.ErrInvalidCoordinates,
		},
		{
			name:  "only one coordinate",
			draft: entities.Draft{Title: "x", Location: &entities.LocationInput{Name: "家", Lat: ptr(10.0)}},
			code:  entities.CodeInvalidCoordinates,
			is:    entities.ErrInvalidCoordinates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.draft, nil, testNow)
			require.Error(t, err)
			var verr *entities.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.code, verr.Code)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestNormalize_Fields(t *testing.T) {
	draft := entities.Draft{
		Title:         "旅行",
		Description:   "  去了海边  ",
		Type:          "Achievement",
		Date:          "2023-08-01",
		Importance:    "MAJOR",
		Emotions:      []string{"happy", "开心", "", "excited"},
		Participants:  " 小王, ,小李，小张 ",
		Tags:          []string{" 旅行 ", "旅行", "", "海"},
		RelatedEvents: []string{"a", "a", " b "},
		Media:         &entities.Media{Images: []string{" ", "img.png"}},
	}

	ev, err := Normalize(draft, nil, testNow)
	require.NoError(t, err)

	assert.Equal(t, "去了海边", ev.Description)
	assert.Equal(t, entities.EventTypeAchievement, ev.Type)
	assert.Equal(t, entities.ImportanceMajor, ev.Importance)
	assert.True(t, time.Date(2023, time.August, 1, 0, 0, 0, 0, time.Local).Equal(ev.Date))
	assert.Equal(t, []entities.Emotion{entities.EmotionHappy, entities.EmotionExcited}, ev.Emotions)
	assert.Equal(t, []string{"小王", "小李", "小张"}, ev.Participants)
	assert.Equal(t, []string{"旅行", "海"}, ev.Tags)
	assert.Equal(t, []string{"a", "b"}, ev.RelatedEvents)
	require.NotNil(t, ev.Media)
	assert.Equal(t, []string{"img.png"}, ev.Media.Images)
}

func TestNormalize_Location(t *testing.T) {
	tests := []struct {
		name  string
		input *entities.LocationInput
		want  *entities.Location
	}{
		{name: "nil", input: nil, want: nil},
		{name: "blank name", input: &entities.LocationInput{Name: "  "}, want: nil},
		{name: "blank name with coordinates", input: &entities.LocationInput{Name: "", Lat: ptr(1.0), Lng: ptr(2.0)}, want: nil},
		{name: "name only", input: &entities.LocationInput{Name: " 北京 "}, want: &entities.Location{Name: "北京"}},
		{
			name:  "name and coordinates",
			input: &entities.LocationInput{Name: "北京", Lat: ptr(39.9), Lng: ptr(116.4)},
			want:  &entities.Location{Name: "北京", Coordinates: &entities.Coordinates{Lat: 39.9, Lng: 116.4}},
		},
		{
			name:  "boundary coordinates",
			input: &entities.LocationInput{Name: "角落", Lat: ptr(-90.0), Lng: ptr(180.0)},
			want:  &entities.Location{Name: "角落", Coordinates: &entities.Coordinates{Lat: -90, Lng: 180}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Normalize(entities.Draft{Title: "x", Location: tt.input}, nil, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Location)
		})
	}
}

func TestNormalize_LocationRoundTrip(t *testing.T) {
	ev, err := Normalize(entities.Draft{
		Title:    "x",
		Location: &entities.LocationInput{Name: "上海", Lat: ptr(31.2), Lng: ptr(121.5)},
	}, nil, testNow)
	require.NoError(t, err)

	again, err := Normalize(entities.DraftFromEvent(ev), ev, testNow)
	require.NoError(t, err)
	assert.Equal(t, ev.Location, again.Location)
}

func TestNormalize_Existing(t *testing.T) {
	created := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.Local)
	existing := &entities.LifeEvent{ID: "ev-1", Title: "old", CreatedAt: created}

	ev, err := Normalize(entities.Draft{Title: "new", RelatedEvents: []string{"ev-1", "ev-2"}}, existing, testNow)
	require.NoError(t, err)

	assert.Equal(t, "ev-1", ev.ID)
	assert.Equal(t, created, ev.CreatedAt)
	assert.Equal(t, testNow, ev.UpdatedAt)
	assert.Equal(t, []string{"ev-2"}, ev.RelatedEvents)
}

func TestNormalize_ExistingDate(t *testing.T) {
	dated := time.Date(2019, time.May, 20, 8, 0, 0, 0, time.Local)
	tests := []struct {
		name     string
		existing *entities.LifeEvent
		date     any
		want     time.Time
	}{
		{name: "new record defaults to now", existing: nil, date: nil, want: testNow},
		{name: "undated record stays undated", existing: &entities.LifeEvent{ID: "a"}, date: nil, want: time.Time{}},
		{name: "blank keeps stored date", existing: &entities.LifeEvent{ID: "a", Date: dated}, date: " ", want: dated},
		{name: "explicit date wins", existing: &entities.LifeEvent{ID: "a", Date: dated}, date: testNow, want: testNow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Normalize(entities.Draft{Title: "x", Date: tt.date}, tt.existing, testNow)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ev.Date), "got %v", ev.Date)
		})
	}
}

func TestNormalize_DateWrappers(t *testing.T) {
	at := time.Date(2022, time.March, 4, 5, 6, 7, 0, time.Local)
	tests := []struct {
		name string
		date any
	}{
		{name: "native", date: at},
		{name: "document timestamp", date: entities.NewTimestamp(at)},
		{name: "unix millis", date: entities.NewUnixMillis(at)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Normalize(entities.Draft{Title: "x", Date: tt.date}, nil, testNow)
			require.NoError(t, err)
			assert.True(t, at.Equal(ev.Date))
		})
	}
}

func TestToggleEmotion(t *testing.T) {
	start := []entities.Emotion{entities.EmotionHappy}

	once := ToggleEmotion(start, entities.EmotionSad)
	assert.Equal(t, []entities.Emotion{entities.EmotionHappy, entities.EmotionSad}, once)
	assert.Equal(t, []entities.Emotion{entities.EmotionHappy}, start)

	twice := ToggleEmotion(once, entities.EmotionSad)
	assert.Equal(t, start, twice)

	set := []entities.Emotion{}
	for _, e := range []entities.Emotion{entities.EmotionCalm, entities.EmotionCalm, entities.EmotionCalm, entities.EmotionTired} {
		set = ToggleEmotion(set, e)
	}
	assert.Equal(t, []entities.Emotion{entities.EmotionCalm, entities.EmotionTired}, set)
}

func TestToggleRelated(t *testing.T) {
	ids := ToggleRelated(nil, "a")
	ids = ToggleRelated(ids, "b")
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.Equal(t, []string{"b"}, ToggleRelated(ids, "a"))
}

func TestSplitParticipants(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitParticipants("a, b，c,,"))
	assert.Empty(t, SplitParticipants("  "))
}
