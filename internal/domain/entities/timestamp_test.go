package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInstant_WrapperAndNativeAgree(t *testing.T) {
	native := time.Date(2023, 3, 15, 19, 0, 0, 123000000, time.Local)

	tests := []struct {
		name  string
		value any
	}{
		{name: "time value", value: native},
		{name: "time pointer", value: &native},
		{name: "document timestamp", value: NewTimestamp(native)},
		{name: "document timestamp pointer", value: func() *Timestamp { ts := NewTimestamp(native); return &ts }()},
		{name: "row millis", value: NewUnixMillis(native)},
		{name: "raw millis", value: native.UnixMilli()},
		{name: "rfc3339 string", value: native.Format(time.RFC3339Nano)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInstant(tt.value)
			require.True(t, ok)
			assert.True(t, native.Equal(got), "got %v want %v", got, native)
		})
	}
}

func TestToInstant_Unresolvable(t *testing.T) {
	var nilTime *time.Time
	var nilTimestamp *Timestamp

	tests := []struct {
		name  string
		value any
	}{
		{name: "nil", value: nil},
		{name: "zero time", value: time.Time{}},
		{name: "nil time pointer", value: nilTime},
		{name: "nil timestamp pointer", value: nilTimestamp},
		{name: "zero timestamp", value: Timestamp{}},
		{name: "zero millis", value: UnixMillis(0)},
		{name: "blank string", value: "   "},
		{name: "garbage string", value: "yesterday-ish"},
		{name: "unsupported type", value: struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ToInstant(tt.value)
			assert.False(t, ok)
		})
	}
}

func TestParseInstant_Layouts(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)},
		{"2024/06/01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)},
		{"2024-06-01 08:30", time.Date(2024, 6, 1, 8, 30, 0, 0, time.Local)},
		{"2024-06-01T08:30", time.Date(2024, 6, 1, 8, 30, 0, 0, time.Local)},
		{"2024年06月01日", time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)},
		{"  2024-06-01  ", time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseInstant(tt.input)
			require.True(t, ok)
			assert.True(t, tt.expected.Equal(got))
		})
	}
}

func TestFormatDateLabel(t *testing.T) {
	assert.Equal(t, "2015年11月15日", FormatDateLabel(time.Date(2015, 11, 15, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, MissingDateLabel, FormatDateLabel(nil))
	assert.Equal(t, MissingDateLabel, FormatDateLabel(time.Time{}))
}
