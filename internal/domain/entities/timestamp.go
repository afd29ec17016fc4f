package entities

import (
	"strings"
	"time"
)

// InstantResolver is a storage-specific timestamp that must be converted
// explicitly before use.
type InstantResolver interface {
	ToTime() time.Time
}

// Timestamp is the seconds/nanoseconds wrapper persisted by document stores.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanoseconds"`
}

// NewTimestamp wraps t. The zero time maps to the zero Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// ToTime resolves ts to a local time. The zero Timestamp resolves to the zero time.
func (ts Timestamp) ToTime() time.Time {
	if ts.Seconds == 0 && ts.Nanos == 0 {
		return time.Time{}
	}
	return time.Unix(ts.Seconds, int64(ts.Nanos))
}

// UnixMillis is the integer millisecond form persisted by row stores.
type UnixMillis int64

// NewUnixMillis converts t. The zero time maps to 0.
func NewUnixMillis(t time.Time) UnixMillis {
	if t.IsZero() {
		return 0
	}
	return UnixMillis(t.UnixMilli())
}

// ToTime resolves m to a local time. 0 resolves to the zero time.
func (m UnixMillis) ToTime() time.Time {
	if m == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(m))
}

// instantLayouts are tried in order for string input. Layouts without a zone
// are interpreted in local time.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04",
	"2006/01/02",
	DateLabelLayout,
}

// ToInstant is the single conversion path from any date-like value to a
// concrete instant. ok is false when v is absent or cannot be resolved.
func ToInstant(v any) (time.Time, bool) {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		t = *x
	case *Timestamp:
		if x == nil {
			return time.Time{}, false
		}
		t = x.ToTime()
	case InstantResolver:
		t = x.ToTime()
	case string:
		return ParseInstant(x)
	case int64:
		t = UnixMillis(x).ToTime()
	case float64:
		t = UnixMillis(int64(x)).ToTime()
	default:
		return time.Time{}, false
	}
	if t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// ParseInstant parses human-entered or serialized date strings.
func ParseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateLabelLayout renders dates for display.
const DateLabelLayout = "2006年01月02日"

// MissingDateLabel is shown for events without a usable date.
const MissingDateLabel = "未设置日期"

// FormatDateLabel renders v for display.
func FormatDateLabel(v any) string {
	t, ok := ToInstant(v)
	if !ok {
		return MissingDateLabel
	}
	return t.Format(DateLabelLayout)
}
