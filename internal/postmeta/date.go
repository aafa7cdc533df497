package postmeta

import (
	"fmt"
	"strings"
	"time"
)

// UnknownDateLabel is shown for posts without a date.
const UnknownDateLabel = "Unknown date"

const (
	isoLayout   = "2006-01-02T15:04:05.000Z07:00"
	labelLayout = "January 2, 2006"
)

// Accepted layouts for string dates, tried in order. Zone-less values are UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.ANSIC,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// DateInfo is the normalized form of a raw frontmatter date.
type DateInfo struct {
	ISO   string    // ISO-8601 UTC with milliseconds; empty when invalid
	Label string    // human readable label or fallback text
	Time  time.Time // zero when invalid
	Valid bool
}

// FormatDate normalizes a raw date value. Absent values produce
// UnknownDateLabel, unparseable ones are echoed back as the label.
func FormatDate(raw any) DateInfo {
	t, ok, absent := parseDate(raw)
	switch {
	case absent:
		return DateInfo{Label: UnknownDateLabel}
	case !ok:
		return DateInfo{Label: fmt.Sprint(raw)}
	}
	t = t.UTC()
	return DateInfo{
		ISO:   t.Format(isoLayout),
		Label: t.Format(labelLayout),
		Time:  t,
		Valid: true,
	}
}

// ParseDate reports the instant a raw date value denotes.
func ParseDate(raw any) (time.Time, bool) {
	t, ok, _ := parseDate(raw)
	return t, ok
}

func parseDate(raw any) (t time.Time, ok bool, absent bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false, true
	case time.Time:
		return v, !v.IsZero(), v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false, true
		}
		return *v, true, false
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false, true
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true, false
			}
		}
		return time.Time{}, false, false
	case int:
		return fromMillis(int64(v))
	case int64:
		return fromMillis(v)
	case uint64:
		return fromMillis(int64(v))
	case float64:
		return fromMillis(int64(v))
	default:
		return time.Time{}, false, false
	}
}

// Numeric dates are milliseconds since the Unix epoch; zero counts as absent.
func fromMillis(ms int64) (time.Time, bool, bool) {
	if ms == 0 {
		return time.Time{}, false, true
	}
	return time.UnixMilli(ms), true, false
}
