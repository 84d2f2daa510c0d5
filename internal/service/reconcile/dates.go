package reconcile

import (
	"strings"
	"time"
)

// Stored dates are strings; the canonical form is UTC with millisecond
// precision and a Z suffix.
const canonicalDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Naive timestamps carry no offset and are interpreted in the entity's
// local zone, five hours behind UTC.
var defaultZone = time.FixedZone("UTC-5", -5*60*60)

var offsetLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05-07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeDate rewrites a stored date string to the canonical UTC form.
// The second return reports whether the value changed. Values already in
// UTC are left alone, and values that do not parse are returned as-is so
// a malformed document never blocks the run.
//
// A local-zone timestamp sitting exactly at midnight marks a due date, not
// an instant; it is pushed to the last millisecond of that local day before
// converting, so the UTC value stays within the intended calendar day.
func NormalizeDate(value string) (string, bool) {
	if value == "" || strings.HasSuffix(value, "Z") {
		return value, false
	}

	for _, layout := range offsetLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		_, offset := t.Zone()
		if offset == -5*60*60 {
			t = endOfDayIfMidnight(t)
		}
		return formatCanonical(t), true
	}

	for _, layout := range naiveLayouts {
		t, err := time.ParseInLocation(layout, value, defaultZone)
		if err != nil {
			continue
		}
		return formatCanonical(endOfDayIfMidnight(t)), true
	}

	return value, false
}

func endOfDayIfMidnight(t time.Time) time.Time {
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999*int(time.Millisecond), t.Location())
}

func formatCanonical(t time.Time) string {
	return t.UTC().Format(canonicalDateLayout)
}
