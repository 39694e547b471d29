// Package datefmt converts ISO-8601 date and time strings into the display
// forms used on the itinerary pages, and display dates back into time values.
//
// The forward formatters are best-effort: input they cannot parse is
// returned unchanged so that a broken value still shows up on the page.
package datefmt

import (
	"fmt"
	"strings"
	"time"
)

// Display layouts.
const (
	DateTimeLayout = "02.01.2006, 15:04"
	TimeLayout     = "15:04"
	DateLayout     = "02.01.2006"

	// DefaultDisplayPattern is the pattern ParseDisplayDate callers use
	// for German dates.
	DefaultDisplayPattern = DateLayout
)

// isoLayouts are tried in order. Fractional seconds are accepted after
// the seconds field by time.Parse without being named in the layout.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15",
	"2006-01-02",
}

// ParseISO parses an ISO-8601 date or date-time. A date without a time is
// midnight. Offsets are kept, not converted to local time.
func ParseISO(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("datefmt: %q is not an ISO-8601 date", s)
}

// FormatDateTime renders "DD.MM.YYYY, HH:MM".
func FormatDateTime(iso string) string {
	return format(iso, DateTimeLayout)
}

// FormatTime renders "HH:MM".
func FormatTime(iso string) string {
	return format(iso, TimeLayout)
}

// FormatDate renders "DD.MM.YYYY".
func FormatDate(iso string) string {
	return format(iso, DateLayout)
}

func format(iso, layout string) string {
	t, err := ParseISO(iso)
	if err != nil {
		return iso
	}
	return t.Format(layout)
}

// ParseDisplayDate parses a display string with a Go layout pattern. Unlike
// the formatters it fails when the input does not match.
func ParseDisplayDate(display, pattern string) (time.Time, error) {
	if pattern == "" {
		pattern = DefaultDisplayPattern
	}
	t, err := time.Parse(pattern, strings.TrimSpace(display))
	if err != nil {
		return time.Time{}, fmt.Errorf("datefmt: %q does not match %q: %w", display, pattern, err)
	}
	return t, nil
}

// DisplayToISO converts a display date into "YYYY-MM-DD".
func DisplayToISO(display, pattern string) (string, error) {
	t, err := ParseDisplayDate(display, pattern)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

// FormatRange renders "start – end" from two ISO dates.
func FormatRange(startISO, endISO string) string {
	return FormatDate(startISO) + " – " + FormatDate(endISO)
}
