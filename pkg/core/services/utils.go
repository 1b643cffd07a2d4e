package services

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayout is how notification timestamps are written to the store.
const timestampLayout = "2006-01-02 15:04:05"

// formatTimestamp renders a time for a *_sent_at cell, truncated to the
// second so both channels of one dispatch stamp identical values.
func formatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// parseTimestamp reads a *_sent_at cell. Empty cells mean "never sent".
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// eventDateLayouts are the formats event_date cells show up in.
var eventDateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006"}

// parseEventDate reads an event date cell.
func parseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized event date %q", s)
}

// dayOf truncates a time to its calendar day, normalized to UTC so days
// parsed from cells and days taken from the host clock compare equal
// whatever zone the process runs in.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sameDay reports whether two times fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// formatEventDate renders an event date for a message body. Unparseable
// cells are passed through as stored rather than dropped.
func formatEventDate(s string) string {
	t, err := parseEventDate(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return t.Format("Monday, Jan 2, 2006")
}

// formatEventTime renders a start time cell for a message body.
func formatEventTime(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("3:04 PM")
		}
	}
	return s
}
