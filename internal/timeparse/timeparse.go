// Package timeparse converts the date and time expressions exchanged with
// the model into concrete timestamps.
//
// Tool-facing inputs use unambiguous layouts ("July 4, 2025", "3:00 PM",
// RFC 3339). Relative expressions ("tomorrow at 5 PM") are resolved against
// an explicit anchor date, never against a guessed current time.
package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the human-readable date layout used by the tools
// (e.g. "July 4, 2025").
const DateLayout = "January 2, 2006"

// HumanLayout renders a timestamp for user-facing output.
const HumanLayout = "January 2, 2006, 3:04 PM"

var clockLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
	"15:04",
}

var dateLayouts = []string{
	DateLayout,
	"Jan 2, 2006",
	"2006-01-02",
}

// ParseDate parses a calendar date such as "July 4, 2025".
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (expected e.g. %q)", s, "July 4, 2025")
}

// ParseClock parses a wall-clock time such as "3:00 PM".
func ParseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (expected e.g. %q)", s, "3:00 PM")
}

// ParseDateTime combines a date string and a clock string into a single
// timestamp in the given location.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return At(d, c, loc), nil
}

// ParseTimestamp parses a tool-facing timestamp. RFC 3339 is preferred; a
// bare "2006-01-02T15:04:05" (no zone) is interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q (expected RFC 3339, e.g. %q)", s, "2025-07-01T10:00:00Z")
}

// At combines the date portion of d with the clock portion of c in loc.
func At(d, c time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc)
}

// Human renders a timestamp in the user-facing format.
func Human(t time.Time) string {
	return t.Format(HumanLayout)
}

// ResolveRelative resolves a relative date expression against an anchor date.
// Supported forms: "today", "tomorrow", "yesterday", "next week",
// "next <weekday>", "this <weekday>", "in N days", "in N weeks", each with
// an optional " at <clock>" suffix. The anchor must come from an explicit
// current-date lookup; this function never consults the system clock.
func ResolveRelative(expr string, anchor time.Time) (time.Time, error) {
	normalized := strings.ToLower(strings.TrimSpace(expr))
	if normalized == "" {
		return time.Time{}, fmt.Errorf("empty date expression")
	}

	datePart := normalized
	clock := time.Time{}
	hasClock := false
	if idx := strings.LastIndex(normalized, " at "); idx >= 0 {
		parsed, err := ParseClock(strings.ToUpper(normalized[idx+4:]))
		if err == nil {
			datePart = strings.TrimSpace(normalized[:idx])
			clock = parsed
			hasClock = true
		}
	}

	day, err := resolveDay(datePart, anchor)
	if err != nil {
		return time.Time{}, err
	}

	if hasClock {
		return At(day, clock, anchor.Location()), nil
	}
	return day, nil
}

func resolveDay(expr string, anchor time.Time) (time.Time, error) {
	base := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())

	switch expr {
	case "today":
		return base, nil
	case "tomorrow":
		return base.AddDate(0, 0, 1), nil
	case "yesterday":
		return base.AddDate(0, 0, -1), nil
	case "next week":
		return base.AddDate(0, 0, 7), nil
	case "next month":
		return base.AddDate(0, 1, 0), nil
	}

	if rest, ok := strings.CutPrefix(expr, "next "); ok {
		if wd, ok := weekdays[rest]; ok {
			return nextWeekday(base, wd), nil
		}
	}
	if rest, ok := strings.CutPrefix(expr, "this "); ok {
		if wd, ok := weekdays[rest]; ok {
			// "this Friday" means the upcoming Friday, or today when the
			// anchor already falls on it.
			if base.Weekday() == wd {
				return base, nil
			}
			return nextWeekday(base, wd), nil
		}
	}
	if rest, ok := strings.CutPrefix(expr, "in "); ok {
		fields := strings.Fields(rest)
		if len(fields) == 2 {
			n, err := strconv.Atoi(fields[0])
			if err == nil {
				switch strings.TrimSuffix(fields[1], "s") {
				case "day":
					return base.AddDate(0, 0, n), nil
				case "week":
					return base.AddDate(0, 0, 7*n), nil
				case "month":
					return base.AddDate(0, n, 0), nil
				}
			}
		}
	}

	// Fall back to an absolute date.
	if d, err := ParseDate(expr); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, anchor.Location()), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date expression %q (try e.g. %q or %q)", expr, "tomorrow at 2 PM", "July 4, 2025")
}

// nextWeekday returns the first occurrence of wd strictly after base.
func nextWeekday(base time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(base.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return base.AddDate(0, 0, days)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}
