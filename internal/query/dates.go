package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order; the first successful parse wins, so
// ambiguous numeric forms resolve to the earlier layout.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"01-02-2006",
	"02-01-2006",
}

var relativeOffsetRe = regexp.MustCompile(`^(\d+)([dwmy])$`)

// parseDateValue resolves a date filter value: absolute layouts first,
// then named relatives, then a <integer><unit> offset back from now,
// truncated to the start of that day.
func parseDateValue(value string, now time.Time) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t, nil
		}
	}

	switch strings.ToLower(value) {
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now.AddDate(0, 0, -1)), nil
	case "tomorrow":
		return startOfDay(now.AddDate(0, 0, 1)), nil
	case "thisweek":
		return startOfWeek(now), nil
	case "lastweek":
		return startOfWeek(now.AddDate(0, 0, -7)), nil
	case "thismonth":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case "lastmonth":
		prev := now.AddDate(0, -1, 0)
		return time.Date(prev.Year(), prev.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}

	if m := relativeOffsetRe.FindStringSubmatch(strings.ToLower(value)); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date offset %q", value)
		}
		days := n
		switch m[2] {
		case "w":
			days = n * 7
		case "m":
			days = n * 30
		case "y":
			days = n * 365
		}
		return startOfDay(now.AddDate(0, 0, -days)), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date value %q", value)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek truncates to Monday 00:00.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
