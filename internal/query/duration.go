package query

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	compoundDurationRe = regexp.MustCompile(`^(\d+)h(\d+)m$`)
	singleDurationRe   = regexp.MustCompile(`^(\d+(?:\.\d+)?)([hms])$`)
	bareNumberRe       = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// parseDurationValue resolves a duration filter value: compound "1h30m",
// single-unit "90m"/"1.5h"/"45s", or a bare number meaning minutes.
func parseDurationValue(value string) (time.Duration, error) {
	if m := compoundDurationRe.FindStringSubmatch(value); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
	}

	if m := singleDurationRe.FindStringSubmatch(value); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration value %q", value)
		}
		switch m[2] {
		case "h":
			return time.Duration(n * float64(time.Hour)), nil
		case "m":
			return time.Duration(n * float64(time.Minute)), nil
		default:
			return time.Duration(n * float64(time.Second)), nil
		}
	}

	if bareNumberRe.MatchString(value) {
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration value %q", value)
		}
		return time.Duration(n * float64(time.Minute)), nil
	}

	return 0, fmt.Errorf("unrecognized duration value %q", value)
}
