// Package rank scores records against a query. Scoring is a pure
// function of the record, the query text, and the clock; results are
// ordered by descending score.
package rank

import (
	"strings"
	"time"

	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/domain/project"
	"github.com/0xkamalei/timetrace/internal/domain/timeentry"
)

// Field-match weights. Exact full-field matches outweigh substring
// containment; narrower fields carry higher weights.
const (
	appNameExact      = 100
	appNameContains   = 50
	titleExact        = 80
	titleContains     = 30
	urlContains       = 20
	docPathContains   = 25
	entryTitleExact   = 100
	entryTitleContain = 60
	entryNotesContain = 30
	projectNameExact  = 100
	projectNameMatch  = 70
	rootProjectBonus  = 5

	recencyMaxDays   = 10
	durationMaxHours = 5
)

// Activity scores an activity record. text must be the lower-cased
// free-text portion of the query.
func Activity(rec *activity.Record, text string, now time.Time) float64 {
	score := fieldScore(rec.AppName, text, appNameExact, appNameContains)
	score += fieldScore(rec.WindowTitle, text, titleExact, titleContains)
	score += containsScore(rec.URL, text, urlContains)
	score += containsScore(rec.DocumentPath, text, docPathContains)
	score += recencyBonus(rec.StartTime, now)
	score += durationBonus(rec.Duration(now))
	return score
}

// TimeEntry scores a time entry record.
func TimeEntry(rec *timeentry.Record, text string, now time.Time) float64 {
	score := fieldScore(rec.Title, text, entryTitleExact, entryTitleContain)
	score += containsScore(rec.Notes, text, entryNotesContain)
	score += recencyBonus(rec.StartTime, now)
	score += durationBonus(rec.Duration())
	return score
}

// Project scores a project record. Root-level projects get a small
// bonus, favoring top-level categories in ambiguous matches.
func Project(rec *project.Record, text string, now time.Time) float64 {
	score := fieldScore(rec.Name, text, projectNameExact, projectNameMatch)
	score += recencyBonus(rec.CreatedAt, now)
	if rec.IsRoot() {
		score += rootProjectBonus
	}
	return score
}

func fieldScore(field, text string, exact, contains float64) float64 {
	if field == "" || text == "" {
		return 0
	}
	lower := strings.ToLower(field)
	if lower == text {
		return exact
	}
	if strings.Contains(lower, text) {
		return contains
	}
	return 0
}

func containsScore(field, text string, weight float64) float64 {
	if field == "" || text == "" {
		return 0
	}
	if strings.Contains(strings.ToLower(field), text) {
		return weight
	}
	return 0
}

// recencyBonus decays linearly from 10 to 0 over ten days.
func recencyBonus(start, now time.Time) float64 {
	days := now.Sub(start).Hours() / 24
	if days < 0 {
		days = 0
	}
	bonus := recencyMaxDays - days
	if bonus < 0 {
		return 0
	}
	return bonus
}

// durationBonus awards up to 5 points, one per hour.
func durationBonus(d time.Duration) float64 {
	hours := d.Hours()
	if hours < 0 {
		return 0
	}
	if hours > durationMaxHours {
		return durationMaxHours
	}
	return hours
}
