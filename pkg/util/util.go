// Package util holds the date conversions shared by the sync engine and
// the terminal UI. Local due dates are year-free "M/D" strings; Google
// Tasks wants an RFC3339 timestamp. Conversions are best-effort on
// purpose: a date that cannot be parsed degrades (field omitted on push,
// "today" for display) instead of failing the record.
package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// NormalizeDate canonicalizes user-entered dates: "12.25" and "12 25"
// both become "12/25".
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "/")
	s = strings.ReplaceAll(s, " ", "/")
	return s
}

// ParseMMDD splits an "M/D" string into month and day. The second return
// is false when the string is not a real calendar date for the given year.
func ParseMMDD(mmdd string, year int) (time.Month, int, bool) {
	parts := strings.Split(mmdd, "/")
	if len(parts) != 2 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	if m < 1 || m > 12 || d < 1 {
		return 0, 0, false
	}
	// time.Date normalizes overflow (2/30 -> 3/2), so round-trip to verify.
	t := time.Date(year, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(m) || t.Day() != d {
		return 0, 0, false
	}
	return time.Month(m), d, true
}

// MMDDToRFC3339 converts "M/D" to RFC3339 midnight UTC in the given year,
// the form Google Tasks expects for 'due'. Returns false when the date
// does not parse; callers omit the field in that case.
func MMDDToRFC3339(mmdd string, year int) (string, bool) {
	m, d, ok := ParseMMDD(mmdd, year)
	if !ok {
		return "", false
	}
	return time.Date(year, m, d, 0, 0, 0, 0, time.UTC).Format(time.RFC3339), true
}

// RFC3339ToMMDD converts a Google Tasks 'due' timestamp to "M/D",
// dropping the year. Returns "" when the timestamp does not parse.
func RFC3339ToMMDD(rfc string) string {
	t, err := time.Parse(time.RFC3339, rfc)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}

// DueOrToday resolves an "M/D" string against now's year for display.
// Malformed dates fall back to today so list rendering never fails.
func DueOrToday(mmdd string, now time.Time) time.Time {
	m, d, ok := ParseMMDD(mmdd, now.Year())
	if !ok {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	return time.Date(now.Year(), m, d, 0, 0, 0, 0, now.Location())
}

// ParseDueInput turns free-form user input into an "M/D" date. It first
// tries the normalized M/D form, then falls back to natural language
// ("tomorrow", "next friday") via the when parser. Returns false when
// nothing parses; an empty input is a valid "no due date".
func ParseDueInput(input string, now time.Time) (string, bool) {
	s := NormalizeDate(input)
	if s == "" {
		return "", true
	}
	if m, d, ok := ParseMMDD(s, now.Year()); ok {
		return fmt.Sprintf("%d/%d", int(m), d), true
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(input, now)
	if err != nil || r == nil {
		return "", false
	}
	return fmt.Sprintf("%d/%d", int(r.Time.Month()), r.Time.Day()), true
}
