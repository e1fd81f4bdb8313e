package utils

import (
	"strconv"
	"strings"
	"time"
)

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"20060102",
}

// ResolveDate parses the loosely formatted dates sent by the statement source.
// Only the first 10 characters are considered. YYYY-MM-DD and YYYY/MM/DD are
// accepted with a range check on month (1-12) and day (1-31) only, so a day
// that does not exist in its month is normalized by the calendar (Feb 30
// becomes a date in March). Anything unparseable yields fallback.
func ResolveDate(raw string, fallback time.Time) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback
	}
	if r := []rune(s); len(r) > 10 {
		s = string(r[:10])
	}

	if d, ok := parseSeparatedDate(s); ok {
		return d
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return fallback
}

func parseSeparatedDate(s string) (time.Time, bool) {
	if !strings.ContainsAny(s, "-/") {
		return time.Time{}, false
	}
	parts := strings.Split(strings.ReplaceAll(s, "/", "-"), "-")
	if len(parts) < 3 {
		return time.Time{}, false
	}

	var ymd [3]int
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return time.Time{}, false
		}
		ymd[i] = n
	}

	year, month, day := ymd[0], ymd[1], ymd[2]
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
