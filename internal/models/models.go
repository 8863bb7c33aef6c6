package models

import (
	"strings"
	"time"
)

var weekdays = map[string]string{}

func init() {
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekdays[strings.ToLower(d.String())] = d.String()
	}
}

// NormalizeWeekday maps a case-insensitive weekday name to its canonical form.
func NormalizeWeekday(raw string) (string, bool) {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(raw))]
	return day, ok
}

// NormalizeWeekdays canonicalises names, drops duplicates and orders them Monday first.
// On failure it returns the first entry that is not a weekday and false.
func NormalizeWeekdays(raw []string) ([]string, string, bool) {
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		day, ok := NormalizeWeekday(r)
		if !ok {
			return nil, r, false
		}
		seen[day] = true
	}

	out := make([]string, 0, len(seen))
	for i := 1; i <= 7; i++ {
		day := time.Weekday(i % 7).String()
		if seen[day] {
			out = append(out, day)
		}
	}
	return out, "", true
}
