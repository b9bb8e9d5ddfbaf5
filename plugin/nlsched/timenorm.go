// Package nlsched implements the natural-language schedule extraction
// pipeline: normalization of date and time phrases, event label extraction,
// clause segmentation, and paragraph orchestration with cross-clause date
// carry-forward.
package nlsched

import (
	"fmt"
	"regexp"
	"strings"
)

// Time phrase grammars. The explicit numeric grammar is tried before the
// idiomatic one; numeric ranges ("12 to 1") are their own grammar,
// distinguished from "quarter to" by the second hour token.
var (
	numericTimePattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)
	rangeTimePattern   = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s+to\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)
	idiomaticPattern   = regexp.MustCompile(`(half past|quarter past|quarter to)\s+(\d{1,2})\s*(am|pm)?`)
	oclockPattern      = regexp.MustCompile(`(\d{1,2})\s*o'clock\s*(am|pm)?`)
)

// NormalizeTime converts a raw time phrase to zero-padded 24-hour "HH:MM".
// Unrecognized phrases are returned unchanged; callers treat an unchanged
// value as "not confidently normalized" but still display it.
func NormalizeTime(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch s {
	case "noon", "12 noon":
		return "12:00"
	case "midnight":
		return "00:00"
	}

	if m := numericTimePattern.FindStringSubmatch(s); m != nil {
		hour, minute := atoi(m[1]), atoi(m[2])
		return formatClock(adjustMeridiem(hour, m[3]), minute)
	}

	if m := rangeTimePattern.FindStringSubmatch(s); m != nil {
		start := formatClock(adjustMeridiem(atoi(m[1]), m[5]), atoi(m[2]))
		end := formatClock(adjustMeridiem(atoi(m[3]), m[5]), atoi(m[4]))
		return start + ", " + end
	}

	if m := idiomaticPattern.FindStringSubmatch(s); m != nil {
		hour := atoi(m[2])
		minute := 0
		switch m[1] {
		case "half past":
			minute = 30
		case "quarter past":
			minute = 15
		case "quarter to":
			hour--
			if hour < 1 {
				hour = 12
			}
			minute = 45
		}
		return formatClock(adjustMeridiem(hour, m[3]), minute)
	}

	if m := oclockPattern.FindStringSubmatch(s); m != nil {
		return formatClock(adjustMeridiem(atoi(m[1]), m[2]), 0)
	}

	return raw
}

// adjustMeridiem applies the am/pm period to an hour on the 12-hour dial.
func adjustMeridiem(hour int, period string) int {
	switch {
	case period == "pm" && hour != 12:
		hour += 12
	case period == "am" && hour == 12:
		hour = 0
	}
	return hour
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
