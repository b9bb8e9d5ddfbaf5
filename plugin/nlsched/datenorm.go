package nlsched

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CanonicalDateLayout is the DD-MM-YY format used for all emitted dates.
const CanonicalDateLayout = "02-01-06"

var ordinalSuffixPattern = regexp.MustCompile(`(\d{1,2})(st|nd|rd|th)\b`)

// weekdays is ordered so substring scans resolve deterministically.
var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// absoluteLayouts are tried in order for fully numeric date phrases. The
// canonical layout comes first so already-canonical values round-trip.
var absoluteLayouts = []string{
	CanonicalDateLayout,
	"02-01-2006",
	"2006-01-02",
	"02/01/2006",
	"02/01/06",
}

// FormatDate renders a resolved date in the canonical DD-MM-YY form.
func FormatDate(t time.Time) string {
	return t.Format(CanonicalDateLayout)
}

// NormalizeDate resolves a raw date phrase against the reference day.
// Resolution order: "next week", "next month", weekday names, then the
// general relative/absolute parser. The boolean reports whether any rule
// resolved; callers fall back to the carried date, then to today.
func NormalizeDate(raw string, today time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))

	if strings.Contains(s, "next week") {
		return NextMonday(today), true
	}
	if strings.Contains(s, "next month") {
		return FirstOfNextMonth(today), true
	}
	for _, wd := range weekdays {
		if strings.Contains(s, wd.name) {
			return NextWeekday(today, wd.day), true
		}
	}
	return parseGeneral(s, today)
}

// NextMonday returns the Monday strictly after the reference day; when the
// reference day is itself a Monday it still advances a full week.
func NextMonday(today time.Time) time.Time {
	return NextWeekday(today, time.Monday)
}

// FirstOfNextMonth returns the first day of the month following the
// reference day, rolling the year over after December.
func FirstOfNextMonth(today time.Time) time.Time {
	return time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, today.Location())
}

// NextWeekday returns the next occurrence of the named weekday strictly
// after the reference day (offset is never zero).
func NextWeekday(today time.Time, day time.Weekday) time.Time {
	daysAhead := (int(day) - int(today.Weekday()) + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	return today.AddDate(0, 0, daysAhead)
}

// parseGeneral handles relative keywords and absolute forms like
// "tomorrow", "March 5th", "5 March 2026", "the 5th", and numeric dates.
func parseGeneral(s string, today time.Time) (time.Time, bool) {
	switch {
	case strings.Contains(s, "day after tomorrow"):
		return today.AddDate(0, 0, 2), true
	case strings.Contains(s, "tomorrow"):
		return today.AddDate(0, 0, 1), true
	case strings.Contains(s, "yesterday"):
		return today.AddDate(0, 0, -1), true
	case strings.Contains(s, "today"):
		return today, true
	}

	s = ordinalSuffixPattern.ReplaceAllString(s, "$1")
	s = strings.TrimPrefix(s, "the ")
	s = strings.ReplaceAll(s, " of ", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, today.Location()); err == nil {
			return t, true
		}
	}

	return parseMonthDay(strings.Fields(s), today)
}

// parseMonthDay resolves "<month> <day> [year]", "<day> <month> [year]",
// and a bare day number anchored to the reference month and year.
func parseMonthDay(fields []string, today time.Time) (time.Time, bool) {
	year := today.Year()
	var month time.Month
	var day int

	switch len(fields) {
	case 1:
		d, err := strconv.Atoi(fields[0])
		if err != nil {
			return time.Time{}, false
		}
		month, day = today.Month(), d
	case 2, 3:
		if m, ok := months[fields[0]]; ok {
			d, err := strconv.Atoi(fields[1])
			if err != nil {
				return time.Time{}, false
			}
			month, day = m, d
		} else if m, ok := months[fields[1]]; ok {
			d, err := strconv.Atoi(fields[0])
			if err != nil {
				return time.Time{}, false
			}
			month, day = m, d
		} else {
			return time.Time{}, false
		}
		if len(fields) == 3 {
			y, err := strconv.Atoi(fields[2])
			if err != nil || y < 1000 {
				return time.Time{}, false
			}
			year = y
		}
	default:
		return time.Time{}, false
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	if t.Month() != month || t.Day() != day {
		// Rejects normalized overflow like "February 30".
		return time.Time{}, false
	}
	return t, true
}
