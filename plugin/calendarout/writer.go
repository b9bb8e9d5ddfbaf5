// Package calendarout turns extracted schedule records into calendar
// events, either pushed to a remote calendar API or exported as an
// iCalendar feed.
package calendarout

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
)

// recordDateLayout is the day-month-year layout records carry.
const recordDateLayout = "02-01-06"

var clockPattern = regexp.MustCompile(`\d{2}:\d{2}`)

// Entry is one calendar event derived from an extracted record.
type Entry struct {
	Title string
	// Date is the event day in DD-MM-YY form.
	Date string
	// StartTime and EndTime are HH:MM clocks; both empty means all-day.
	StartTime string
	EndTime   string
}

// Writer inserts entries into a calendar.
type Writer interface {
	Write(ctx context.Context, entry *Entry) error
}

// NewEntry builds a calendar entry from an extracted record's fields. The
// time field may hold zero, one or two HH:MM clocks: two become the start
// and end, one is used for both, none makes the event all-day.
func NewEntry(title, date, timeField string) *Entry {
	entry := &Entry{Title: title, Date: date}

	clocks := clockPattern.FindAllString(timeField, -1)
	switch {
	case len(clocks) >= 2:
		entry.StartTime = clocks[0]
		entry.EndTime = clocks[1]
	case len(clocks) == 1:
		entry.StartTime = clocks[0]
		entry.EndTime = clocks[0]
	}
	return entry
}

// AllDay reports whether the entry has no clock times.
func (e *Entry) AllDay() bool {
	return e.StartTime == "" && e.EndTime == ""
}

// Day parses the entry's date.
func (e *Entry) Day() (time.Time, error) {
	day, err := time.Parse(recordDateLayout, e.Date)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid entry date %q", e.Date)
	}
	return day, nil
}

// ISODate converts the entry's date to YYYY-MM-DD form.
func (e *Entry) ISODate() (string, error) {
	day, err := e.Day()
	if err != nil {
		return "", err
	}
	return day.Format("2006-01-02"), nil
}

// StartEnd resolves the entry to concrete start and end instants in the
// given location. Timed events ending before their start roll the end to
// the next day.
func (e *Entry) StartEnd(loc *time.Location) (start, end time.Time, err error) {
	day, err := e.Day()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if e.AllDay() {
		start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1), nil
	}

	startClock, err := time.Parse("15:04", e.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(err, "invalid start time %q", e.StartTime)
	}
	endClock, err := time.Parse("15:04", e.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(err, "invalid end time %q", e.EndTime)
	}

	start = time.Date(day.Year(), day.Month(), day.Day(), startClock.Hour(), startClock.Minute(), 0, 0, loc)
	end = time.Date(day.Year(), day.Month(), day.Day(), endClock.Hour(), endClock.Minute(), 0, 0, loc)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}
