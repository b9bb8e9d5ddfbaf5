package calendarout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	tests := []struct {
		name      string
		timeField string
		start     string
		end       string
		allDay    bool
	}{
		{name: "two clocks", timeField: "12:00, 13:00", start: "12:00", end: "13:00"},
		{name: "single clock", timeField: "15:00", start: "15:00", end: "15:00"},
		{name: "no clocks", timeField: "No Time", allDay: true},
		{name: "unnormalized residue ignored", timeField: "sometime later", allDay: true},
		{name: "extra clocks beyond two ignored", timeField: "09:00, 10:00, 11:00", start: "09:00", end: "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewEntry("Meeting", "09-03-26", tt.timeField)
			assert.Equal(t, tt.start, entry.StartTime)
			assert.Equal(t, tt.end, entry.EndTime)
			assert.Equal(t, tt.allDay, entry.AllDay())
		})
	}
}

func TestEntryISODate(t *testing.T) {
	entry := NewEntry("Meeting", "09-03-26", "")
	iso, err := entry.ISODate()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", iso)

	bad := NewEntry("Meeting", "not a date", "")
	_, err = bad.ISODate()
	assert.Error(t, err)
}

func TestEntryStartEnd(t *testing.T) {
	t.Run("timed event", func(t *testing.T) {
		entry := NewEntry("Meeting", "09-03-26", "15:00, 16:30")
		start, end, err := entry.StartEnd(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.March, 9, 15, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, time.March, 9, 16, 30, 0, 0, time.UTC), end)
	})

	t.Run("all-day spans the whole day", func(t *testing.T) {
		entry := NewEntry("Meeting", "09-03-26", "")
		start, end, err := entry.StartEnd(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("crossing midnight rolls the end over", func(t *testing.T) {
		entry := NewEntry("Party", "09-03-26", "23:00, 01:00")
		start, end, err := entry.StartEnd(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, 9, start.Day())
		assert.Equal(t, 10, end.Day())
	})

	t.Run("bad date", func(t *testing.T) {
		entry := NewEntry("Meeting", "2026-03-09", "15:00")
		_, _, err := entry.StartEnd(time.UTC)
		assert.Error(t, err)
	})
}
