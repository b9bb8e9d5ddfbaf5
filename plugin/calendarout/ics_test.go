package calendarout

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestICSExporterExport(t *testing.T) {
	exporter := NewICSExporter(time.UTC)
	exporter.now = func() time.Time {
		return time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)
	}

	entries := []*Entry{
		NewEntry("Meeting", "09-03-26", "15:00, 16:00"),
		NewEntry("Conference", "10-03-26", ""),
	}

	document, err := exporter.Export(entries)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(document, "BEGIN:VCALENDAR"))
	assert.Contains(t, document, "SUMMARY:Meeting")
	assert.Contains(t, document, "SUMMARY:Conference")
	assert.Contains(t, document, "DTSTART:20260309T150000Z")
	assert.Contains(t, document, "DTEND:20260309T160000Z")
	// The all-day entry uses date-only bounds.
	assert.Contains(t, document, "DTSTART;VALUE=DATE:20260310")
	assert.Equal(t, 2, strings.Count(document, "BEGIN:VEVENT"))
}

func TestICSExporterSkipsBadEntries(t *testing.T) {
	exporter := NewICSExporter(nil)

	document, err := exporter.Export([]*Entry{
		NewEntry("Broken", "not a date", ""),
		NewEntry("Valid", "09-03-26", "10:00"),
	})
	require.NoError(t, err)

	assert.NotContains(t, document, "Broken")
	assert.Equal(t, 1, strings.Count(document, "BEGIN:VEVENT"))
}

func TestICSExporterEmpty(t *testing.T) {
	exporter := NewICSExporter(time.UTC)
	document, err := exporter.Export(nil)
	require.NoError(t, err)
	assert.Contains(t, document, "BEGIN:VCALENDAR")
	assert.NotContains(t, document, "BEGIN:VEVENT")
}
