package calendarout

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// ICSExporter renders calendar entries as an iCalendar document, the
// offline counterpart of the API writer.
type ICSExporter struct {
	location *time.Location
	now      func() time.Time
}

// NewICSExporter creates an exporter rendering events in the given
// location. A nil location defaults to UTC.
func NewICSExporter(location *time.Location) *ICSExporter {
	if location == nil {
		location = time.UTC
	}
	return &ICSExporter{location: location, now: time.Now}
}

// Export serializes the entries into an iCalendar document. Entries with
// unparseable dates are skipped.
func (e *ICSExporter) Export(entries []*Entry) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//agendamail//schedule//EN")

	for _, entry := range entries {
		start, end, err := entry.StartEnd(e.location)
		if err != nil {
			continue
		}

		event := cal.AddEvent(uuid.NewString())
		event.SetCreatedTime(e.now())
		event.SetDtStampTime(e.now())
		event.SetSummary(entry.Title)
		if entry.AllDay() {
			event.SetAllDayStartAt(start)
			event.SetAllDayEndAt(end)
		} else {
			event.SetStartAt(start)
			event.SetEndAt(end)
		}
	}

	return cal.Serialize(), nil
}
