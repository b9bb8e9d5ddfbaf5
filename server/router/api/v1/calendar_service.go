package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/agendamail/agendamail/plugin/calendarout"
	"github.com/agendamail/agendamail/plugin/gauth"
	svcerrors "github.com/agendamail/agendamail/server/internal/errors"
	"github.com/agendamail/agendamail/server/internal/observability"
)

type calendarEventPayload struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

type createCalendarEventsRequest struct {
	Events []calendarEventPayload `json:"events"`
}

type createCalendarEventsResponse struct {
	Created int `json:"created"`
}

// CreateCalendarEvent writes the posted events to the configured calendar.
// Dates arrive in DD-MM-YY form; the time field may carry up to two HH:MM
// clocks.
func (s *APIV1Service) CreateCalendarEvent(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.logger, "calendar_create")
	s.metrics.RecordRequest(reqCtx.Route)
	defer func() { s.metrics.RecordDuration(reqCtx.Route, reqCtx.Duration()) }()

	request := &createCalendarEventsRequest{}
	if err := c.Bind(request); err != nil {
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusBadRequest, newErrorResponse(
			string(svcerrors.ErrCodeInvalidArgument), "malformed request body"))
	}
	if len(request.Events) == 0 {
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusBadRequest, newErrorResponse(
			string(svcerrors.ErrCodeInvalidArgument), "events are required"))
	}

	entries := make([]*calendarout.Entry, 0, len(request.Events))
	for _, event := range request.Events {
		entry := calendarout.NewEntry(event.Title, event.Date, event.Time)
		if _, _, err := entry.StartEnd(s.calendarLocation()); err != nil {
			s.metrics.RecordFailure(reqCtx.Route)
			return c.JSON(http.StatusBadRequest, newErrorResponse(
				string(svcerrors.ErrCodeInvalidArgument), err.Error()))
		}
		entries = append(entries, entry)
	}

	ctx := c.Request().Context()
	for _, entry := range entries {
		if err := s.Calendar.Write(ctx, entry); err != nil {
			s.metrics.RecordFailure(reqCtx.Route)
			if errors.Is(err, gauth.ErrNotSignedIn) {
				return c.JSON(http.StatusUnauthorized, newErrorResponse(
					string(svcerrors.ErrCodeUnauthorized), "not signed in"))
			}
			reqCtx.Error("calendar write failed", err)
			return c.JSON(http.StatusBadGateway, newErrorResponse(
				string(svcerrors.ErrCodeUpstreamFailed), "calendar write failed"))
		}
	}
	s.rememberEntries(entries)

	return c.JSON(http.StatusOK, &createCalendarEventsResponse{Created: len(entries)})
}

// ExportCalendar serves the entries written so far as an iCalendar
// document.
func (s *APIV1Service) ExportCalendar(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.logger, "calendar_export")
	s.metrics.RecordRequest(reqCtx.Route)
	defer func() { s.metrics.RecordDuration(reqCtx.Route, reqCtx.Duration()) }()

	document, err := s.ICSExporter.Export(s.recentEntries())
	if err != nil {
		reqCtx.Error("calendar export failed", err)
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusInternalServerError, newErrorResponse(
			string(svcerrors.ErrCodeInternal), "calendar export failed"))
	}
	return c.Blob(http.StatusOK, "text/calendar", []byte(document))
}
