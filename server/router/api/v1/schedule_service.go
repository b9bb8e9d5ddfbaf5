package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	svcerrors "github.com/agendamail/agendamail/server/internal/errors"
	"github.com/agendamail/agendamail/server/internal/observability"
)

type extractEventsRequest struct {
	Text string `json:"text"`
}

type extractEventsResponse struct {
	Events []recordPayload `json:"events"`
}

type recordPayload struct {
	Event     string `json:"Event"`
	Date      string `json:"Date"`
	Time      string `json:"Time"`
	Cancelled bool   `json:"Cancelled"`
}

// ExtractEvents runs the schedule extraction pipeline over the stored mail
// bodies plus the caller-provided text.
func (s *APIV1Service) ExtractEvents(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.logger, "extract_events")
	s.metrics.RecordRequest(reqCtx.Route)
	defer func() { s.metrics.RecordDuration(reqCtx.Route, reqCtx.Duration()) }()

	request := &extractEventsRequest{}
	if err := c.Bind(request); err != nil {
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusBadRequest, newErrorResponse(
			string(svcerrors.ErrCodeInvalidArgument), "malformed request body"))
	}

	ctx := c.Request().Context()

	bodies, err := s.Store.ListMessageBodies(ctx)
	if err != nil {
		reqCtx.Error("failed to list message bodies", err)
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusInternalServerError, newErrorResponse(
			string(svcerrors.ErrCodeInternal), "failed to load stored messages"))
	}

	parts := make([]string, 0, len(bodies)+1)
	parts = append(parts, bodies...)
	if text := strings.TrimSpace(request.Text); text != "" {
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusBadRequest, newErrorResponse(
			string(svcerrors.ErrCodeInvalidArgument), "no text to extract from"))
	}

	// The pipeline degrades unresolved fields to sentinels instead of
	// failing, so extraction itself cannot error.
	paragraph := strings.Join(parts, " ")
	records := s.Scheduler.Process(ctx, paragraph)

	response := &extractEventsResponse{Events: make([]recordPayload, 0, len(records))}
	for _, record := range records {
		response.Events = append(response.Events, recordPayload{
			Event:     record.Event,
			Date:      record.Date,
			Time:      record.Time,
			Cancelled: record.Cancelled,
		})
	}

	reqCtx.Info("extraction completed",
		slog.Int(observability.LogFieldRecordCount, len(records)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(http.StatusOK, response)
}
