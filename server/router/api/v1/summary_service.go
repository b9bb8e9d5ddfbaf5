package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	svcerrors "github.com/agendamail/agendamail/server/internal/errors"
	"github.com/agendamail/agendamail/server/internal/observability"
)

type summarizeRequest struct {
	Text string `json:"text"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

// SummarizeText shortens the given text via the configured summarizer.
func (s *APIV1Service) SummarizeText(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.logger, "summarize")
	s.metrics.RecordRequest(reqCtx.Route)
	defer func() { s.metrics.RecordDuration(reqCtx.Route, reqCtx.Duration()) }()

	request := &summarizeRequest{}
	if err := c.Bind(request); err != nil {
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusBadRequest, newErrorResponse(
			string(svcerrors.ErrCodeInvalidArgument), "malformed request body"))
	}
	if strings.TrimSpace(request.Text) == "" {
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusBadRequest, newErrorResponse(
			string(svcerrors.ErrCodeInvalidArgument), "text is required"))
	}

	summary, err := s.Summarizer.Summarize(c.Request().Context(), request.Text)
	if err != nil {
		reqCtx.Error("summarization failed", err)
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusBadGateway, newErrorResponse(
			string(svcerrors.ErrCodeUpstreamFailed), "summarization failed"))
	}

	return c.JSON(http.StatusOK, &summarizeResponse{Summary: summary})
}
