package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/agendamail/agendamail/plugin/gauth"
	svcerrors "github.com/agendamail/agendamail/server/internal/errors"
	"github.com/agendamail/agendamail/server/internal/observability"
	"github.com/agendamail/agendamail/store"
)

type messagePayload struct {
	UID       string `json:"uid"`
	MessageID string `json:"messageId"`
	Subject   string `json:"subject"`
	Sender    string `json:"sender"`
	Body      string `json:"body"`
	CreatedTs int64  `json:"createdTs"`
}

type syncMailResponse struct {
	Synced   int              `json:"synced"`
	Messages []messagePayload `json:"messages"`
}

// SyncMail pulls labeled messages from the mail provider into the store
// and returns the stored messages.
func (s *APIV1Service) SyncMail(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.logger, "mail_sync")
	s.metrics.RecordRequest(reqCtx.Route)
	defer func() { s.metrics.RecordDuration(reqCtx.Route, reqCtx.Duration()) }()

	ctx := c.Request().Context()

	synced, err := s.Fetcher.Sync(ctx)
	if err != nil {
		s.metrics.RecordFailure(reqCtx.Route)
		if errors.Is(err, gauth.ErrNotSignedIn) {
			return c.JSON(http.StatusUnauthorized, newErrorResponse(
				string(svcerrors.ErrCodeUnauthorized), "not signed in"))
		}
		reqCtx.Error("mail sync failed", err)
		return c.JSON(http.StatusBadGateway, newErrorResponse(
			string(svcerrors.ErrCodeUpstreamFailed), "mail sync failed"))
	}

	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{})
	if err != nil {
		reqCtx.Error("failed to list messages", err)
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusInternalServerError, newErrorResponse(
			string(svcerrors.ErrCodeInternal), "failed to list messages"))
	}

	reqCtx.Info("mail sync completed", slog.Int("synced", synced))
	return c.JSON(http.StatusOK, &syncMailResponse{
		Synced:   synced,
		Messages: toMessagePayloads(messages),
	})
}

// ListMailMessages returns the stored messages without contacting the
// provider.
func (s *APIV1Service) ListMailMessages(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.logger, "mail_list")
	s.metrics.RecordRequest(reqCtx.Route)
	defer func() { s.metrics.RecordDuration(reqCtx.Route, reqCtx.Duration()) }()

	messages, err := s.Store.ListMessages(c.Request().Context(), &store.FindMessage{})
	if err != nil {
		reqCtx.Error("failed to list messages", err)
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusInternalServerError, newErrorResponse(
			string(svcerrors.ErrCodeInternal), "failed to list messages"))
	}
	return c.JSON(http.StatusOK, map[string]any{"messages": toMessagePayloads(messages)})
}

func toMessagePayloads(messages []*store.Message) []messagePayload {
	payloads := make([]messagePayload, 0, len(messages))
	for _, message := range messages {
		payloads = append(payloads, messagePayload{
			UID:       message.UID,
			MessageID: message.MessageID,
			Subject:   message.Subject,
			Sender:    message.Sender,
			Body:      message.Body,
			CreatedTs: message.CreatedTs,
		})
	}
	return payloads
}
