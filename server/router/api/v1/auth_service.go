package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	svcerrors "github.com/agendamail/agendamail/server/internal/errors"
	"github.com/agendamail/agendamail/server/internal/observability"
)

// SignOut removes the stored provider token. Signing out while already
// signed out succeeds.
func (s *APIV1Service) SignOut(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.logger, "sign_out")
	s.metrics.RecordRequest(reqCtx.Route)
	defer func() { s.metrics.RecordDuration(reqCtx.Route, reqCtx.Duration()) }()

	if err := s.Tokens.Remove(); err != nil {
		reqCtx.Error("sign-out failed", err)
		s.metrics.RecordFailure(reqCtx.Route)
		return c.JSON(http.StatusInternalServerError, newErrorResponse(
			string(svcerrors.ErrCodeInternal), "sign-out failed"))
	}

	reqCtx.Info("signed out")
	return c.JSON(http.StatusOK, map[string]bool{"signedOut": true})
}
