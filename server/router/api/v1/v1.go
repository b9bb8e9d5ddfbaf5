// Package v1 exposes the schedule extraction service over a JSON HTTP API.
package v1

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/agendamail/agendamail/internal/profile"
	"github.com/agendamail/agendamail/internal/timezone"
	"github.com/agendamail/agendamail/plugin/calendarout"
	"github.com/agendamail/agendamail/plugin/gauth"
	"github.com/agendamail/agendamail/plugin/mailfetch"
	"github.com/agendamail/agendamail/plugin/nlsched"
	"github.com/agendamail/agendamail/plugin/summarize"
	"github.com/agendamail/agendamail/server/internal/observability"
	"github.com/agendamail/agendamail/server/middleware"
	"github.com/agendamail/agendamail/store"
)

// APIV1Service wires the extraction pipeline and its collaborators into
// the v1 routes.
type APIV1Service struct {
	Profile     *profile.Profile
	Store       *store.Store
	Scheduler   *nlsched.Service
	Summarizer  summarize.Summarizer
	Fetcher     *mailfetch.Fetcher
	Calendar    calendarout.Writer
	ICSExporter *calendarout.ICSExporter
	Tokens      *gauth.TokenStore

	logger   *slog.Logger
	metrics  *observability.Metrics
	limiter  *middleware.RateLimiter
	location *time.Location

	entriesMu sync.Mutex
	entries   []*calendarout.Entry
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(
	prof *profile.Profile,
	st *store.Store,
	scheduler *nlsched.Service,
	summarizer summarize.Summarizer,
	fetcher *mailfetch.Fetcher,
	calendar calendarout.Writer,
	exporter *calendarout.ICSExporter,
	tokens *gauth.TokenStore,
) *APIV1Service {
	location := timezone.UTC
	if prof != nil {
		if loc, err := timezone.Parse(prof.CalendarTimezone); err == nil {
			location = loc
		}
	}
	return &APIV1Service{
		Profile:     prof,
		Store:       st,
		Scheduler:   scheduler,
		Summarizer:  summarizer,
		Fetcher:     fetcher,
		Calendar:    calendar,
		ICSExporter: exporter,
		Tokens:      tokens,
		logger:      slog.Default(),
		metrics:     observability.NewMetrics(),
		limiter:     middleware.NewRateLimiter(10, 20),
		location:    location,
	}
}

func (s *APIV1Service) calendarLocation() *time.Location {
	return s.location
}

func (s *APIV1Service) rememberEntries(entries []*calendarout.Entry) {
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()
	s.entries = append(s.entries, entries...)
}

func (s *APIV1Service) recentEntries() []*calendarout.Entry {
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()
	entries := make([]*calendarout.Entry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// RegisterRoutes attaches the v1 routes to the echo server.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	group := echoServer.Group("/api/v1")
	group.Use(echomw.CORS())
	group.Use(s.limiter.Middleware())

	group.POST("/events", s.ExtractEvents)
	group.POST("/summarize", s.SummarizeText)
	group.GET("/mail/sync", s.SyncMail)
	group.GET("/mail/messages", s.ListMailMessages)
	group.POST("/calendar/events", s.CreateCalendarEvent)
	group.GET("/calendar.ics", s.ExportCalendar)
	group.POST("/auth/sign-out", s.SignOut)
	group.GET("/metrics", s.GetMetrics)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newErrorResponse(code, message string) *errorResponse {
	return &errorResponse{Code: code, Message: message}
}

// GetMetrics reports the per-route request counters.
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	total, failed, routes := s.metrics.Snapshot()
	return c.JSON(http.StatusOK, map[string]any{
		"requestTotal":  total,
		"requestFailed": failed,
		"routes":        routes,
	})
}
