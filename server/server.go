// Package server assembles the HTTP server and its collaborators.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/agendamail/agendamail/internal/profile"
	"github.com/agendamail/agendamail/plugin/annotate"
	"github.com/agendamail/agendamail/plugin/calendarout"
	"github.com/agendamail/agendamail/plugin/gauth"
	"github.com/agendamail/agendamail/plugin/mailfetch"
	"github.com/agendamail/agendamail/plugin/nlsched"
	"github.com/agendamail/agendamail/plugin/summarize"
	apiv1 "github.com/agendamail/agendamail/server/router/api/v1"
	"github.com/agendamail/agendamail/store"
)

// Server is the HTTP front of the schedule extraction service.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
}

// NewServer wires the pipeline, collaborators and routes.
func NewServer(ctx context.Context, prof *profile.Profile, st *store.Store) (*Server, error) {
	if prof == nil {
		return nil, errors.New("profile is nil")
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomw.Recover())
	echoServer.Use(requestLogger())

	server := &Server{
		Profile:    prof,
		Store:      st,
		echoServer: echoServer,
	}

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	// External annotator when configured, builtin tagger otherwise.
	var annotator annotate.Annotator
	if prof.AnnotatorURL != "" {
		annotator = annotate.NewClient(&annotate.Config{
			ServerURL: prof.AnnotatorURL,
			Timeout:   prof.AnnotatorTimeout,
		})
	} else {
		annotator = annotate.NewTagger()
	}
	scheduler := nlsched.NewService(annotator)

	var summarizer summarize.Summarizer
	if prof.IsSummarizerEnabled() {
		summarizer = summarize.NewClient(&summarize.Config{
			BaseURL: prof.SummarizerBaseURL,
			APIKey:  prof.SummarizerAPIKey,
			Model:   prof.SummarizerModel,
		})
	} else {
		summarizer = summarize.Truncating{}
	}

	tokens := gauth.NewTokenStore(prof.MailTokenFile, nil)
	fetcher := mailfetch.NewFetcher(&mailfetch.Config{
		BaseURL: prof.MailAPIBaseURL,
		Label:   prof.MailLabel,
	}, tokens, st)

	calendarWriter, err := calendarout.NewAPIWriter(&calendarout.APIConfig{
		BaseURL:    prof.CalendarAPIBaseURL,
		CalendarID: prof.CalendarID,
		Timezone:   prof.CalendarTimezone,
	}, tokens)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create calendar writer")
	}
	exporter := calendarout.NewICSExporter(calendarWriter.Location())

	apiService := apiv1.NewAPIV1Service(
		prof, st, scheduler, summarizer, fetcher, calendarWriter, exporter, tokens)
	apiService.RegisterRoutes(echoServer)

	return server, nil
}

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}
	slog.Info("server stopped")
}

func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
				slog.Warn("http request", attrs...)
				return nil
			}
			slog.Info("http request", attrs...)
			return nil
		},
	})
}
