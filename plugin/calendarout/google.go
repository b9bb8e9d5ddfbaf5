package calendarout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/agendamail/agendamail/internal/timezone"
	"github.com/agendamail/agendamail/plugin/gauth"
)

// APIConfig holds the remote calendar configuration.
type APIConfig struct {
	// BaseURL is the calendar API root, e.g.
	// https://www.googleapis.com/calendar/v3.
	BaseURL string
	// CalendarID names the target calendar; "primary" by default.
	CalendarID string
	// Timezone is the IANA zone events are created in.
	Timezone string
	Timeout  time.Duration
}

// DefaultAPIConfig returns the default calendar API configuration.
func DefaultAPIConfig() *APIConfig {
	return &APIConfig{
		BaseURL:    "https://www.googleapis.com/calendar/v3",
		CalendarID: "primary",
		Timezone:   "UTC",
		Timeout:    30 * time.Second,
	}
}

// APIWriter inserts events into a Google-style calendar REST API.
type APIWriter struct {
	config     *APIConfig
	tokens     *gauth.TokenStore
	httpClient *http.Client
	location   *time.Location
}

// NewAPIWriter creates a calendar API writer.
func NewAPIWriter(config *APIConfig, tokens *gauth.TokenStore) (*APIWriter, error) {
	if config == nil {
		config = DefaultAPIConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://www.googleapis.com/calendar/v3"
	}
	if config.CalendarID == "" {
		config.CalendarID = "primary"
	}
	if config.Timezone == "" {
		config.Timezone = "UTC"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	location, err := timezone.Parse(config.Timezone)
	if err != nil {
		return nil, errors.Wrap(err, "invalid calendar timezone")
	}

	return &APIWriter{
		config:     config,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: config.Timeout},
		location:   location,
	}, nil
}

// Location returns the zone events are created in.
func (w *APIWriter) Location() *time.Location {
	return w.location
}

type eventTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	Timezone string `json:"timeZone,omitempty"`
}

type eventBody struct {
	Summary string    `json:"summary"`
	Start   eventTime `json:"start"`
	End     eventTime `json:"end"`
}

// Write inserts the entry as a calendar event. All-day entries use date
// bounds, timed entries use zoned instants.
func (w *APIWriter) Write(ctx context.Context, entry *Entry) error {
	source, err := w.tokens.TokenSource(ctx)
	if err != nil {
		return err
	}
	token, err := source.Token()
	if err != nil {
		return errors.Wrap(err, "failed to obtain access token")
	}

	event := eventBody{Summary: entry.Title}
	if entry.AllDay() {
		day, err := entry.Day()
		if err != nil {
			return err
		}
		event.Start = eventTime{Date: day.Format("2006-01-02")}
		event.End = eventTime{Date: day.AddDate(0, 0, 1).Format("2006-01-02")}
	} else {
		start, end, err := entry.StartEnd(w.location)
		if err != nil {
			return err
		}
		event.Start = eventTime{DateTime: start.Format(time.RFC3339), Timezone: w.config.Timezone}
		event.End = eventTime{DateTime: end.Format(time.RFC3339), Timezone: w.config.Timezone}
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to encode event")
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events",
		w.config.BaseURL, url.PathEscape(w.config.CalendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	token.SetAuthHeader(req)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "calendar request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return errors.Errorf("calendar returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
