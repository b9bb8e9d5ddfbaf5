package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/agendamail/agendamail/internal/timezone"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where agendamail stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// Annotator configuration
	AnnotatorURL     string        // AGENDAMAIL_ANNOTATOR_URL; empty means builtin tagger
	AnnotatorTimeout time.Duration // AGENDAMAIL_ANNOTATOR_TIMEOUT (default: 10s)

	// Summarizer configuration
	SummarizerAPIKey  string // AGENDAMAIL_SUMMARIZER_API_KEY
	SummarizerBaseURL string // AGENDAMAIL_SUMMARIZER_BASE_URL (default: https://api.openai.com/v1)
	SummarizerModel   string // AGENDAMAIL_SUMMARIZER_MODEL (default: gpt-4o-mini)

	// Mail provider configuration
	MailAPIBaseURL string // AGENDAMAIL_MAIL_API_URL (default: https://gmail.googleapis.com)
	MailTokenFile  string // AGENDAMAIL_MAIL_TOKEN_FILE (default: <data>/token.json)
	MailLabel      string // AGENDAMAIL_MAIL_LABEL (default: IMPORTANT)

	// Calendar provider configuration
	CalendarAPIBaseURL string // AGENDAMAIL_CALENDAR_API_URL (default: https://www.googleapis.com/calendar/v3)
	CalendarID         string // AGENDAMAIL_CALENDAR_ID (default: primary)
	CalendarTimezone   string // AGENDAMAIL_CALENDAR_TIMEZONE (default: UTC)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsSummarizerEnabled returns true if a summarization API key is configured.
func (p *Profile) IsSummarizerEnabled() bool {
	return p.SummarizerAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from AGENDAMAIL_* environment variables.
func (p *Profile) FromEnv() {
	p.AnnotatorURL = os.Getenv("AGENDAMAIL_ANNOTATOR_URL")
	p.AnnotatorTimeout = 10 * time.Second
	if timeout := os.Getenv("AGENDAMAIL_ANNOTATOR_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			p.AnnotatorTimeout = d
		}
	}

	p.SummarizerAPIKey = os.Getenv("AGENDAMAIL_SUMMARIZER_API_KEY")
	p.SummarizerBaseURL = getEnvOrDefault("AGENDAMAIL_SUMMARIZER_BASE_URL", "https://api.openai.com/v1")
	p.SummarizerModel = getEnvOrDefault("AGENDAMAIL_SUMMARIZER_MODEL", "gpt-4o-mini")

	p.MailAPIBaseURL = getEnvOrDefault("AGENDAMAIL_MAIL_API_URL", "https://gmail.googleapis.com")
	p.MailTokenFile = os.Getenv("AGENDAMAIL_MAIL_TOKEN_FILE")
	p.MailLabel = getEnvOrDefault("AGENDAMAIL_MAIL_LABEL", "IMPORTANT")

	p.CalendarAPIBaseURL = getEnvOrDefault("AGENDAMAIL_CALENDAR_API_URL", "https://www.googleapis.com/calendar/v3")
	p.CalendarID = getEnvOrDefault("AGENDAMAIL_CALENDAR_ID", "primary")
	p.CalendarTimezone = getEnvOrDefault("AGENDAMAIL_CALENDAR_TIMEZONE", "UTC")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "agendamail")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/agendamail"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("agendamail_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.MailTokenFile == "" {
		p.MailTokenFile = filepath.Join(dataDir, "token.json")
	}
	if !timezone.IsValid(p.CalendarTimezone) {
		return errors.Errorf("invalid calendar timezone %q", p.CalendarTimezone)
	}

	return nil
}
