package profile

import (
	"os"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	clearEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	tests := []struct {
		name     string
		expected string
		actual   string
	}{
		{"AnnotatorURL empty by default", "", profile.AnnotatorURL},
		{"SummarizerBaseURL default", "https://api.openai.com/v1", profile.SummarizerBaseURL},
		{"SummarizerModel default", "gpt-4o-mini", profile.SummarizerModel},
		{"MailAPIBaseURL default", "https://gmail.googleapis.com", profile.MailAPIBaseURL},
		{"MailLabel default", "IMPORTANT", profile.MailLabel},
		{"CalendarAPIBaseURL default", "https://www.googleapis.com/calendar/v3", profile.CalendarAPIBaseURL},
		{"CalendarID default", "primary", profile.CalendarID},
		{"CalendarTimezone default", "UTC", profile.CalendarTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.actual != tt.expected {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, tt.actual)
			}
		})
	}

	if profile.AnnotatorTimeout.Seconds() != 10 {
		t.Errorf("AnnotatorTimeout: expected 10s, got %v", profile.AnnotatorTimeout)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		field    func(*Profile) string
		expected string
	}{
		{
			name:     "AGENDAMAIL_ANNOTATOR_URL",
			envVar:   "AGENDAMAIL_ANNOTATOR_URL",
			envValue: "http://localhost:9999",
			field:    func(p *Profile) string { return p.AnnotatorURL },
			expected: "http://localhost:9999",
		},
		{
			name:     "AGENDAMAIL_SUMMARIZER_API_KEY",
			envVar:   "AGENDAMAIL_SUMMARIZER_API_KEY",
			envValue: "test-key-123",
			field:    func(p *Profile) string { return p.SummarizerAPIKey },
			expected: "test-key-123",
		},
		{
			name:     "AGENDAMAIL_SUMMARIZER_MODEL",
			envVar:   "AGENDAMAIL_SUMMARIZER_MODEL",
			envValue: "gpt-4",
			field:    func(p *Profile) string { return p.SummarizerModel },
			expected: "gpt-4",
		},
		{
			name:     "AGENDAMAIL_MAIL_LABEL",
			envVar:   "AGENDAMAIL_MAIL_LABEL",
			envValue: "STARRED",
			field:    func(p *Profile) string { return p.MailLabel },
			expected: "STARRED",
		},
		{
			name:     "AGENDAMAIL_CALENDAR_ID",
			envVar:   "AGENDAMAIL_CALENDAR_ID",
			envValue: "team@example.com",
			field:    func(p *Profile) string { return p.CalendarID },
			expected: "team@example.com",
		},
		{
			name:     "AGENDAMAIL_CALENDAR_TIMEZONE",
			envVar:   "AGENDAMAIL_CALENDAR_TIMEZONE",
			envValue: "Asia/Shanghai",
			field:    func(p *Profile) string { return p.CalendarTimezone },
			expected: "Asia/Shanghai",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			os.Setenv(tt.envVar, tt.envValue)
			defer os.Unsetenv(tt.envVar)

			profile := &Profile{}
			profile.FromEnv()

			if actual := tt.field(profile); actual != tt.expected {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, actual)
			}
		})
	}
}

func TestIsSummarizerEnabled(t *testing.T) {
	profile := &Profile{}
	if profile.IsSummarizerEnabled() {
		t.Error("IsSummarizerEnabled(): expected false without an API key")
	}

	profile.SummarizerAPIKey = "test-key"
	if !profile.IsSummarizerEnabled() {
		t.Error("IsSummarizerEnabled(): expected true with an API key")
	}
}

func TestValidate(t *testing.T) {
	clearEnvVars()

	dataDir := t.TempDir()
	profile := &Profile{
		Mode:   "dev",
		Driver: "sqlite",
		Data:   dataDir,
	}
	profile.FromEnv()
	if err := profile.Validate(); err != nil {
		t.Fatalf("Validate(): unexpected error %v", err)
	}

	if profile.DSN == "" {
		t.Error("Validate(): expected a derived sqlite DSN")
	}
	if profile.MailTokenFile == "" {
		t.Error("Validate(): expected a derived token file path")
	}
}

func TestValidateUnknownModeFallsBack(t *testing.T) {
	profile := &Profile{Mode: "staging", Driver: "sqlite", Data: t.TempDir()}
	if err := profile.Validate(); err != nil {
		t.Fatalf("Validate(): unexpected error %v", err)
	}
	if profile.Mode != "demo" {
		t.Errorf("Mode: expected fallback to demo, got %q", profile.Mode)
	}
}

func clearEnvVars() {
	envVars := []string{
		"AGENDAMAIL_ANNOTATOR_URL",
		"AGENDAMAIL_ANNOTATOR_TIMEOUT",
		"AGENDAMAIL_SUMMARIZER_API_KEY",
		"AGENDAMAIL_SUMMARIZER_BASE_URL",
		"AGENDAMAIL_SUMMARIZER_MODEL",
		"AGENDAMAIL_MAIL_API_URL",
		"AGENDAMAIL_MAIL_TOKEN_FILE",
		"AGENDAMAIL_MAIL_LABEL",
		"AGENDAMAIL_CALENDAR_API_URL",
		"AGENDAMAIL_CALENDAR_ID",
		"AGENDAMAIL_CALENDAR_TIMEZONE",
	}
	for _, envVar := range envVars {
		os.Unsetenv(envVar)
	}
}
