// Package mailfetch pulls messages from a Gmail-style REST provider and
// persists them into the local store.
package mailfetch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/agendamail/agendamail/plugin/gauth"
	"github.com/agendamail/agendamail/store"
)

// Config holds the mail provider configuration.
type Config struct {
	// BaseURL is the provider API root, e.g. https://gmail.googleapis.com.
	BaseURL string
	// Label restricts the fetch to messages carrying this label.
	Label string
	// MaxMessages caps a single sync run.
	MaxMessages int
	Timeout     time.Duration
}

// DefaultConfig returns the default mail fetch configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://gmail.googleapis.com",
		Label:       "IMPORTANT",
		MaxMessages: 100,
		Timeout:     30 * time.Second,
	}
}

// Fetcher is the mail synchronization collaborator.
type Fetcher struct {
	config     *Config
	tokens     *gauth.TokenStore
	store      *store.Store
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewFetcher creates a mail fetcher over the given token store and message
// store.
func NewFetcher(config *Config, tokens *gauth.TokenStore, st *store.Store) *Fetcher {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://gmail.googleapis.com"
	}
	if config.Label == "" {
		config.Label = "IMPORTANT"
	}
	if config.MaxMessages <= 0 {
		config.MaxMessages = 100
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Fetcher{
		config:     config,
		tokens:     tokens,
		store:      st,
		httpClient: &http.Client{Timeout: config.Timeout},
		// The provider allows well above this; stay conservative.
		limiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

type messageRef struct {
	ID string `json:"id"`
}

type listResponse struct {
	Messages []messageRef `json:"messages"`
}

type messagePart struct {
	MimeType string `json:"mimeType"`
	Body     struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []messagePart `json:"parts"`
}

type messageResponse struct {
	ID      string `json:"id"`
	Payload struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
		messagePart
	} `json:"payload"`
}

// Sync fetches labeled messages from the provider and upserts them into
// the store, keyed by provider message ID. It returns the number of
// messages synchronized.
func (f *Fetcher) Sync(ctx context.Context) (int, error) {
	source, err := f.tokens.TokenSource(ctx)
	if err != nil {
		return 0, err
	}

	refs, err := f.listMessages(ctx, source)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, ref := range refs {
		message, err := f.getMessage(ctx, source, ref.ID)
		if err != nil {
			slog.Warn("failed to fetch message", "id", ref.ID, "error", err)
			continue
		}
		if _, err := f.store.UpsertMessage(ctx, message); err != nil {
			return synced, errors.Wrapf(err, "failed to store message %s", ref.ID)
		}
		synced++
	}
	return synced, nil
}

func (f *Fetcher) listMessages(ctx context.Context, source oauth2.TokenSource) ([]messageRef, error) {
	endpoint := fmt.Sprintf("%s/gmail/v1/users/me/messages?labelIds=%s&maxResults=%d",
		f.config.BaseURL, url.QueryEscape(f.config.Label), f.config.MaxMessages)

	body, err := f.doGet(ctx, source, endpoint)
	if err != nil {
		return nil, err
	}

	list := &listResponse{}
	if err := json.Unmarshal(body, list); err != nil {
		return nil, errors.Wrap(err, "failed to decode message list")
	}
	return list.Messages, nil
}

func (f *Fetcher) getMessage(ctx context.Context, source oauth2.TokenSource, id string) (*store.Message, error) {
	endpoint := fmt.Sprintf("%s/gmail/v1/users/me/messages/%s?format=full",
		f.config.BaseURL, url.PathEscape(id))

	body, err := f.doGet(ctx, source, endpoint)
	if err != nil {
		return nil, err
	}

	resp := &messageResponse{}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode message")
	}

	message := &store.Message{
		UID:       shortuuid.New(),
		MessageID: resp.ID,
		Body:      extractBody(&resp.Payload.messagePart),
	}
	for _, header := range resp.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "subject":
			message.Subject = header.Value
		case "from":
			message.Sender = header.Value
		}
	}
	return message, nil
}

func (f *Fetcher) doGet(ctx context.Context, source oauth2.TokenSource, endpoint string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := source.Token()
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain access token")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	token.SetAuthHeader(req)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "mail provider request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("mail provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// extractBody picks the message text: the first text/plain part wins,
// otherwise the first text/html part is stripped to visible text.
func extractBody(part *messagePart) string {
	if text := findPart(part, "text/plain"); text != "" {
		return text
	}
	if markup := findPart(part, "text/html"); markup != "" {
		return StripHTML(markup)
	}
	return ""
}

func findPart(part *messagePart, mimeType string) string {
	if part.MimeType == mimeType && part.Body.Data != "" {
		decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(part.Body.Data)
		if err != nil {
			return ""
		}
		return string(decoded)
	}
	for i := range part.Parts {
		if text := findPart(&part.Parts[i], mimeType); text != "" {
			return text
		}
	}
	return ""
}
