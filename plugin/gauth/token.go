// Package gauth manages the OAuth2 token used by the mail and calendar
// provider clients. Tokens are persisted to a single JSON file; removing
// the file signs the user out.
package gauth

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// ErrNotSignedIn is returned when no stored token exists.
var ErrNotSignedIn = errors.New("user is not signed in")

// Config holds the OAuth2 client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	Scopes       []string
}

// ConfigFromEnv creates the OAuth2 config from environment variables,
// defaulting to the Google endpoints.
func ConfigFromEnv() *Config {
	config := &Config{
		ClientID:     os.Getenv("AGENDAMAIL_OAUTH_CLIENT_ID"),
		ClientSecret: os.Getenv("AGENDAMAIL_OAUTH_CLIENT_SECRET"),
		AuthURL:      "https://accounts.google.com/o/oauth2/auth",
		TokenURL:     "https://oauth2.googleapis.com/token",
		Scopes: []string{
			"https://www.googleapis.com/auth/gmail.readonly",
			"https://www.googleapis.com/auth/calendar.events",
		},
	}
	if url := os.Getenv("AGENDAMAIL_OAUTH_TOKEN_URL"); url != "" {
		config.TokenURL = url
	}
	return config
}

// TokenStore persists one OAuth2 token to a file and hands out refreshed
// token sources. It is safe for concurrent use.
type TokenStore struct {
	mu     sync.Mutex
	path   string
	config *oauth2.Config
}

// NewTokenStore creates a token store over the given file path.
func NewTokenStore(path string, config *Config) *TokenStore {
	if config == nil {
		config = ConfigFromEnv()
	}
	return &TokenStore{
		path: path,
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       config.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.AuthURL,
				TokenURL: config.TokenURL,
			},
		},
	}
}

// Load reads the stored token.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotSignedIn
		}
		return nil, errors.Wrap(err, "failed to read token file")
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, errors.Wrap(err, "failed to decode token file")
	}
	return token, nil
}

// Save writes the token back to the file.
func (s *TokenStore) Save(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(token)
	if err != nil {
		return errors.Wrap(err, "failed to encode token")
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write token file")
	}
	return nil
}

// Remove deletes the stored token, signing the user out. Removing an
// absent token is not an error.
func (s *TokenStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove token file")
	}
	return nil
}

// TokenSource returns an auto-refreshing token source backed by the stored
// token. Refreshed tokens are persisted on retrieval.
func (s *TokenStore) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := s.Load()
	if err != nil {
		return nil, err
	}
	return &persistingSource{
		store:    s,
		current:  token,
		delegate: s.config.TokenSource(ctx, token),
	}, nil
}

type persistingSource struct {
	store    *TokenStore
	current  *oauth2.Token
	delegate oauth2.TokenSource
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	token, err := p.delegate.Token()
	if err != nil {
		return nil, err
	}
	if token.AccessToken != p.current.AccessToken {
		p.current = token
		if err := p.store.Save(token); err != nil {
			return nil, err
		}
	}
	return token, nil
}
