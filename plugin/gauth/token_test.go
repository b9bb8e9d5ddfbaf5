package gauth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestStore(t *testing.T) *TokenStore {
	t.Helper()
	return NewTokenStore(filepath.Join(t.TempDir(), "token.json"), &Config{
		ClientID:     "client",
		ClientSecret: "secret",
		AuthURL:      "https://example.com/auth",
		TokenURL:     "https://example.com/token",
	})
}

func TestTokenStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, store.Save(token))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
}

func TestTokenStoreLoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestTokenStoreRemove(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "access"}))
	require.NoError(t, store.Remove())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotSignedIn)

	// Removing again is not an error.
	assert.NoError(t, store.Remove())
}

func TestTokenSourceReturnsValidToken(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken: "access",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))

	source, err := store.TokenSource(context.Background())
	require.NoError(t, err)

	token, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
}

func TestTokenSourceNotSignedIn(t *testing.T) {
	store := newTestStore(t)

	_, err := store.TokenSource(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}
