package mailfetch

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/agendamail/agendamail/plugin/gauth"
	"github.com/agendamail/agendamail/store"
)

type fakeDriver struct {
	messages map[string]*store.Message
	nextID   int32
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{messages: make(map[string]*store.Message)}
}

func (d *fakeDriver) GetDB() *sql.DB                { return nil }
func (d *fakeDriver) Close() error                  { return nil }
func (d *fakeDriver) Migrate(context.Context) error { return nil }

func (d *fakeDriver) UpsertMessage(_ context.Context, upsert *store.Message) (*store.Message, error) {
	if existing, ok := d.messages[upsert.MessageID]; ok {
		existing.Subject = upsert.Subject
		existing.Sender = upsert.Sender
		existing.Body = upsert.Body
		return existing, nil
	}
	d.nextID++
	upsert.ID = d.nextID
	d.messages[upsert.MessageID] = upsert
	return upsert, nil
}

func (d *fakeDriver) ListMessages(_ context.Context, find *store.FindMessage) ([]*store.Message, error) {
	var list []*store.Message
	for _, message := range d.messages {
		if find.MessageID != nil && message.MessageID != *find.MessageID {
			continue
		}
		list = append(list, message)
	}
	return list, nil
}

func (d *fakeDriver) DeleteMessage(_ context.Context, del *store.DeleteMessage) error {
	for id, message := range d.messages {
		if message.ID == del.ID {
			delete(d.messages, id)
		}
	}
	return nil
}

func writeTestToken(t *testing.T) *gauth.TokenStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	token := &oauth2.Token{
		AccessToken: "test-access-token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
	data, err := json.Marshal(token)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return gauth.NewTokenStore(path, &gauth.Config{})
}

func encodeBody(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestFetcherSync(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "IMPORTANT", r.URL.Query().Get("labelIds"))
		assert.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"messages":[{"id":"m1"},{"id":"m2"}]}`)
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/m1", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "m1",
			"payload": map[string]any{
				"headers": []map[string]string{
					{"name": "Subject", "value": "Schedule"},
					{"name": "From", "value": "bob@example.com"},
				},
				"mimeType": "text/plain",
				"body":     map[string]string{"data": encodeBody("Meeting next Monday at 3pm.")},
			},
		})
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/m2", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "m2",
			"payload": map[string]any{
				"headers": []map[string]string{
					{"name": "Subject", "value": "Newsletter"},
				},
				"mimeType": "multipart/alternative",
				"parts": []map[string]any{
					{
						"mimeType": "text/html",
						"body":     map[string]string{"data": encodeBody("<p>Submit the report by Friday.</p>")},
					},
				},
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	driver := newFakeDriver()
	st := store.New(driver, nil)
	fetcher := NewFetcher(&Config{BaseURL: server.URL}, writeTestToken(t), st)

	synced, err := fetcher.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, synced)

	first, err := st.GetMessage(context.Background(), &store.FindMessage{MessageID: stringPtr("m1")})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Schedule", first.Subject)
	assert.Equal(t, "bob@example.com", first.Sender)
	assert.Equal(t, "Meeting next Monday at 3pm.", first.Body)
	assert.NotEmpty(t, first.UID)

	// The HTML part is stripped to visible text.
	second, err := st.GetMessage(context.Background(), &store.FindMessage{MessageID: stringPtr("m2")})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "Submit the report by Friday.", second.Body)
}

func TestFetcherSyncNotSignedIn(t *testing.T) {
	tokens := gauth.NewTokenStore(filepath.Join(t.TempDir(), "token.json"), &gauth.Config{})
	fetcher := NewFetcher(nil, tokens, store.New(newFakeDriver(), nil))

	_, err := fetcher.Sync(context.Background())
	assert.ErrorIs(t, err, gauth.ErrNotSignedIn)
}

func TestExtractBodyPrefersPlainText(t *testing.T) {
	part := &messagePart{MimeType: "multipart/alternative"}
	part.Parts = []messagePart{
		{MimeType: "text/html"},
		{MimeType: "text/plain"},
	}
	part.Parts[0].Body.Data = encodeBody("<p>markup</p>")
	part.Parts[1].Body.Data = encodeBody("plain")
	assert.Equal(t, "plain", extractBody(part))
}

func TestExtractBodyEmptyPayload(t *testing.T) {
	assert.Equal(t, "", extractBody(&messagePart{MimeType: "text/plain"}))
}

func stringPtr(s string) *string {
	return &s
}
