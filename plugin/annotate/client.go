package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Config holds the annotation sidecar configuration.
type Config struct {
	// ServerURL is the URL of the annotation sidecar (e.g. http://localhost:8090)
	ServerURL string
	// Timeout is the HTTP timeout for sidecar requests
	Timeout time.Duration
}

// DefaultConfig returns the default annotation configuration.
func DefaultConfig() *Config {
	return &Config{
		ServerURL: "http://localhost:8090",
		Timeout:   10 * time.Second,
	}
}

// ConfigFromEnv creates annotation config from environment variables.
func ConfigFromEnv() *Config {
	config := DefaultConfig()

	if url := os.Getenv("AGENDAMAIL_ANNOTATOR_URL"); url != "" {
		config.ServerURL = url
	}
	if timeout := os.Getenv("AGENDAMAIL_ANNOTATOR_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Timeout = d
		}
	}

	return config
}

// Client calls an external tagging sidecar over HTTP. The sidecar wraps a
// statistical tagger and answers POST /annotate with the Annotation schema.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new annotation client.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type annotateRequest struct {
	Text string `json:"text"`
}

// Annotate sends the clause to the sidecar and decodes the annotation.
func (c *Client) Annotate(ctx context.Context, clause string) (*Annotation, error) {
	payload, err := json.Marshal(annotateRequest{Text: clause})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode annotate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.ServerURL+"/annotate",
		bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "annotator request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Errorf("annotator returned status %d: %s", resp.StatusCode, string(body))
	}

	annotation := &Annotation{}
	if err := json.NewDecoder(resp.Body).Decode(annotation); err != nil {
		return nil, errors.Wrap(err, "failed to decode annotation")
	}

	return annotation, nil
}
