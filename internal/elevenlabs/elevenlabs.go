// Package elevenlabs is a client for the ElevenLabs music composition API.
package elevenlabs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	nuts "github.com/vaudience/go-nuts"

	"github.com/itsatony/sensorscore/internal/config"
	"github.com/itsatony/sensorscore/internal/models"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultTimeout = 5 * time.Minute

	musicPath = "/v1/music"
)

// ComposeError is a failed composition. Status is the upstream HTTP status,
// or 0 when no response was received.
type ComposeError struct {
	Status  int
	Message string
	err     error
}

func (e *ComposeError) Error() string {
	return "ElevenLabs API error: " + e.Message
}

func (e *ComposeError) Unwrap() error {
	return e.err
}

// Client composes audio from text prompts. It is safe for concurrent use.
type Client struct {
	rc      *resty.Client
	baseURL string
}

// NewClient creates a composer bound to the configured endpoint and key
func NewClient(cfg config.ElevenLabsConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("xi-api-key", strings.TrimSpace(cfg.APIKey)).
		SetHeader("Accept", "audio/mpeg")

	return &Client{rc: rc, baseURL: baseURL}
}

// Compose requests a track for the prompt and returns the raw audio bytes
func (c *Client) Compose(ctx context.Context, req models.ComposeRequest) ([]byte, error) {
	req = req.WithDefaults()
	started := time.Now()

	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(musicPath)
	if err != nil {
		return nil, &ComposeError{Message: err.Error(), err: err}
	}
	if !resp.IsSuccess() {
		return nil, &ComposeError{
			Status:  resp.StatusCode(),
			Message: strings.TrimSpace(resp.String()),
		}
	}

	audio := resp.Body()
	if len(audio) == 0 {
		return nil, &ComposeError{Status: resp.StatusCode(), Message: "empty audio response"}
	}

	nuts.L.Infof("[ElevenLabs] Composed %d bytes (%d ms, %s) in %s",
		len(audio), req.MusicLengthMs, req.ModelID, time.Since(started).Round(time.Millisecond))
	return audio, nil
}

// String describes the client for logs
func (c *Client) String() string {
	return fmt.Sprintf("elevenlabs(%s)", c.baseURL)
}
