// Package llm turns sensor snapshots into music briefs and briefs into composer prompts
// using an OpenAI-compatible chat completion endpoint.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	nuts "github.com/vaudience/go-nuts"

	"github.com/itsatony/sensorscore/internal/config"
	"github.com/itsatony/sensorscore/internal/models"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-5-mini"
	DefaultTimeout = 120 * time.Second

	// model output included in parse errors
	snippetLength = 300
)

// ErrNoText is returned when the model answers without any usable text
var ErrNoText = errors.New("model returned no text")

// Client generates briefs and prompts. It is safe for concurrent use.
type Client struct {
	client openaigo.Client
	model  string
}

// NewClient builds a chat completion client. Retries are disabled; a failed call
// is reported to the caller as is. httpClient may be nil.
func NewClient(cfg config.OpenAIConfig, httpClient *http.Client) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	client := openaigo.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	)

	return &Client{client: client, model: model}
}

// GenerateBrief asks the model for a music brief matching the snapshot
func (c *Client) GenerateBrief(ctx context.Context, snapshot *models.SensorSnapshot) (*models.MusicBrief, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode sensor snapshot: %w", err)
	}

	text, err := c.complete(ctx, briefSystemPrompt, string(payload))
	if err != nil {
		return nil, fmt.Errorf("music brief: %w", err)
	}

	raw := extractJSONFromText(text)
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("failed to parse music brief JSON. First %d chars: %s", snippetLength, snippet(text))
	}
	brief, err := models.ParseMusicBrief([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("model output didn't match music brief shape (%v). First %d chars: %s", err, snippetLength, snippet(text))
	}

	nuts.L.Infof("[LLM] Brief for zone %s: mood=%s energy=%.0f", snapshot.Zone, brief.Mood, brief.Energy)
	return brief, nil
}

// GenerateText turns a brief into a short natural-language prompt for the composer
func (c *Client) GenerateText(ctx context.Context, brief *models.MusicBrief) (string, error) {
	payload, err := json.MarshalIndent(brief, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode music brief: %w", err)
	}

	text, err := c.complete(ctx, promptSystemPrompt, string(payload))
	if err != nil {
		return "", fmt.Errorf("music prompt: %w", err)
	}
	return text, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(c.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(system),
			openaigo.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrNoText
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) > snippetLength {
		r = r[:snippetLength]
	}
	return string(r)
}

// extractJSONFromText strips code fences and surrounding prose from a model answer
func extractJSONFromText(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "```") {
		rest := strings.TrimSpace(strings.TrimPrefix(raw, "```"))
		if i := strings.Index(rest, "\n"); i >= 0 {
			rest = rest[i+1:]
		}
		if j := strings.LastIndex(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		raw = strings.TrimSpace(rest)
	}
	if !strings.HasPrefix(raw, "{") {
		if i := strings.Index(raw, "{"); i >= 0 {
			if j := strings.LastIndex(raw, "}"); j > i {
				return strings.TrimSpace(raw[i : j+1])
			}
		}
	}
	return raw
}
