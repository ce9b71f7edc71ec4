package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/itsatony/sensorscore/internal/config"
	"github.com/itsatony/sensorscore/internal/models"
)

const validBrief = `{"mood":"focused","energy":62,"tension":35,"bpm":[84,92],"duration_sec":240,"loopable":true,"key_suggestion":"D minor","instrument_focus":["warm pads","soft piano"],"texture_notes":"low density","rationale":"good air, moderate occupancy"}`

type fakeChat struct {
	calls    int32
	lastBody map[string]any
	lastAuth string
	content  *string
	status   int
}

func (f *fakeChat) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		f.lastAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &f.lastBody)

		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
			return
		}
		choices := []map[string]any{}
		if f.content != nil {
			choices = append(choices, map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": *f.content},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1738065900,
			"model":   "gpt-5-mini",
			"choices": choices,
		})
	}
}

func newTestClient(t *testing.T, f *fakeChat) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return NewClient(config.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1",
		Model:   "gpt-5-mini",
		Timeout: 5 * time.Second,
	}, srv.Client())
}

func strp(s string) *string { return &s }

func testSnapshot() *models.SensorSnapshot {
	return &models.SensorSnapshot{
		Timestamp: "2025-01-28T12:05:00",
		Zone:      "Cafeteria",
		CO2Ppm:    720,
		Occupancy: 30,
	}
}

func TestGenerateBrief_PlainJSON(t *testing.T) {
	f := &fakeChat{content: strp(validBrief)}
	c := newTestClient(t, f)

	brief, err := c.GenerateBrief(context.Background(), testSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if brief.Mood != models.MoodFocused || brief.BPM[0] != 84 || brief.BPM[1] != 92 {
		t.Errorf("unexpected brief: %+v", brief)
	}
	if f.lastAuth != "Bearer sk-test" {
		t.Errorf("unexpected auth header %q", f.lastAuth)
	}
	if f.lastBody["model"] != "gpt-5-mini" {
		t.Errorf("unexpected model %v", f.lastBody["model"])
	}
	msgs, _ := f.lastBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(msgs))
	}
	user, _ := msgs[1].(map[string]any)
	if content, _ := user["content"].(string); !strings.Contains(content, `"zone":"Cafeteria"`) {
		t.Errorf("expected snapshot JSON in user message, got %v", user["content"])
	}
}

func TestGenerateBrief_FencedJSON(t *testing.T) {
	f := &fakeChat{content: strp("Here you go:\n```json\n" + validBrief + "\n```\n")}
	c := newTestClient(t, f)

	brief, err := c.GenerateBrief(context.Background(), testSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if brief.KeySuggestion != "D minor" {
		t.Errorf("unexpected key suggestion %q", brief.KeySuggestion)
	}
}

func TestGenerateBrief_NoChoices(t *testing.T) {
	f := &fakeChat{}
	c := newTestClient(t, f)

	_, err := c.GenerateBrief(context.Background(), testSnapshot())
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestGenerateBrief_BadShapeCarriesSnippet(t *testing.T) {
	long := `{"mood":"furious","energy":50,"tension":10,"bpm":[80,90],"duration_sec":60,"loopable":true,"instrument_focus":[],"texture_notes":"` +
		strings.Repeat("x", 400) + `","rationale":"r"}`
	f := &fakeChat{content: strp(long)}
	c := newTestClient(t, f)

	_, err := c.GenerateBrief(context.Background(), testSnapshot())
	if err == nil {
		t.Fatal("expected shape error")
	}
	if !strings.Contains(err.Error(), `{"mood":"furious"`) {
		t.Errorf("expected output snippet in error, got %v", err)
	}
	if strings.Contains(err.Error(), strings.Repeat("x", 350)) {
		t.Errorf("snippet should be capped at %d chars", snippetLength)
	}
}

func TestGenerateBrief_NotJSON(t *testing.T) {
	f := &fakeChat{content: strp("I would suggest something calm.")}
	c := newTestClient(t, f)

	_, err := c.GenerateBrief(context.Background(), testSnapshot())
	if err == nil || !strings.Contains(err.Error(), "failed to parse music brief JSON") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestGenerateText_TrimsAndDoesNotRetry(t *testing.T) {
	f := &fakeChat{content: strp("\n  Ambient track for a focused cafeteria.\nTempo: 84-92 BPM.  \n")}
	c := newTestClient(t, f)

	brief, err := models.ParseMusicBrief([]byte(validBrief))
	if err != nil {
		t.Fatalf("parse brief: %v", err)
	}
	prompt, err := c.GenerateText(context.Background(), brief)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prompt != "Ambient track for a focused cafeteria.\nTempo: 84-92 BPM." {
		t.Errorf("unexpected prompt %q", prompt)
	}

	f.status = http.StatusInternalServerError
	if _, err := c.GenerateText(context.Background(), brief); err == nil {
		t.Fatal("expected upstream error")
	}
	if got := atomic.LoadInt32(&f.calls); got != 2 {
		t.Errorf("expected exactly 2 calls (no retries), got %d", got)
	}
}

func TestExtractJSONFromText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Sure! {\"a\":1} hope that helps", `{"a":1}`},
		{"", ""},
		{"no json here", "no json here"},
	}
	for _, tt := range tests {
		if got := extractJSONFromText(tt.in); got != tt.want {
			t.Errorf("extractJSONFromText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
