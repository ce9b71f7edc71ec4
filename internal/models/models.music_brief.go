// FilePath: internal/models/models.music_brief.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Mood string

const (
	MoodCalm       Mood = "calm"
	MoodFocused    Mood = "focused"
	MoodEnergizing Mood = "energizing"
	MoodSoothing   Mood = "soothing"
	MoodAlert      Mood = "alert"
	MoodUplifting  Mood = "uplifting"
	MoodNeutral    Mood = "neutral"
)

var knownMoods = map[Mood]bool{
	MoodCalm:       true,
	MoodFocused:    true,
	MoodEnergizing: true,
	MoodSoothing:   true,
	MoodAlert:      true,
	MoodUplifting:  true,
	MoodNeutral:    true,
}

// MusicBrief is the structured musical intent derived from a snapshot
type MusicBrief struct {
	Mood            Mood       `json:"mood"`
	Energy          float64    `json:"energy"`
	Tension         float64    `json:"tension"`
	BPM             [2]float64 `json:"bpm"`
	DurationSec     float64    `json:"duration_sec"`
	Loopable        bool       `json:"loopable"`
	KeySuggestion   string     `json:"key_suggestion,omitempty"`
	InstrumentFocus []string   `json:"instrument_focus"`
	TextureNotes    string     `json:"texture_notes"`
	Rationale       string     `json:"rationale"`
}

var requiredBriefFields = []string{
	"mood", "energy", "tension", "bpm", "duration_sec",
	"loopable", "instrument_focus", "texture_notes", "rationale",
}

// ParseMusicBrief decodes and validates a brief. Every required field must be
// present with the right JSON type.
func ParseMusicBrief(data []byte) (*MusicBrief, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("brief is not a JSON object: %w", err)
	}

	var missing []string
	for _, field := range requiredBriefFields {
		v, ok := raw[field]
		if !ok || string(v) == "null" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("brief is missing fields: %s", strings.Join(missing, ", "))
	}

	var bpm []float64
	if err := json.Unmarshal(raw["bpm"], &bpm); err != nil {
		return nil, fmt.Errorf("brief bpm must be a numeric pair: %w", err)
	}
	if len(bpm) != 2 {
		return nil, fmt.Errorf("brief bpm must have exactly 2 values, got %d", len(bpm))
	}

	var brief MusicBrief
	if err := json.Unmarshal(data, &brief); err != nil {
		return nil, fmt.Errorf("brief has mistyped fields: %w", err)
	}
	if err := brief.Validate(); err != nil {
		return nil, err
	}
	return &brief, nil
}

// Validate checks enum membership and numeric ranges. Mood is normalized to lower case.
func (b *MusicBrief) Validate() error {
	b.Mood = Mood(strings.ToLower(strings.TrimSpace(string(b.Mood))))
	if !knownMoods[b.Mood] {
		return fmt.Errorf("brief mood %q is not one of calm|focused|energizing|soothing|alert|uplifting|neutral", b.Mood)
	}
	if b.Energy < 0 || b.Energy > 100 {
		return fmt.Errorf("brief energy %v out of range 0-100", b.Energy)
	}
	if b.Tension < 0 || b.Tension > 100 {
		return fmt.Errorf("brief tension %v out of range 0-100", b.Tension)
	}
	if b.BPM[0] > b.BPM[1] {
		return fmt.Errorf("brief bpm low %v exceeds high %v", b.BPM[0], b.BPM[1])
	}
	if b.DurationSec <= 0 {
		return fmt.Errorf("brief duration_sec must be positive, got %v", b.DurationSec)
	}
	return nil
}
