// FilePath: internal/models/models.generation.go
package models

import (
	"encoding/json"
	"time"
)

const (
	DefaultMusicLengthMs = 60000
	DefaultModelID       = "music_v1"
)

// ComposeRequest is the body sent to the music-generation API
type ComposeRequest struct {
	Prompt        string `json:"prompt"`
	MusicLengthMs int    `json:"music_length_ms"`
	ModelID       string `json:"model_id"`
}

// WithDefaults fills duration and model when absent
func (c ComposeRequest) WithDefaults() ComposeRequest {
	if c.MusicLengthMs <= 0 {
		c.MusicLengthMs = DefaultMusicLengthMs
	}
	if c.ModelID == "" {
		c.ModelID = DefaultModelID
	}
	return c
}

// AudioArtifact is a stored audio file
type AudioArtifact struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
}

// GenerationRecord is the flat row persisted once per successful run
type GenerationRecord struct {
	ID                          int64     `json:"id" db:"id"`
	Timestamp                   string    `json:"timestamp" db:"timestamp"`
	Zone                        string    `json:"zone" db:"zone"`
	TemperatureC                float64   `json:"temperature_c" db:"temperature_c"`
	HumidityPct                 float64   `json:"humidity_pct" db:"humidity_pct"`
	CO2Ppm                      float64   `json:"co2_ppm" db:"co2_ppm"`
	VOCIndex                    float64   `json:"voc_index" db:"voc_index"`
	Occupancy                   float64   `json:"occupancy" db:"occupancy"`
	NoiseDBA                    float64   `json:"noise_dba" db:"noise_dba"`
	ProductivityScore           float64   `json:"productivity_score" db:"productivity_score"`
	Trend10MinCO2PpmDelta       float64   `json:"trend_10min_co2_ppm_delta" db:"trend_10min_co2_ppm_delta"`
	Trend10MinNoiseDBADelta     float64   `json:"trend_10min_noise_dba_delta" db:"trend_10min_noise_dba_delta"`
	Trend10MinProductivityDelta float64   `json:"trend_10min_productivity_delta" db:"trend_10min_productivity_delta"`
	MusicBrief                  string    `json:"music_brief" db:"music_brief"`
	MusicPrompt                 string    `json:"music_prompt" db:"music_prompt"`
	AudioPath                   string    `json:"audio_path" db:"audio_path"`
	AudioFilename               string    `json:"audio_filename" db:"audio_filename"`
	MusicLengthMs               int       `json:"music_length_ms" db:"music_length_ms"`
	ModelID                     string    `json:"model_id" db:"model_id"`
	GenerationTimestamp         time.Time `json:"generation_timestamp" db:"generation_timestamp"`
}

// NewGenerationRecord flattens a finished run into a record
func NewGenerationRecord(
	snapshot *SensorSnapshot,
	brief *MusicBrief,
	prompt string,
	artifact *AudioArtifact,
	req ComposeRequest,
	generatedAt time.Time,
) (*GenerationRecord, error) {
	briefJSON, err := json.Marshal(brief)
	if err != nil {
		return nil, err
	}
	return &GenerationRecord{
		Timestamp:                   snapshot.Timestamp,
		Zone:                        snapshot.Zone,
		TemperatureC:                snapshot.TemperatureC,
		HumidityPct:                 snapshot.HumidityPct,
		CO2Ppm:                      snapshot.CO2Ppm,
		VOCIndex:                    snapshot.VOCIndex,
		Occupancy:                   snapshot.Occupancy,
		NoiseDBA:                    snapshot.NoiseDBA,
		ProductivityScore:           snapshot.ProductivityScore,
		Trend10MinCO2PpmDelta:       snapshot.Trend10MinCO2PpmDelta,
		Trend10MinNoiseDBADelta:     snapshot.Trend10MinNoiseDBADelta,
		Trend10MinProductivityDelta: snapshot.Trend10MinProductivityDelta,
		MusicBrief:                  string(briefJSON),
		MusicPrompt:                 prompt,
		AudioPath:                   artifact.Path,
		AudioFilename:               artifact.Filename,
		MusicLengthMs:               req.MusicLengthMs,
		ModelID:                     req.ModelID,
		GenerationTimestamp:         generatedAt.UTC(),
	}, nil
}

// GenerationResult is the response envelope of a successful run
type GenerationResult struct {
	Success             bool            `json:"success"`
	SensorSnapshot      *SensorSnapshot `json:"sensorSnapshot"`
	MusicBrief          *MusicBrief     `json:"musicBrief"`
	Prompt              string          `json:"prompt"`
	AudioPath           string          `json:"audioPath"`
	Filename            string          `json:"filename"`
	MusicLengthMs       int             `json:"music_length_ms"`
	ModelID             string          `json:"model_id"`
	GenerationTimestamp time.Time       `json:"generation_timestamp"`
	Message             string          `json:"message"`
}

// PromptResult is the response of the brief+prompt only flow
type PromptResult struct {
	Success        bool            `json:"success"`
	SensorSnapshot *SensorSnapshot `json:"sensorSnapshot"`
	MusicBrief     *MusicBrief     `json:"musicBrief"`
	Prompt         string          `json:"prompt"`
	Timestamp      time.Time       `json:"timestamp"`
}

// HistoryResult is the response of a history listing
type HistoryResult struct {
	Success bool                `json:"success"`
	Records []*GenerationRecord `json:"records"`
	Count   int                 `json:"count"`
}
