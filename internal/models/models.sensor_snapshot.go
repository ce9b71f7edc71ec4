// FilePath: internal/models/models.sensor_snapshot.go
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// SensorSnapshot is one timestamped set of readings for a zone.
// Unknown JSON fields are ignored; absent readings stay zero.
type SensorSnapshot struct {
	Timestamp         string  `json:"timestamp"`
	Zone              string  `json:"zone"`
	TemperatureC      float64 `json:"temperature_c"`
	HumidityPct       float64 `json:"humidity_pct"`
	CO2Ppm            float64 `json:"co2_ppm"`
	VOCIndex          float64 `json:"voc_index"`
	Occupancy         float64 `json:"occupancy"`
	NoiseDBA          float64 `json:"noise_dba"`
	ProductivityScore float64 `json:"productivity_score"`

	Trend10MinCO2PpmDelta       float64 `json:"trend_10min_co2_ppm_delta"`
	Trend10MinNoiseDBADelta     float64 `json:"trend_10min_noise_dba_delta"`
	Trend10MinProductivityDelta float64 `json:"trend_10min_productivity_delta"`
}

// trend10Min is the nested trend form some gateways send.
type trend10Min struct {
	CO2PpmDelta       float64 `json:"co2_ppm_delta"`
	NoiseDBADelta     float64 `json:"noise_dba_delta"`
	ProductivityDelta float64 `json:"productivity_delta"`
}

// UnmarshalJSON accepts trend deltas flattened or nested under "trend_10min".
// Flattened keys take precedence.
func (s *SensorSnapshot) UnmarshalJSON(data []byte) error {
	var nested struct {
		Trend *trend10Min `json:"trend_10min"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}

	*s = SensorSnapshot{}
	if nested.Trend != nil {
		s.Trend10MinCO2PpmDelta = nested.Trend.CO2PpmDelta
		s.Trend10MinNoiseDBADelta = nested.Trend.NoiseDBADelta
		s.Trend10MinProductivityDelta = nested.Trend.ProductivityDelta
	}

	type plain SensorSnapshot
	return json.Unmarshal(data, (*plain)(s))
}

// MissingRequired lists the required fields that are absent or blank.
func (s *SensorSnapshot) MissingRequired() []string {
	var missing []string
	if s == nil || strings.TrimSpace(s.Timestamp) == "" {
		missing = append(missing, "timestamp")
	}
	if s == nil || strings.TrimSpace(s.Zone) == "" {
		missing = append(missing, "zone")
	}
	return missing
}

var sensorTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseSensorTime reads the ISO-8601 variants sensors emit.
// Timestamps without an offset are read as UTC.
func ParseSensorTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range sensorTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
