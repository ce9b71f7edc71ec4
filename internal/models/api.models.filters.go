package models

import "strings"

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 1000
)

// GenerationFilters defines the available filter options for history listings
type GenerationFilters struct {
	Zone  string `json:"zone" schema:"zone"`
	Limit int    `json:"limit" schema:"limit"`
}

// Normalize trims the zone and clamps the limit
func (f GenerationFilters) Normalize() GenerationFilters {
	f.Zone = strings.TrimSpace(f.Zone)
	if f.Limit <= 0 {
		f.Limit = DefaultHistoryLimit
	}
	if f.Limit > MaxHistoryLimit {
		f.Limit = MaxHistoryLimit
	}
	return f
}
