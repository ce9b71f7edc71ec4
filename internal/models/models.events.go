package models

import "time"

// Pipeline stages, used to label failures
const (
	StageInput    = "input"
	StageConfig   = "config"
	StageBrief    = "brief"
	StagePrompt   = "prompt"
	StageCompose  = "compose"
	StageArtifact = "artifact"
	StageRecord   = "record"
)

// GenerationEvent describes one lifecycle transition of a generation run
type GenerationEvent struct {
	RunID     string    `json:"run_id"`
	Zone      string    `json:"zone"`
	Filename  string    `json:"filename,omitempty"`
	Stage     string    `json:"stage,omitempty"`
	ErrorType string    `json:"error_type,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}
