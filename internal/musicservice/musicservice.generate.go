package musicservice

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/itsatony/sensorscore/internal/elevenlabs"
	"github.com/itsatony/sensorscore/internal/errors"
	"github.com/itsatony/sensorscore/internal/events"
	"github.com/itsatony/sensorscore/internal/models"
	"github.com/itsatony/sensorscore/internal/repository/files"
	nuts "github.com/vaudience/go-nuts"
)

// GenerateMusic runs the full pipeline for one snapshot: brief, prompt, audio,
// stored file and generation record. Steps run in order and are not retried.
// A failed record write is logged and published but does not fail the run.
func (s *MusicService) GenerateMusic(ctx context.Context, snapshot *models.SensorSnapshot, req models.ComposeRequest) (*models.GenerationResult, error) {
	runID := nuts.NID("run", 12)
	zone := ""
	if snapshot != nil {
		zone = snapshot.Zone
	}

	if err := validateSnapshot(snapshot); err != nil {
		return nil, s.fail(runID, zone, models.StageInput, err)
	}
	if err := s.requireGenerator(); err != nil {
		return nil, s.fail(runID, zone, models.StageConfig, err)
	}
	if err := s.requireComposer(); err != nil {
		return nil, s.fail(runID, zone, models.StageConfig, err)
	}
	req = req.WithDefaults()

	nuts.L.Infof("[MusicService] Run %s started for zone %s (%d ms, %s)", runID, zone, req.MusicLengthMs, req.ModelID)

	brief, prompt, stage, err := s.briefAndPrompt(ctx, snapshot)
	if err != nil {
		return nil, s.fail(runID, zone, stage, err)
	}
	req.Prompt = prompt

	audio, err := s.Composer.Compose(ctx, req)
	if err != nil {
		return nil, s.fail(runID, zone, models.StageCompose, compositionError(err))
	}

	filename := files.GenerateAudioFilename(snapshot.Zone, snapshot.Timestamp)
	artifact, err := s.Artifacts.Store(ctx, audio, filename)
	if err != nil {
		if _, ok := errors.As(err); !ok {
			err = errors.NewStorageError("Failed to save audio file", err)
		}
		return nil, s.fail(runID, zone, models.StageArtifact, err)
	}

	generatedAt := s.now().UTC()
	record, err := models.NewGenerationRecord(snapshot, brief, prompt, artifact, req, generatedAt)
	if err != nil {
		s.recordFailed(runID, zone, artifact.Filename, errors.NewInternalError("failed to build generation record", err))
	} else {
		s.saveRecord(ctx, runID, record)
	}

	s.Events.Publish(events.GenerationCompleted, models.GenerationEvent{
		RunID:    runID,
		Zone:     zone,
		Filename: artifact.Filename,
		At:       generatedAt,
	})
	nuts.L.Infof("[MusicService] Run %s completed: %s (%d bytes)", runID, artifact.Path, artifact.Size)

	return &models.GenerationResult{
		Success:             true,
		SensorSnapshot:      snapshot,
		MusicBrief:          brief,
		Prompt:              prompt,
		AudioPath:           artifact.Path,
		Filename:            artifact.Filename,
		MusicLengthMs:       req.MusicLengthMs,
		ModelID:             req.ModelID,
		GenerationTimestamp: generatedAt,
		Message:             "Music generated and saved successfully",
	}, nil
}

// GeneratePrompt runs the brief and prompt steps only
func (s *MusicService) GeneratePrompt(ctx context.Context, snapshot *models.SensorSnapshot) (*models.PromptResult, error) {
	runID := nuts.NID("run", 12)
	zone := ""
	if snapshot != nil {
		zone = snapshot.Zone
	}

	if err := validateSnapshot(snapshot); err != nil {
		return nil, s.fail(runID, zone, models.StageInput, err)
	}
	if err := s.requireGenerator(); err != nil {
		return nil, s.fail(runID, zone, models.StageConfig, err)
	}

	brief, prompt, stage, err := s.briefAndPrompt(ctx, snapshot)
	if err != nil {
		return nil, s.fail(runID, zone, stage, err)
	}

	return &models.PromptResult{
		Success:        true,
		SensorSnapshot: snapshot,
		MusicBrief:     brief,
		Prompt:         prompt,
		Timestamp:      s.now().UTC(),
	}, nil
}

// Compose renders a caller-supplied prompt without storing anything.
// It returns the request with defaults applied.
func (s *MusicService) Compose(ctx context.Context, req models.ComposeRequest) ([]byte, models.ComposeRequest, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return nil, req, errors.NewValidationError("Prompt is required", nil)
	}
	if err := s.requireComposer(); err != nil {
		return nil, req, err
	}
	req = req.WithDefaults()

	audio, err := s.Composer.Compose(ctx, req)
	if err != nil {
		return nil, req, compositionError(err)
	}
	return audio, req, nil
}

func (s *MusicService) briefAndPrompt(ctx context.Context, snapshot *models.SensorSnapshot) (*models.MusicBrief, string, string, error) {
	brief, err := s.Generator.GenerateBrief(ctx, snapshot)
	if err != nil {
		return nil, "", models.StageBrief, errors.NewUpstreamGenerationError("Failed to generate music brief", err).
			WithDetails(err.Error())
	}

	prompt, err := s.Generator.GenerateText(ctx, brief)
	if err == nil && strings.TrimSpace(prompt) == "" {
		err = stderrors.New("empty prompt")
	}
	if err != nil {
		return nil, "", models.StagePrompt, errors.NewUpstreamGenerationError("Failed to generate music prompt", err).
			WithDetails(err.Error())
	}
	return brief, strings.TrimSpace(prompt), "", nil
}

func (s *MusicService) saveRecord(ctx context.Context, runID string, record *models.GenerationRecord) {
	if s.Records == nil {
		nuts.L.Infof("[MusicService] Record store not configured, skipping record for %s", record.AudioFilename)
		return
	}
	if err := s.Records.Create(ctx, record); err != nil {
		s.recordFailed(runID, record.Zone, record.AudioFilename, err)
		return
	}
	nuts.L.Infof("[MusicService] Saved generation record %d for zone %s", record.ID, record.Zone)
}

func (s *MusicService) recordFailed(runID, zone, filename string, err error) {
	nuts.L.Errorf("[MusicService] Failed to save generation record for %s: %v", filename, err)
	s.Events.Publish(events.RecordFailed, models.GenerationEvent{
		RunID:     runID,
		Zone:      zone,
		Filename:  filename,
		Stage:     models.StageRecord,
		ErrorType: string(errors.ErrorTypeDatabase),
		Error:     err.Error(),
	})
}

// fail logs and publishes a failed run and returns err unchanged
func (s *MusicService) fail(runID, zone, stage string, err error) error {
	nuts.L.Warnf("[MusicService] Run %s failed at %s: %v", runID, stage, err)
	s.Events.Publish(events.GenerationFailed, models.GenerationEvent{
		RunID:     runID,
		Zone:      zone,
		Stage:     stage,
		ErrorType: string(errors.TypeOf(err)),
		Error:     err.Error(),
	})
	return err
}

func (s *MusicService) requireGenerator() error {
	if s.Generator == nil {
		return errors.NewConfigurationError("OpenAI API key not configured", nil)
	}
	return nil
}

func (s *MusicService) requireComposer() error {
	if s.Composer == nil {
		return errors.NewConfigurationError("ElevenLabs API key not configured", nil)
	}
	return nil
}

func validateSnapshot(snapshot *models.SensorSnapshot) error {
	if missing := snapshot.MissingRequired(); len(missing) > 0 {
		return errors.NewValidationError("Timestamp and zone are required", nil).
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}

// compositionError keeps the composer's status and message
func compositionError(err error) error {
	if apiErr, ok := errors.As(err); ok {
		return apiErr
	}
	var ce *elevenlabs.ComposeError
	if stderrors.As(err, &ce) {
		msg := ce.Message
		if msg == "" {
			msg = ce.Error()
		}
		return errors.NewUpstreamCompositionError(ce.Status, msg, err)
	}
	return errors.NewUpstreamCompositionError(0, err.Error(), err)
}
