package musicservice

import (
	"context"
	"time"

	"github.com/itsatony/sensorscore/internal/errors"
	"github.com/itsatony/sensorscore/internal/events"
	"github.com/itsatony/sensorscore/internal/models"
	"github.com/itsatony/sensorscore/internal/repository"
)

// BriefGenerator turns readings into a music brief and a brief into a prompt
type BriefGenerator interface {
	GenerateBrief(ctx context.Context, snapshot *models.SensorSnapshot) (*models.MusicBrief, error)
	GenerateText(ctx context.Context, brief *models.MusicBrief) (string, error)
}

// MusicComposer renders a prompt into audio bytes
type MusicComposer interface {
	Compose(ctx context.Context, req models.ComposeRequest) ([]byte, error)
}

// MusicService contains the collaborators of a generation run.
// A nil Generator or Composer means its credential is not configured.
// A nil Records means the record store is not configured.
type MusicService struct {
	Generator BriefGenerator
	Composer  MusicComposer
	Artifacts repository.ArtifactRepository
	Records   repository.GenerationRecordRepository
	Events    *events.Bus

	now func() time.Time
}

// New creates a new MusicService instance
func New(
	generator BriefGenerator,
	composer MusicComposer,
	artifacts repository.ArtifactRepository,
	records repository.GenerationRecordRepository,
	bus *events.Bus,
) *MusicService {
	return &MusicService{
		Generator: generator,
		Composer:  composer,
		Artifacts: artifacts,
		Records:   records,
		Events:    bus,
		now:       time.Now,
	}
}

// Validate checks if all required collaborators are initialized
func (s *MusicService) Validate() error {
	if s.Artifacts == nil {
		return ErrMissingRepository("artifacts")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
