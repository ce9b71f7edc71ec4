// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"io"

	"github.com/itsatony/sensorscore/internal/models"
)

var (
	// ErrNotConfigured indicates that a backend has no connection settings
	ErrNotConfigured = errors.New("backend not configured")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// GenerationRecordRepository persists one row per successful generation run
type GenerationRecordRepository interface {
	// Create stores the record and sets its store-assigned ID
	Create(ctx context.Context, record *models.GenerationRecord) error
	// List returns records newest first, optionally restricted to a zone
	List(ctx context.Context, filters models.GenerationFilters) ([]*models.GenerationRecord, error)
	Ping(ctx context.Context) error
	Close() error
}

// ArtifactRepository defines the interface for audio file storage operations
type ArtifactRepository interface {
	Store(ctx context.Context, data []byte, filename string) (*models.AudioArtifact, error)
	Exists(ctx context.Context, filename string) (bool, error)
	Path(filename string) string
	Stream(ctx context.Context, filename string, w io.Writer) (int64, error)
}
