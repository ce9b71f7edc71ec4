// FilePath: internal/repository/files/files.storage.go
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/itsatony/sensorscore/internal/errors"
	"github.com/itsatony/sensorscore/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	defaultPermissions = 0755
	filePermissions    = 0644
	audioFileExtension = ".mp3"
	defaultURLPrefix   = "/audio"
	filenameTimeFormat = "2006-01-02T15:04:05.000Z"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	unsafeTimestamp = regexp.MustCompile(`[^a-zA-Z0-9_+-]`)
)

// FileConfig holds configuration for the audio content directory
type FileConfig struct {
	BasePath  string
	URLPrefix string // path prefix under which BasePath is served over HTTP
}

// FileRepo stores generated audio on the local filesystem
type FileRepo struct {
	config FileConfig
}

// NewFileRepository creates a new audio file repository.
// The directory itself is created lazily on first write.
func NewFileRepository(config FileConfig) *FileRepo {
	if config.URLPrefix == "" {
		config.URLPrefix = defaultURLPrefix
	}
	config.URLPrefix = "/" + strings.Trim(config.URLPrefix, "/")
	return &FileRepo{config: config}
}

// GenerateAudioFilename derives "<zone>_<timestamp>.mp3" from a snapshot's zone and timestamp.
// It is pure: the same inputs always give the same name.
func GenerateAudioFilename(zone, timestamp string) string {
	cleanZone := nonAlphanumeric.ReplaceAllString(strings.ToLower(zone), "_")
	cleanZone = strings.Trim(cleanZone, "_")
	if cleanZone == "" {
		cleanZone = "zone"
	}

	cleanTimestamp := strings.TrimSpace(timestamp)
	if t, ok := models.ParseSensorTime(timestamp); ok {
		cleanTimestamp = t.Format(filenameTimeFormat)
	}
	cleanTimestamp = strings.NewReplacer(":", "-", ".", "-").Replace(cleanTimestamp)
	cleanTimestamp = unsafeTimestamp.ReplaceAllString(cleanTimestamp, "_")

	return strings.ToLower(cleanZone + "_" + cleanTimestamp + audioFileExtension)
}

// Store writes data to the content directory and returns a servable artifact
func (r *FileRepo) Store(ctx context.Context, data []byte, filename string) (*models.AudioArtifact, error) {
	if err := validateFilename(filename); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewStorageError("audio write cancelled", err)
	}

	if err := createDirectoryIfNotExists(r.config.BasePath); err != nil {
		return nil, err
	}

	filePath := r.Path(filename)
	if err := os.WriteFile(filePath, data, filePermissions); err != nil {
		return nil, errors.NewStorageError("failed to write audio file", err)
	}

	nuts.L.Infof("[FileRepo] Stored audio file: %s (%d bytes)", filePath, len(data))
	return &models.AudioArtifact{
		Filename: filename,
		Path:     path.Join(r.config.URLPrefix, filename),
		Size:     int64(len(data)),
	}, nil
}

// Exists reports whether an audio file with this name is stored
func (r *FileRepo) Exists(ctx context.Context, filename string) (bool, error) {
	if err := validateFilename(filename); err != nil {
		return false, err
	}
	info, err := os.Stat(r.Path(filename))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.NewStorageError("failed to stat audio file", err)
	}
	return !info.IsDir(), nil
}

// Path resolves a filename to its location on disk
func (r *FileRepo) Path(filename string) string {
	return filepath.Join(r.config.BasePath, filepath.Base(filename))
}

// Stream copies a stored audio file to w
func (r *FileRepo) Stream(ctx context.Context, filename string, w io.Writer) (int64, error) {
	if err := validateFilename(filename); err != nil {
		return 0, err
	}
	f, err := os.Open(r.Path(filename))
	if os.IsNotExist(err) {
		return 0, errors.NewNotFoundError("audio file not found", err)
	}
	if err != nil {
		return 0, errors.NewStorageError("failed to open audio file", err)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return n, errors.NewStorageError("failed to stream audio file", err)
	}
	return n, nil
}

// ModTime returns when a stored file was last written
func (r *FileRepo) ModTime(filename string) (time.Time, error) {
	info, err := os.Stat(r.Path(filename))
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func validateFilename(filename string) error {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return errors.NewValidationError(fmt.Sprintf("invalid audio filename %q", filename), nil)
	}
	return nil
}

// createDirectoryIfNotExists is safe to call from concurrent runs
func createDirectoryIfNotExists(dir string) error {
	if err := os.MkdirAll(dir, defaultPermissions); err != nil {
		return errors.NewStorageError("failed to create directory", err)
	}
	return nil
}
