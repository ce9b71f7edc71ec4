package resources

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/itsatony/sensorscore/internal/errors"
	"github.com/itsatony/sensorscore/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// AudioHandlers serves stored audio files
type AudioHandlers struct {
	artifacts repository.ArtifactRepository
}

type modTimer interface {
	ModTime(filename string) (time.Time, error)
}

// @Summary Download a generated audio file
// @Tags audio
// @Produce audio/mpeg
// @Param filename path string true "Audio filename"
// @Success 200 {file} binary
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /audio/{filename} [get]
func (h *AudioHandlers) GetAudio(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	exists, err := h.artifacts.Exists(r.Context(), filename)
	if err != nil {
		fail(w, r, err, "failed to read audio file")
		return
	}
	if !exists {
		fail(w, r, errors.NewNotFoundError("audio file not found", nil), "")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	if mt, ok := h.artifacts.(modTimer); ok {
		if t, err := mt.ModTime(filename); err == nil {
			w.Header().Set("Last-Modified", t.UTC().Format(http.TimeFormat))
		}
	}
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	n, err := h.artifacts.Stream(r.Context(), filename, w)
	if err != nil {
		// headers are gone once bytes were written
		if n == 0 {
			fail(w, r, err, "failed to stream audio file")
			return
		}
		nuts.L.Errorf("[API] Streaming %s aborted after %d bytes: %v", filename, n, err)
	}
}
