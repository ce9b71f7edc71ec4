package resources

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/itsatony/sensorscore/internal/errors"
	"github.com/itsatony/sensorscore/internal/models"
	"github.com/itsatony/sensorscore/internal/musicservice"
)

// MusicHandlers encapsulates the generation-related HTTP handlers
type MusicHandlers struct {
	musicservice *musicservice.MusicService
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// generationOptions are the optional composition settings sent next to the readings
type generationOptions struct {
	MusicLengthMs int    `json:"music_length_ms"`
	ModelID       string `json:"model_id"`
}

// @Summary Generate music from a sensor snapshot
// @Description Runs brief, prompt and composition, stores the audio file and records the run
// @Tags music
// @Accept json
// @Produce json
// @Param snapshot body models.SensorSnapshot true "Sensor snapshot plus optional music_length_ms and model_id"
// @Success 200 {object} models.GenerationResult
// @Failure 400 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Failure 502 {object} errors.APIError
// @Router /generate-music [post]
func (h *MusicHandlers) GenerateMusic(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		fail(w, r, err, "")
		return
	}

	var snapshot models.SensorSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		fail(w, r, errors.NewValidationError("invalid request body", err), "")
		return
	}
	var opts generationOptions
	if err := json.Unmarshal(body, &opts); err != nil {
		fail(w, r, errors.NewValidationError("invalid music_length_ms or model_id", err), "")
		return
	}

	result, err := h.musicservice.GenerateMusic(r.Context(), &snapshot, models.ComposeRequest{
		MusicLengthMs: opts.MusicLengthMs,
		ModelID:       opts.ModelID,
	})
	if err != nil {
		fail(w, r, err, "Failed to generate music")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// @Summary Generate a music prompt from a sensor snapshot
// @Description Runs the brief and prompt steps only; nothing is composed or stored
// @Tags music
// @Accept json
// @Produce json
// @Param snapshot body models.SensorSnapshot true "Sensor snapshot"
// @Success 200 {object} models.PromptResult
// @Failure 400 {object} errors.APIError
// @Failure 502 {object} errors.APIError
// @Router /sensor/generate-prompt [post]
func (h *MusicHandlers) GeneratePrompt(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		fail(w, r, err, "")
		return
	}

	var snapshot models.SensorSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		fail(w, r, errors.NewValidationError("invalid request body", err), "")
		return
	}

	result, err := h.musicservice.GeneratePrompt(r.Context(), &snapshot)
	if err != nil {
		fail(w, r, err, "Failed to generate music prompt")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// @Summary Compose music from a prompt
// @Description Returns the composed audio as an mp3 attachment without storing it
// @Tags music
// @Accept json
// @Produce audio/mpeg
// @Param request body models.ComposeRequest true "Prompt and optional duration and model"
// @Success 200 {file} binary
// @Failure 400 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /music/compose [post]
func (h *MusicHandlers) Compose(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		fail(w, r, err, "")
		return
	}

	var req models.ComposeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		fail(w, r, errors.NewValidationError("invalid request body", err), "")
		return
	}

	audio, _, err := h.musicservice.Compose(r.Context(), req)
	if err != nil {
		fail(w, r, err, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Header().Set("Content-Disposition", `attachment; filename="generated-music.mp3"`)
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}

// @Summary List generation history
// @Description Most recent generation records first
// @Tags music
// @Produce json
// @Param zone query string false "Only records of this zone"
// @Param limit query int false "Maximum records (default 100, max 1000)"
// @Success 200 {object} models.HistoryResult
// @Failure 400 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /music/history [get]
func (h *MusicHandlers) History(w http.ResponseWriter, r *http.Request) {
	var filters models.GenerationFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		fail(w, r, errors.NewValidationError("invalid query parameters", err), "")
		return
	}

	result, err := h.musicservice.History(r.Context(), filters)
	if err != nil {
		fail(w, r, err, "Failed to fetch history")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewValidationError("request body too large or unreadable", err)
	}
	if len(body) == 0 {
		return nil, errors.NewValidationError("request body is required", nil)
	}
	return body, nil
}
