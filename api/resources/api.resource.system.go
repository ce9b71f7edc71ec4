package resources

import (
	"context"
	"net/http"
	"time"

	"github.com/itsatony/sensorscore/internal/repository"
	"github.com/swaggo/swag"
	nuts "github.com/vaudience/go-nuts"
)

const (
	recordsOK           = "ok"
	recordsUnconfigured = "unconfigured"
	recordsError        = "error"

	recordsPingTimeout = 2 * time.Second
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Records   string    `json:"records"`
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func HealthCheck(records repository.GenerationRecordRepository) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, healthResponse{
			Status:    "OK",
			Timestamp: time.Now().UTC(),
			Version:   nuts.GetVersion(),
			Records:   recordsStatus(r.Context(), records),
		})
	}
}

// recordsStatus pings the record store. A failing store does not fail the
// health check since generation still works without it.
func recordsStatus(ctx context.Context, records repository.GenerationRecordRepository) string {
	if records == nil {
		return recordsUnconfigured
	}
	ctx, cancel := context.WithTimeout(ctx, recordsPingTimeout)
	defer cancel()
	if err := records.Ping(ctx); err != nil {
		nuts.L.Warnf("[Health] Record store ping failed: %v", err)
		return recordsError
	}
	return recordsOK
}

// MetricsHandler renders whatever snapshot returns as JSON
func MetricsHandler(snapshot func() interface{}) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, snapshot())
	}
}

// APIDocs serves the registered OpenAPI document
func APIDocs(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		fail(w, r, err, "api documentation not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}
