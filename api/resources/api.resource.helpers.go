package resources

import (
	"encoding/json"
	"net/http"

	"github.com/itsatony/sensorscore/api/middleware"
	"github.com/itsatony/sensorscore/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// request bodies are small JSON documents
const maxBodyBytes = 1 << 20

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	if err.Code >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] %s", err.Error())
	} else {
		nuts.L.Warnf("[API] %s", err.Error())
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// fail renders err as an APIError tagged with the request id
func fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	respondWithError(w, errors.Wrap(err, fallback).WithRequestID(middleware.RequestIDFrom(r.Context())))
}

func notAvailable(w http.ResponseWriter, r *http.Request) {
	fail(w, r, errors.NewNotFoundError("not available", nil), "")
}
