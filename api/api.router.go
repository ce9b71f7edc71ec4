package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/sensorscore/api/middleware"
	"github.com/itsatony/sensorscore/api/resources"
	_ "github.com/itsatony/sensorscore/docs"
	"github.com/itsatony/sensorscore/internal/errors"
)

type Router struct {
	router    *mux.Router
	resources *resources.Resources
	fallback  http.Handler
}

// NewRouter wires the API routes. Unmatched GET requests outside /api go to
// fallback when it is not nil.
func NewRouter(res *resources.Resources, fallback http.Handler) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: res,
		fallback:  fallback,
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.router.Use(middleware.RequestID)

	api := r.router.PathPrefix("/api").Subrouter()

	// System
	api.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/metrics", r.resources.Metrics).Methods(http.MethodGet)
	api.HandleFunc("/docs/doc.json", resources.APIDocs).Methods(http.MethodGet)

	// Generation
	api.HandleFunc("/generate-music", r.resources.Music.GenerateMusic).Methods(http.MethodPost)
	api.HandleFunc("/sensor/generate-prompt", r.resources.Music.GeneratePrompt).Methods(http.MethodPost)
	api.HandleFunc("/music/compose", r.resources.Music.Compose).Methods(http.MethodPost)
	api.HandleFunc("/music/history", r.resources.Music.History).Methods(http.MethodGet)

	// mux skips middleware on unmatched requests
	api.NotFoundHandler = middleware.RequestID(http.HandlerFunc(apiNotFound))
	api.MethodNotAllowedHandler = middleware.RequestID(http.HandlerFunc(apiMethodNotAllowed))

	// Stored audio
	r.router.HandleFunc("/audio/{filename}", r.resources.Audio.GetAudio).Methods(http.MethodGet, http.MethodHead)

	if r.fallback != nil {
		r.router.PathPrefix("/").Handler(r.fallback).Methods(http.MethodGet, http.MethodHead)
	}
}

func apiNotFound(w http.ResponseWriter, r *http.Request) {
	writeRouteError(w, r, errors.NewNotFoundError("route not found: "+r.Method+" "+r.URL.Path, nil))
}

func apiMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeRouteError(w, r, errors.NewMethodNotAllowedError("method not allowed: "+r.Method+" "+r.URL.Path, nil))
}

func writeRouteError(w http.ResponseWriter, r *http.Request, err *errors.APIError) {
	err = err.WithRequestID(middleware.RequestIDFrom(r.Context()))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
