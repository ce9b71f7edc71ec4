// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/itsatony/sensorscore/api"
	"github.com/itsatony/sensorscore/api/middleware"
	"github.com/itsatony/sensorscore/api/resources"
	"github.com/itsatony/sensorscore/internal/config"
	"github.com/itsatony/sensorscore/internal/events"
	"github.com/itsatony/sensorscore/internal/models"
	"github.com/itsatony/sensorscore/internal/monitoring"
	"github.com/itsatony/sensorscore/internal/musicservice"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config       *config.Config
	srv          *http.Server
	musicservice *musicservice.MusicService
	monitoring   *monitoring.Service
	events       *events.Bus
	cleanup      func()
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
	}
}

// Handler initializes services and returns the complete HTTP handler
func (s *Server) Handler(ctx context.Context) (http.Handler, error) {
	s.events = events.NewBus()
	s.monitoring = monitoring.NewService()
	s.monitoring.Attach(s.events)
	s.setupEventHandlers()

	svc, cleanup, err := NewMusicService(ctx, s.config, s.events)
	if err != nil {
		return nil, err
	}
	s.musicservice = svc
	s.cleanup = cleanup

	res := resources.NewResources(svc, svc.Artifacts)
	res.SetMetrics(resources.MetricsHandler(func() interface{} {
		return s.monitoring.Snapshot()
	}))

	router := api.NewRouter(res, newSPAHandler(s.config.Server.StaticDir))
	return s.wrap(router), nil
}

// wrap adds CORS, panic recovery and access logging
func (s *Server) wrap(h http.Handler) http.Handler {
	h = handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader, "Content-Disposition"}),
	)(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return handlers.CombinedLoggingHandler(os.Stdout, h)
}

// Start begins listening for requests
func (s *Server) Start() error {
	handler, err := s.Handler(context.Background())
	if err != nil {
		return err
	}
	s.srv.Handler = handler

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	if s.cleanup != nil {
		s.cleanup()
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) setupEventHandlers() {
	s.events.Subscribe(events.GenerationCompleted, "server_log", func(e models.GenerationEvent) {
		nuts.L.Infof("[Events] Generation %s for zone %s stored as %s", e.RunID, e.Zone, e.Filename)
	})

	s.events.Subscribe(events.RecordFailed, "server_log", func(e models.GenerationEvent) {
		nuts.L.Warnf("[Events] Record for %s (zone %s) was not saved: %s", e.Filename, e.Zone, e.Error)
	})
}
