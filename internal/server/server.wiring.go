package server

import (
	"context"
	"fmt"
	"time"

	"github.com/itsatony/sensorscore/internal/config"
	"github.com/itsatony/sensorscore/internal/database"
	"github.com/itsatony/sensorscore/internal/elevenlabs"
	"github.com/itsatony/sensorscore/internal/events"
	"github.com/itsatony/sensorscore/internal/llm"
	"github.com/itsatony/sensorscore/internal/musicservice"
	"github.com/itsatony/sensorscore/internal/repository"
	"github.com/itsatony/sensorscore/internal/repository/files"
	"github.com/itsatony/sensorscore/internal/repository/redisrepo"
	"github.com/itsatony/sensorscore/internal/repository/sqlrepo"
	nuts "github.com/vaudience/go-nuts"
)

const recordStoreInitTimeout = 10 * time.Second

// NewMusicService builds the music service from configuration. Missing
// credentials leave the matching collaborator unset; a record store that
// fails to initialize is logged and left unconfigured. The returned func
// releases the record store.
func NewMusicService(ctx context.Context, cfg *config.Config, bus *events.Bus) (*musicservice.MusicService, func(), error) {
	var generator musicservice.BriefGenerator
	if cfg.OpenAI.Configured() {
		generator = llm.NewClient(cfg.OpenAI, nil)
	} else {
		nuts.L.Warnf("[Server] OpenAI API key not configured, generation requests will fail")
	}

	var composer musicservice.MusicComposer
	if cfg.ElevenLabs.Configured() {
		composer = elevenlabs.NewClient(cfg.ElevenLabs)
	} else {
		nuts.L.Warnf("[Server] ElevenLabs API key not configured, composition requests will fail")
	}

	artifacts := files.NewFileRepository(files.FileConfig{
		BasePath:  cfg.FileStore.BasePath,
		URLPrefix: cfg.FileStore.URLPrefix,
	})

	records := initRecordRepository(ctx, cfg.Records)

	svc := musicservice.New(generator, composer, artifacts, records, bus)
	if err := svc.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid music service: %w", err)
	}

	cleanup := func() {
		if records != nil {
			if err := records.Close(); err != nil {
				nuts.L.Warnf("[Server] Closing record store: %v", err)
			}
		}
	}
	return svc, cleanup, nil
}

// initRecordRepository returns nil when no backend is configured or it cannot be reached
func initRecordRepository(ctx context.Context, cfg config.RecordsConfig) repository.GenerationRecordRepository {
	if cfg.Backend == config.BackendNone {
		nuts.L.Infof("[Server] No record store configured, generation history is disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, recordStoreInitTimeout)
	defer cancel()

	records, err := openRecordRepository(ctx, cfg)
	if err != nil {
		nuts.L.Warnf("[Server] Failed to initialize %s record store, database features will not be available: %v", cfg.Backend, err)
		return nil
	}
	return records
}

func openRecordRepository(ctx context.Context, cfg config.RecordsConfig) (repository.GenerationRecordRepository, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		repo, err := sqlrepo.NewRecordRepository(ctx, db, cfg.Table)
		if err != nil {
			db.Close()
			return nil, err
		}
		return repo, nil

	case config.BackendSQLite:
		db, err := database.NewSQLiteDB(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		repo, err := sqlrepo.NewRecordRepository(ctx, db, cfg.Table)
		if err != nil {
			db.Close()
			return nil, err
		}
		return repo, nil

	case config.BackendRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redisrepo.NewRecordRepository(client, cfg.Redis.KeyPrefix), nil
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrNotConfigured, cfg.Backend)
}
