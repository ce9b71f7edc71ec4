// FilePath: internal/repository/sqlrepo/sqlrepo.records.go
package sqlrepo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/itsatony/sensorscore/internal/database"
	"github.com/itsatony/sensorscore/internal/errors"
	"github.com/itsatony/sensorscore/internal/models"
	"github.com/itsatony/sensorscore/internal/repository"
	"github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
)

const DefaultTable = "music_generations"

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var recordColumns = []string{
	"timestamp", "zone",
	"temperature_c", "humidity_pct", "co2_ppm", "voc_index",
	"occupancy", "noise_dba", "productivity_score",
	"trend_10min_co2_ppm_delta", "trend_10min_noise_dba_delta", "trend_10min_productivity_delta",
	"music_brief", "music_prompt", "audio_path", "audio_filename",
	"music_length_ms", "model_id", "generation_timestamp",
}

// RecordRepo stores generation records in PostgreSQL or SQLite
type RecordRepo struct {
	db    database.DB
	table string
}

// NewRecordRepository creates the table and index when missing
func NewRecordRepository(ctx context.Context, db database.DB, table string) (*RecordRepo, error) {
	if table == "" {
		table = DefaultTable
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("%w: table name %q", repository.ErrInvalidInput, table)
	}

	repo := &RecordRepo{db: db, table: table}
	if err := repo.initializeSchema(ctx); err != nil {
		return nil, err
	}
	nuts.L.Infof("[RecordRepo] Using %s table %s", db.Dialect(), table)
	return repo, nil
}

func (r *RecordRepo) Create(ctx context.Context, record *models.GenerationRecord) error {
	if record == nil {
		return errors.NewValidationError("generation record is required", repository.ErrInvalidInput)
	}
	if record.GenerationTimestamp.IsZero() {
		record.GenerationTimestamp = time.Now().UTC()
	}

	placeholders := make([]string, len(recordColumns))
	for i, c := range recordColumns {
		placeholders[i] = ":" + c
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		RETURNING id`,
		r.table, strings.Join(recordColumns, ", "), strings.Join(placeholders, ", "))

	rows, err := r.db.GetDB().NamedQueryContext(ctx, query, record)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "42P01" {
			return errors.NewDatabaseError("generation records table is missing", err)
		}
		return errors.NewDatabaseError("failed to create generation record", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&record.ID); err != nil {
			return errors.NewDatabaseError("failed to read generation record id", err)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.NewDatabaseError("failed to create generation record", err)
	}
	return nil
}

func (r *RecordRepo) List(ctx context.Context, filters models.GenerationFilters) ([]*models.GenerationRecord, error) {
	filters = filters.Normalize()
	records := []*models.GenerationRecord{}

	query := fmt.Sprintf(`SELECT id, %s FROM %s`, strings.Join(recordColumns, ", "), r.table)
	var args []interface{}
	if filters.Zone != "" {
		query += ` WHERE zone = ?`
		args = append(args, filters.Zone)
	}
	query += ` ORDER BY generation_timestamp DESC, id DESC LIMIT ?`
	args = append(args, filters.Limit)

	db := r.db.GetDB()
	if err := db.SelectContext(ctx, &records, db.Rebind(query), args...); err != nil {
		return nil, errors.NewDatabaseError("failed to list generation records", err)
	}
	return records, nil
}

func (r *RecordRepo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", err)
	}
	return nil
}

func (r *RecordRepo) Close() error {
	if err := r.db.Close(); err != nil {
		return errors.NewDatabaseError("failed to close database", err)
	}
	return nil
}

func (r *RecordRepo) initializeSchema(ctx context.Context) error {
	idColumn, realType, timeType := "id BIGSERIAL PRIMARY KEY", "DOUBLE PRECISION", "TIMESTAMPTZ"
	if r.db.Dialect() == database.DialectSQLite {
		idColumn, realType, timeType = "id INTEGER PRIMARY KEY AUTOINCREMENT", "REAL", "TIMESTAMP"
	}

	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			%[2]s,
			timestamp TEXT NOT NULL,
			zone TEXT NOT NULL,
			temperature_c %[3]s NOT NULL DEFAULT 0,
			humidity_pct %[3]s NOT NULL DEFAULT 0,
			co2_ppm %[3]s NOT NULL DEFAULT 0,
			voc_index %[3]s NOT NULL DEFAULT 0,
			occupancy %[3]s NOT NULL DEFAULT 0,
			noise_dba %[3]s NOT NULL DEFAULT 0,
			productivity_score %[3]s NOT NULL DEFAULT 0,
			trend_10min_co2_ppm_delta %[3]s NOT NULL DEFAULT 0,
			trend_10min_noise_dba_delta %[3]s NOT NULL DEFAULT 0,
			trend_10min_productivity_delta %[3]s NOT NULL DEFAULT 0,
			music_brief TEXT NOT NULL,
			music_prompt TEXT NOT NULL,
			audio_path TEXT NOT NULL,
			audio_filename TEXT NOT NULL,
			music_length_ms INTEGER NOT NULL,
			model_id TEXT NOT NULL,
			generation_timestamp %[4]s NOT NULL
		)`, r.table, idColumn, realType, timeType),
		fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_%[1]s_zone_time
		ON %[1]s(zone, generation_timestamp DESC)`, r.table),
		fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_%[1]s_time
		ON %[1]s(generation_timestamp DESC)`, r.table),
	}

	for _, stmt := range statements {
		if _, err := r.db.GetDB().ExecContext(ctx, stmt); err != nil {
			return errors.NewDatabaseError("failed to initialize generation records schema", err)
		}
	}
	return nil
}
