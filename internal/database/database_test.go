package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/itsatony/sensorscore/internal/config"
)

func TestNewSQLiteDB_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "records.db")

	db, err := NewSQLiteDB(config.SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if db.Dialect() != DialectSQLite {
		t.Errorf("unexpected dialect %s", db.Dialect())
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("expected parent dir to exist: %v", err)
	}
}

func TestNewSQLiteDB_RequiresPath(t *testing.T) {
	if _, err := NewSQLiteDB(config.SQLiteConfig{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Fatal("expected connection error")
	}
}
