// Package storagetest opens migrated databases for store tests.
package storagetest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fitpro/internal/adapters/storage"
)

// PostgresEnv names the variable holding a disposable PostgreSQL URL.
const PostgresEnv = "FITPRO_TEST_POSTGRES_URL"

// OpenSQLite opens a migrated SQLite database in a temp dir. A file is used
// rather than :memory: because every pooled connection to :memory: sees its
// own empty database.
func OpenSQLite(t *testing.T) *storage.TimedDB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fitpro_test.db")
	db, err := storage.Open(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// OpenPostgres opens the database named by FITPRO_TEST_POSTGRES_URL, skipping
// the test when it is unset. Tables are emptied before the test runs.
func OpenPostgres(t *testing.T) *storage.TimedDB {
	t.Helper()
	dsn := os.Getenv(PostgresEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresEnv)
	}
	db, err := storage.Open(context.Background(), dsn, 0)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := db.ExecContext(context.Background(), "TRUNCATE attendance, class, member, trainer, admin CASCADE"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Engines returns the engines available to this run, keyed by name, for
// tests that should pass on both.
func Engines(t *testing.T) map[string]func(*testing.T) *storage.TimedDB {
	t.Helper()
	engines := map[string]func(*testing.T) *storage.TimedDB{"sqlite": OpenSQLite}
	if os.Getenv(PostgresEnv) != "" {
		engines["postgres"] = OpenPostgres
	}
	return engines
}
