package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// sqlitePragmas enable WAL, foreign keys and a busy timeout. _txlock=immediate
// makes every transaction take the write lock at BEGIN, which serializes
// check-then-insert sequences across connections.
const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)&_txlock=immediate"

// SQLiteDSN appends the connection pragmas to a SQLite path.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

// Open connects to dsn, verifies the connection and applies pending migrations.
// PRE: dsn is a SQLite path or a postgres:// URL
// POST: Returns a migrated, timed connection pool
func Open(ctx context.Context, dsn string, slowQuery time.Duration) (*TimedDB, error) {
	dialect := DialectFor(dsn)
	source := dsn
	if dialect == SQLite {
		source = SQLiteDSN(dsn)
	}

	db, err := sql.Open(dialect.DriverName(), source)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if err := MigrateDB(db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return NewTimedDB(db, dialect, slowQuery), nil
}
