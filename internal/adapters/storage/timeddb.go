package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// Querier is the query surface shared by a connection pool and a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLDB is the database interface used by all stores.
type SQLDB interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error)
	Dialect() Dialect
}

// DefaultSlowQuery is the default threshold for slow query warnings.
const DefaultSlowQuery = 50 * time.Millisecond

// QueryObserver receives the timing of every statement, e.g. for a perf dashboard.
type QueryObserver func(label string, elapsed time.Duration)

// TimedDB wraps a *sql.DB to rebind placeholders for its dialect and log slow queries.
// Satisfies the SQLDB interface so it can be passed to any store constructor.
type TimedDB struct {
	db        *sql.DB
	dialect   Dialect
	threshold time.Duration
	observe   QueryObserver
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs queries slower than threshold (DefaultSlowQuery if <= 0)
func NewTimedDB(db *sql.DB, dialect Dialect, threshold time.Duration) *TimedDB {
	if threshold <= 0 {
		threshold = DefaultSlowQuery
	}
	return &TimedDB{db: db, dialect: dialect, threshold: threshold}
}

// RawDB returns the underlying *sql.DB (needed for migrations and pool config).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// Dialect returns the engine behind the pool.
func (t *TimedDB) Dialect() Dialect {
	return t.dialect
}

// Observe registers fn to receive statement timings. Call before serving traffic.
func (t *TimedDB) Observe(fn QueryObserver) {
	t.observe = fn
}

func logQuery(threshold time.Duration, observe QueryObserver, op, query string, start time.Time) {
	elapsed := time.Since(start)
	if observe != nil {
		observe(op+" "+truncate(query, 60), elapsed)
	}
	durationMs := float64(elapsed.Microseconds()) / 1000.0
	if elapsed >= threshold {
		slog.Warn("slow_query", "op", op, "duration_ms", durationMs, "query", truncate(query, 120))
		return
	}
	slog.Debug("query", "op", op, "duration_ms", durationMs)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ExecContext wraps sql.DB.ExecContext with rebinding and timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, slow executions logged
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = t.dialect.Rebind(query)
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	logQuery(t.threshold, t.observe, "ExecContext", query, start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with rebinding and timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = t.dialect.Rebind(query)
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	logQuery(t.threshold, t.observe, "QueryContext", query, start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with rebinding and timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	query = t.dialect.Rebind(query)
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	logQuery(t.threshold, t.observe, "QueryRowContext", query, start)
	return row
}

// BeginTx starts a transaction whose queries are rebound and timed like the pool's.
// PRE: ctx is valid
// POST: transaction started; caller must Commit or Rollback
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	logQuery(t.threshold, t.observe, "BeginTx", "BEGIN", start)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, dialect: t.dialect, threshold: t.threshold, observe: t.observe}, nil
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// Ping verifies the database connection.
func (t *TimedDB) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

// Tx is a transaction with the same rebinding and timing as TimedDB.
type Tx struct {
	tx        *sql.Tx
	dialect   Dialect
	threshold time.Duration
	observe   QueryObserver
}

// Compile-time check that *Tx satisfies Querier.
var _ Querier = (*Tx)(nil)

// Dialect returns the engine the transaction runs on.
func (t *Tx) Dialect() Dialect {
	return t.dialect
}

// ExecContext wraps sql.Tx.ExecContext with rebinding and timing.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = t.dialect.Rebind(query)
	start := time.Now()
	result, err := t.tx.ExecContext(ctx, query, args...)
	logQuery(t.threshold, t.observe, "TxExecContext", query, start)
	return result, err
}

// QueryContext wraps sql.Tx.QueryContext with rebinding and timing.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = t.dialect.Rebind(query)
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	logQuery(t.threshold, t.observe, "TxQueryContext", query, start)
	return rows, err
}

// QueryRowContext wraps sql.Tx.QueryRowContext with rebinding and timing.
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	query = t.dialect.Rebind(query)
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	logQuery(t.threshold, t.observe, "TxQueryRowContext", query, start)
	return row
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. Calling it after Commit is a no-op
// returning sql.ErrTxDone, so it is safe to defer.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
