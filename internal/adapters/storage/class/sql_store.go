package class

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/class"
	trainerDomain "fitpro/internal/domain/trainer"
)

const classColumns = "id, title, trainer_id, start_at, end_at"

// SQLStore implements Store over SQLite or PostgreSQL.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new class Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Class by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Class, error) {
	return getByID(ctx, s.db, id, "")
}

// ListByTrainer returns the trainer's classes ordered by start.
func (s *SQLStore) ListByTrainer(ctx context.Context, trainerID string) ([]domain.Class, error) {
	return listByTrainer(ctx, s.db, trainerID)
}

// List returns classes matching filter with trainer names, ordered by start.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]Listing, error) {
	query := `SELECT c.id, c.title, c.trainer_id, c.start_at, c.end_at, t.name
		FROM class c JOIN trainer t ON t.id = c.trainer_id`
	var where []string
	var args []any
	if filter.Title != "" {
		where = append(where, "LOWER(c.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Title)+"%")
	}
	if filter.TrainerID != "" {
		where = append(where, "c.trainer_id = ?")
		args = append(args, filter.TrainerID)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.start_at, c.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Unavailable("list classes", err)
	}
	defer rows.Close()

	var results []Listing
	for rows.Next() {
		var l Listing
		var start, end string
		if err := rows.Scan(&l.ID, &l.Title, &l.TrainerID, &start, &end, &l.TrainerName); err != nil {
			return nil, storage.Unavailable("list classes", err)
		}
		if l.Class, err = withWindow(l.Class, start, end); err != nil {
			return nil, storage.Unavailable("list classes", err)
		}
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("list classes", err)
	}
	return results, nil
}

// Delete removes a class; its attendance goes with it.
// PRE: id is non-empty
// POST: Row removed, or storage.ErrNotFound
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM class WHERE id = ?", id)
	if err != nil {
		return storage.Unavailable("delete class", err)
	}
	return storage.ExpectAffected("delete class", res)
}

// InScheduleTx runs fn in one transaction and commits only if fn returns nil.
// On SQLite the transaction takes the database write lock at BEGIN; on
// PostgreSQL LockTrainer takes a row lock on the trainer.
// PRE: fn performs all reads it relies on through tx
// POST: fn's writes are committed atomically, or none are
func (s *SQLStore) InScheduleTx(ctx context.Context, fn func(tx ScheduleTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Unavailable("begin schedule tx", err)
	}
	defer tx.Rollback()

	if err := fn(&scheduleTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storage.Unavailable("commit schedule tx", err)
	}
	return nil
}

type scheduleTx struct {
	tx *storage.Tx
}

// LockTrainer takes the trainer's schedule lock.
// POST: Returns trainer.ErrNotFound when the trainer does not exist
func (t *scheduleTx) LockTrainer(ctx context.Context, trainerID string) error {
	var id string
	err := t.tx.QueryRowContext(ctx, "SELECT id FROM trainer WHERE id = ?"+t.tx.Dialect().LockClause(), trainerID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return trainerDomain.ErrNotFound
	}
	return storage.Unavailable("lock trainer", err)
}

// GetByID reads a class and, on PostgreSQL, locks its row.
func (t *scheduleTx) GetByID(ctx context.Context, id string) (domain.Class, error) {
	return getByID(ctx, t.tx, id, t.tx.Dialect().LockClause())
}

func (t *scheduleTx) ListByTrainer(ctx context.Context, trainerID string) ([]domain.Class, error) {
	return listByTrainer(ctx, t.tx, trainerID)
}

func (t *scheduleTx) Insert(ctx context.Context, c domain.Class) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO class ("+classColumns+") VALUES (?, ?, ?, ?, ?)",
		c.ID, c.Title, c.TrainerID, storage.FormatTime(c.StartAt), storage.FormatTime(c.EndAt),
	)
	if storage.IsForeignKeyViolation(err) {
		return trainerDomain.ErrNotFound
	}
	return storage.Unavailable("insert class", err)
}

func (t *scheduleTx) Update(ctx context.Context, c domain.Class) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE class SET title = ?, trainer_id = ?, start_at = ?, end_at = ? WHERE id = ?",
		c.Title, c.TrainerID, storage.FormatTime(c.StartAt), storage.FormatTime(c.EndAt), c.ID,
	)
	if storage.IsForeignKeyViolation(err) {
		return trainerDomain.ErrNotFound
	}
	if err != nil {
		return storage.Unavailable("update class", err)
	}
	return storage.ExpectAffected("update class", res)
}

func getByID(ctx context.Context, q storage.Querier, id, lock string) (domain.Class, error) {
	var c domain.Class
	var start, end string
	err := q.QueryRowContext(ctx, "SELECT "+classColumns+" FROM class WHERE id = ?"+lock, id).
		Scan(&c.ID, &c.Title, &c.TrainerID, &start, &end)
	if err != nil {
		return domain.Class{}, storage.NotFoundIfNoRows("get class", err)
	}
	if c, err = withWindow(c, start, end); err != nil {
		return domain.Class{}, storage.Unavailable("get class", err)
	}
	return c, nil
}

func listByTrainer(ctx context.Context, q storage.Querier, trainerID string) ([]domain.Class, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+classColumns+" FROM class WHERE trainer_id = ? ORDER BY start_at", trainerID)
	if err != nil {
		return nil, storage.Unavailable("list trainer classes", err)
	}
	defer rows.Close()

	var results []domain.Class
	for rows.Next() {
		var c domain.Class
		var start, end string
		if err := rows.Scan(&c.ID, &c.Title, &c.TrainerID, &start, &end); err != nil {
			return nil, storage.Unavailable("list trainer classes", err)
		}
		if c, err = withWindow(c, start, end); err != nil {
			return nil, storage.Unavailable("list trainer classes", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("list trainer classes", err)
	}
	return results, nil
}

func withWindow(c domain.Class, start, end string) (domain.Class, error) {
	var err error
	if c.StartAt, err = storage.ParseTime(start); err != nil {
		return c, fmt.Errorf("class %s: %w", c.ID, err)
	}
	if c.EndAt, err = storage.ParseTime(end); err != nil {
		return c, fmt.Errorf("class %s: %w", c.ID, err)
	}
	return c, nil
}
