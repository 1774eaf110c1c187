package trainer

import (
	"context"
	"strings"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/trainer"
)

const trainerColumns = "id, name, specialty, phone, email"

// SQLStore implements Store over SQLite or PostgreSQL.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new trainer Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Create inserts a trainer.
// PRE: t has been validated
// POST: Row inserted, or domain.ErrDuplicateEmail
func (s *SQLStore) Create(ctx context.Context, t domain.Trainer) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO trainer ("+trainerColumns+") VALUES (?, ?, ?, ?, ?)",
		t.ID, t.Name, t.Specialty, t.Phone, t.Email,
	)
	if storage.IsUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return storage.Unavailable("create trainer", err)
}

// GetByID retrieves a Trainer by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Trainer, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+trainerColumns+" FROM trainer WHERE id = ?", id)
	t, err := scanTrainer(row.Scan)
	if err != nil {
		return domain.Trainer{}, storage.NotFoundIfNoRows("get trainer", err)
	}
	return t, nil
}

// List returns trainers matching filter ordered by name.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Trainer, error) {
	query := "SELECT " + trainerColumns + " FROM trainer"
	var where []string
	var args []any
	if filter.Name != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Specialty != "" {
		where = append(where, "LOWER(specialty) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Specialty)+"%")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Unavailable("list trainers", err)
	}
	defer rows.Close()

	var results []domain.Trainer
	for rows.Next() {
		t, err := scanTrainer(rows.Scan)
		if err != nil {
			return nil, storage.Unavailable("list trainers", err)
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("list trainers", err)
	}
	return results, nil
}

// Update applies an allow-listed partial update and returns the new row.
// PRE: patch values have been validated
// POST: Row updated, or storage.ErrNotFound / domain.ErrDuplicateEmail
func (s *SQLStore) Update(ctx context.Context, id string, patch storage.Patch) (domain.Trainer, error) {
	set, args, err := patch.SetClause(UpdatableColumns)
	if err != nil {
		return domain.Trainer{}, err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE trainer SET "+set+" WHERE id = ?", append(args, id)...)
	if storage.IsUniqueViolation(err) {
		return domain.Trainer{}, domain.ErrDuplicateEmail
	}
	if err != nil {
		return domain.Trainer{}, storage.Unavailable("update trainer", err)
	}
	if err := storage.ExpectAffected("update trainer", res); err != nil {
		return domain.Trainer{}, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes a trainer; their classes go with them.
// PRE: id is non-empty
// POST: Row removed, or storage.ErrNotFound
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trainer WHERE id = ?", id)
	if err != nil {
		return storage.Unavailable("delete trainer", err)
	}
	return storage.ExpectAffected("delete trainer", res)
}

func scanTrainer(scan func(dest ...any) error) (domain.Trainer, error) {
	var t domain.Trainer
	err := scan(&t.ID, &t.Name, &t.Specialty, &t.Phone, &t.Email)
	return t, err
}
