package member

import (
	"context"
	"strings"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/member"
)

const memberColumns = "id, name, email, phone, age, gender, address"

// SQLStore implements Store over SQLite or PostgreSQL.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new member Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Create inserts a member.
// PRE: m has been validated
// POST: Row inserted, or domain.ErrDuplicateEmail
func (s *SQLStore) Create(ctx context.Context, m domain.Member) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO member ("+memberColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.Name, m.Email, m.Phone, m.Age, strings.ToLower(m.Gender), m.Address,
	)
	if storage.IsUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return storage.Unavailable("create member", err)
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE id = ?", id)
	m, err := scanMember(row.Scan)
	if err != nil {
		return domain.Member{}, storage.NotFoundIfNoRows("get member", err)
	}
	return m, nil
}

// List returns members matching filter ordered by name.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	query := "SELECT " + memberColumns + " FROM member"
	var where []string
	var args []any
	if filter.Name != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Age != nil {
		where = append(where, "age = ?")
		args = append(args, *filter.Age)
	}
	if filter.Gender != "" {
		where = append(where, "gender = ?")
		args = append(args, strings.ToLower(filter.Gender))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Unavailable("list members", err)
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		m, err := scanMember(rows.Scan)
		if err != nil {
			return nil, storage.Unavailable("list members", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("list members", err)
	}
	return results, nil
}

// Update applies an allow-listed partial update and returns the new row.
// PRE: patch values have been validated
// POST: Row updated, or storage.ErrNotFound / domain.ErrDuplicateEmail
func (s *SQLStore) Update(ctx context.Context, id string, patch storage.Patch) (domain.Member, error) {
	if g, ok := patch["gender"].(string); ok {
		patch["gender"] = strings.ToLower(g)
	}
	set, args, err := patch.SetClause(UpdatableColumns)
	if err != nil {
		return domain.Member{}, err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE member SET "+set+" WHERE id = ?", append(args, id)...)
	if storage.IsUniqueViolation(err) {
		return domain.Member{}, domain.ErrDuplicateEmail
	}
	if err != nil {
		return domain.Member{}, storage.Unavailable("update member", err)
	}
	if err := storage.ExpectAffected("update member", res); err != nil {
		return domain.Member{}, err
	}
	return s.GetByID(ctx, id)
}

// DeleteConfirmed removes a member only when name matches the stored name.
// PRE: id and name are non-empty
// POST: Row removed, or domain.ErrNameMismatch when no row matches both
func (s *SQLStore) DeleteConfirmed(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ? AND name = ?", id, name)
	if err != nil {
		return storage.Unavailable("delete member", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storage.Unavailable("delete member", err)
	}
	if n == 0 {
		return domain.ErrNameMismatch
	}
	return nil
}

func scanMember(scan func(dest ...any) error) (domain.Member, error) {
	var m domain.Member
	err := scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Age, &m.Gender, &m.Address)
	return m, err
}
