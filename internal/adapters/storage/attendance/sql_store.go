package attendance

import (
	"context"
	"strings"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/attendance"
)

// SQLStore implements Store over SQLite or PostgreSQL.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new attendance Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Create records a member's presence at a class.
// PRE: a has been validated
// POST: Row inserted, or domain.ErrAlreadyRecorded / domain.ErrUnknownReference
func (s *SQLStore) Create(ctx context.Context, a domain.Attendance) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO attendance (id, member_id, class_id, attended_on) VALUES (?, ?, ?, ?)",
		a.ID, a.MemberID, a.ClassID, storage.FormatTime(a.AttendedOn),
	)
	return mapWriteErr("create attendance", err)
}

// GetByID retrieves an Attendance by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Attendance, error) {
	var a domain.Attendance
	var attendedOn string
	err := s.db.QueryRowContext(ctx, "SELECT id, member_id, class_id, attended_on FROM attendance WHERE id = ?", id).
		Scan(&a.ID, &a.MemberID, &a.ClassID, &attendedOn)
	if err != nil {
		return domain.Attendance{}, storage.NotFoundIfNoRows("get attendance", err)
	}
	if a.AttendedOn, err = storage.ParseTime(attendedOn); err != nil {
		return domain.Attendance{}, storage.Unavailable("get attendance", err)
	}
	return a, nil
}

// List returns attendance joined with member and class details, newest class first.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Record, error) {
	query := `SELECT a.id, a.member_id, m.name, a.class_id, c.title, c.start_at, c.end_at, a.attended_on
		FROM attendance a
		JOIN member m ON m.id = a.member_id
		JOIN class c ON c.id = a.class_id`
	var where []string
	var args []any
	if filter.MemberID != "" {
		where = append(where, "a.member_id = ?")
		args = append(args, filter.MemberID)
	}
	if filter.ClassID != "" {
		where = append(where, "a.class_id = ?")
		args = append(args, filter.ClassID)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.start_at DESC, m.name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Unavailable("list attendance", err)
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		var r domain.Record
		var start, end, attendedOn string
		if err := rows.Scan(&r.ID, &r.MemberID, &r.MemberName, &r.ClassID, &r.ClassTitle, &start, &end, &attendedOn); err != nil {
			return nil, storage.Unavailable("list attendance", err)
		}
		if r.StartAt, err = storage.ParseTime(start); err != nil {
			return nil, storage.Unavailable("list attendance", err)
		}
		if r.EndAt, err = storage.ParseTime(end); err != nil {
			return nil, storage.Unavailable("list attendance", err)
		}
		if r.AttendedOn, err = storage.ParseTime(attendedOn); err != nil {
			return nil, storage.Unavailable("list attendance", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("list attendance", err)
	}
	return results, nil
}

// Update moves an attendance record to another member or class. The
// (member, class) uniqueness is enforced by the table.
// PRE: patch names member_id and/or class_id
// POST: Row updated, or storage.ErrNotFound / domain.ErrAlreadyRecorded / domain.ErrUnknownReference
func (s *SQLStore) Update(ctx context.Context, id string, patch storage.Patch) (domain.Attendance, error) {
	set, args, err := patch.SetClause(UpdatableColumns)
	if err != nil {
		return domain.Attendance{}, err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE attendance SET "+set+" WHERE id = ?", append(args, id)...)
	if err != nil {
		return domain.Attendance{}, mapWriteErr("update attendance", err)
	}
	if err := storage.ExpectAffected("update attendance", res); err != nil {
		return domain.Attendance{}, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes an attendance record.
// PRE: id is non-empty
// POST: Row removed, or storage.ErrNotFound
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM attendance WHERE id = ?", id)
	if err != nil {
		return storage.Unavailable("delete attendance", err)
	}
	return storage.ExpectAffected("delete attendance", res)
}

func mapWriteErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case storage.IsUniqueViolation(err):
		return domain.ErrAlreadyRecorded
	case storage.IsForeignKeyViolation(err):
		return domain.ErrUnknownReference
	default:
		return storage.Unavailable(op, err)
	}
}
