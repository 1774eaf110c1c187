package attendance

import (
	"context"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/attendance"
)

// Store persists Attendance state.
type Store interface {
	Create(ctx context.Context, a domain.Attendance) error
	GetByID(ctx context.Context, id string) (domain.Attendance, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Record, error)
	Update(ctx context.Context, id string, patch storage.Patch) (domain.Attendance, error)
	Delete(ctx context.Context, id string) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	MemberID string
	ClassID  string
}

// UpdatableColumns is the allow-list for partial updates.
var UpdatableColumns = map[string]bool{
	"member_id": true,
	"class_id":  true,
}
