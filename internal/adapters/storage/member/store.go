package member

import (
	"context"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	Create(ctx context.Context, m domain.Member) error
	GetByID(ctx context.Context, id string) (domain.Member, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	Update(ctx context.Context, id string, patch storage.Patch) (domain.Member, error)
	DeleteConfirmed(ctx context.Context, id, name string) error
}

// ListFilter carries filtering parameters for List operations.
// Name matches as a case-insensitive substring; Age and Gender match exactly.
type ListFilter struct {
	Name   string
	Age    *int
	Gender string
}

// UpdatableColumns is the allow-list for partial updates.
var UpdatableColumns = map[string]bool{
	"name":    true,
	"email":   true,
	"phone":   true,
	"age":     true,
	"gender":  true,
	"address": true,
}
