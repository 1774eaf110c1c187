package trainer

import (
	"context"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/trainer"
)

// Store persists Trainer state.
type Store interface {
	Create(ctx context.Context, t domain.Trainer) error
	GetByID(ctx context.Context, id string) (domain.Trainer, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Trainer, error)
	Update(ctx context.Context, id string, patch storage.Patch) (domain.Trainer, error)
	Delete(ctx context.Context, id string) error
}

// ListFilter carries filtering parameters for List operations.
// Name and Specialty match case-insensitively as substrings.
type ListFilter struct {
	Name      string
	Specialty string
}

// UpdatableColumns is the allow-list for partial updates.
var UpdatableColumns = map[string]bool{
	"name":      true,
	"specialty": true,
	"phone":     true,
	"email":     true,
}
