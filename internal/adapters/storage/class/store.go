package class

import (
	"context"

	domain "fitpro/internal/domain/class"
)

// Store persists Class state. Writes that must not overlap another class go
// through InScheduleTx so the conflict check and the write commit together.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Class, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]domain.Class, error)
	List(ctx context.Context, filter ListFilter) ([]Listing, error)
	Delete(ctx context.Context, id string) error
	InScheduleTx(ctx context.Context, fn func(tx ScheduleTx) error) error
}

// ScheduleTx is the view of the store inside a scheduling transaction.
// LockTrainer must be called before reading that trainer's classes; the lock
// holds until the transaction ends.
type ScheduleTx interface {
	LockTrainer(ctx context.Context, trainerID string) error
	GetByID(ctx context.Context, id string) (domain.Class, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]domain.Class, error)
	Insert(ctx context.Context, c domain.Class) error
	Update(ctx context.Context, c domain.Class) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Title     string
	TrainerID string
}

// Listing is a class joined with its trainer's name.
type Listing struct {
	domain.Class
	TrainerName string
}
