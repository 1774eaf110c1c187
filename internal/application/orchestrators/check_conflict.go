package orchestrators

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/class"
	trainerDomain "fitpro/internal/domain/trainer"
)

// ClassStoreForConflict defines the store interface needed by CheckConflict.
type ClassStoreForConflict interface {
	ListByTrainer(ctx context.Context, trainerID string) ([]domain.Class, error)
}

// TrainerStoreForConflict confirms the trainer exists before scanning.
type TrainerStoreForConflict interface {
	GetByID(ctx context.Context, id string) (trainerDomain.Trainer, error)
}

// CheckConflictInput carries a proposed window for one trainer.
type CheckConflictInput struct {
	TrainerID string
	StartAt   time.Time
	EndAt     time.Time
	ExcludeID string
}

// CheckConflictResult reports whether the window is free and, if not, what blocks it.
type CheckConflictResult struct {
	Conflict bool
	Existing domain.Class
}

// CheckConflictDeps holds dependencies for CheckConflict.
type CheckConflictDeps struct {
	ClassStore   ClassStoreForConflict
	TrainerStore TrainerStoreForConflict
}

// ExecuteCheckConflict answers whether a trainer is free for [StartAt, EndAt).
// It takes no lock; writers re-check inside ExecuteScheduleClass and ExecuteUpdateClass.
// PRE: StartAt < EndAt; TrainerID names an existing trainer
// POST: Conflict is true iff some class of the trainer, other than ExcludeID, overlaps the window
// INVARIANT: A store failure is returned as an error, never as a free window
func ExecuteCheckConflict(ctx context.Context, input CheckConflictInput, deps CheckConflictDeps) (CheckConflictResult, error) {
	trainerID := strings.TrimSpace(input.TrainerID)
	if trainerID == "" {
		return CheckConflictResult{}, invalid(domain.ErrEmptyTrainerID)
	}
	if err := domain.ValidateWindow(input.StartAt, input.EndAt); err != nil {
		return CheckConflictResult{}, invalid(err)
	}

	if deps.TrainerStore != nil {
		if _, err := deps.TrainerStore.GetByID(ctx, trainerID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return CheckConflictResult{}, trainerDomain.ErrNotFound
			}
			return CheckConflictResult{}, err
		}
	}

	existing, err := deps.ClassStore.ListByTrainer(ctx, trainerID)
	if err != nil {
		return CheckConflictResult{}, err
	}
	c, ok := domain.FindConflict(existing, input.StartAt, input.EndAt, input.ExcludeID)
	return CheckConflictResult{Conflict: ok, Existing: c}, nil
}
