package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"fitpro/internal/adapters/storage"
	classStore "fitpro/internal/adapters/storage/class"
	domain "fitpro/internal/domain/class"
)

// ErrClassNotFound is returned when the class to update does not exist.
var ErrClassNotFound = errors.New("class not found")

// UpdateClassInput carries input for the update-class orchestrator.
type UpdateClassInput struct {
	ID      string
	Changes domain.Changes
}

// UpdateClassDeps holds dependencies for UpdateClass.
type UpdateClassDeps struct {
	ClassStore ClassStoreForSchedule
}

// ExecuteUpdateClass applies a partial update, re-checking the trainer's
// schedule when the window or trainer changes. The class never conflicts
// with its own current window.
// PRE: Changes is non-empty
// POST: Updated class persisted, or *class.ConflictError naming the blocking class
// INVARIANT: Locks are taken class row first, then the target trainer
func ExecuteUpdateClass(ctx context.Context, input UpdateClassInput, deps UpdateClassDeps) (domain.Class, error) {
	if input.Changes.IsEmpty() {
		return domain.Class{}, required("no fields provided to update")
	}
	if input.Changes.Title != nil {
		t := strings.TrimSpace(*input.Changes.Title)
		input.Changes.Title = &t
	}
	if input.Changes.TrainerID != nil {
		id := strings.TrimSpace(*input.Changes.TrainerID)
		input.Changes.TrainerID = &id
	}

	var updated domain.Class
	err := deps.ClassStore.InScheduleTx(ctx, func(tx classStore.ScheduleTx) error {
		current, err := tx.GetByID(ctx, input.ID)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrClassNotFound
		}
		if err != nil {
			return err
		}

		next := input.Changes.Apply(current)
		next.StartAt = next.StartAt.UTC()
		next.EndAt = next.EndAt.UTC()
		if err := next.Validate(); err != nil {
			return invalid(err)
		}

		if input.Changes.TouchesSchedule() {
			if err := tx.LockTrainer(ctx, next.TrainerID); err != nil {
				return err
			}
			existing, err := tx.ListByTrainer(ctx, next.TrainerID)
			if err != nil {
				return err
			}
			if err := domain.CheckConflict(existing, next.StartAt, next.EndAt, next.ID); err != nil {
				return err
			}
		}

		if err := tx.Update(ctx, next); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrClassNotFound
			}
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			slog.Info("class_event", "event", "update_conflict", "class_id", input.ID, "existing_id", conflict.Existing.ID)
		}
		return domain.Class{}, err
	}

	slog.Info("class_event", "event", "updated", "class_id", updated.ID, "trainer_id", updated.TrainerID)
	return updated, nil
}
