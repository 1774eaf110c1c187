package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	classStore "fitpro/internal/adapters/storage/class"
	domain "fitpro/internal/domain/class"
)

// ClassStoreForSchedule defines the store interface needed by ScheduleClass and UpdateClass.
type ClassStoreForSchedule interface {
	InScheduleTx(ctx context.Context, fn func(tx classStore.ScheduleTx) error) error
}

// ScheduleClassInput carries input for the schedule-class orchestrator.
type ScheduleClassInput struct {
	Title     string
	TrainerID string
	StartAt   time.Time
	EndAt     time.Time
}

// ScheduleClassDeps holds dependencies for ScheduleClass.
type ScheduleClassDeps struct {
	ClassStore ClassStoreForSchedule
	GenerateID func() string
}

// ExecuteScheduleClass creates a class if the trainer is free for its window.
// PRE: Title non-empty; StartAt < EndAt; trainer exists
// POST: Class persisted, or *class.ConflictError naming the blocking class
// INVARIANT: Conflict check and insert share one transaction holding the trainer lock
func ExecuteScheduleClass(ctx context.Context, input ScheduleClassInput, deps ScheduleClassDeps) (domain.Class, error) {
	c := domain.Class{
		ID:        newID(deps.GenerateID),
		Title:     strings.TrimSpace(input.Title),
		TrainerID: strings.TrimSpace(input.TrainerID),
		StartAt:   input.StartAt.UTC(),
		EndAt:     input.EndAt.UTC(),
	}
	if err := c.Validate(); err != nil {
		return domain.Class{}, invalid(err)
	}

	err := deps.ClassStore.InScheduleTx(ctx, func(tx classStore.ScheduleTx) error {
		if err := tx.LockTrainer(ctx, c.TrainerID); err != nil {
			return err
		}
		existing, err := tx.ListByTrainer(ctx, c.TrainerID)
		if err != nil {
			return err
		}
		if err := domain.CheckConflict(existing, c.StartAt, c.EndAt, ""); err != nil {
			return err
		}
		return tx.Insert(ctx, c)
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			slog.Info("class_event", "event", "schedule_conflict", "trainer_id", c.TrainerID, "existing_id", conflict.Existing.ID)
		}
		return domain.Class{}, err
	}

	slog.Info("class_event", "event", "scheduled", "class_id", c.ID, "trainer_id", c.TrainerID)
	return c, nil
}
