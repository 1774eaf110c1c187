package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/trainer"
)

// TrainerStore defines the store interface needed by the trainer orchestrators.
type TrainerStore interface {
	Create(ctx context.Context, t trainer.Trainer) error
	GetByID(ctx context.Context, id string) (trainer.Trainer, error)
	Update(ctx context.Context, id string, patch storage.Patch) (trainer.Trainer, error)
}

// CreateTrainerInput carries input for the create-trainer orchestrator.
type CreateTrainerInput struct {
	Name      string
	Specialty string
	Phone     string
	Email     string
}

// TrainerDeps holds dependencies for the trainer orchestrators.
type TrainerDeps struct {
	TrainerStore TrainerStore
	GenerateID   func() string
}

// ExecuteCreateTrainer adds a trainer.
// PRE: Name non-empty, valid email
// POST: Trainer persisted; email unique across trainers
func ExecuteCreateTrainer(ctx context.Context, input CreateTrainerInput, deps TrainerDeps) (trainer.Trainer, error) {
	t := trainer.Trainer{
		ID:        newID(deps.GenerateID),
		Name:      strings.TrimSpace(input.Name),
		Specialty: strings.TrimSpace(input.Specialty),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     normalizeEmail(input.Email),
	}
	if err := t.Validate(); err != nil {
		return trainer.Trainer{}, invalid(err)
	}
	if err := deps.TrainerStore.Create(ctx, t); err != nil {
		return trainer.Trainer{}, err
	}
	slog.Info("trainer_event", "event", "created", "trainer_id", t.ID)
	return t, nil
}

// UpdateTrainerInput carries the fields to change; nil means unchanged.
type UpdateTrainerInput struct {
	ID        string
	Name      *string
	Specialty *string
	Phone     *string
	Email     *string
}

// ExecuteUpdateTrainer applies a partial update to a trainer.
// PRE: At least one field is set
// POST: Only the set columns change; the merged trainer must still validate
func ExecuteUpdateTrainer(ctx context.Context, input UpdateTrainerInput, deps TrainerDeps) (trainer.Trainer, error) {
	p := storage.Patch{}
	set := func(col string, v *string, norm func(string) string) {
		if v != nil {
			p[col] = norm(*v)
		}
	}
	set("name", input.Name, strings.TrimSpace)
	set("specialty", input.Specialty, strings.TrimSpace)
	set("phone", input.Phone, strings.TrimSpace)
	set("email", input.Email, normalizeEmail)
	if len(p) == 0 {
		return trainer.Trainer{}, required("no fields provided for update")
	}

	current, err := deps.TrainerStore.GetByID(ctx, input.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return trainer.Trainer{}, trainer.ErrNotFound
	}
	if err != nil {
		return trainer.Trainer{}, err
	}
	next := current
	for col, v := range p {
		s := v.(string)
		switch col {
		case "name":
			next.Name = s
		case "specialty":
			next.Specialty = s
		case "phone":
			next.Phone = s
		case "email":
			next.Email = s
		}
	}
	if err := next.Validate(); err != nil {
		return trainer.Trainer{}, invalid(err)
	}

	updated, err := deps.TrainerStore.Update(ctx, input.ID, p)
	if errors.Is(err, storage.ErrNotFound) {
		return trainer.Trainer{}, trainer.ErrNotFound
	}
	if err != nil {
		return trainer.Trainer{}, err
	}
	slog.Info("trainer_event", "event", "updated", "trainer_id", input.ID, "fields", p.Columns())
	return updated, nil
}
