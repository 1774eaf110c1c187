package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/member"
)

// MemberStoreForUpdate defines the store interface needed by UpdateMember and RemoveMember.
type MemberStoreForUpdate interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Update(ctx context.Context, id string, patch storage.Patch) (member.Member, error)
	DeleteConfirmed(ctx context.Context, id, name string) error
}

// UpdateMemberInput carries the fields to change; nil means unchanged.
type UpdateMemberInput struct {
	ID      string
	Name    *string
	Email   *string
	Phone   *string
	Age     *int
	Gender  *string
	Address *string
}

// UpdateMemberDeps holds dependencies for UpdateMember and RemoveMember.
type UpdateMemberDeps struct {
	MemberStore MemberStoreForUpdate
}

// patch returns the set fields keyed by column and the member they produce.
func (in UpdateMemberInput) patch(current member.Member) (storage.Patch, member.Member) {
	p := storage.Patch{}
	next := current
	if in.Name != nil {
		next.Name = strings.TrimSpace(*in.Name)
		p["name"] = next.Name
	}
	if in.Email != nil {
		next.Email = normalizeEmail(*in.Email)
		p["email"] = next.Email
	}
	if in.Phone != nil {
		next.Phone = strings.TrimSpace(*in.Phone)
		p["phone"] = next.Phone
	}
	if in.Age != nil {
		next.Age = *in.Age
		p["age"] = next.Age
	}
	if in.Gender != nil {
		next.Gender = strings.ToLower(strings.TrimSpace(*in.Gender))
		p["gender"] = next.Gender
	}
	if in.Address != nil {
		next.Address = strings.TrimSpace(*in.Address)
		p["address"] = next.Address
	}
	return p, next
}

func (in UpdateMemberInput) isEmpty() bool {
	return in.Name == nil && in.Email == nil && in.Phone == nil && in.Age == nil && in.Gender == nil && in.Address == nil
}

// ExecuteUpdateMember applies a partial update to a member.
// PRE: At least one field is set
// POST: Only the set columns change; the merged member must still validate
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps UpdateMemberDeps) (member.Member, error) {
	if input.isEmpty() {
		return member.Member{}, required("no fields provided for update")
	}

	current, err := deps.MemberStore.GetByID(ctx, input.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return member.Member{}, member.ErrNotFound
	}
	if err != nil {
		return member.Member{}, err
	}

	p, next := input.patch(current)
	if err := next.Validate(); err != nil {
		return member.Member{}, invalid(err)
	}

	updated, err := deps.MemberStore.Update(ctx, input.ID, p)
	if errors.Is(err, storage.ErrNotFound) {
		return member.Member{}, member.ErrNotFound
	}
	if err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "updated", "member_id", input.ID, "fields", p.Columns())
	return updated, nil
}

// ExecuteRemoveMember deletes a member once the caller repeats its exact name.
// PRE: name is non-empty
// POST: Member and its attendance removed, or member.ErrNameMismatch
func ExecuteRemoveMember(ctx context.Context, id, name string, deps UpdateMemberDeps) error {
	if strings.TrimSpace(name) == "" {
		return required("name is required to confirm deletion")
	}
	if err := deps.MemberStore.DeleteConfirmed(ctx, id, name); err != nil {
		return err
	}
	slog.Info("member_event", "event", "removed", "member_id", id)
	return nil
}
