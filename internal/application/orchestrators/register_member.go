package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"fitpro/internal/domain/member"
)

// MemberStoreForRegister defines the store interface needed by RegisterMember.
type MemberStoreForRegister interface {
	Create(ctx context.Context, m member.Member) error
}

// RegisterMemberInput carries input for the orchestrator.
type RegisterMemberInput struct {
	Name    string
	Email   string
	Phone   string
	Age     int
	Gender  string
	Address string
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore MemberStoreForRegister
	GenerateID  func() string
}

// ExecuteRegisterMember coordinates member registration.
// PRE: Valid email, non-empty name
// POST: Member created with a generated ID
// INVARIANT: Email must be unique (enforced by store)
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (member.Member, error) {
	m := member.Member{
		ID:      newID(deps.GenerateID),
		Name:    strings.TrimSpace(input.Name),
		Email:   normalizeEmail(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Age:     input.Age,
		Gender:  strings.ToLower(strings.TrimSpace(input.Gender)),
		Address: strings.TrimSpace(input.Address),
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, invalid(err)
	}

	if err := deps.MemberStore.Create(ctx, m); err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "registered", "member_id", m.ID)
	return m, nil
}
