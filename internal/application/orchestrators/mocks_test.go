package orchestrators

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fitpro/internal/adapters/storage"
	classStore "fitpro/internal/adapters/storage/class"
	"fitpro/internal/domain/account"
	"fitpro/internal/domain/attendance"
	"fitpro/internal/domain/class"
	emailDomain "fitpro/internal/domain/email"
	"fitpro/internal/domain/member"
	"fitpro/internal/domain/trainer"
)

var (
	errStoreDown = fmt.Errorf("list classes: %w: connection refused", storage.ErrUnavailable)
	fixedNow     = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
)

func fixedID(id string) func() string {
	return func() string { return id }
}

func seqID(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func clock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

// --- accounts ---

// mockAccountStore mirrors the conditional updates of the SQL store on a map.
type mockAccountStore struct {
	mu      sync.Mutex
	byEmail map[string]account.Admin
	err     error
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{byEmail: make(map[string]account.Admin)}
}

func (m *mockAccountStore) Create(_ context.Context, a account.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byEmail[a.Email]; ok {
		return account.ErrDuplicateEmail
	}
	m.byEmail[a.Email] = a
	return nil
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return account.Admin{}, m.err
	}
	a, ok := m.byEmail[email]
	if !ok {
		return account.Admin{}, storage.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return account.Admin{}, storage.ErrNotFound
}

func (m *mockAccountStore) ConsumeVerificationToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, a := range m.byEmail {
		if a.VerificationToken != "" && a.ConfirmVerification(token) == nil {
			m.byEmail[email] = a
			return nil
		}
	}
	return account.ErrInvalidOrExpiredToken
}

func (m *mockAccountStore) SetPendingReset(_ context.Context, email, token string, expiry time.Time, pendingHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return account.ErrNoSuchAccount
	}
	a.StartReset(token, expiry, pendingHash)
	m.byEmail[email] = a
	return nil
}

func (m *mockAccountStore) ConsumeResetToken(_ context.Context, token string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, a := range m.byEmail {
		if a.ResetToken != "" && a.ConfirmReset(token, now) == nil {
			m.byEmail[email] = a
			return nil
		}
	}
	return account.ErrInvalidOrExpiredToken
}

func (m *mockAccountStore) UpdateUsername(_ context.Context, id, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, a := range m.byEmail {
		if a.ID == id {
			a.Username = username
			m.byEmail[email] = a
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *mockAccountStore) UpdatePasswordHash(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, a := range m.byEmail {
		if a.ID == id {
			a.PasswordHash = hash
			a.ClearReset()
			m.byEmail[email] = a
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *mockAccountStore) get(email string) account.Admin {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byEmail[email]
}

// seedAdmin stores a verified admin with password pw at bcrypt.MinCost.
func (m *mockAccountStore) seedAdmin(id, email, pw string) account.Admin {
	a := account.Admin{ID: id, Username: "alice", Email: email, Verified: true, CreatedAt: fixedNow}
	if err := a.SetPassword(pw, bcrypt.MinCost); err != nil {
		panic(err)
	}
	m.byEmail[email] = a
	return a
}

type mockNotifier struct {
	sent []emailDomain.Message
	err  error
}

func (n *mockNotifier) Deliver(_ context.Context, msg emailDomain.Message) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type mockIssuer struct {
	claims account.SessionClaims
	ttl    time.Duration
}

func (i *mockIssuer) Issue(claims account.SessionClaims, ttl time.Duration) (string, error) {
	i.claims = claims
	i.ttl = ttl
	return "signed." + claims.AdminID, nil
}

// --- classes ---

// mockClassStore serialises schedule transactions with a mutex, which is the
// behaviour the SQL store gets from its trainer lock.
type mockClassStore struct {
	mu       sync.Mutex
	classes  map[string]class.Class
	trainers map[string]bool
	listErr  error
	locked   []string
}

func newMockClassStore(trainerIDs ...string) *mockClassStore {
	s := &mockClassStore{classes: make(map[string]class.Class), trainers: make(map[string]bool)}
	for _, id := range trainerIDs {
		s.trainers[id] = true
	}
	return s
}

func (s *mockClassStore) add(c class.Class) {
	s.classes[c.ID] = c
}

func (s *mockClassStore) ListByTrainer(_ context.Context, trainerID string) ([]class.Class, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []class.Class
	for _, c := range s.classes {
		if c.TrainerID == trainerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *mockClassStore) InScheduleTx(ctx context.Context, fn func(tx classStore.ScheduleTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &mockScheduleTx{store: s, pending: make(map[string]class.Class)}
	if err := fn(tx); err != nil {
		return err
	}
	for id, c := range tx.pending {
		s.classes[id] = c
	}
	return nil
}

type mockScheduleTx struct {
	store   *mockClassStore
	pending map[string]class.Class
}

func (t *mockScheduleTx) LockTrainer(_ context.Context, trainerID string) error {
	if !t.store.trainers[trainerID] {
		return trainer.ErrNotFound
	}
	t.store.locked = append(t.store.locked, trainerID)
	return nil
}

func (t *mockScheduleTx) GetByID(_ context.Context, id string) (class.Class, error) {
	c, ok := t.store.classes[id]
	if !ok {
		return class.Class{}, storage.ErrNotFound
	}
	return c, nil
}

func (t *mockScheduleTx) ListByTrainer(ctx context.Context, trainerID string) ([]class.Class, error) {
	return t.store.ListByTrainer(ctx, trainerID)
}

func (t *mockScheduleTx) Insert(_ context.Context, c class.Class) error {
	if !t.store.trainers[c.TrainerID] {
		return trainer.ErrNotFound
	}
	t.pending[c.ID] = c
	return nil
}

func (t *mockScheduleTx) Update(_ context.Context, c class.Class) error {
	if _, ok := t.store.classes[c.ID]; !ok {
		return storage.ErrNotFound
	}
	if !t.store.trainers[c.TrainerID] {
		return trainer.ErrNotFound
	}
	t.pending[c.ID] = c
	return nil
}

type mockTrainerLookup map[string]bool

func (m mockTrainerLookup) GetByID(_ context.Context, id string) (trainer.Trainer, error) {
	if !m[id] {
		return trainer.Trainer{}, storage.ErrNotFound
	}
	return trainer.Trainer{ID: id, Name: "T" + id}, nil
}

// --- members, trainers, attendance ---

type mockMemberStore struct {
	byID    map[string]member.Member
	saveErr error
}

func newMockMemberStore() *mockMemberStore {
	return &mockMemberStore{byID: make(map[string]member.Member)}
}

func (m *mockMemberStore) Create(_ context.Context, mem member.Member) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, existing := range m.byID {
		if existing.Email == mem.Email {
			return member.ErrDuplicateEmail
		}
	}
	m.byID[mem.ID] = mem
	return nil
}

func (m *mockMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	mem, ok := m.byID[id]
	if !ok {
		return member.Member{}, storage.ErrNotFound
	}
	return mem, nil
}

func (m *mockMemberStore) Update(_ context.Context, id string, patch storage.Patch) (member.Member, error) {
	mem, ok := m.byID[id]
	if !ok {
		return member.Member{}, storage.ErrNotFound
	}
	for col, v := range patch {
		switch col {
		case "name":
			mem.Name = v.(string)
		case "email":
			mem.Email = v.(string)
		case "phone":
			mem.Phone = v.(string)
		case "age":
			mem.Age = v.(int)
		case "gender":
			mem.Gender = v.(string)
		case "address":
			mem.Address = v.(string)
		default:
			return member.Member{}, &storage.UnknownFieldError{Field: col}
		}
	}
	m.byID[id] = mem
	return mem, nil
}

func (m *mockMemberStore) DeleteConfirmed(_ context.Context, id, name string) error {
	mem, ok := m.byID[id]
	if !ok || mem.Name != name {
		return member.ErrNameMismatch
	}
	delete(m.byID, id)
	return nil
}

type mockTrainerStore struct {
	byID map[string]trainer.Trainer
}

func (m *mockTrainerStore) Create(_ context.Context, t trainer.Trainer) error {
	for _, existing := range m.byID {
		if existing.Email == t.Email {
			return trainer.ErrDuplicateEmail
		}
	}
	m.byID[t.ID] = t
	return nil
}

func (m *mockTrainerStore) GetByID(_ context.Context, id string) (trainer.Trainer, error) {
	t, ok := m.byID[id]
	if !ok {
		return trainer.Trainer{}, storage.ErrNotFound
	}
	return t, nil
}

func (m *mockTrainerStore) Update(_ context.Context, id string, patch storage.Patch) (trainer.Trainer, error) {
	t, ok := m.byID[id]
	if !ok {
		return trainer.Trainer{}, storage.ErrNotFound
	}
	for col, v := range patch {
		s := v.(string)
		switch col {
		case "name":
			t.Name = s
		case "specialty":
			t.Specialty = s
		case "phone":
			t.Phone = s
		case "email":
			t.Email = s
		}
	}
	m.byID[id] = t
	return t, nil
}

type mockAttendanceStore struct {
	byID map[string]attendance.Attendance
}

func (m *mockAttendanceStore) Create(_ context.Context, a attendance.Attendance) error {
	for _, existing := range m.byID {
		if existing.MemberID == a.MemberID && existing.ClassID == a.ClassID {
			return attendance.ErrAlreadyRecorded
		}
	}
	m.byID[a.ID] = a
	return nil
}

func (m *mockAttendanceStore) Update(_ context.Context, id string, patch storage.Patch) (attendance.Attendance, error) {
	a, ok := m.byID[id]
	if !ok {
		return attendance.Attendance{}, storage.ErrNotFound
	}
	if v, ok := patch["member_id"]; ok {
		a.MemberID = v.(string)
	}
	if v, ok := patch["class_id"]; ok {
		a.ClassID = v.(string)
	}
	for otherID, other := range m.byID {
		if otherID != id && other.MemberID == a.MemberID && other.ClassID == a.ClassID {
			return attendance.Attendance{}, attendance.ErrAlreadyRecorded
		}
	}
	m.byID[id] = a
	return a, nil
}

