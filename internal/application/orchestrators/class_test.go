package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/class"
	"fitpro/internal/domain/trainer"
)

var classDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func hm(hour, minute int) time.Time {
	return classDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Trainer 7 teaches 10:00-11:00; 10:30-11:30 conflicts, 11:00-12:00 does not.
func TestTrainerSevenScenario(t *testing.T) {
	store := newMockClassStore("7")
	store.add(class.Class{ID: "spin", Title: "Spin", TrainerID: "7", StartAt: hm(10, 0), EndAt: hm(11, 0)})
	checkDeps := CheckConflictDeps{ClassStore: store, TrainerStore: mockTrainerLookup{"7": true}}

	got, err := ExecuteCheckConflict(context.Background(), CheckConflictInput{TrainerID: "7", StartAt: hm(10, 30), EndAt: hm(11, 30)}, checkDeps)
	require.NoError(t, err)
	assert.True(t, got.Conflict)
	assert.Equal(t, "spin", got.Existing.ID)

	got, err = ExecuteCheckConflict(context.Background(), CheckConflictInput{TrainerID: "7", StartAt: hm(11, 0), EndAt: hm(12, 0)}, checkDeps)
	require.NoError(t, err)
	assert.False(t, got.Conflict)

	deps := ScheduleClassDeps{ClassStore: store, GenerateID: fixedID("yoga")}
	_, err = ExecuteScheduleClass(context.Background(), ScheduleClassInput{Title: "Yoga", TrainerID: "7", StartAt: hm(10, 30), EndAt: hm(11, 30)}, deps)
	var conflict *class.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "spin", conflict.Existing.ID)
	assert.Equal(t, "Spin", conflict.Existing.Title)
	assert.Len(t, store.classes, 1)

	created, err := ExecuteScheduleClass(context.Background(), ScheduleClassInput{Title: "Yoga", TrainerID: "7", StartAt: hm(11, 0), EndAt: hm(12, 0)}, deps)
	require.NoError(t, err)
	assert.Equal(t, "yoga", created.ID)
	assert.Len(t, store.classes, 2)
}

func TestExecuteCheckConflict_Failures(t *testing.T) {
	store := newMockClassStore("7")
	deps := CheckConflictDeps{ClassStore: store, TrainerStore: mockTrainerLookup{"7": true}}

	_, err := ExecuteCheckConflict(context.Background(), CheckConflictInput{TrainerID: "7", StartAt: hm(11, 0), EndAt: hm(10, 0)}, deps)
	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, class.ErrInvalidWindow)

	_, err = ExecuteCheckConflict(context.Background(), CheckConflictInput{TrainerID: "9", StartAt: hm(10, 0), EndAt: hm(11, 0)}, deps)
	assert.ErrorIs(t, err, trainer.ErrNotFound)

	store.listErr = errStoreDown
	_, err = ExecuteCheckConflict(context.Background(), CheckConflictInput{TrainerID: "7", StartAt: hm(10, 0), EndAt: hm(11, 0)}, deps)
	assert.ErrorIs(t, err, storage.ErrUnavailable, "store failure is never a free window")
}

func TestExecuteScheduleClass_Validation(t *testing.T) {
	store := newMockClassStore("7")
	deps := ScheduleClassDeps{ClassStore: store}

	tests := []struct {
		name  string
		input ScheduleClassInput
		want  error
	}{
		{"empty title", ScheduleClassInput{TrainerID: "7", StartAt: hm(10, 0), EndAt: hm(11, 0)}, class.ErrEmptyTitle},
		{"missing trainer", ScheduleClassInput{Title: "Spin", StartAt: hm(10, 0), EndAt: hm(11, 0)}, class.ErrEmptyTrainerID},
		{"zero length", ScheduleClassInput{Title: "Spin", TrainerID: "7", StartAt: hm(10, 0), EndAt: hm(10, 0)}, class.ErrInvalidWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExecuteScheduleClass(context.Background(), tt.input, deps)
			assert.True(t, IsValidation(err))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ExecuteScheduleClass(context.Background(), ScheduleClassInput{Title: "Spin", TrainerID: "9", StartAt: hm(10, 0), EndAt: hm(11, 0)}, deps)
	assert.ErrorIs(t, err, trainer.ErrNotFound)
	assert.Empty(t, store.classes)
}

// Concurrent overlapping creates for one trainer: exactly one wins.
func TestExecuteScheduleClass_ConcurrentOverlap(t *testing.T) {
	store := newMockClassStore("7")
	ids := make(chan string, 16)
	for i := 0; i < 16; i++ {
		ids <- fmt.Sprintf("c%d", i)
	}
	deps := ScheduleClassDeps{ClassStore: store, GenerateID: func() string { return <-ids }}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			start := hm(10, offset*5)
			_, err := ExecuteScheduleClass(context.Background(), ScheduleClassInput{Title: "Spin", TrainerID: "7", StartAt: start, EndAt: start.Add(time.Hour)}, deps)
			if err == nil {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Len(t, store.classes, 1)
}

func TestExecuteUpdateClass(t *testing.T) {
	newStore := func() *mockClassStore {
		s := newMockClassStore("7", "8")
		s.add(class.Class{ID: "spin", Title: "Spin", TrainerID: "7", StartAt: hm(10, 0), EndAt: hm(11, 0)})
		s.add(class.Class{ID: "yoga", Title: "Yoga", TrainerID: "7", StartAt: hm(11, 0), EndAt: hm(12, 0)})
		s.add(class.Class{ID: "box", Title: "Box", TrainerID: "8", StartAt: hm(10, 0), EndAt: hm(11, 0)})
		return s
	}
	ptr := func(v time.Time) *time.Time { return &v }
	str := func(v string) *string { return &v }

	t.Run("shifting within own window does not self-conflict", func(t *testing.T) {
		store := newStore()
		got, err := ExecuteUpdateClass(context.Background(), UpdateClassInput{ID: "spin", Changes: class.Changes{EndAt: ptr(hm(10, 45))}}, UpdateClassDeps{ClassStore: store})
		require.NoError(t, err)
		assert.Equal(t, hm(10, 45), got.EndAt)
		assert.Equal(t, hm(10, 45), store.classes["spin"].EndAt)
	})

	t.Run("extending into the next class conflicts", func(t *testing.T) {
		store := newStore()
		_, err := ExecuteUpdateClass(context.Background(), UpdateClassInput{ID: "spin", Changes: class.Changes{EndAt: ptr(hm(11, 30))}}, UpdateClassDeps{ClassStore: store})
		var conflict *class.ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "yoga", conflict.Existing.ID)
		assert.Equal(t, hm(11, 0), store.classes["spin"].EndAt, "unchanged on conflict")
	})

	t.Run("moving to a busy trainer conflicts", func(t *testing.T) {
		store := newStore()
		_, err := ExecuteUpdateClass(context.Background(), UpdateClassInput{ID: "spin", Changes: class.Changes{TrainerID: str("8")}}, UpdateClassDeps{ClassStore: store})
		assert.ErrorIs(t, err, class.ErrSchedulingConflict)
		assert.Equal(t, []string{"8"}, store.locked)
	})

	t.Run("title only skips the schedule check", func(t *testing.T) {
		store := newStore()
		got, err := ExecuteUpdateClass(context.Background(), UpdateClassInput{ID: "spin", Changes: class.Changes{Title: str("HIIT")}}, UpdateClassDeps{ClassStore: store})
		require.NoError(t, err)
		assert.Equal(t, "HIIT", got.Title)
		assert.Empty(t, store.locked)
	})

	t.Run("empty changes", func(t *testing.T) {
		_, err := ExecuteUpdateClass(context.Background(), UpdateClassInput{ID: "spin"}, UpdateClassDeps{ClassStore: newStore()})
		assert.True(t, IsValidation(err))
	})

	t.Run("missing class", func(t *testing.T) {
		_, err := ExecuteUpdateClass(context.Background(), UpdateClassInput{ID: "ghost", Changes: class.Changes{Title: str("x")}}, UpdateClassDeps{ClassStore: newStore()})
		assert.ErrorIs(t, err, ErrClassNotFound)
	})

	t.Run("window inverted by partial change", func(t *testing.T) {
		_, err := ExecuteUpdateClass(context.Background(), UpdateClassInput{ID: "spin", Changes: class.Changes{StartAt: ptr(hm(11, 30))}}, UpdateClassDeps{ClassStore: newStore()})
		assert.ErrorIs(t, err, class.ErrInvalidWindow)
		assert.True(t, IsValidation(err))
	})
}
