package trainer_test

import (
	"errors"
	"strings"
	"testing"

	"fitpro/internal/domain/trainer"
)

func TestTrainerValidation(t *testing.T) {
	tests := []struct {
		name    string
		trainer trainer.Trainer
		wantErr error
	}{
		{"valid", trainer.Trainer{Name: "Sam", Specialty: "Spin", Email: "sam@gym.test"}, nil},
		{"empty name", trainer.Trainer{Email: "sam@gym.test"}, trainer.ErrEmptyName},
		{"long name", trainer.Trainer{Name: strings.Repeat("s", 101), Email: "sam@gym.test"}, trainer.ErrNameTooLong},
		{"long specialty", trainer.Trainer{Name: "Sam", Specialty: strings.Repeat("s", 101), Email: "sam@gym.test"}, trainer.ErrSpecialtyTooLong},
		{"bad email", trainer.Trainer{Name: "Sam", Email: "sam"}, trainer.ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.trainer.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Trainer.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
