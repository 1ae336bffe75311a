package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/meeting-room-scheduler/internal/model"
)

func TestResolveSlot(t *testing.T) {
	nine := model.Slot{Date: "2024-06-03", Time: "09:00"}
	ten := model.Slot{Date: "2024-06-03", Time: "10:00"}
	bySlot := map[model.Slot]string{nine: "a"}

	tests := []struct {
		name     string
		target   model.Slot
		movingID string
		wantErr  error
	}{
		{"create in open slot", ten, "", nil},
		{"create in taken slot", nine, "", ErrSlotConflict},
		{"move into open slot", ten, "a", nil},
		{"move onto itself", nine, "a", nil},
		{"move onto another reservation", nine, "b", ErrSlotConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := resolveSlot(bySlot, tt.target, tt.movingID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
