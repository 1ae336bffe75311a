package repository

import "github.com/iliyamo/meeting-room-scheduler/internal/model"

// resolveSlot decides whether a reservation may be placed at target.
// movingID is the id of the reservation being rescheduled, or "" for a
// create.  The placement is admissible when the slot is open or when its
// only occupant is the moving reservation itself.  The slot index holds at
// most one id per slot, so there is never more than one occupant to
// compare.  Date-only and time-only moves go through the same key check.
func resolveSlot(bySlot map[model.Slot]string, target model.Slot, movingID string) error {
	occupant, taken := bySlot[target]
	if !taken {
		return nil
	}
	if movingID != "" && occupant == movingID {
		return nil
	}
	return ErrSlotConflict
}
