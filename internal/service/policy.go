package service

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/iliyamo/meeting-room-scheduler/internal/model"
	"github.com/iliyamo/meeting-room-scheduler/internal/schedule"
)

// DefaultBlockPurpose fills the purpose of an administrative block
// submitted without one.
const DefaultBlockPurpose = "Reserved for administrative purposes"

// Policy holds the field-level constraints applied to a submitted
// reservation.
type Policy struct {
	MinPurposeLength    int
	DefaultBlockPurpose string
	StaffName           string
	StaffEmail          string
}

// DefaultPolicy returns the standard constraints for an institution whose
// staff addresses end with domain.
func DefaultPolicy(domain string) Policy {
	return Policy{
		MinPurposeLength:    10,
		DefaultBlockPurpose: DefaultBlockPurpose,
		StaffName:           "STAFF",
		StaffEmail:          "staff" + domain,
	}
}

// Normalize validates r and returns the version to store.  Ordinary
// bookings need a purpose of at least MinPurposeLength characters, counted
// as submitted, that is not only whitespace, and a non-empty requester
// name and email.  The purpose is stored unchanged.  Administrative blocks skip these
// checks: their identity is replaced by the staff sentinel and an empty
// purpose becomes DefaultBlockPurpose.
func (p Policy) Normalize(r model.Reservation) (model.Reservation, error) {
	r.RequesterName = strings.TrimSpace(r.RequesterName)
	r.RequesterEmail = strings.TrimSpace(r.RequesterEmail)

	if r.IsAdministrativeBlock {
		if strings.TrimSpace(r.PurposeMessage) == "" {
			r.PurposeMessage = p.DefaultBlockPurpose
		}
		r.RequesterName = p.StaffName
		r.RequesterEmail = p.StaffEmail
		return r, nil
	}

	if utf8.RuneCountInString(r.PurposeMessage) < p.MinPurposeLength {
		return r, invalid("roomMessage", "must be at least "+strconv.Itoa(p.MinPurposeLength)+" characters")
	}
	if strings.TrimSpace(r.PurposeMessage) == "" {
		return r, invalid("roomMessage", "must not be blank")
	}
	if r.RequesterName == "" {
		return r, invalid("name", "is required")
	}
	if r.RequesterEmail == "" {
		return r, invalid("email", "is required")
	}
	return r, nil
}

// CheckSlot verifies that slot is addressable in grid.  Staff may place
// reservations on any well-formed date; requesters are limited to the
// current week.
func (p Policy) CheckSlot(actor Actor, slot model.Slot, grid schedule.Grid) error {
	if !schedule.ValidDate(slot.Date) {
		return invalid("date", "must be formatted YYYY-MM-DD")
	}
	if !grid.HasTime(slot.Time) {
		return invalid("time", "is not a bookable hour")
	}
	if !actor.IsStaff() && !grid.HasDate(slot.Date) {
		return invalid("date", "is not a weekday of the current week")
	}
	return nil
}
