package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/meeting-room-scheduler/internal/repository"
)

// ErrDomainMismatch is returned by Login when the email does not end with
// the institution's domain suffix.
var ErrDomainMismatch = errors.New("email is not an institutional address")

// ErrPermissionDenied is returned when an anonymous requester attempts an
// operation reserved for staff.
var ErrPermissionDenied = errors.New("permission denied")

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// Store errors surface unchanged through the service.
var (
	ErrSlotConflict = repository.ErrSlotConflict
	ErrNotFound     = repository.ErrReservationNotFound
)

// ValidationError names the submitted field that failed a constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Outcome classifies err into a short label for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrSlotConflict):
		return "conflict"
	case errors.Is(err, ErrPermissionDenied):
		return "forbidden"
	case errors.Is(err, ErrDomainMismatch):
		return "domain_mismatch"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
