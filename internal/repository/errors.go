// Package repository owns the authoritative reservation collection.  The
// sentinel errors below let higher layers such as the booking service and
// the HTTP handlers distinguish failure scenarios.  ErrSlotConflict
// signals that the target (date, time) is held by a different reservation
// and should become an HTTP 409; ErrReservationNotFound should become a
// 404.
package repository

import "errors"

// ErrReservationNotFound is returned when an operation references a
// reservation id that is not in the collection.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrSlotConflict is returned when a create or reschedule targets a slot
// already occupied by a different reservation.
var ErrSlotConflict = errors.New("slot already occupied")

// ErrDuplicateID is returned when Create receives an id that is already
// stored.  Ids are random UUIDs, so this indicates a caller bug.
var ErrDuplicateID = errors.New("duplicate reservation id")
