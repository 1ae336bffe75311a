// Package queue defines the audit events exchanged over the message broker
// and the publisher and consumer that move them.
package queue

import "github.com/iliyamo/meeting-room-scheduler/internal/model"

// EventType names what happened to a reservation.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// ReservationQueue is the durable queue carrying ReservationEvent messages.
const ReservationQueue = "reservation.events"

// ReservationEvent is published after a reservation mutation commits.  It
// carries the full reservation so the audit consumer never needs to read
// the store.  PreviousSlot is set on updates that moved the reservation.
type ReservationEvent struct {
	Type         EventType         `json:"type"`
	Reservation  model.Reservation `json:"reservation"`
	PreviousSlot *model.Slot       `json:"previous_slot,omitempty"`
	ActorRole    model.Role        `json:"actor_role"`
	ActorEmail   string            `json:"actor_email,omitempty"`
	OccurredAt   string            `json:"occurred_at"`
}
