package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
	"github.com/iliyamo/meeting-room-scheduler/internal/model"
	"github.com/iliyamo/meeting-room-scheduler/internal/queue"
	"github.com/iliyamo/meeting-room-scheduler/internal/repository"
	"github.com/iliyamo/meeting-room-scheduler/internal/schedule"
)

// Recorder receives operation outcomes for metrics.
type Recorder interface {
	Observe(op, outcome string)
	SetOccupied(n int)
}

type nopRecorder struct{}

func (nopRecorder) Observe(string, string) {}
func (nopRecorder) SetOccupied(int)        {}

// ReservationInput is a submitted reservation form.  On Edit an empty Date
// or Time keeps the reservation's current value, which allows date-only
// and time-only reschedules.
type ReservationInput struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Date                string `json:"date"`
	Time                string `json:"time"`
	PurposeMessage      string `json:"roomMessage"`
	AdministrativeBlock bool   `json:"isStaffBlock"`
}

// WeekView is the grid of the current week together with its occupants.
type WeekView struct {
	schedule.Grid
	Reservations []model.Reservation `json:"reservations"`
}

// Hours is the inclusive range of bookable hours of a day.
type Hours struct {
	Opening int
	Closing int
}

// DefaultHours is used when Options.Hours is nil.
var DefaultHours = Hours{Opening: 8, Closing: 16}

// Options configures a BookingService.  Zero values fall back to the
// defaults noted on each field.
type Options struct {
	Hours   *Hours          // default DefaultHours
	Policy  *Policy         // default DefaultPolicy(gate.Domain())
	Clock   schedule.Clock  // default schedule.SystemClock
	Events  queue.Publisher // default queue.NopPublisher
	Metrics Recorder        // default no-op
	Logger  logger.Logger
	NewID   func() string // default uuid.NewString
}

// BookingService runs every caller-facing operation through the gate, the
// validation policy and the reservation store, in that order.
type BookingService struct {
	repo    *repository.ReservationRepo
	gate    *Gate
	policy  Policy
	opening int
	closing int
	clock   schedule.Clock
	events  queue.Publisher
	metrics Recorder
	log     logger.Logger
	newID   func() string
}

func NewBookingService(repo *repository.ReservationRepo, gate *Gate, opts Options) *BookingService {
	if repo == nil || gate == nil {
		panic("nil dependency passed to NewBookingService")
	}
	s := &BookingService{
		repo:    repo,
		gate:    gate,
		opening: DefaultHours.Opening,
		closing: DefaultHours.Closing,
		clock:   opts.Clock,
		events:  opts.Events,
		metrics: opts.Metrics,
		log:     logger.OrNop(opts.Logger),
		newID:   opts.NewID,
	}
	if opts.Hours != nil {
		s.opening, s.closing = opts.Hours.Opening, opts.Hours.Closing
	}
	if opts.Policy != nil {
		s.policy = *opts.Policy
	} else {
		s.policy = DefaultPolicy(gate.Domain())
	}
	if s.clock == nil {
		s.clock = schedule.SystemClock{}
	}
	if s.events == nil {
		s.events = queue.NopPublisher{}
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	s.metrics.SetOccupied(repo.Count())
	return s
}

// Gate returns the authorization gate the service consults.
func (s *BookingService) Gate() *Gate { return s.gate }

// Grid returns the bookable grid of the current week.  It is recomputed
// on every call.
func (s *BookingService) Grid() schedule.Grid {
	return schedule.NewGrid(s.clock.Now(), s.opening, s.closing)
}

// Week returns the current grid and the reservations that fall inside it.
func (s *BookingService) Week() WeekView {
	g := s.Grid()
	view := WeekView{Grid: g, Reservations: []model.Reservation{}}
	for _, r := range s.repo.List() {
		if g.Contains(r.Date, r.Time) {
			view.Reservations = append(view.Reservations, r)
		}
	}
	return view
}

// Lookup returns the occupant of (date, time), if any.
func (s *BookingService) Lookup(date, hour string) (model.Reservation, bool) {
	return s.repo.Lookup(date, hour)
}

// Get returns the reservation with the given id.
func (s *BookingService) Get(id string) (model.Reservation, error) {
	return s.repo.Get(id)
}

// List returns every stored reservation.
func (s *BookingService) List() []model.Reservation {
	return s.repo.List()
}

// Book creates a reservation.  Anyone may book an open slot of the current
// week; only staff may place administrative blocks.
func (s *BookingService) Book(ctx context.Context, actor Actor, in ReservationInput) (res model.Reservation, err error) {
	defer func() { s.observe("create", err) }()

	if in.AdministrativeBlock && !actor.IsStaff() {
		return model.Reservation{}, ErrPermissionDenied
	}
	slot := model.Slot{Date: in.Date, Time: in.Time}
	if err := s.policy.CheckSlot(actor, slot, s.Grid()); err != nil {
		return model.Reservation{}, err
	}
	res, err = s.policy.Normalize(model.Reservation{
		ID:                    s.newID(),
		RequesterName:         in.Name,
		RequesterEmail:        in.Email,
		Date:                  in.Date,
		Time:                  in.Time,
		PurposeMessage:        in.PurposeMessage,
		IsAdministrativeBlock: in.AdministrativeBlock,
		Status:                model.StatusOccupied,
	})
	if err != nil {
		return model.Reservation{}, err
	}
	if res, err = s.repo.Create(ctx, res); err != nil {
		return model.Reservation{}, err
	}
	s.log.Infof("reservation %s created at %s (block=%t)", res.ID, res.Slot(), res.IsAdministrativeBlock)
	s.publish(ctx, queue.EventCreated, res, nil, actor)
	return res, nil
}

// Edit replaces the payload of reservation id and may move it to another
// slot.  Staff only.  The id and status never change.
func (s *BookingService) Edit(ctx context.Context, actor Actor, id string, in ReservationInput) (res model.Reservation, err error) {
	defer func() { s.observe("update", err) }()

	if !actor.IsStaff() {
		return model.Reservation{}, ErrPermissionDenied
	}
	current, err := s.repo.Get(id)
	if err != nil {
		return model.Reservation{}, err
	}
	next := model.Reservation{
		ID:                    current.ID,
		RequesterName:         in.Name,
		RequesterEmail:        in.Email,
		Date:                  in.Date,
		Time:                  in.Time,
		PurposeMessage:        in.PurposeMessage,
		IsAdministrativeBlock: in.AdministrativeBlock,
		Status:                model.StatusOccupied,
	}
	if next.Date == "" {
		next.Date = current.Date
	}
	if next.Time == "" {
		next.Time = current.Time
	}
	if err := s.policy.CheckSlot(actor, next.Slot(), s.Grid()); err != nil {
		return model.Reservation{}, err
	}
	if next, err = s.policy.Normalize(next); err != nil {
		return model.Reservation{}, err
	}
	prev, err := s.repo.Update(ctx, next)
	if err != nil {
		return model.Reservation{}, err
	}
	from := prev.Slot()
	s.log.Infof("reservation %s updated %s -> %s", next.ID, from, next.Slot())
	s.publish(ctx, queue.EventUpdated, next, &from, actor)
	return next, nil
}

// Cancel deletes reservation id.  Staff only.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, id string) (res model.Reservation, err error) {
	defer func() { s.observe("delete", err) }()

	if !actor.IsStaff() {
		return model.Reservation{}, ErrPermissionDenied
	}
	if res, err = s.repo.Delete(ctx, id); err != nil {
		return model.Reservation{}, err
	}
	s.log.Infof("reservation %s at %s cancelled", res.ID, res.Slot())
	s.publish(ctx, queue.EventDeleted, res, nil, actor)
	return res, nil
}

func (s *BookingService) observe(op string, err error) {
	outcome := Outcome(err)
	s.metrics.Observe(op, outcome)
	if err == nil {
		s.metrics.SetOccupied(s.repo.Count())
	} else {
		s.log.Debugw("operation rejected", map[string]any{"op": op, "outcome": outcome, "error": err.Error()})
	}
}

// publish emits the audit event for a committed mutation.  Failures are
// logged and swallowed: the mutation has already been persisted.
func (s *BookingService) publish(ctx context.Context, typ queue.EventType, res model.Reservation, from *model.Slot, actor Actor) {
	ev := queue.ReservationEvent{
		Type:         typ,
		Reservation:  res,
		PreviousSlot: from,
		ActorRole:    actor.Role,
		ActorEmail:   actor.Email,
		OccurredAt:   s.clock.Now().UTC().Format(time.RFC3339),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warnf("publish %s event for %s failed: %v", typ, res.ID, err)
	}
}
