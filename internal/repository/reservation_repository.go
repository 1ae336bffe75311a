package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
	"github.com/iliyamo/meeting-room-scheduler/internal/model"
	"github.com/iliyamo/meeting-room-scheduler/internal/storage"
)

// ReservationRepo is the single owner of the reservation collection.  It
// indexes reservations by id and by slot and keeps the invariant that at
// most one reservation occupies any (date, time).
//
// Every mutation holds the write lock across the conflict check, the
// in-memory commit and the full write-through to the persistence adapter,
// so two concurrent creates on the same slot cannot both pass the check
// and readers never observe a half-applied move.  When the write-through
// fails the in-memory change is rolled back and the collection is left
// exactly as it was before the call.
type ReservationRepo struct {
	mu     sync.RWMutex
	byID   map[string]model.Reservation
	bySlot map[model.Slot]string
	store  storage.Adapter
	log    logger.Logger
}

// NewReservationRepo loads the persisted snapshot from store.  When the
// snapshot holds two reservations for the same slot the first one wins and
// the rest are dropped with a warning; they are removed from storage on
// the next write.
func NewReservationRepo(ctx context.Context, store storage.Adapter, log logger.Logger) (*ReservationRepo, error) {
	if store == nil {
		panic("nil storage adapter passed to NewReservationRepo")
	}
	r := &ReservationRepo{
		byID:   make(map[string]model.Reservation),
		bySlot: make(map[model.Slot]string),
		store:  store,
		log:    logger.OrNop(log),
	}
	all, err := store.LoadReservations(ctx)
	if err != nil {
		return nil, err
	}
	for _, res := range all {
		if _, dup := r.byID[res.ID]; dup || res.ID == "" {
			r.log.Warnf("dropping reservation with empty or duplicate id %q", res.ID)
			continue
		}
		if occupant, taken := r.bySlot[res.Slot()]; taken {
			r.log.Warnf("dropping reservation %s: slot %s already held by %s", res.ID, res.Slot(), occupant)
			continue
		}
		r.byID[res.ID] = res
		r.bySlot[res.Slot()] = res.ID
	}
	r.log.Infof("loaded %d reservations", len(r.byID))
	return r, nil
}

// Create stores res after checking that its slot is open.
func (r *ReservationRepo) Create(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return model.Reservation{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[res.ID]; exists {
		return model.Reservation{}, ErrDuplicateID
	}
	if err := resolveSlot(r.bySlot, res.Slot(), ""); err != nil {
		return model.Reservation{}, err
	}

	r.byID[res.ID] = res
	r.bySlot[res.Slot()] = res.ID

	if err := r.persistLocked(ctx); err != nil {
		delete(r.byID, res.ID)
		delete(r.bySlot, res.Slot())
		return model.Reservation{}, err
	}
	return res, nil
}

// Update replaces the reservation with res.ID by res.  The new payload may
// name a different slot, in which case the reservation moves atomically:
// the target is checked before the source is vacated and both indexes
// change inside the same critical section.  It returns the previous
// version of the reservation.
func (r *ReservationRepo) Update(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return model.Reservation{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[res.ID]
	if !ok {
		return model.Reservation{}, ErrReservationNotFound
	}
	if err := resolveSlot(r.bySlot, res.Slot(), res.ID); err != nil {
		return model.Reservation{}, err
	}

	r.apply(prev, res)
	if err := r.persistLocked(ctx); err != nil {
		r.apply(res, prev)
		return model.Reservation{}, err
	}
	return prev, nil
}

// apply swaps from for to in both indexes.  Both must share the same id.
func (r *ReservationRepo) apply(from, to model.Reservation) {
	delete(r.bySlot, from.Slot())
	r.bySlot[to.Slot()] = to.ID
	r.byID[to.ID] = to
}

// Delete removes the reservation with the given id and returns it.
func (r *ReservationRepo) Delete(ctx context.Context, id string) (model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return model.Reservation{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.byID[id]
	if !ok {
		return model.Reservation{}, ErrReservationNotFound
	}
	delete(r.byID, id)
	delete(r.bySlot, res.Slot())

	if err := r.persistLocked(ctx); err != nil {
		r.byID[id] = res
		r.bySlot[res.Slot()] = id
		return model.Reservation{}, err
	}
	return res, nil
}

// Get returns the reservation with the given id.
func (r *ReservationRepo) Get(id string) (model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.byID[id]
	if !ok {
		return model.Reservation{}, ErrReservationNotFound
	}
	return res, nil
}

// Lookup returns the occupant of (date, time), if any.
func (r *ReservationRepo) Lookup(date, hour string) (model.Reservation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySlot[model.Slot{Date: date, Time: hour}]
	if !ok {
		return model.Reservation{}, false
	}
	return r.byID[id], true
}

// List returns a copy of every reservation ordered by date then time.
func (r *ReservationRepo) List() []model.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Count returns the number of occupied slots.
func (r *ReservationRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *ReservationRepo) snapshotLocked() []model.Reservation {
	out := make([]model.Reservation, 0, len(r.byID))
	for _, res := range r.byID {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// persistLocked writes the whole collection through the adapter.  The
// caller must hold the write lock.
func (r *ReservationRepo) persistLocked(ctx context.Context) error {
	if err := r.store.SaveReservations(ctx, r.snapshotLocked()); err != nil {
		r.log.Errorf("write-through failed: %v", err)
		return fmt.Errorf("persist reservations: %w", err)
	}
	return nil
}
