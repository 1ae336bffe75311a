// Package storage is the persistence adapter of the reservation engine.
// It reads and writes the whole reservation collection and the staff
// session as two independent records in a key-value substrate.  There are
// no partial updates: every save replaces the previous snapshot and the
// last full write wins.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/meeting-room-scheduler/internal/model"
)

// ErrKeyNotFound is returned by KV implementations when a key is absent.
var ErrKeyNotFound = errors.New("storage: key not found")

const (
	reservationsKey = "room-appts"
	sessionKey      = "staff-user"
)

// KV is the raw key-value substrate.  Implementations must be safe for
// concurrent use.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Adapter loads and saves the durable state of the engine.
type Adapter interface {
	LoadReservations(ctx context.Context) ([]model.Reservation, error)
	SaveReservations(ctx context.Context, all []model.Reservation) error
	LoadSession(ctx context.Context) (*model.StaffSession, error)
	// SaveSession persists s, or removes the stored session when s is nil.
	SaveSession(ctx context.Context, s *model.StaffSession) error
}

// KVAdapter implements Adapter on top of any KV, encoding records as JSON.
type KVAdapter struct {
	kv     KV
	prefix string
}

// NewKVAdapter returns an adapter that namespaces its two keys with prefix.
// An empty prefix stores the bare key names.
func NewKVAdapter(kv KV, prefix string) *KVAdapter {
	return &KVAdapter{kv: kv, prefix: prefix}
}

func (a *KVAdapter) key(name string) string {
	if a.prefix == "" {
		return name
	}
	return a.prefix + ":" + name
}

// LoadReservations returns the stored collection.  A missing record is an
// empty collection, not an error.
func (a *KVAdapter) LoadReservations(ctx context.Context) ([]model.Reservation, error) {
	raw, err := a.kv.Get(ctx, a.key(reservationsKey))
	if errors.Is(err, ErrKeyNotFound) {
		return []model.Reservation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	var out []model.Reservation
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode reservations: %w", err)
	}
	if out == nil {
		out = []model.Reservation{}
	}
	return out, nil
}

// SaveReservations overwrites the stored collection with all.
func (a *KVAdapter) SaveReservations(ctx context.Context, all []model.Reservation) error {
	if all == nil {
		all = []model.Reservation{}
	}
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode reservations: %w", err)
	}
	if err := a.kv.Set(ctx, a.key(reservationsKey), raw); err != nil {
		return fmt.Errorf("save reservations: %w", err)
	}
	return nil
}

// LoadSession returns the stored staff session, or nil when logged out.
func (a *KVAdapter) LoadSession(ctx context.Context) (*model.StaffSession, error) {
	raw, err := a.kv.Get(ctx, a.key(sessionKey))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s model.StaffSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// SaveSession stores s, or deletes the record when s is nil.
func (a *KVAdapter) SaveSession(ctx context.Context, s *model.StaffSession) error {
	if s == nil {
		if err := a.kv.Delete(ctx, a.key(sessionKey)); err != nil && !errors.Is(err, ErrKeyNotFound) {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := a.kv.Set(ctx, a.key(sessionKey), raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
