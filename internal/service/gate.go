package service

import (
	"context"
	"strings"
	"sync"

	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
	"github.com/iliyamo/meeting-room-scheduler/internal/model"
	"github.com/iliyamo/meeting-room-scheduler/internal/storage"
)

// Actor is the party on whose behalf an operation runs.
type Actor struct {
	Role  model.Role
	Email string
}

// Anonymous is the actor of every unauthenticated request.
var Anonymous = Actor{Role: model.RoleAnonymous}

// IsStaff reports whether the actor holds staff permissions.
func (a Actor) IsStaff() bool { return a.Role.IsStaff() }

// Gate owns the single staff session of the process and classifies who
// is acting.  Login is a local domain-suffix check on a self-asserted
// email; no password or token secret is involved at this level.
type Gate struct {
	mu      sync.RWMutex
	session *model.StaffSession
	store   storage.Adapter
	domain  string
	log     logger.Logger
}

// NewGate restores the persisted session, if any.  A stored session whose
// email no longer matches domain is ignored.
func NewGate(ctx context.Context, store storage.Adapter, domain string, log logger.Logger) (*Gate, error) {
	g := &Gate{store: store, domain: domain, log: logger.OrNop(log)}
	s, err := store.LoadSession(ctx)
	if err != nil {
		return nil, err
	}
	if s != nil {
		if g.allowed(s.Email) {
			g.session = s
			g.log.Infof("restored staff session for %s", s.Email)
		} else {
			g.log.Warnf("ignoring stored session for %s: outside %s", s.Email, domain)
		}
	}
	return g, nil
}

// Domain returns the required email suffix, e.g. "@valdosta.edu".
func (g *Gate) Domain() string { return g.domain }

func (g *Gate) allowed(email string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), strings.ToLower(g.domain))
}

// Login replaces the current session when email ends with the required
// domain suffix, compared case-insensitively.  On any failure the current
// session is left untouched.
func (g *Gate) Login(ctx context.Context, email, displayName string) (model.StaffSession, error) {
	email = strings.TrimSpace(email)
	if !g.allowed(email) {
		return model.StaffSession{}, ErrDomainMismatch
	}
	s := model.StaffSession{Email: email, DisplayName: strings.TrimSpace(displayName)}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.store.SaveSession(ctx, &s); err != nil {
		return model.StaffSession{}, err
	}
	g.session = &s
	g.log.Infof("staff login %s", email)
	return s, nil
}

// Logout clears the current session and its persisted copy.
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.store.SaveSession(ctx, nil); err != nil {
		return err
	}
	if g.session != nil {
		g.log.Infof("staff logout %s", g.session.Email)
	}
	g.session = nil
	return nil
}

// Session returns the current staff session.
func (g *Gate) Session() (model.StaffSession, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return model.StaffSession{}, false
	}
	return *g.session, true
}

// Classify returns RoleStaff while a staff session exists.
func (g *Gate) Classify() model.Role {
	return g.Actor().Role
}

// Actor returns the actor of the single interactive session.
func (g *Gate) Actor() Actor {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return Anonymous
	}
	return Actor{Role: model.RoleStaff, Email: g.session.Email}
}

// ClassifyIdentity returns RoleStaff only when email belongs to the
// current session holder.  Clients presenting an identity from a session
// that has since been logged out are treated as anonymous.
func (g *Gate) ClassifyIdentity(email string) model.Role {
	return g.ActorFor(email).Role
}

// ActorFor resolves the actor for a client asserting email.
func (g *Gate) ActorFor(email string) Actor {
	if email == "" {
		return Anonymous
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil || !g.session.Matches(email) {
		return Anonymous
	}
	return Actor{Role: model.RoleStaff, Email: g.session.Email}
}
