package testbed

import (
	"github.com/explorationlab/explorations/internal/auth"
	"github.com/explorationlab/explorations/internal/models"
)

// Session is the caller the test client acts as.
type Session struct {
	Email        string
	UserID       string
	IsSuperAdmin bool
}

func (s Session) IsAnonymous() bool {
	return s.UserID == ""
}

func (s Session) Identity() models.Identity {
	return models.Identity{Email: s.Email, UserID: s.UserID, IsSuperAdmin: s.IsSuperAdmin}
}

// Environment holds the current session and a single stash slot.
type Environment struct {
	ids     auth.IdentityProvider
	current Session
	stashed *Session
	// stashGen identifies the pending stash so a stale guard cannot restore
	// a newer one.
	stashGen uint64
}

func NewEnvironment(ids auth.IdentityProvider) *Environment {
	return &Environment{ids: ids}
}

// Login makes email the current caller, replacing any previous one.
func (e *Environment) Login(email string, isSuperAdmin bool) Session {
	e.current = Session{
		Email:        email,
		UserID:       e.ids.DeriveID(email),
		IsSuperAdmin: isSuperAdmin,
	}
	return e.current
}

// Logout makes the caller anonymous.
func (e *Environment) Logout() {
	e.current = Session{}
}

func (e *Environment) Current() Session {
	return e.current
}

// Stash saves the current session for a later Restore. The current session
// is left as it is.
func (e *Environment) Stash() (*StashGuard, error) {
	if e.stashed != nil {
		return nil, ErrNoActiveSession
	}
	saved := e.current
	e.stashed = &saved
	e.stashGen++
	return &StashGuard{env: e, gen: e.stashGen}, nil
}

// Restore brings back the stashed session and empties the slot.
func (e *Environment) Restore() error {
	if e.stashed == nil {
		return ErrNothingStashed
	}
	e.current = *e.stashed
	e.stashed = nil
	return nil
}

// Stashed reports whether a stash is pending.
func (e *Environment) Stashed() bool {
	return e.stashed != nil
}

// StashGuard restores the session saved by Stash. Restore may be called
// any number of times, typically through defer.
type StashGuard struct {
	env  *Environment
	gen  uint64
	done bool
}

func (g *StashGuard) Restore() error {
	if g.done {
		return nil
	}
	g.done = true
	if g.env.stashed == nil || g.env.stashGen != g.gen {
		return nil
	}
	return g.env.Restore()
}
