// Package session tracks the authenticated session over time: one
// initial resolution against the auth collaborator, then replacement
// on every auth-state change.
package session

import (
	"context"
	"sync"

	"tood/internal/service"
)

// Tracker observes the auth collaborator and exposes "current session
// or none" to the rest of the system.
type Tracker struct {
	auth service.Authenticator

	mu        sync.Mutex
	current   *service.Session
	loading   bool
	started   bool
	subs      map[int]func(*service.Session)
	nextSubID int
	detach    func()
}

// NewTracker creates a tracker. The session is considered absent (and
// loading) until Start resolves the initial check.
func NewTracker(auth service.Authenticator) *Tracker {
	return &Tracker{
		auth:    auth,
		loading: true,
		subs:    make(map[int]func(*service.Session)),
	}
}

// Start runs the initial session check exactly once and registers the
// auth-change listener. Subsequent calls return the tracked session
// without touching the collaborator again.
func (t *Tracker) Start(ctx context.Context) (*service.Session, error) {
	t.mu.Lock()
	if t.started {
		s := t.current
		t.mu.Unlock()
		return s, nil
	}
	t.started = true
	t.mu.Unlock()

	sess, err := t.auth.GetSession(ctx)

	t.mu.Lock()
	t.loading = false
	if err == nil {
		t.current = sess
	}
	t.detach = t.auth.OnSessionChange(t.set)
	t.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Close detaches the auth-change listener. Must be called when the
// controlling surface is torn down.
func (t *Tracker) Close() {
	t.mu.Lock()
	detach := t.detach
	t.detach = nil
	t.mu.Unlock()
	if detach != nil {
		detach()
	}
}

// Current returns the tracked session, or nil.
func (t *Tracker) Current() *service.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Loading reports whether the initial session check is still pending.
func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Subscribe registers a subscriber invoked on every session
// replacement. The returned func detaches it.
func (t *Tracker) Subscribe(fn func(*service.Session)) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextSubID
	t.nextSubID++
	t.subs[id] = fn
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

// set replaces the tracked session unconditionally and fans out to
// subscribers.
func (t *Tracker) set(s *service.Session) {
	t.mu.Lock()
	t.current = s
	t.loading = false
	fns := make([]func(*service.Session), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}
