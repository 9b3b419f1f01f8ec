package testutil

import (
	"context"
	"errors"
	"sync"

	"tood/internal/service"
)

// FakeAuth is an in-memory implementation of service.Authenticator for
// testing. A single account is configured up front; session change
// notifications behave like the real collaborator's.
type FakeAuth struct {
	mu        sync.Mutex
	email     string
	password  string
	userID    string
	current   *service.Session
	listeners map[int]func(*service.Session)
	nextID    int

	// Error injection for testing.
	GetSessionErr error
	SignInErr     error
	SignUpErr     error
}

// NewFakeAuth creates a fake auth collaborator with one known account.
func NewFakeAuth(userID, email, password string) *FakeAuth {
	return &FakeAuth{
		email:     email,
		password:  password,
		userID:    userID,
		listeners: make(map[int]func(*service.Session)),
	}
}

// SetCurrent seeds a pre-existing session (signed in before startup).
func (f *FakeAuth) SetCurrent(s *service.Session) {
	f.mu.Lock()
	f.current = s
	f.mu.Unlock()
}

// GetSession implements service.Authenticator.
func (f *FakeAuth) GetSession(ctx context.Context) (*service.Session, error) {
	if f.GetSessionErr != nil {
		return nil, f.GetSessionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

// SignInWithPassword implements service.Authenticator.
func (f *FakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*service.Session, error) {
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	f.mu.Lock()
	if email != f.email || password != f.password {
		f.mu.Unlock()
		return nil, errors.New("invalid login credentials")
	}
	sess := &service.Session{
		UserID:      f.userID,
		Email:       email,
		AccessToken: "fake-token",
	}
	f.current = sess
	f.mu.Unlock()
	f.notify(sess)
	return sess, nil
}

// SignUp implements service.Authenticator.
func (f *FakeAuth) SignUp(ctx context.Context, email, password string) (*service.Session, error) {
	if f.SignUpErr != nil {
		return nil, f.SignUpErr
	}
	f.mu.Lock()
	f.email = email
	f.password = password
	sess := &service.Session{
		UserID:      f.userID,
		Email:       email,
		AccessToken: "fake-token",
	}
	f.current = sess
	f.mu.Unlock()
	f.notify(sess)
	return sess, nil
}

// SignOut implements service.Authenticator.
func (f *FakeAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	f.notify(nil)
	return nil
}

// OnSessionChange implements service.Authenticator.
func (f *FakeAuth) OnSessionChange(fn func(*service.Session)) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// ListenerCount reports how many listeners are registered.
func (f *FakeAuth) ListenerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

func (f *FakeAuth) notify(s *service.Session) {
	f.mu.Lock()
	fns := make([]func(*service.Session), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}
