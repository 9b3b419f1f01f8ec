package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnauthenticated is returned by controller operations invoked
// without a signed-in session. No collaborator call is made.
var ErrUnauthenticated = errors.New("not signed in")

// ValidationError reports a locally rejected input. It is raised
// before any network interaction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Repository is the store collaborator: the authoritative todos table.
// Row ownership is enforced by the store, never by callers; each
// method touches exactly one row (or one full listing).
type Repository interface {
	// ListTasks returns every task visible to the caller, ordered by
	// creation time descending.
	ListTasks(ctx context.Context) ([]Task, error)

	// InsertTask inserts one row. ID and timestamps are store-assigned;
	// the caller fills Owner, Title, Description and DueDate.
	InsertTask(ctx context.Context, t Task) error

	// UpdateTask replaces the mutable fields of the row matching id.
	UpdateTask(ctx context.Context, id, title, description string, due *time.Time) error

	// SetCompleted flips the completed flag of the row matching id.
	SetCompleted(ctx context.Context, id string, completed bool) error

	// DeleteTask deletes the row matching id.
	DeleteTask(ctx context.Context, id string) error
}

// Authenticator is the auth collaborator: session issuance, refresh
// and revocation live on its side of the boundary.
type Authenticator interface {
	// GetSession resolves the current session, or nil if no one is
	// signed in. Expired sessions are refreshed transparently.
	GetSession(ctx context.Context) (*Session, error)

	// SignInWithPassword exchanges credentials for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new user and signs them in.
	SignUp(ctx context.Context, email, password string) (*Session, error)

	// SignOut revokes and forgets the current session.
	SignOut(ctx context.Context) error

	// OnSessionChange registers a listener invoked with the new session
	// (or nil) on every sign-in, sign-up, refresh and sign-out. The
	// returned func detaches the listener.
	OnSessionChange(fn func(*Session)) (unsubscribe func())
}
