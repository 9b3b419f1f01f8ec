package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Controller mediates every task operation between a surface and the
// store collaborator. It holds a read-only snapshot of the task
// collection, refreshed after every successful mutation, and a single
// current-error slot overwritten by each failure.
//
// Mutations are not serialized against each other; overlapping edits
// resolve by store-side last-write-wins.
type Controller struct {
	repo Repository

	mu      sync.Mutex
	session *Session
	tasks   []Task
	filter  Filter
	lastErr string
}

// NewController creates a controller over the given repository.
func NewController(repo Repository) *Controller {
	return &Controller{
		repo:   repo,
		filter: FilterAll,
	}
}

// SetSession replaces the tracked session.
func (c *Controller) SetSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// Session returns the tracked session, or nil.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// OnSessionChange applies a session transition: a new session triggers
// a fetch, a nil session clears the local collection without touching
// the store. Suitable as a session.Tracker subscriber.
func (c *Controller) OnSessionChange(ctx context.Context, s *Session) {
	c.mu.Lock()
	hadSession := c.session != nil
	c.session = s
	if s == nil {
		c.tasks = nil
		c.lastErr = ""
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if !hadSession {
		_ = c.FetchAll(ctx)
	}
}

// Tasks returns the last-fetched collection.
func (c *Controller) Tasks() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// SetFilter selects the visible subset. Purely local.
func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
}

// Filter returns the current filter selection.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Visible returns the filtered view of the last-fetched collection,
// preserving its order. Never touches the store.
func (c *Controller) Visible() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Apply(c.tasks)
}

// Err returns the current error message, empty if none.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ClearErr resets the current-error slot.
func (c *Controller) ClearErr() {
	c.mu.Lock()
	c.lastErr = ""
	c.mu.Unlock()
}

// FetchAll refreshes the snapshot from the store. On failure the
// previous collection stays visible.
func (c *Controller) FetchAll(ctx context.Context) error {
	if _, err := c.requireSession(); err != nil {
		return err
	}
	tasks, err := c.repo.ListTasks(ctx)
	if err != nil {
		c.setErr(err)
		return err
	}
	c.mu.Lock()
	c.tasks = tasks
	c.lastErr = ""
	c.mu.Unlock()
	return nil
}

// Create validates and inserts a new task, then refetches.
func (c *Controller) Create(ctx context.Context, title, description string, due *time.Time) error {
	sess, err := c.requireSession()
	if err != nil {
		return err
	}
	title, err = validTitle(title)
	if err != nil {
		c.setErr(err)
		return err
	}
	t := Task{
		Owner:       sess.UserID,
		Title:       title,
		Description: strings.TrimSpace(description),
		DueDate:     normalizeDue(due),
	}
	if err := c.repo.InsertTask(ctx, t); err != nil {
		c.setErr(err)
		return err
	}
	return c.FetchAll(ctx)
}

// Update validates and rewrites the task matching id, then refetches.
// Updates against rows the caller does not own are rejected by the
// store's row policy.
func (c *Controller) Update(ctx context.Context, id, title, description string, due *time.Time) error {
	if _, err := c.requireSession(); err != nil {
		return err
	}
	title, err := validTitle(title)
	if err != nil {
		c.setErr(err)
		return err
	}
	if err := c.repo.UpdateTask(ctx, id, title, strings.TrimSpace(description), normalizeDue(due)); err != nil {
		c.setErr(err)
		return err
	}
	return c.FetchAll(ctx)
}

// ToggleCompleted flips the completed flag of exactly one task, then
// refetches.
func (c *Controller) ToggleCompleted(ctx context.Context, t Task) error {
	if _, err := c.requireSession(); err != nil {
		return err
	}
	if err := c.repo.SetCompleted(ctx, t.ID, !t.Completed); err != nil {
		c.setErr(err)
		return err
	}
	return c.FetchAll(ctx)
}

// Remove deletes exactly one task, then refetches.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if _, err := c.requireSession(); err != nil {
		return err
	}
	if err := c.repo.DeleteTask(ctx, id); err != nil {
		c.setErr(err)
		return err
	}
	return c.FetchAll(ctx)
}

// requireSession returns the session validated under the lock. Callers
// must use the returned session rather than re-reading c.session, which
// a concurrent sign-out may have cleared in the meantime.
func (c *Controller) requireSession() (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		c.lastErr = ErrUnauthenticated.Error()
		return nil, ErrUnauthenticated
	}
	return c.session, nil
}

func (c *Controller) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err.Error()
	c.mu.Unlock()
}

// validTitle trims the title and rejects empty results.
func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return title, nil
}

// normalizeDue widens a bare date to midnight UTC of that day.
// Values with a clock component pass through unchanged.
func normalizeDue(due *time.Time) *time.Time {
	if due == nil {
		return nil
	}
	h, m, s := due.Clock()
	if h == 0 && m == 0 && s == 0 && due.Nanosecond() == 0 {
		d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	d := due.UTC()
	return &d
}
