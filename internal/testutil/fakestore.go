// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tood/internal/service"
)

// ErrNotFound is returned when a row matches nothing, mirroring the
// store's zero-row-affected reporting.
var ErrNotFound = errors.New("no matching task")

// FakeStore is an in-memory implementation of service.Repository for
// testing. It mimics the remote store: ids and timestamps are assigned
// on insert, updated_at is refreshed on every mutation, and listings
// come back ordered by creation time descending.
type FakeStore struct {
	mu    sync.RWMutex
	tasks map[string]service.Task
	now   time.Time

	// Call counters for asserting on network interaction.
	ListCalls   int
	InsertCalls int
	UpdateCalls int
	ToggleCalls int
	DeleteCalls int

	// Error injection for testing.
	ListErr   error
	InsertErr error
	UpdateErr error
	ToggleErr error
	DeleteErr error
}

// NewFakeStore creates an empty fake store.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		tasks: make(map[string]service.Task),
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Seed inserts a task directly, bypassing counters. Returns the
// assigned id.
func (f *FakeStore) Seed(owner, title string, completed bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{
		ID:        uuid.NewString(),
		Owner:     owner,
		Title:     title,
		Completed: completed,
		CreatedAt: f.tick(),
	}
	t.UpdatedAt = t.CreatedAt
	f.tasks[t.ID] = t
	return t.ID
}

// Get returns a stored task by id.
func (f *FakeStore) Get(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	return t, ok
}

// Calls returns the total number of store calls made.
func (f *FakeStore) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ListCalls + f.InsertCalls + f.UpdateCalls + f.ToggleCalls + f.DeleteCalls
}

// ListTasks implements service.Repository.
func (f *FakeStore) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]service.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// InsertTask implements service.Repository.
func (f *FakeStore) InsertTask(ctx context.Context, t service.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InsertCalls++
	if f.InsertErr != nil {
		return f.InsertErr
	}
	t.ID = uuid.NewString()
	t.CreatedAt = f.tick()
	t.UpdatedAt = t.CreatedAt
	f.tasks[t.ID] = t
	return nil
}

// UpdateTask implements service.Repository.
func (f *FakeStore) UpdateTask(ctx context.Context, id, title, description string, due *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	t, ok := f.tasks[id]
	if !ok {
		return ErrNotFound
	}
	t.Title = title
	t.Description = description
	t.DueDate = due
	t.UpdatedAt = f.tick()
	f.tasks[id] = t
	return nil
}

// SetCompleted implements service.Repository.
func (f *FakeStore) SetCompleted(ctx context.Context, id string, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ToggleCalls++
	if f.ToggleErr != nil {
		return f.ToggleErr
	}
	t, ok := f.tasks[id]
	if !ok {
		return ErrNotFound
	}
	t.Completed = completed
	t.UpdatedAt = f.tick()
	f.tasks[id] = t
	return nil
}

// DeleteTask implements service.Repository.
func (f *FakeStore) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if _, ok := f.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

// tick advances the fake clock so creation order is strict.
func (f *FakeStore) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}
