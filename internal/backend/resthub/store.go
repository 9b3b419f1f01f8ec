package resthub

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"tood/internal/config"
	"tood/internal/service"
)

// Store implements service.Repository against the todos table.
// It never filters rows by owner itself: the server's row policy is
// the only authority on what the caller may see or touch.
type Store struct {
	server config.Server
	http   *http.Client
}

// NewStore creates a store client whose requests carry a live bearer
// token from the auth client's token source.
func NewStore(ctx context.Context, server config.Server, auth *AuthClient) *Store {
	hc := oauth2.NewClient(ctx, auth.TokenSource(ctx))
	hc.Timeout = APITimeout
	return &Store{server: server, http: hc}
}

// NewStoreWithHTTPClient creates a store client with a custom HTTP
// client (for testing).
func NewStoreWithHTTPClient(server config.Server, hc *http.Client) *Store {
	return &Store{server: server, http: hc}
}

// taskPatch is the mutable column set for updates. Pointer fields
// serialize explicit nulls so a cleared description or due date clears
// the column rather than leaving it untouched.
type taskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Completed   *bool      `json:"completed,omitempty"`
}

// ListTasks implements service.Repository. Ordering is done by the
// store: creation time descending.
func (s *Store) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	u := s.todosURL(url.Values{
		"select": {"*"},
		"order":  {"created_at.desc"},
	})
	var tasks []service.Task
	if err := doJSON(ctx, s.http, http.MethodGet, u, s.server.Key, nil, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// InsertTask implements service.Repository. ID and timestamps are
// assigned by the store.
func (s *Store) InsertTask(ctx context.Context, t service.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	payload := map[string]any{
		"owner": t.Owner,
		"title": t.Title,
	}
	if t.Description != "" {
		payload["description"] = t.Description
	}
	if t.DueDate != nil {
		payload["due_date"] = t.DueDate
	}

	var rows []service.Task
	u := s.todosURL(nil)
	if err := doJSON(ctx, s.http, http.MethodPost, u, s.server.Key, preferRepresentation, payload, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("insert rejected by the store")
	}
	return nil
}

// UpdateTask implements service.Repository. A row the caller cannot
// see under the store's row policy matches nothing and is reported as
// an error rather than silently succeeding.
func (s *Store) UpdateTask(ctx context.Context, id, title, description string, due *time.Time) error {
	patch := taskPatch{Title: &title, DueDate: due}
	if description != "" {
		patch.Description = &description
	}
	return s.patchOne(ctx, id, patch)
}

// SetCompleted implements service.Repository.
func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) error {
	return s.patchOne(ctx, id, map[string]any{"completed": completed})
}

// DeleteTask implements service.Repository.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var rows []service.Task
	u := s.todosURL(url.Values{"id": {"eq." + id}})
	if err := doJSON(ctx, s.http, http.MethodDelete, u, s.server.Key, preferRepresentation, nil, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no matching task: %s", id)
	}
	return nil
}

func (s *Store) patchOne(ctx context.Context, id string, body any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var rows []service.Task
	u := s.todosURL(url.Values{"id": {"eq." + id}})
	if err := doJSON(ctx, s.http, http.MethodPatch, u, s.server.Key, preferRepresentation, body, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no matching task: %s", id)
	}
	return nil
}

// preferRepresentation asks the store to return the affected rows so
// zero-row mutations are detectable.
var preferRepresentation = map[string]string{"Prefer": "return=representation"}

func (s *Store) todosURL(q url.Values) string {
	u := s.server.URL + restPath + "/todos"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}
