// Package resthub implements the auth and store collaborator contracts
// against a hosted Postgres backend: GoTrue-style token endpoints for
// sessions and a PostgREST-style todos table for tasks. Row-level
// ownership is enforced entirely on the server side.
package resthub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// APITimeout is the timeout for collaborator calls.
	APITimeout = 10 * time.Second

	authPath = "/auth/v1"
	restPath = "/rest/v1"
)

// apiError is the error payload shape shared (loosely) by both
// collaborators. GoTrue uses msg/error_description, PostgREST message.
type apiError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error"`
}

func (e *apiError) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDescription, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return ""
}

// doJSON issues a JSON request and decodes the response into out (when
// out is non-nil). Every request carries the project key; extra
// headers come from the caller.
func doJSON(ctx context.Context, hc *http.Client, method, url, apiKey string, headers map[string]string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("invalid response: %w", err)
		}
	}
	return nil
}

// statusError turns a non-2xx response into an error carrying the
// server's own message when one is present.
func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("session expired or revoked (run: tood login)")
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload apiError
	if err := json.Unmarshal(data, &payload); err == nil {
		if msg := payload.text(); msg != "" {
			return fmt.Errorf("%s (status %d)", msg, resp.StatusCode)
		}
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("not found")
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

// wrapError maps transport failures to user-facing messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}
	return err
}
