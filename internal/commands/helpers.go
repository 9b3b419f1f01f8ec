package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"tood/internal/exitcode"
	"tood/internal/service"
)

// ErrTaskRefRequired is returned when a command needs a task reference
// and none was given.
var ErrTaskRefRequired = errors.New("task reference required")

// resolveTask resolves a task reference against the fetched collection.
// A reference is either the 1-based number shown by `tood list` or a
// full task id.
func resolveTask(ctrl *service.Controller, args []string) (service.Task, error) {
	if len(args) == 0 {
		return service.Task{}, ErrTaskRefRequired
	}
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return service.Task{}, ErrTaskRefRequired
	}

	tasks := ctrl.Tasks()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(tasks) {
			return service.Task{}, fmt.Errorf("task number out of range: %d", n)
		}
		return tasks[n-1], nil
	}
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("task not found: %s", ref)
}

// parseDue parses a due date flag value: a bare date or an RFC 3339
// timestamp.
func parseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return &d, nil
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return &d, nil
	}
	return nil, fmt.Errorf("invalid due date: %s (want YYYY-MM-DD or RFC 3339)", s)
}

// fail prints an operation error and maps it onto an exit code.
func fail(errOut io.Writer, err error) int {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrUnauthenticated):
		fmt.Fprintln(errOut, "error: not logged in (run: tood login)")
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// fetch refreshes the controller's snapshot, printing on failure.
func fetch(ctx context.Context, ctrl *service.Controller, errOut io.Writer) (int, bool) {
	if err := ctrl.FetchAll(ctx); err != nil {
		return fail(errOut, err), false
	}
	return exitcode.Success, true
}
