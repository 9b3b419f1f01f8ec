package commands_test

import (
	"bytes"
	"context"
	"testing"

	"tood/internal/commands"
	"tood/internal/config"
	"tood/internal/exitcode"
	"tood/internal/service"
	"tood/internal/testutil"
)

// signedInController builds a controller over a FakeStore with a
// resolved session, the state commands run in after dispatch.
func signedInController(store *testutil.FakeStore) *service.Controller {
	ctrl := service.NewController(store)
	ctrl.SetSession(&service.Session{UserID: "user-1", Email: "ana@example.com"})
	return ctrl
}

// runCommand is a helper to run a command against a controller.
func runCommand(t *testing.T, cmd commands.Command, ctrl *service.Controller, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, ctrl, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "tood 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !bytes.Contains([]byte(stdout), []byte("Usage:")) {
		t.Error("help output should contain 'Usage:'")
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Seed("user-1", "Buy milk", false)
	store.Seed("user-1", "Buy eggs", false)

	cmd := &commands.ListCmd{}
	cmd.SetFilter("all")
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	// Newest first.
	expected := "   1  [ ] Buy eggs\n   2  [ ] Buy milk\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.ListCmd{}
	cmd.SetFilter("all")
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected 'no tasks found\\n', got %q", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.ListCmd{}
	cmd.SetFilter("all")
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_FilterKeepsNumbersStable(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Seed("user-1", "Buy milk", false)
	store.Seed("user-1", "Buy eggs", true)

	// Full collection: 1 = Buy eggs (completed), 2 = Buy milk.
	cmd := &commands.ListCmd{}
	cmd.SetFilter("active")
	stdout, _, code := runCommand(t, cmd, signedInController(store), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   2  [ ] Buy milk\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}

	cmd = &commands.ListCmd{}
	cmd.SetFilter("completed")
	stdout, _, code = runCommand(t, cmd, signedInController(store), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected = "   1  [x] Buy eggs\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_InvalidFilter(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.ListCmd{}
	cmd.SetFilter("done")
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: invalid filter: done\n" {
		t.Errorf("expected invalid filter error, got %q", stderr)
	}
}

func TestListCommand_BackendFailure(t *testing.T) {
	store := testutil.NewFakeStore()
	store.ListErr = context.DeadlineExceeded

	cmd := &commands.ListCmd{}
	cmd.SetFilter("all")
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: backend error: context deadline exceeded\n" {
		t.Errorf("expected backend error, got %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	store := testutil.NewFakeStore()
	ctrl := signedInController(store)

	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, ctrl, []string{"Buy", "groceries"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	// The controller refetched after the insert.
	tasks := ctrl.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Buy groceries" {
		t.Errorf("expected title 'Buy groceries', got %q", tasks[0].Title)
	}
	if tasks[0].Owner != "user-1" {
		t.Errorf("expected owner 'user-1', got %q", tasks[0].Owner)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), []string{"Buy", "milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: title required\n" {
		t.Errorf("expected title required error, got %q", stderr)
	}
	if store.Calls() != 0 {
		t.Errorf("expected no store calls, got %d", store.Calls())
	}
}

func TestAddCommand_BadDueDate(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.AddCmd{}
	cmd.SetDue("soon")
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), []string{"Picnic"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: invalid due date: soon (want YYYY-MM-DD or RFC 3339)\n" {
		t.Errorf("expected invalid due date error, got %q", stderr)
	}
	if store.Calls() != 0 {
		t.Errorf("expected no store calls, got %d", store.Calls())
	}
}

func TestAddCommand_WithDescriptionAndDue(t *testing.T) {
	store := testutil.NewFakeStore()
	ctrl := signedInController(store)

	cmd := &commands.AddCmd{}
	cmd.SetDesc("in the park")
	cmd.SetDue("2025-07-04")
	_, stderr, code := runCommand(t, cmd, ctrl, []string{"Picnic"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	task := ctrl.Tasks()[0]
	if task.Description != "in the park" {
		t.Errorf("expected description, got %q", task.Description)
	}
	if task.DueDate == nil || task.DueDate.Format("2006-01-02") != "2025-07-04" {
		t.Errorf("expected due date 2025-07-04, got %v", task.DueDate)
	}
}

// Tests for done command
func TestDoneCommand_Success(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Seed("user-1", "Buy milk", false)
	idEggs := store.Seed("user-1", "Buy eggs", false)

	cmd := &commands.DoneCmd{}
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	// Number 1 is the newest task.
	eggs, ok := store.Get(idEggs)
	if !ok || !eggs.Completed {
		t.Errorf("expected 'Buy eggs' completed, got %+v", eggs)
	}
}

func TestDoneCommand_TogglesBack(t *testing.T) {
	store := testutil.NewFakeStore()
	id := store.Seed("user-1", "Buy milk", true)

	cmd := &commands.DoneCmd{}
	_, _, code := runCommand(t, cmd, signedInController(store), []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	task, _ := store.Get(id)
	if task.Completed {
		t.Error("expected done on a completed task to reactivate it")
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.DoneCmd{}
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected task reference required error, got %q", stderr)
	}
}

func TestDoneCommand_OutOfRange(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Seed("user-1", "Only task", false)

	cmd := &commands.DoneCmd{}
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), []string{"5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: task number out of range: 5\n" {
		t.Errorf("expected out of range error, got %q", stderr)
	}
}

func TestDoneCommand_UnknownID(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Seed("user-1", "Only task", false)

	cmd := &commands.DoneCmd{}
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), []string{"ghost"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: task not found: ghost\n" {
		t.Errorf("expected task not found error, got %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	store := testutil.NewFakeStore()
	idMilk := store.Seed("user-1", "Buy milk", false)
	store.Seed("user-1", "Buy eggs", false)

	ctrl := signedInController(store)
	cmd := &commands.RmCmd{}
	stdout, stderr, code := runCommand(t, cmd, ctrl, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	if _, ok := store.Get(idMilk); ok {
		t.Error("expected 'Buy milk' to be deleted")
	}
	if len(ctrl.Tasks()) != 1 {
		t.Errorf("expected 1 task remaining, got %d", len(ctrl.Tasks()))
	}
}

func TestRmCommand_NoRef(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.RmCmd{}
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected task reference required error, got %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand_Title(t *testing.T) {
	store := testutil.NewFakeStore()
	id := store.Seed("user-1", "Buy milk", false)

	ctrl := signedInController(store)
	cmd := &commands.EditCmd{}
	cmd.SetTitle("Buy oat milk")
	stdout, stderr, code := runCommand(t, cmd, ctrl, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	task, _ := store.Get(id)
	if task.Title != "Buy oat milk" {
		t.Errorf("expected updated title, got %q", task.Title)
	}
}

func TestEditCommand_KeepsUnsetFields(t *testing.T) {
	store := testutil.NewFakeStore()
	id := store.Seed("user-1", "Buy milk", false)

	ctrl := signedInController(store)
	cmd := &commands.EditCmd{}
	cmd.SetDesc("semi-skimmed")
	_, stderr, code := runCommand(t, cmd, ctrl, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	task, _ := store.Get(id)
	if task.Title != "Buy milk" {
		t.Errorf("expected title unchanged, got %q", task.Title)
	}
	if task.Description != "semi-skimmed" {
		t.Errorf("expected description set, got %q", task.Description)
	}
}

func TestEditCommand_NothingToChange(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Seed("user-1", "Buy milk", false)

	cmd := &commands.EditCmd{}
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: nothing to change\n" {
		t.Errorf("expected nothing to change error, got %q", stderr)
	}
}

// Tests for show command
func TestShowCommand_Success(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Seed("user-1", "Buy milk", true)

	cmd := &commands.ShowCmd{}
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "title: Buy milk\nstatus: completed\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestShowCommand_NoRef(t *testing.T) {
	store := testutil.NewFakeStore()

	cmd := &commands.ShowCmd{}
	stdout, stderr, code := runCommand(t, cmd, signedInController(store), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected task reference required error, got %q", stderr)
	}
}

// Tests for login command
func TestLoginCommand_MissingFlags(t *testing.T) {
	cmd := &commands.LoginCmd{}
	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: --email and --password are required\n" {
		t.Errorf("expected missing flags error, got %q", stderr)
	}
}

// Tests for logout command
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.LogoutCmd{}
	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", stdout)
	}
}
