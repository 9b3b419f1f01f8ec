package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tood/internal/config"
	"tood/internal/exitcode"
	"tood/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Unset flags keep the task's
// current values, mirroring a pre-filled edit form.
type EditCmd struct {
	title    string
	titleSet bool
	desc     string
	descSet  bool
	due      string
	dueSet   bool
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(title string) {
	c.title = title
	c.titleSet = true
}

// SetDesc sets the new description (for testing).
func (c *EditCmd) SetDesc(desc string) {
	c.desc = desc
	c.descSet = true
}

// SetDue sets the new due date value (for testing).
func (c *EditCmd) SetDue(due string) {
	c.due = due
	c.dueSet = true
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "tood edit [--title <text>] [--desc <text>] [--due <date>] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Func("title", "", func(s string) error { c.SetTitle(s); return nil })
	fs.Func("desc", "", func(s string) error { c.SetDesc(s); return nil })
	fs.Func("due", "", func(s string) error { c.SetDue(s); return nil })
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, ctrl *service.Controller, args []string, out, errOut io.Writer) int {
	if code, ok := fetch(ctx, ctrl, errOut); !ok {
		return code
	}

	task, err := resolveTask(ctrl, args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// Pre-fill from the task's current fields, then apply overrides.
	title := task.Title
	if c.titleSet {
		title = c.title
	}
	desc := task.Description
	if c.descSet {
		desc = c.desc
	}
	due := task.DueDate
	if c.dueSet {
		due, err = parseDue(c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if !c.titleSet && !c.descSet && !c.dueSet {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	if err := ctrl.Update(ctx, task.ID, title, desc, due); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
