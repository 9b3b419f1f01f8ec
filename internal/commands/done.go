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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command: it toggles a task's completed
// flag, so `done` on a completed task reactivates it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "tood done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, ctrl *service.Controller, args []string, out, errOut io.Writer) int {
	if code, ok := fetch(ctx, ctrl, errOut); !ok {
		return code
	}

	task, err := resolveTask(ctrl, args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := ctrl.ToggleCompleted(ctx, task); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
