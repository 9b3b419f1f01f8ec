package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tood/internal/config"
	"tood/internal/exitcode"
	"tood/internal/output"
	"tood/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tood` (no args) and `tood list [--filter <f>]`.
type ListCmd struct {
	filter string
}

// SetFilter sets the filter selection (for testing).
func (c *ListCmd) SetFilter(f string) {
	c.filter = f
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "tood list [--filter all|active|completed]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "all", "")
	fs.StringVar(&c.filter, "f", "all", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, ctrl *service.Controller, args []string, out, errOut io.Writer) int {
	filter, ok := service.ParseFilter(c.filter)
	if !ok && c.filter != "" {
		fmt.Fprintf(errOut, "error: invalid filter: %s\n", c.filter)
		return exitcode.UserError
	}

	if code, ok := fetch(ctx, ctrl, errOut); !ok {
		return code
	}
	ctrl.SetFilter(filter)

	// Numbers index the full collection so task refs stay stable
	// across filter selections.
	shown := 0
	for i, task := range ctrl.Tasks() {
		if filter == service.FilterActive && task.Completed {
			continue
		}
		if filter == service.FilterCompleted && !task.Completed {
			continue
		}
		output.FormatTask(out, i+1, task)
		shown++
	}

	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
