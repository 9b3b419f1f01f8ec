package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"tood/internal/backend/resthub"
	"tood/internal/config"
	"tood/internal/exitcode"
	"tood/internal/service"
	"tood/internal/session"
	"tood/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command: the interactive terminal surface.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive interface" }
func (c *UICmd) Usage() string     { return "tood ui [common flags]" }
func (c *UICmd) NeedsAuth() bool   { return false }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, ctrl *service.Controller, args []string, out, errOut io.Writer) int {
	auth, code, ok := newAuth(cfg, errOut)
	if !ok {
		return code
	}

	tracker := session.NewTracker(auth)
	defer tracker.Close()

	store := resthub.NewStore(ctx, auth.Server(), auth)
	app := ui.NewApp(tracker, service.NewController(store), auth)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
