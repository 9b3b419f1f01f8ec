package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tood/internal/config"
	"tood/internal/exitcode"
	"tood/internal/service"
)

func init() {
	Register(&InitCmd{})
}

// InitCmd implements the init command: it records which backend the
// client talks to.
type InitCmd struct {
	url string
	key string
}

// SetURL sets the backend URL (for testing).
func (c *InitCmd) SetURL(url string) { c.url = url }

// SetKey sets the publishable key (for testing).
func (c *InitCmd) SetKey(key string) { c.key = key }

func (c *InitCmd) Name() string      { return "init" }
func (c *InitCmd) Aliases() []string { return nil }
func (c *InitCmd) Synopsis() string  { return "Configure the backend endpoint" }
func (c *InitCmd) Usage() string     { return "tood init --url <base-url> --key <publishable-key>" }
func (c *InitCmd) NeedsAuth() bool   { return false }

func (c *InitCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.url, "url", "", "")
	fs.StringVar(&c.key, "key", "", "")
}

func (c *InitCmd) Run(ctx context.Context, cfg *config.Config, ctrl *service.Controller, args []string, out, errOut io.Writer) int {
	if c.url == "" || c.key == "" {
		fmt.Fprintln(errOut, "error: --url and --key are required")
		return exitcode.UserError
	}

	server := config.Server{
		URL: strings.TrimRight(c.url, "/"),
		Key: c.key,
	}
	if err := cfg.SaveServer(server); err != nil {
		fmt.Fprintf(errOut, "error: failed to save %s: %v\n", config.ServerFile, err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
