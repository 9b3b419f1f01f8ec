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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tood help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, ctrl *service.Controller, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tood                                               List all tasks
  tood list [common flags] [--filter all|active|completed]
  tood add [common flags] [--desc <text>] [--due <date>] <title...>
  tood edit [common flags] [--title <text>] [--desc <text>] [--due <date>] <ref>
  tood done [common flags] <ref>
  tood rm [common flags] <ref>
  tood show [common flags] <ref>
  tood ui [common flags]
  tood init [common flags] --url <base-url> --key <publishable-key>
  tood login [common flags] --email <email> --password <password>
  tood signup [common flags] --email <email> --password <password>
  tood logout [common flags]
  tood whoami [common flags]
  tood help
  tood version

A <ref> is the task number shown by 'tood list' or a task id.
Dates are YYYY-MM-DD or RFC 3339 timestamps.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
