package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tood/internal/backend/resthub"
	"tood/internal/config"
	"tood/internal/exitcode"
	"tood/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

// SetCredentials sets email and password (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in with email and password" }
func (c *LoginCmd) Usage() string     { return "tood login --email <email> --password <password>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, ctrl *service.Controller, args []string, out, errOut io.Writer) int {
	if c.email == "" || c.password == "" {
		fmt.Fprintln(errOut, "error: --email and --password are required")
		return exitcode.UserError
	}

	auth, code, ok := newAuth(cfg, errOut)
	if !ok {
		return code
	}

	// Already signed in with a live session: nothing to do.
	if sess, err := auth.GetSession(ctx); err == nil && sess != nil && sess.Email == c.email {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	if _, err := auth.SignInWithPassword(ctx, c.email, c.password); err != nil {
		fmt.Fprintf(errOut, "error: login failed: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// newAuth builds the auth collaborator client, explaining how to
// configure the backend when server.json is missing.
func newAuth(cfg *config.Config, errOut io.Writer) (*resthub.AuthClient, int, bool) {
	if !cfg.HasServer() {
		fmt.Fprintf(errOut, "error: %s not found in %s\n\n", config.ServerFile, cfg.Dir)
		fmt.Fprintln(errOut, "Point tood at your backend first:")
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "  tood init --url https://<project>.example.com --key <publishable-key>")
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "The key is the project's publishable (anon) API key; row access")
		fmt.Fprintln(errOut, "is enforced server-side per authenticated user.")
		return nil, exitcode.AuthError, false
	}
	auth, err := resthub.NewAuthClient(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.AuthError, false
	}
	return auth, exitcode.Success, true
}
