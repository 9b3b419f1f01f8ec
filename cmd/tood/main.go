// Package main is the entry point for the tood CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tood/internal/backend/resthub"
	"tood/internal/cli"
	"tood/internal/commands"
	"tood/internal/config"
	"tood/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Controller factory: resolve the persisted session and bind the
	// store client to it.
	factory := func(ctx context.Context, cfg *config.Config) (*service.Controller, error) {
		auth, err := resthub.NewAuthClient(cfg)
		if err != nil {
			return nil, err
		}
		sess, err := auth.GetSession(ctx)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, cli.ErrNotSignedIn
		}
		ctrl := service.NewController(resthub.NewStore(ctx, auth.Server(), auth))
		ctrl.SetSession(sess)
		return ctrl, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
