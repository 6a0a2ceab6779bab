package main

import (
	"fmt"

	liveatchttp "github.com/fwojciec/liveatc/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.Server.Addr
	}

	server := liveatchttp.NewServer(deps.Airports, deps.Syncer, deps.Finder, deps.Logger)

	deps.Logger.Info("listening", "addr", addr)
	if err := server.ListenAndServe(deps.Ctx, addr); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	return nil
}
