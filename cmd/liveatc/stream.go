package main

import (
	"fmt"

	"github.com/fwojciec/liveatc"
)

// Run executes the stream command.
func (c *StreamCmd) Run(deps *Dependencies) error {
	src, ok := deps.Finder.ResolveStreamURL(deps.Ctx, c.URL)
	if !ok {
		fmt.Fprintf(deps.Stderr, "error: no audio stream found on %s\n", c.URL)
		return liveatc.Errorf(liveatc.ENOTFOUND, "no audio stream found on %s", c.URL)
	}

	fmt.Fprintln(deps.Stdout, src)
	return nil
}
