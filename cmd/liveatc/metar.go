package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/liveatc"
)

// Run executes the metar command.
func (c *MetarCmd) Run(deps *Dependencies) error {
	metar, err := liveatc.ParseMetar(strings.Join(c.Report, " "))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", liveatc.ErrorMessage(err))
		return err
	}

	return writeJSON(deps.Stdout, metar)
}
