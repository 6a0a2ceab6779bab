package main

import (
	"fmt"

	"github.com/fwojciec/liveatc"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return liveatc.Errorf(liveatc.EINVALID, "use --force to confirm deletion")
	}

	icao, err := liveatc.NormalizeICAO(c.Code)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", liveatc.ErrorMessage(err))
		return err
	}

	if err := deps.Airports.DeleteAirport(deps.Ctx, icao); err != nil {
		if liveatc.ErrorCode(err) == liveatc.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: airport %s not found. Use 'liveatc list' to see stored airports.\n", icao)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", liveatc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted airport %s\n", icao)
	return nil
}
