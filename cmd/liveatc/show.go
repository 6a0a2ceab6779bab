package main

import (
	"fmt"

	"github.com/fwojciec/liveatc"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	icao, err := liveatc.NormalizeICAO(c.Code)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", liveatc.ErrorMessage(err))
		return err
	}

	airport, err := deps.Airports.FindAirportByICAO(deps.Ctx, icao)
	if liveatc.ErrorCode(err) == liveatc.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: airport %s not stored. Use 'liveatc lookup --save %s' to fetch it.\n", icao, icao)
		return err
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", liveatc.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, airport)
	}

	writeAirport(deps.Stdout, airport)
	if !airport.UpdatedAt.IsZero() {
		fmt.Fprintf(deps.Stdout, "\n  Updated %s\n", airport.UpdatedAt.Format("2006-01-02 15:04 MST"))
	}
	return nil
}
