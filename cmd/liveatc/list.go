package main

import (
	"fmt"

	"github.com/fwojciec/liveatc"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := liveatc.AirportFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Country != "" {
		filter.Country = &c.Country
	}

	airports, err := deps.Airports.FindAirports(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", liveatc.ErrorMessage(err))
		return err
	}

	if len(airports) == 0 {
		fmt.Fprintln(deps.Stdout, "No airports stored. Use 'liveatc lookup --save' to add some.")
		return nil
	}

	for _, a := range airports {
		fmt.Fprintf(deps.Stdout, "%-4s  %-3s  %s  %s\n", a.ICAO, a.IATA, a.Name, a.Country)
	}

	return nil
}
