package main

import (
	"fmt"

	"github.com/fwojciec/liveatc"
	"github.com/fwojciec/liveatc/scrape"
)

// Run executes the lookup command.
func (c *LookupCmd) Run(deps *Dependencies) error {
	var progress scrape.ProgressFunc
	if len(c.Codes) > 1 {
		progress = func(e scrape.ProgressEvent) {
			status := "ok"
			if e.Err != nil {
				status = "failed"
			}
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s %s\n", e.Completed, e.Total, e.ICAO, status)
		}
	}

	results := deps.Batch.FindAirports(deps.Ctx, c.Codes, progress)

	var found []*liveatc.Airport
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", r.ICAO, liveatc.ErrorMessage(r.Err))
			continue
		}

		if c.Save {
			if err := deps.Airports.UpsertAirport(deps.Ctx, r.Airport); err != nil {
				failed++
				fmt.Fprintf(deps.Stderr, "error: save %s: %s\n", r.ICAO, liveatc.ErrorMessage(err))
				continue
			}
		}
		found = append(found, r.Airport)
	}

	if c.JSON {
		if found == nil {
			found = []*liveatc.Airport{}
		}
		if err := writeJSON(deps.Stdout, found); err != nil {
			return err
		}
	} else {
		for i, a := range found {
			if i > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			writeAirport(deps.Stdout, a)
		}
	}

	if c.Save && len(found) > 0 {
		fmt.Fprintf(deps.Stderr, "Saved %d airport(s)\n", len(found))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(c.Codes))
	}
	return nil
}
