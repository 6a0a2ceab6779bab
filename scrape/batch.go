package scrape

import (
	"context"
	"sync"

	"github.com/fwojciec/liveatc"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of parallel lookups in a Batch.
const DefaultConcurrency = 4

// Batch runs many airport lookups through a Finder in parallel.
type Batch struct {
	Finder liveatc.AirportFinder

	// Concurrency bounds the lookups in flight. Defaults to 4.
	Concurrency int
}

// Result holds the outcome of one lookup in a batch.
type Result struct {
	ICAO    string
	Airport *liveatc.Airport
	Err     error
}

// ProgressEvent reports a finished lookup.
type ProgressEvent struct {
	ICAO      string
	Completed int
	Total     int
	Err       error
}

// ProgressFunc is a callback for reporting batch progress.
// Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// FindAirports looks up every code in parallel, bounded by Concurrency.
// Each lookup succeeds or fails on its own; results keep input order.
func (b *Batch) FindAirports(ctx context.Context, codes []string, progress ProgressFunc) []Result {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(codes))

	var (
		mu        sync.Mutex
		completed int
	)
	report := func(r Result) {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		completed++
		progress(ProgressEvent{
			ICAO:      r.ICAO,
			Completed: completed,
			Total:     len(codes),
			Err:       r.Err,
		})
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, code := range codes {
		g.Go(func() error {
			airport, err := b.Finder.FindAirport(ctx, code)
			r := Result{ICAO: code, Airport: airport, Err: err}
			if airport != nil {
				r.ICAO = airport.ICAO
			}
			results[i] = r
			report(r)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
