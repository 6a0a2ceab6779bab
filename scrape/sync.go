package scrape

import (
	"context"

	"github.com/fwojciec/liveatc"
)

var _ liveatc.AirportSyncer = (*Syncer)(nil)

// Syncer refreshes the store from the site.
type Syncer struct {
	Finder   liveatc.AirportFinder
	Airports liveatc.AirportService
}

// SyncAirport finds the airport and upserts it. Nothing is written when
// the lookup fails.
func (s *Syncer) SyncAirport(ctx context.Context, icao string) (*liveatc.Airport, error) {
	airport, err := s.Finder.FindAirport(ctx, icao)
	if err != nil {
		return nil, err
	}

	if err := s.Airports.UpsertAirport(ctx, airport); err != nil {
		return nil, err
	}

	return airport, nil
}
