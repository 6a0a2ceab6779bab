package mock

import (
	"context"

	"github.com/fwojciec/liveatc"
)

var _ liveatc.AirportService = (*AirportService)(nil)

// AirportService is a mock implementation of liveatc.AirportService.
type AirportService struct {
	UpsertAirportFn     func(ctx context.Context, airport *liveatc.Airport) error
	FindAirportByICAOFn func(ctx context.Context, icao string) (*liveatc.Airport, error)
	FindAirportsFn      func(ctx context.Context, filter liveatc.AirportFilter) ([]*liveatc.Airport, error)
	DeleteAirportFn     func(ctx context.Context, icao string) error
}

func (s *AirportService) UpsertAirport(ctx context.Context, airport *liveatc.Airport) error {
	return s.UpsertAirportFn(ctx, airport)
}

func (s *AirportService) FindAirportByICAO(ctx context.Context, icao string) (*liveatc.Airport, error) {
	return s.FindAirportByICAOFn(ctx, icao)
}

func (s *AirportService) FindAirports(ctx context.Context, filter liveatc.AirportFilter) ([]*liveatc.Airport, error) {
	return s.FindAirportsFn(ctx, filter)
}

func (s *AirportService) DeleteAirport(ctx context.Context, icao string) error {
	return s.DeleteAirportFn(ctx, icao)
}

var _ liveatc.AirportFinder = (*AirportFinder)(nil)

// AirportFinder is a mock implementation of liveatc.AirportFinder.
type AirportFinder struct {
	FindAirportFn      func(ctx context.Context, icao string) (*liveatc.Airport, error)
	ResolveStreamURLFn func(ctx context.Context, pageURL string) (string, bool)
}

func (f *AirportFinder) FindAirport(ctx context.Context, icao string) (*liveatc.Airport, error) {
	return f.FindAirportFn(ctx, icao)
}

func (f *AirportFinder) ResolveStreamURL(ctx context.Context, pageURL string) (string, bool) {
	return f.ResolveStreamURLFn(ctx, pageURL)
}

var _ liveatc.AirportSyncer = (*AirportSyncer)(nil)

// AirportSyncer is a mock implementation of liveatc.AirportSyncer.
type AirportSyncer struct {
	SyncAirportFn func(ctx context.Context, icao string) (*liveatc.Airport, error)
}

func (s *AirportSyncer) SyncAirport(ctx context.Context, icao string) (*liveatc.Airport, error) {
	return s.SyncAirportFn(ctx, icao)
}
