package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/liveatc"
)

var _ liveatc.AirportFinder = (*LoggingAirportFinder)(nil)

// LoggingAirportFinder wraps an AirportFinder with lookup logging.
type LoggingAirportFinder struct {
	next   liveatc.AirportFinder
	logger *slog.Logger
}

// NewLoggingAirportFinder creates a new LoggingAirportFinder.
func NewLoggingAirportFinder(next liveatc.AirportFinder, logger *slog.Logger) *LoggingAirportFinder {
	return &LoggingAirportFinder{next: next, logger: logger}
}

// FindAirport logs the lookup outcome with the number of channels found.
func (f *LoggingAirportFinder) FindAirport(ctx context.Context, icao string) (airport *liveatc.Airport, err error) {
	defer func(begin time.Time) {
		channels := 0
		if airport != nil {
			channels = len(airport.AudioChannels)
		}
		f.logger.Info("find airport",
			"icao", icao,
			"channels", channels,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FindAirport(ctx, icao)
}

// ResolveStreamURL logs whether a stream was found on the page.
func (f *LoggingAirportFinder) ResolveStreamURL(ctx context.Context, pageURL string) (src string, ok bool) {
	defer func(begin time.Time) {
		f.logger.Info("resolve stream",
			"url", pageURL,
			"found", ok,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.ResolveStreamURL(ctx, pageURL)
}

var _ liveatc.AirportService = (*LoggingAirportService)(nil)

// LoggingAirportService wraps an AirportService with store logging.
type LoggingAirportService struct {
	next   liveatc.AirportService
	logger *slog.Logger
}

// NewLoggingAirportService creates a new LoggingAirportService.
func NewLoggingAirportService(next liveatc.AirportService, logger *slog.Logger) *LoggingAirportService {
	return &LoggingAirportService{next: next, logger: logger}
}

// UpsertAirport logs the stored airport and its channel count at debug level.
func (s *LoggingAirportService) UpsertAirport(ctx context.Context, airport *liveatc.Airport) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("upsert airport",
			"icao", airport.ICAO,
			"channels", len(airport.AudioChannels),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertAirport(ctx, airport)
}

// FindAirportByICAO logs the lookup at debug level.
func (s *LoggingAirportService) FindAirportByICAO(ctx context.Context, icao string) (airport *liveatc.Airport, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find stored airport",
			"icao", icao,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindAirportByICAO(ctx, icao)
}

// FindAirports logs the page requested and the number of airports returned.
func (s *LoggingAirportService) FindAirports(ctx context.Context, filter liveatc.AirportFilter) (airports []*liveatc.Airport, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find stored airports",
			"count", len(airports),
			"limit", filter.Limit,
			"offset", filter.Offset,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindAirports(ctx, filter)
}

// DeleteAirport logs deletions at info level.
func (s *LoggingAirportService) DeleteAirport(ctx context.Context, icao string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete airport",
			"icao", icao,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteAirport(ctx, icao)
}
