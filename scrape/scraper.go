// Package scrape looks airports up on LiveATC. It ties a Fetcher to a
// PageParser, batches lookups in parallel and syncs results into a store.
package scrape

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/liveatc"
)

var _ liveatc.AirportFinder = (*Scraper)(nil)

// Scraper fetches LiveATC pages and extracts airports from them.
// A Scraper holds no per-lookup state; concurrent lookups are safe as long
// as its fields are not changed while lookups run.
type Scraper struct {
	Fetcher liveatc.Fetcher
	Parser  liveatc.PageParser

	// BaseURL is the site root. Defaults to liveatc.DefaultBaseURL.
	BaseURL string

	// RateLimiter, if set, throttles every fetch per host.
	RateLimiter liveatc.RateLimiter

	// RetryDelays enables retries of failed fetches. Empty means one attempt.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// FindAirport fetches the search page for icao and extracts the airport.
// Fetch failures are EUNAVAILABLE; a page without an airport is ENOTFOUND.
func (s *Scraper) FindAirport(ctx context.Context, icao string) (*liveatc.Airport, error) {
	code, err := liveatc.NormalizeICAO(icao)
	if err != nil {
		return nil, err
	}

	searchURL, err := s.searchURL(code)
	if err != nil {
		return nil, err
	}

	html, err := s.fetch(ctx, searchURL)
	if err != nil {
		return nil, liveatc.Errorf(liveatc.EUNAVAILABLE, "fetch airport %s: %v", code, err)
	}

	return s.Parser.ParseAirportPage(html, code)
}

// ResolveStreamURL fetches a channel page and returns the player source it
// embeds, resolved against the page URL. Failures are logged and reported
// as false.
func (s *Scraper) ResolveStreamURL(ctx context.Context, pageURL string) (string, bool) {
	page, err := url.Parse(pageURL)
	if err != nil || page.Scheme == "" || page.Host == "" {
		s.logger().Warn("resolve stream", "url", pageURL, "err", "invalid page URL")
		return "", false
	}

	html, err := s.fetch(ctx, page.String())
	if err != nil {
		s.logger().Warn("resolve stream", "url", pageURL, "err", err)
		return "", false
	}

	src, ok := s.Parser.ParseStreamSource(html)
	if !ok {
		s.logger().Info("resolve stream", "url", pageURL, "err", "no player on page")
		return "", false
	}

	ref, err := url.Parse(src)
	if err != nil {
		s.logger().Warn("resolve stream", "url", pageURL, "src", src, "err", err)
		return "", false
	}

	return page.ResolveReference(ref).String(), true
}

// searchURL builds {BaseURL}/search/?icao=CODE.
func (s *Scraper) searchURL(code string) (string, error) {
	base := s.BaseURL
	if base == "" {
		base = liveatc.DefaultBaseURL
	}

	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return "", liveatc.Errorf(liveatc.EINVALID, "invalid base URL %q", base)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/search/"
	u.RawQuery = url.Values{"icao": {code}}.Encode()
	return u.String(), nil
}

// fetch waits on the rate limiter and fetches with the configured retries.
func (s *Scraper) fetch(ctx context.Context, rawURL string) (string, error) {
	if s.RateLimiter != nil {
		if err := s.RateLimiter.Wait(ctx, rawURL); err != nil {
			return "", err
		}
	}

	return FetchWithRetry(ctx, rawURL, s.Fetcher.Fetch, s.Logger, s.RetryDelays)
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
