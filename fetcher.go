package liveatc

import "context"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch issues a GET for the URL and returns the response body.
	// A non-2xx response is an error.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// RateLimiter throttles requests per host.
type RateLimiter interface {
	// Wait blocks until a request to the URL's host is allowed.
	// Returns an error if the URL has no host or the context is canceled.
	Wait(ctx context.Context, rawURL string) error
}
