package mock

import (
	"context"

	"github.com/fwojciec/liveatc"
)

var _ liveatc.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of liveatc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ liveatc.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of liveatc.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context, rawURL string) error
}

func (l *RateLimiter) Wait(ctx context.Context, rawURL string) error {
	return l.WaitFn(ctx, rawURL)
}
