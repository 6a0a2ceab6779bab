package scrape

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/liveatc"
	"golang.org/x/time/rate"
)

var _ liveatc.RateLimiter = (*HostLimiter)(nil)

// HostLimiter keeps one token bucket per host, so parallel lookups against
// the same site share a request budget while other hosts are unaffected.
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second to
// each host, with bursts of up to burst requests. A burst below 1 is 1.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// Wait blocks until a request to the host of rawURL is allowed. Hosts are
// compared case-insensitively and without the port.
func (l *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return liveatc.Errorf(liveatc.EINVALID, "rate limit: no host in %q", rawURL)
	}

	return l.bucket(strings.ToLower(u.Hostname())).Wait(ctx)
}

func (l *HostLimiter) bucket(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[host]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[host] = b
	}
	return b
}
