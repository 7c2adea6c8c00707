package chain

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Default rate limit settings, per RPC host.
const (
	DefaultRatePerSecond = 5
	DefaultRateBurst     = 10
)

// RateLimiter throttles RPC traffic with one token bucket per host. Public
// providers often serve many catalog chains from a single host, so
// https://rpc.ankr.com/eth and https://rpc.ankr.com/bsc share a bucket.
// One limiter is shared by every probe of a run.
//
// A nil *RateLimiter is valid and never throttles.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	every   rate.Limit
	burst   int
}

// NewRateLimiter creates a limiter allowing ratePerSecond requests per host
// with the given burst. A non-positive rate returns nil, which disables
// limiting; a non-positive burst is raised to 1.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	if ratePerSecond <= 0 {
		return nil
	}
	return &RateLimiter{
		buckets: make(map[string]*rate.Limiter),
		every:   rate.Limit(ratePerSecond),
		burst:   max(burst, 1),
	}
}

// DefaultRateLimiter returns a limiter with the default settings.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(DefaultRatePerSecond, DefaultRateBurst)
}

// Allow reports whether a request to endpoint may go out now, consuming a
// token if so.
func (r *RateLimiter) Allow(endpoint string) bool {
	if r == nil {
		return true
	}
	return r.bucket(endpoint).Allow()
}

// Wait blocks until a request to endpoint may go out or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context, endpoint string) error {
	if r == nil {
		return nil
	}
	return r.bucket(endpoint).Wait(ctx)
}

func (r *RateLimiter) bucket(endpoint string) *rate.Limiter {
	key := hostKey(endpoint)

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok {
		b = rate.NewLimiter(r.every, r.burst)
		r.buckets[key] = b
	}
	return b
}

// hostKey returns the lowercased host:port of endpoint, or endpoint itself
// when it does not parse as an absolute URL.
func hostKey(endpoint string) string {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil || u.Host == "" {
		return endpoint
	}
	return strings.ToLower(u.Host)
}
