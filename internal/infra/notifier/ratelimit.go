package notifier

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter wraps a token bucket limiter sized for webhook endpoints.
// Each notifier owns one so a burst of ingest runs cannot flood the API.
type RateLimiter struct {
	rate    rate.Limit
	burst   int
	limiter *rate.Limiter
}

// NewRateLimiter creates a RateLimiter with the given sustained rate and burst.
//
// Parameters:
//   - requestsPerSecond: Maximum sustained request rate (e.g., 0.5 for one request every 2s)
//   - burst: Number of requests allowed to fire immediately before throttling kicks in
//
// Example:
//
//	limiter := NewRateLimiter(0.5, 3)  // 30 req/min with burst of 3
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	r := rate.Limit(requestsPerSecond)
	l := rate.NewLimiter(r, burst)

	return &RateLimiter{
		rate:    r,
		burst:   burst,
		limiter: l,
	}
}

// Allow blocks until a token is available or the context is canceled.
// Call it before every webhook request.
//
// Returns:
//   - error: Non-nil if the context was canceled or its deadline passed while waiting
func (r *RateLimiter) Allow(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
