// Package resilience provides fault-tolerance patterns for the remote
// service clients: retry with exponential backoff, circuit breaker, and
// bulkhead.
package resilience

import (
	"context"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds resilience parameters.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int
}

// RetryWithBackoff runs fn up to MaxRetries+1 times, doubling the delay
// between attempts and adding jitter so synchronized callers spread out.
// It respects context cancellation. Only idempotent reads go through this
// path; mutations run exactly once so the client layer itself can never
// manufacture a double-submit.
func RetryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	delay := cfg.InitialBackoff

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		if attempt >= cfg.MaxRetries {
			return err
		}

		wait := delay
		if half := int64(delay / 2); half > 0 {
			wait += time.Duration(rand.Int63n(half))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
}

// Breaker tuning shared by every upstream client.
const (
	breakerHalfOpenRequests = 3
	breakerCountersReset    = 30 * time.Second
	breakerOpenDuration     = 10 * time.Second
	breakerMinRequests      = 5
	breakerFailureRatio     = 0.6
)

// NewCircuitBreaker creates a named breaker that trips once an upstream
// fails often enough to be worth shedding load from.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerHalfOpenRequests,
		Interval:    breakerCountersReset,
		Timeout:     breakerOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= breakerMinRequests && ratio >= breakerFailureRatio
		},
	})
}

// Bulkhead caps concurrent access to a resource. Used to keep a burst of
// photo uploads from saturating the storage service.
type Bulkhead struct {
	sem chan struct{}
}

// NewBulkhead creates a bulkhead admitting maxConcurrency callers at once.
func NewBulkhead(maxConcurrency int) *Bulkhead {
	return &Bulkhead{sem: make(chan struct{}, maxConcurrency)}
}

// Acquire blocks until a slot frees up or the context ends.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot.
func (b *Bulkhead) Release() {
	<-b.sem
}
