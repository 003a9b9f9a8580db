// Package resilience provides opt-in protection around registry calls
// using fortify. Retries are deliberately absent: a failed lookup is
// reported once and never reissued.
package resilience

import (
	"context"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"

	"github.com/felixgeelhaar/abn-mcp/domain/config"
)

// Call is a single registry request returning the raw response body.
type Call func(ctx context.Context) (string, error)

// Guard wraps registry calls with an optional bulkhead and circuit breaker.
// A zero-value config produces a pass-through guard.
type Guard struct {
	bulkhead bulkhead.Bulkhead[string]
	breaker  circuitbreaker.CircuitBreaker[string]
}

// NewGuard creates a guard from the resilience configuration.
func NewGuard(cfg config.ResilienceConfig) *Guard {
	g := &Guard{}

	if cfg.MaxConcurrent > 0 {
		g.bulkhead = bulkhead.New[string](bulkhead.Config{
			MaxConcurrent: cfg.MaxConcurrent,
		})
	}

	if cfg.BreakerThreshold > 0 {
		threshold := uint32(cfg.BreakerThreshold) // #nosec G115 -- validated positive
		g.breaker = circuitbreaker.New[string](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    cfg.BreakerTimeout,
			Timeout:     cfg.BreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		})
	}

	return g
}

// Passthrough returns a guard that applies no protection.
func Passthrough() *Guard {
	return &Guard{}
}

// Do runs the call. Composition order: Bulkhead → Circuit Breaker → call.
// When the bulkhead is full or the circuit is open the call is not made
// and the fortify error is returned.
func (g *Guard) Do(ctx context.Context, call Call) (string, error) {
	run := call
	if g.breaker != nil {
		run = func(ctx context.Context) (string, error) {
			return g.breaker.Execute(ctx, call)
		}
	}
	if g.bulkhead != nil {
		return g.bulkhead.Execute(ctx, run)
	}
	return run(ctx)
}

// BreakerState returns the circuit breaker state, or "disabled".
func (g *Guard) BreakerState() string {
	if g.breaker == nil {
		return "disabled"
	}
	return g.breaker.State().String()
}
