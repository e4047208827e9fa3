package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit breaker around a Service.
type BreakerConfig struct {
	Name string

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval is the closed-state window after which counts reset.
	Interval time.Duration

	// Timeout is how long the breaker stays open before trying again.
	Timeout time.Duration

	// FailureThreshold is the failure ratio that opens the breaker once
	// MinRequests calls have been seen.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig suits a batch of a few dozen sequential calls: a
// dead key or exhausted quota opens the breaker after a handful of calls
// instead of failing every keyword slowly.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "gemini",
		MaxRequests:      1,
		Interval:         5 * time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// BreakerService wraps a Service in a gobreaker circuit breaker. While the
// breaker is open calls fail immediately with a *ServiceError wrapping
// gobreaker.ErrOpenState.
type BreakerService struct {
	next Service
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerService wraps next.
func NewBreakerService(next Service, cfg BreakerConfig, logger *slog.Logger) *BreakerService {
	if logger == nil {
		logger = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		// A cancelled run says nothing about the service's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrEmptyPrompt)
		},
	})
	return &BreakerService{next: next, cb: cb}
}

// Generate calls the wrapped service through the breaker.
func (b *BreakerService) Generate(ctx context.Context, req Request) (*Response, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.next.Generate(ctx, req)
	})
	if err != nil {
		return nil, asServiceError("", err)
	}
	resp, _ := out.(*Response)
	return resp, nil
}

// State returns the breaker state name: closed, half-open or open.
func (b *BreakerService) State() string {
	return b.cb.State().String()
}
