package generation

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"loreweave-backend/pkg/errors"
)

// BreakerConfig holds circuit breaker settings for a generation provider
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// ReadyToTrip threshold settings
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns settings tuned for a slow generation backend
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      3,                // Probe requests allowed in half-open state
		Interval:         60 * time.Second, // Window for resetting failure counts
		Timeout:          30 * time.Second, // Time before an open circuit goes half-open
		FailureThreshold: 0.6,
		MinRequests:      5, // Completions before the failure rate is evaluated
	}
}

// BreakerProvider decorates a Provider with a circuit breaker so that a
// failing generation backend sheds load instead of queueing doomed requests.
type BreakerProvider struct {
	inner  Provider
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewBreakerProvider wraps the given provider with circuit breaking.
func NewBreakerProvider(inner Provider, config BreakerConfig, logger *zap.Logger) *BreakerProvider {
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("generation circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerProvider{
		inner:  inner,
		cb:     cb,
		logger: logger,
	}
}

// IsAvailable reports false while the circuit is open.
func (p *BreakerProvider) IsAvailable() bool {
	return p.inner.IsAvailable() && p.cb.State() != gobreaker.StateOpen
}

// Complete forwards to the inner provider through the circuit breaker.
func (p *BreakerProvider) Complete(ctx context.Context, prompt string, options CompletionOptions) (string, error) {
	result, err := p.cb.Execute(func() (any, error) {
		return p.inner.Complete(ctx, prompt, options)
	})
	if err != nil {
		switch err {
		case gobreaker.ErrOpenState:
			return "", errors.NewUnavailable("generation backend circuit is open")
		case gobreaker.ErrTooManyRequests:
			return "", errors.NewUnavailable("generation backend is recovering, request shed")
		default:
			return "", err
		}
	}

	return result.(string), nil
}
