package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/tara-ride/dispatch/internal/pkg/logger"
)

// Op is one attempt of a retried operation
type Op func(ctx context.Context) error

// Config holds retry configuration
type Config struct {
	MaxRetries  int           // attempts after the first; 0 runs the op once
	BaseDelay   time.Duration // wait before the first retry
	MaxDelay    time.Duration // cap on any single wait
	Multiplier  float64
	Jitter      bool                 // adds up to 10% to each wait
	ShouldRetry func(err error) bool // nil retries every error
}

// DefaultConfig returns a default retry configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

// Retrier runs an op with exponential backoff between attempts
type Retrier struct {
	config Config
	logger *logger.ZapLogger
}

// New creates a new retrier. A nil logger falls back to the global one.
func New(config Config, l *logger.ZapLogger) *Retrier {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 1
	}
	return &Retrier{config: config, logger: l}
}

// Execute runs op until it succeeds, fails with an error ShouldRetry rejects,
// exhausts MaxRetries or ctx is done.
func (r *Retrier) Execute(ctx context.Context, op Op) error {
	attempts := r.config.MaxRetries + 1
	var err error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := r.backoff(attempt - 1)
			r.logger.Debug("Retrying after failure",
				logger.Err(err),
				logger.Int("attempt", attempt+1),
				logger.Duration("wait", wait))

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err = op(ctx); err == nil {
			if attempt > 0 {
				r.logger.Info("Succeeded after retrying", logger.Int("attempts", attempt+1))
			}
			return nil
		}
		if r.config.ShouldRetry != nil && !r.config.ShouldRetry(err) {
			return err
		}
	}

	r.logger.Warn("Giving up after retries",
		logger.Err(err),
		logger.Int("attempts", attempts))
	return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}

// backoff returns the wait before retry n, counting from zero
func (r *Retrier) backoff(n int) time.Duration {
	wait := float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(n))
	if r.config.MaxDelay > 0 {
		wait = math.Min(wait, float64(r.config.MaxDelay))
	}
	if r.config.Jitter {
		wait += wait * 0.1 * rand.Float64()
	}
	return time.Duration(wait)
}
