package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
)

func fastConfig(maxRetries int) Config {
	return Config{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2,
	}
}

func TestExecute_SucceedsAfterRetries(t *testing.T) {
	r := New(fastConfig(3), logger.NewNopLogger())

	calls := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecute_GivesUp(t *testing.T) {
	r := New(fastConfig(2), logger.NewNopLogger())
	boom := errors.New("boom")

	calls := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "gave up after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestExecute_NonRetryable(t *testing.T) {
	cfg := fastConfig(5)
	cfg.ShouldRetry = func(err error) bool { return false }
	r := New(cfg, logger.NewNopLogger())

	calls := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("fatal")
	})

	assert.EqualError(t, err, "fatal")
	assert.Equal(t, 1, calls)
}

func TestExecute_ContextCancelled(t *testing.T) {
	r := New(fastConfig(5), logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Execute(ctx, func(ctx context.Context) error {
		t.Fatal("must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	r := New(Config{BaseDelay: 10 * time.Millisecond, MaxDelay: 30 * time.Millisecond, Multiplier: 2}, nil)

	assert.Equal(t, 10*time.Millisecond, r.backoff(0))
	assert.Equal(t, 20*time.Millisecond, r.backoff(1))
	assert.Equal(t, 30*time.Millisecond, r.backoff(2))
}
