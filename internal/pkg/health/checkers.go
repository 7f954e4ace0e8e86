package health

import (
	"context"
	"errors"

	"github.com/tara-ride/dispatch/internal/pkg/database"
	"github.com/tara-ride/dispatch/internal/pkg/nats"
	"github.com/tara-ride/dispatch/internal/pkg/nsq"
)

// Checker reports whether a dependency is usable
type Checker interface {
	CheckHealth(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) CheckHealth(ctx context.Context) error { return f(ctx) }

// PostgresChecker pings the ride store database
func PostgresChecker(client *database.PostgresClient) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return client.GetDB().PingContext(ctx)
	})
}

// RedisChecker pings the redis server backing the store or directory
func RedisChecker(client *database.RedisClient) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return client.Ping(ctx)
	})
}

// NATSChecker reports the event bus connection state
func NATSChecker(client *nats.Client) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		if !client.IsConnected() {
			return errors.New("nats not connected")
		}
		return nil
	})
}

// NSQChecker pings the nsqd the events are published to
func NSQChecker(producer *nsq.Producer) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return producer.Ping()
	})
}
