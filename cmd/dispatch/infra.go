package main

import (
	"context"
	"fmt"

	"github.com/tara-ride/dispatch/internal/pkg/circuitbreaker"
	"github.com/tara-ride/dispatch/internal/pkg/database"
	"github.com/tara-ride/dispatch/internal/pkg/health"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	natspkg "github.com/tara-ride/dispatch/internal/pkg/nats"
	nsqpkg "github.com/tara-ride/dispatch/internal/pkg/nsq"
	"github.com/tara-ride/dispatch/services/drivers"
	driversRepo "github.com/tara-ride/dispatch/services/drivers/repository"
	"github.com/tara-ride/dispatch/services/rides"
	ridesGateway "github.com/tara-ride/dispatch/services/rides/gateway"
	ridesRepo "github.com/tara-ride/dispatch/services/rides/repository"
)

// infrastructure opens the backends chosen in config and owns their
// connections. One Redis client is shared by the store and the directory.
type infrastructure struct {
	cfg     *models.Config
	health  *health.Service
	redis   *database.RedisClient
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

func newInfrastructure(cfg *models.Config, healthService *health.Service) *infrastructure {
	return &infrastructure{cfg: cfg, health: healthService}
}

func (i *infrastructure) redisClient() (*database.RedisClient, error) {
	if i.redis != nil {
		return i.redis, nil
	}
	client, err := database.NewRedisClient(i.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	i.redis = client
	i.closers = append(i.closers, namedCloser{"redis", client.Close})
	i.health.AddChecker("redis", health.RedisChecker(client))
	return client, nil
}

func (i *infrastructure) rideStore() (rides.RideStore, error) {
	switch i.cfg.Store.Backend {
	case "", "memory":
		return ridesRepo.NewMemoryStore(), nil
	case "redis":
		client, err := i.redisClient()
		if err != nil {
			return nil, err
		}
		return ridesRepo.NewRedisStore(client), nil
	case "postgres":
		client, err := database.NewPostgresClient(i.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		i.closers = append(i.closers, namedCloser{"postgres", client.Close})
		i.health.AddChecker("postgres", health.PostgresChecker(client))

		store := ridesRepo.NewPostgresStore(client.GetDB())
		if err := store.EnsureSchema(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to create ride tables: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", i.cfg.Store.Backend)
	}
}

func (i *infrastructure) driverDirectory() (drivers.Directory, error) {
	switch i.cfg.Store.DirectoryBackend {
	case "", "memory":
		return driversRepo.NewMemoryDirectory(), nil
	case "redis":
		client, err := i.redisClient()
		if err != nil {
			return nil, err
		}
		return driversRepo.NewRedisDirectory(client), nil
	default:
		return nil, fmt.Errorf("unknown directory backend %q", i.cfg.Store.DirectoryBackend)
	}
}

func (i *infrastructure) eventGateway() (rides.RideGW, error) {
	gw, err := i.brokerGateway()
	if err != nil {
		return nil, err
	}
	if _, noop := gw.(ridesGateway.NoopGateway); noop {
		return gw, nil
	}
	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:             "events-" + i.cfg.Events.Backend,
		FailureThreshold: i.cfg.Events.BreakerThreshold,
		Cooldown:         i.cfg.Events.BreakerCooldown,
	})
	return ridesGateway.NewBreakerGateway(gw, breaker), nil
}

func (i *infrastructure) brokerGateway() (rides.RideGW, error) {
	switch i.cfg.Events.Backend {
	case "", "none":
		return ridesGateway.NoopGateway{}, nil
	case "nats":
		client, err := natspkg.NewClient(i.cfg.NATS.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		i.closers = append(i.closers, namedCloser{"nats", func() error {
			client.Close()
			return nil
		}})
		i.health.AddChecker("nats", health.NATSChecker(client))
		return ridesGateway.NewNATSGateway(client), nil
	case "nsq":
		producer, err := nsqpkg.NewProducer(i.cfg.NSQ.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
		}
		i.closers = append(i.closers, namedCloser{"nsq", func() error {
			producer.Stop()
			return nil
		}})
		i.health.AddChecker("nsq", health.NSQChecker(producer))
		return ridesGateway.NewNSQGateway(producer), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", i.cfg.Events.Backend)
	}
}

// close releases connections in reverse order of opening
func (i *infrastructure) close(ctx context.Context) error {
	var firstErr error
	for j := len(i.closers) - 1; j >= 0; j-- {
		c := i.closers[j]
		logger.Info("Closing connection", logger.String("backend", c.name))
		if err := c.close(); err != nil {
			logger.Error("Error closing connection",
				logger.String("backend", c.name),
				logger.Err(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
