package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tara-ride/dispatch/internal/pkg/circuitbreaker"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/keylock"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/metrics"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/internal/pkg/retry"
	"github.com/tara-ride/dispatch/services/drivers"
	"github.com/tara-ride/dispatch/services/match"
	"github.com/tara-ride/dispatch/services/pricing"
	"github.com/tara-ride/dispatch/services/rides"
)

const (
	defaultSearchTimeout      = 10 * time.Second
	defaultMaxReserveAttempts = 2
)

// RideUC drives requests and rides through their lifecycle. Work on one ride
// is serialized by a per-id lock; the active pointer of a passenger is only
// touched under the per-passenger lock.
type RideUC struct {
	cfg       *models.Config
	store     rides.RideStore
	directory drivers.Directory
	matcher   match.MatchUC
	fares     pricing.FareEngine
	gateway   rides.RideGW
	metrics   *metrics.Collector
	retrier   *retry.Retrier
	locks     *keylock.KeyLock

	searchMu  sync.Mutex
	searching map[string]struct{} // request ids with a search in flight
}

// NewRideUC creates the ride lifecycle manager. gateway and collector may be nil.
func NewRideUC(
	cfg *models.Config,
	store rides.RideStore,
	directory drivers.Directory,
	matcher match.MatchUC,
	fares pricing.FareEngine,
	gateway rides.RideGW,
	collector *metrics.Collector,
) *RideUC {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.Events.MaxRetries
	retryCfg.ShouldRetry = func(err error) bool {
		return !apperrors.IsDomain(err) && !errors.Is(err, circuitbreaker.ErrOpen)
	}

	return &RideUC{
		cfg:       cfg,
		store:     store,
		directory: directory,
		matcher:   matcher,
		fares:     fares,
		gateway:   gateway,
		metrics:   collector,
		retrier:   retry.New(retryCfg, nil),
		locks:     keylock.New(),
		searching: make(map[string]struct{}),
	}
}

var _ rides.RideUC = (*RideUC)(nil)

func rideKey(id string) string {
	return "ride:" + id
}

func passengerKey(id string) string {
	return "passenger:" + id
}

func (uc *RideUC) searchTimeout() time.Duration {
	if uc.cfg.Match.SearchTimeout > 0 {
		return uc.cfg.Match.SearchTimeout
	}
	return defaultSearchTimeout
}

func (uc *RideUC) maxReserveAttempts() int {
	if uc.cfg.Match.MaxReserveAttempts > 0 {
		return uc.cfg.Match.MaxReserveAttempts
	}
	return defaultMaxReserveAttempts
}

// storeErr keeps domain errors intact and reports anything else from an
// adapter as storage unavailability
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsDomain(err) || errors.Is(err, apperrors.ErrStorageUnavailable) {
		return err
	}
	return apperrors.Storage(op, err)
}

// load resolves an id to the ride if one exists, otherwise to the request
func (uc *RideUC) load(ctx context.Context, id string) (*models.Tracked, error) {
	ride, err := uc.store.GetRide(ctx, id)
	if err == nil {
		return models.TrackRide(ride), nil
	}
	if !errors.Is(err, apperrors.ErrRideNotFound) {
		return nil, storeErr("get ride", err)
	}

	req, err := uc.store.GetRequest(ctx, id)
	if err != nil {
		return nil, storeErr("get ride request", err)
	}
	return models.TrackRequest(req), nil
}

// clearActive drops the passenger's pointer if it still refers to id
func (uc *RideUC) clearActive(ctx context.Context, passengerID, id string) {
	unlock := uc.locks.Lock(passengerKey(passengerID))
	defer unlock()

	current, err := uc.store.GetActive(ctx, passengerID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read active pointer",
			logger.String("passenger_id", passengerID),
			logger.Err(err))
		return
	}
	if current != id {
		return
	}
	if err := uc.store.ClearActive(ctx, passengerID); err != nil {
		logger.WarnCtx(ctx, "Failed to clear active pointer",
			logger.String("passenger_id", passengerID),
			logger.String("ride_id", id),
			logger.Err(err))
	}
}

// startSearch claims requestID for one search. False means another search
// for it is still running.
func (uc *RideUC) startSearch(requestID string) bool {
	uc.searchMu.Lock()
	defer uc.searchMu.Unlock()
	if _, busy := uc.searching[requestID]; busy {
		return false
	}
	uc.searching[requestID] = struct{}{}
	return true
}

func (uc *RideUC) endSearch(requestID string) {
	uc.searchMu.Lock()
	defer uc.searchMu.Unlock()
	delete(uc.searching, requestID)
}

func (uc *RideUC) releaseDriver(ctx context.Context, driverID string) error {
	return uc.retrier.Execute(context.WithoutCancel(ctx), func(ctx context.Context) error {
		return uc.directory.Release(ctx, driverID)
	})
}

// publish sends a lifecycle event after a committed change. Failures are
// logged and counted, never returned.
func (uc *RideUC) publish(ctx context.Context, subject string, event models.RideEvent) {
	if uc.gateway == nil {
		return
	}

	err := uc.retrier.Execute(context.WithoutCancel(ctx), func(ctx context.Context) error {
		return uc.gateway.PublishRideEvent(ctx, subject, event)
	})
	uc.metrics.IncEventPublished(err)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to publish ride event",
			logger.String("subject", subject),
			logger.String("ride_id", event.RideID),
			logger.Err(err))
	}
}
