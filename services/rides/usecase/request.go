package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tara-ride/dispatch/internal/pkg/constants"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
)

// CreateRequest prices a trip and records it as the passenger's active request
func (uc *RideUC) CreateRequest(ctx context.Context, in models.CreateRideRequest) (*models.RideRequest, error) {
	if in.PassengerID == "" {
		return nil, apperrors.ErrInvalidPassengerID
	}
	if !in.VehicleClass.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidVehicleClass, in.VehicleClass)
	}
	if !in.Pickup.Coordinates.Valid() || !in.Destination.Coordinates.Valid() {
		return nil, apperrors.ErrInvalidCoordinates
	}
	if in.Pickup.Coordinates.Equal(in.Destination.Coordinates) {
		return nil, apperrors.ErrInvalidLocations
	}

	unlock := uc.locks.Lock(passengerKey(in.PassengerID))
	defer unlock()

	if err := uc.ensureNoActive(ctx, in.PassengerID); err != nil {
		return nil, err
	}

	distance := uc.fares.RoundKm(uc.fares.DistanceKm(in.Pickup.Coordinates, in.Destination.Coordinates))
	fare, err := uc.fares.ComputeFare(distance, in.VehicleClass)
	if err != nil {
		return nil, err
	}

	req := &models.RideRequest{
		ID:                   uuid.New().String(),
		PassengerID:          in.PassengerID,
		Pickup:               in.Pickup,
		Destination:          in.Destination,
		VehicleClass:         in.VehicleClass,
		DistanceKm:           distance,
		EstimatedDurationMin: uc.fares.EstimateDurationMinutes(distance),
		EstimatedFare:        fare,
		Status:               models.RideStatusRequesting,
		RequestedAt:          models.Now(),
	}

	// The pointer goes first so a request is never stored without it
	if err := uc.store.SetActive(ctx, req.PassengerID, req.ID); err != nil {
		return nil, storeErr("set active pointer", err)
	}
	if err := uc.store.SaveRequest(ctx, req); err != nil {
		if clearErr := uc.store.ClearActive(ctx, req.PassengerID); clearErr != nil {
			logger.WarnCtx(ctx, "Failed to roll back active pointer",
				logger.String("passenger_id", req.PassengerID),
				logger.Err(clearErr))
		}
		return nil, storeErr("save ride request", err)
	}

	uc.metrics.IncRequestCreated(string(req.VehicleClass), fare.Total)
	logger.InfoCtx(ctx, "Ride request created",
		logger.String("request_id", req.ID),
		logger.String("passenger_id", req.PassengerID),
		logger.String("vehicle_class", string(req.VehicleClass)),
		logger.Float64("distance_km", req.DistanceKm),
		logger.Int("fare_total", fare.Total))

	uc.publish(ctx, constants.SubjectRideRequested, models.NewRequestEvent(req))
	return req, nil
}

// ensureNoActive fails when the passenger's pointer refers to a live entity.
// Pointers left behind by terminal or missing entities are ignored.
func (uc *RideUC) ensureNoActive(ctx context.Context, passengerID string) error {
	id, err := uc.store.GetActive(ctx, passengerID)
	if err != nil {
		return storeErr("get active pointer", err)
	}
	if id == "" {
		return nil
	}

	tracked, err := uc.load(ctx, id)
	if errors.Is(err, apperrors.ErrRideNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !tracked.Status().IsTerminal() {
		return fmt.Errorf("%w: %s is %s", apperrors.ErrRideAlreadyActive, id, tracked.Status())
	}
	return nil
}

// Search matches a request to the nearest available driver and turns it into
// a ride. A request whose earlier search found nobody stays searching and can
// be searched again. The ride lock is not held while scanning so the
// passenger can cancel meanwhile; the result is reconciled afterwards.
func (uc *RideUC) Search(ctx context.Context, requestID string) (*models.Ride, error) {
	req, err := uc.beginSearch(ctx, requestID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	driver, searchErr := uc.reserveNearest(ctx, req)
	uc.metrics.ObserveSearch(start)

	return uc.finishSearch(ctx, requestID, driver, searchErr)
}

func (uc *RideUC) beginSearch(ctx context.Context, requestID string) (*models.RideRequest, error) {
	unlock := uc.locks.Lock(rideKey(requestID))
	defer unlock()

	req, err := uc.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, storeErr("get ride request", err)
	}
	if req.Status != models.RideStatusRequesting && req.Status != models.RideStatusSearching {
		return nil, fmt.Errorf("%w: cannot search a %s request", apperrors.ErrInvalidTransition, req.Status)
	}
	if !uc.startSearch(requestID) {
		return nil, fmt.Errorf("%w: request %s is already being searched", apperrors.ErrInvalidTransition, requestID)
	}

	if req.Status == models.RideStatusSearching {
		logger.DebugCtx(ctx, "Searching again for request",
			logger.String("request_id", requestID))
		return req, nil
	}

	req.Status = models.RideStatusSearching
	if err := uc.store.UpdateRequest(ctx, req); err != nil {
		uc.endSearch(requestID)
		return nil, storeErr("update ride request", err)
	}
	uc.metrics.IncTransition(string(models.RideStatusSearching))
	return req, nil
}

// reserveNearest picks the nearest driver and reserves it. A lost race
// excludes that driver and tries again, up to the configured attempts.
func (uc *RideUC) reserveNearest(ctx context.Context, req *models.RideRequest) (*models.Driver, error) {
	timeout := uc.searchTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	timedOut := fmt.Errorf("%w: search timed out after %s", apperrors.ErrNoDriversAvailable, timeout)
	excluded := make(map[string]struct{})

	for attempt := 0; attempt < uc.maxReserveAttempts(); attempt++ {
		if ctx.Err() != nil {
			return nil, timedOut
		}

		driver, err := uc.matcher.FindNearestExcluding(ctx, req.Pickup.Coordinates, req.VehicleClass, excluded)
		if err != nil {
			if errors.Is(err, apperrors.ErrNoDriversAvailable) {
				return nil, err
			}
			if ctx.Err() != nil {
				return nil, timedOut
			}
			return nil, storeErr("find nearest driver", err)
		}

		ok, err := uc.directory.Reserve(ctx, driver.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrDriverNotFound) {
				excluded[driver.ID] = struct{}{}
				continue
			}
			if ctx.Err() != nil {
				return nil, timedOut
			}
			return nil, storeErr("reserve driver", err)
		}
		if ok {
			return driver, nil
		}

		uc.metrics.IncReserveConflict()
		logger.DebugCtx(ctx, "Driver taken by a concurrent search",
			logger.String("request_id", req.ID),
			logger.String("driver_id", driver.ID),
			logger.Int("attempt", attempt+1))
		excluded[driver.ID] = struct{}{}
	}

	return nil, fmt.Errorf("%w: every candidate was taken", apperrors.ErrNoDriversAvailable)
}

func (uc *RideUC) finishSearch(ctx context.Context, requestID string, driver *models.Driver, searchErr error) (*models.Ride, error) {
	unlock := uc.locks.Lock(rideKey(requestID))
	defer unlock()
	defer uc.endSearch(requestID)

	// Once a driver is reserved the outcome must be written down even if the
	// caller has gone away
	ctx = context.WithoutCancel(ctx)

	req, err := uc.store.GetRequest(ctx, requestID)
	if err != nil {
		uc.abandonReservation(ctx, requestID, driver)
		return nil, storeErr("get ride request", err)
	}

	if req.Status != models.RideStatusSearching {
		uc.abandonReservation(ctx, requestID, driver)
		uc.metrics.IncSearchFailure("cancelled")
		logger.InfoCtx(ctx, "Request cancelled during search",
			logger.String("request_id", requestID))
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRequestCancelled, requestID)
	}

	if searchErr != nil {
		uc.metrics.IncSearchFailure(failureReason(searchErr))
		logger.InfoCtx(ctx, "Search found no driver",
			logger.String("request_id", requestID),
			logger.Err(searchErr))
		return nil, searchErr
	}

	ride := newRide(req, driver)
	if err := uc.store.SaveRide(ctx, ride); err != nil {
		uc.abandonReservation(ctx, requestID, driver)
		uc.metrics.IncSearchFailure("storage")
		return nil, storeErr("save ride", err)
	}

	req.Status = models.RideStatusConverted
	if err := uc.store.UpdateRequest(ctx, req); err != nil {
		logger.WarnCtx(ctx, "Ride saved but request not marked converted",
			logger.String("request_id", requestID),
			logger.Err(err))
	}

	uc.metrics.IncMatched()
	uc.metrics.IncTransition(string(models.RideStatusMatched))
	logger.InfoCtx(ctx, "Ride matched",
		logger.String("ride_id", ride.ID),
		logger.String("driver_id", ride.DriverID),
		logger.String("passenger_id", ride.PassengerID))

	uc.publish(ctx, constants.SubjectRideMatched, models.NewRideEvent(ride))
	return ride, nil
}

func (uc *RideUC) abandonReservation(ctx context.Context, requestID string, driver *models.Driver) {
	if driver == nil {
		return
	}
	if err := uc.releaseDriver(ctx, driver.ID); err != nil {
		logger.ErrorCtx(ctx, "Failed to release driver after aborted search",
			logger.String("request_id", requestID),
			logger.String("driver_id", driver.ID),
			logger.Err(err))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNoDriversAvailable):
		return "no_drivers"
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		return "storage"
	default:
		return "error"
	}
}

func newRide(req *models.RideRequest, driver *models.Driver) *models.Ride {
	return &models.Ride{
		ID:          req.ID,
		PassengerID: req.PassengerID,
		DriverID:    driver.ID,
		Route: models.RideRoute{
			Origin:      req.Pickup,
			Destination: req.Destination,
			DistanceKm:  req.DistanceKm,
			DurationMin: req.EstimatedDurationMin,
		},
		VehicleClass: req.VehicleClass,
		Fare:         req.EstimatedFare,
		Payment: models.Payment{
			ID:     uuid.New().String(),
			Amount: req.EstimatedFare.Total,
			Method: models.PaymentMethodCash,
			Status: models.PaymentStatusPending,
		},
		Status:      models.RideStatusMatched,
		RequestedAt: req.RequestedAt,
		MatchedAt:   models.Now(),
	}
}
