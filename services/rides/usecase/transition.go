package usecase

import (
	"context"
	"fmt"

	"github.com/tara-ride/dispatch/internal/pkg/constants"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/rides"
)

// Advance moves a ride one step along the status graph, or cancels it.
// Requests only accept cancellation here; matching goes through Search.
func (uc *RideUC) Advance(ctx context.Context, id string, target models.RideStatus) (*models.Tracked, error) {
	unlock := uc.locks.Lock(rideKey(id))
	defer unlock()

	tracked, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if tracked.Kind == models.TrackedRequest {
		req := tracked.Request
		if target != models.RideStatusCancelled || req.Status.IsTerminal() {
			return nil, fmt.Errorf("%w: request %s is %s", apperrors.ErrInvalidTransition, id, req.Status)
		}
		cancelled, err := uc.cancelRequest(ctx, req, "")
		if err != nil {
			return nil, err
		}
		return models.TrackRequest(cancelled), nil
	}

	if tracked.Ride.Status.IsTerminal() {
		if _, err := uc.settleDriver(ctx, tracked.Ride); err != nil {
			return nil, err
		}
	}

	ride, err := uc.transitionRide(ctx, tracked.Ride, target, "")
	if err != nil {
		return nil, err
	}
	return models.TrackRide(ride), nil
}

// Cancel cancels a request or ride. Cancelling something already terminal
// returns it unchanged, apart from finishing a driver release that failed
// when the ride closed.
func (uc *RideUC) Cancel(ctx context.Context, id, reason string) (*models.Tracked, error) {
	unlock := uc.locks.Lock(rideKey(id))
	defer unlock()

	tracked, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if tracked.Status().IsTerminal() {
		logger.DebugCtx(ctx, "Cancel on terminal entity ignored",
			logger.String("id", id),
			logger.String("status", string(tracked.Status())))
		if tracked.Kind == models.TrackedRide {
			ride, err := uc.settleDriver(ctx, tracked.Ride)
			if err != nil {
				return nil, err
			}
			return models.TrackRide(ride), nil
		}
		return tracked, nil
	}

	if tracked.Kind == models.TrackedRequest {
		req, err := uc.cancelRequest(ctx, tracked.Request, reason)
		if err != nil {
			return nil, err
		}
		return models.TrackRequest(req), nil
	}

	ride, err := uc.transitionRide(ctx, tracked.Ride, models.RideStatusCancelled, reason)
	if err != nil {
		return nil, err
	}
	return models.TrackRide(ride), nil
}

// cancelRequest cancels a request that has no ride yet. A search still in
// flight notices the new status and gives its driver back.
func (uc *RideUC) cancelRequest(ctx context.Context, req *models.RideRequest, reason string) (*models.RideRequest, error) {
	updated := *req
	now := models.Now()
	updated.Status = models.RideStatusCancelled
	updated.CancelledAt = &now
	updated.CancelReason = reason

	if err := uc.store.UpdateRequest(ctx, &updated); err != nil {
		return nil, storeErr("update ride request", err)
	}
	uc.metrics.IncTransition(string(models.RideStatusCancelled))

	uc.clearActive(context.WithoutCancel(ctx), updated.PassengerID, updated.ID)

	logger.InfoCtx(ctx, "Ride request cancelled",
		logger.String("request_id", updated.ID),
		logger.String("previous_status", string(req.Status)),
		logger.String("reason", reason))

	uc.publish(ctx, constants.SubjectRideCancelled, models.NewRequestEvent(&updated))
	return &updated, nil
}

// transitionRide persists the new status first. Side effects of reaching a
// terminal status run only after the write succeeded.
func (uc *RideUC) transitionRide(ctx context.Context, ride *models.Ride, target models.RideStatus, reason string) (*models.Ride, error) {
	if !models.CanTransition(ride.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, ride.Status, target)
	}

	updated := *ride
	now := models.Now()
	updated.Status = target
	switch target {
	case models.RideStatusArriving:
		updated.AcceptedAt = &now
	case models.RideStatusArrived:
		updated.ArrivedAt = &now
	case models.RideStatusInProgress:
		updated.StartedAt = &now
	case models.RideStatusCompleted:
		updated.CompletedAt = &now
		updated.Payment.Amount = updated.Fare.Total
		updated.Payment.Status = models.PaymentStatusCompleted
	case models.RideStatusCancelled:
		updated.CancelledAt = &now
		updated.CancelReason = reason
	}

	if err := uc.store.UpdateRide(ctx, &updated); err != nil {
		return nil, storeErr("update ride", err)
	}
	uc.metrics.IncTransition(string(target))

	logger.InfoCtx(ctx, "Ride status changed",
		logger.String("ride_id", updated.ID),
		logger.String("from", string(ride.Status)),
		logger.String("to", string(target)))

	var releaseErr error
	if target.IsTerminal() {
		commitCtx := context.WithoutCancel(ctx)
		uc.clearActive(commitCtx, updated.PassengerID, updated.ID)

		if target == models.RideStatusCompleted {
			if err := uc.directory.RecordTrip(commitCtx, updated.DriverID); err != nil {
				logger.WarnCtx(ctx, "Failed to record driver trip",
					logger.String("driver_id", updated.DriverID),
					logger.Err(err))
			}
		}

		if err := uc.releaseDriver(commitCtx, updated.DriverID); err != nil {
			logger.ErrorCtx(ctx, "Ride closed but driver is still reserved",
				logger.String("ride_id", updated.ID),
				logger.String("driver_id", updated.DriverID),
				logger.Err(err))
			releaseErr = storeErr("release driver", err)
		} else {
			updated = *uc.markDriverReleased(commitCtx, &updated)
		}
	}

	uc.publish(ctx, subjectFor(target), models.NewRideEvent(&updated))

	if releaseErr != nil {
		return nil, releaseErr
	}
	return &updated, nil
}

// settleDriver finishes the driver release of a terminal ride whose release
// failed when it closed. A driver that already holds another active ride is
// not touched, only the ride is marked.
func (uc *RideUC) settleDriver(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	if ride.DriverReleased || ride.DriverID == "" {
		return ride, nil
	}
	ctx = context.WithoutCancel(ctx)

	busy, err := uc.driverBusyElsewhere(ctx, ride)
	if err != nil {
		return nil, err
	}
	if !busy {
		if err := uc.releaseDriver(ctx, ride.DriverID); err != nil {
			logger.ErrorCtx(ctx, "Driver of closed ride is still reserved",
				logger.String("ride_id", ride.ID),
				logger.String("driver_id", ride.DriverID),
				logger.Err(err))
			return nil, storeErr("release driver", err)
		}
		logger.InfoCtx(ctx, "Released driver of closed ride",
			logger.String("ride_id", ride.ID),
			logger.String("driver_id", ride.DriverID))
	}
	return uc.markDriverReleased(ctx, ride), nil
}

func (uc *RideUC) driverBusyElsewhere(ctx context.Context, ride *models.Ride) (bool, error) {
	list, err := uc.store.ListRides(ctx, rides.RideQuery{DriverID: ride.DriverID})
	if err != nil {
		return false, storeErr("list driver rides", err)
	}
	for i := range list {
		if list[i].ID != ride.ID && !list[i].Status.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

// markDriverReleased records the release on the ride. A failed write only
// means a later settleDriver checks the directory again.
func (uc *RideUC) markDriverReleased(ctx context.Context, ride *models.Ride) *models.Ride {
	updated := *ride
	updated.DriverReleased = true
	if err := uc.store.UpdateRide(ctx, &updated); err != nil {
		logger.WarnCtx(ctx, "Failed to record driver release",
			logger.String("ride_id", ride.ID),
			logger.Err(err))
	}
	return &updated
}

func subjectFor(status models.RideStatus) string {
	switch status {
	case models.RideStatusCompleted:
		return constants.SubjectRideCompleted
	case models.RideStatusCancelled:
		return constants.SubjectRideCancelled
	default:
		return constants.SubjectRideStatus
	}
}
