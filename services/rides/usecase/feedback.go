package usecase

import (
	"context"
	"fmt"

	"github.com/tara-ride/dispatch/internal/pkg/constants"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
)

// loadCompletedRide fetches a ride for post-trip actions. failure is returned
// when the id is not a completed ride.
func (uc *RideUC) loadCompletedRide(ctx context.Context, rideID string, failure error) (*models.Ride, error) {
	tracked, err := uc.load(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if tracked.Kind != models.TrackedRide || tracked.Ride.Status != models.RideStatusCompleted {
		return nil, fmt.Errorf("%w: %s is %s", failure, rideID, tracked.Status())
	}
	return tracked.Ride, nil
}

// AddTip adds a tip on top of a completed ride's fare
func (uc *RideUC) AddTip(ctx context.Context, rideID string, amount int) (*models.Ride, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", apperrors.ErrInvalidTip, amount)
	}

	unlock := uc.locks.Lock(rideKey(rideID))
	defer unlock()

	ride, err := uc.loadCompletedRide(ctx, rideID, apperrors.ErrInvalidTip)
	if err != nil {
		return nil, err
	}

	updated := *ride
	updated.Fare.Tip += amount
	updated.Fare.Total += amount
	updated.Payment.Amount = updated.Fare.Total

	if err := uc.store.UpdateRide(ctx, &updated); err != nil {
		return nil, storeErr("update ride", err)
	}

	logger.InfoCtx(ctx, "Tip added",
		logger.String("ride_id", rideID),
		logger.Int("tip", amount),
		logger.Int("total", updated.Fare.Total))

	uc.publish(ctx, constants.SubjectRideStatus, models.NewRideEvent(&updated))
	return &updated, nil
}

// Rate records one party's rating of a completed ride. A passenger rating
// also feeds the driver's average.
func (uc *RideUC) Rate(ctx context.Context, rideID string, by models.RatingParty, stars int) (*models.Ride, error) {
	if stars < 1 || stars > 5 {
		return nil, fmt.Errorf("%w: got %d", apperrors.ErrInvalidRating, stars)
	}
	if by != models.RatingByPassenger && by != models.RatingByDriver {
		return nil, fmt.Errorf("%w: unknown party %q", apperrors.ErrInvalidRating, by)
	}

	unlock := uc.locks.Lock(rideKey(rideID))
	defer unlock()

	ride, err := uc.loadCompletedRide(ctx, rideID, apperrors.ErrInvalidRating)
	if err != nil {
		return nil, err
	}

	updated := *ride
	switch by {
	case models.RatingByPassenger:
		if updated.Ratings.ByPassenger != 0 {
			return nil, apperrors.ErrAlreadyRated
		}
		updated.Ratings.ByPassenger = stars
	case models.RatingByDriver:
		if updated.Ratings.ByDriver != 0 {
			return nil, apperrors.ErrAlreadyRated
		}
		updated.Ratings.ByDriver = stars
	}

	if err := uc.store.UpdateRide(ctx, &updated); err != nil {
		return nil, storeErr("update ride", err)
	}

	if by == models.RatingByPassenger {
		if err := uc.directory.AddRating(ctx, updated.DriverID, stars); err != nil {
			logger.WarnCtx(ctx, "Failed to update driver rating",
				logger.String("driver_id", updated.DriverID),
				logger.Err(err))
		}
	}

	logger.InfoCtx(ctx, "Ride rated",
		logger.String("ride_id", rideID),
		logger.String("by", string(by)),
		logger.Int("stars", stars))
	return &updated, nil
}
