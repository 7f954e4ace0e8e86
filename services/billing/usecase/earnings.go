package usecase

import (
	"context"
	"time"

	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/billing"
	"github.com/tara-ride/dispatch/services/rides"
)

// EarningsUC sums the totals of completed rides, tips included
type EarningsUC struct {
	store    rides.RideStore
	currency string
	now      func() time.Time
}

// NewEarningsUC creates the earnings use case over the ride store
func NewEarningsUC(store rides.RideStore, currency string) *EarningsUC {
	return &EarningsUC{
		store:    store,
		currency: currency,
		now:      models.Now,
	}
}

var _ billing.EarningsUC = (*EarningsUC)(nil)

// DriverEarnings buckets completed rides by completion time. Weeks start on
// Monday; all windows are in UTC.
func (uc *EarningsUC) DriverEarnings(ctx context.Context, driverID string) (*models.DriverEarnings, error) {
	if driverID == "" {
		return nil, apperrors.ErrInvalidDriverID
	}

	list, err := uc.store.ListRides(ctx, rides.RideQuery{DriverID: driverID})
	if err != nil {
		if apperrors.IsDomain(err) {
			return nil, err
		}
		return nil, apperrors.Storage("list rides", err)
	}

	now := uc.now()
	day, week, month := models.StartOfDay(now), models.StartOfWeek(now), models.StartOfMonth(now)

	earnings := &models.DriverEarnings{DriverID: driverID, Currency: uc.currency}
	for _, ride := range list {
		if ride.Status != models.RideStatusCompleted || ride.CompletedAt == nil {
			continue
		}
		completedAt := ride.CompletedAt.UTC()
		amount := ride.Fare.Total

		earnings.Total += amount
		earnings.CompletedTrips++
		if !completedAt.Before(month) {
			earnings.Month += amount
		}
		if !completedAt.Before(week) {
			earnings.Week += amount
		}
		if !completedAt.Before(day) {
			earnings.Today += amount
		}
	}

	logger.DebugCtx(ctx, "Driver earnings computed",
		logger.String("driver_id", driverID),
		logger.Int("completed_trips", earnings.CompletedTrips),
		logger.Int("total", earnings.Total))
	return earnings, nil
}
