package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/rides"
	"github.com/tara-ride/dispatch/services/rides/mocks"
)

func completedAt(id string, total int, at time.Time) models.Ride {
	return models.Ride{
		ID:          id,
		DriverID:    "d1",
		Status:      models.RideStatusCompleted,
		Fare:        models.Fare{Total: total},
		CompletedAt: models.TimePtr(at),
	}
}

func TestDriverEarnings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockRideStore(ctrl)
	uc := NewEarningsUC(store, "PHP")
	// Wednesday
	uc.now = func() time.Time { return time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC) }

	store.EXPECT().ListRides(gomock.Any(), rides.RideQuery{DriverID: "d1"}).Return([]models.Ride{
		completedAt("today", 56, time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)),
		completedAt("monday", 100, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)),
		completedAt("last-sunday", 70, time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC)),
		completedAt("last-month", 200, time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC)),
		{ID: "cancelled", DriverID: "d1", Status: models.RideStatusCancelled, Fare: models.Fare{Total: 999}},
		{ID: "ongoing", DriverID: "d1", Status: models.RideStatusInProgress, Fare: models.Fare{Total: 999}},
	}, nil)

	earnings, err := uc.DriverEarnings(context.Background(), "d1")
	require.NoError(t, err)

	assert.Equal(t, 56, earnings.Today)
	assert.Equal(t, 156, earnings.Week)
	assert.Equal(t, 226, earnings.Month)
	assert.Equal(t, 426, earnings.Total)
	assert.Equal(t, 4, earnings.CompletedTrips)
	assert.Equal(t, "PHP", earnings.Currency)
}

func TestDriverEarnings_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockRideStore(ctrl)
	uc := NewEarningsUC(store, "PHP")

	_, err := uc.DriverEarnings(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidDriverID)

	store.EXPECT().ListRides(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	_, err = uc.DriverEarnings(context.Background(), "d1")
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestDriverEarnings_NoRides(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockRideStore(ctrl)
	uc := NewEarningsUC(store, "PHP")

	store.EXPECT().ListRides(gomock.Any(), gomock.Any()).Return(nil, nil)
	earnings, err := uc.DriverEarnings(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, &models.DriverEarnings{DriverID: "d1", Currency: "PHP"}, earnings)
}
