package repository

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tara-ride/dispatch/internal/pkg/database"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/rides"
)

func stores(t *testing.T) map[string]rides.RideStore {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return map[string]rides.RideStore{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(&database.RedisClient{Client: client}),
	}
}

func sampleRequest(id, passengerID string) *models.RideRequest {
	return &models.RideRequest{
		ID:          id,
		PassengerID: passengerID,
		Pickup: models.Location{
			Coordinates: models.Coordinates{Latitude: 14.0693, Longitude: 121.3265},
			Address:     "SM City",
		},
		Destination: models.Location{
			Coordinates: models.Coordinates{Latitude: 14.0662, Longitude: 121.3242},
			Address:     "City Hall",
		},
		VehicleClass:         models.VehicleSedan,
		DistanceKm:           0.42,
		EstimatedDurationMin: 5,
		EstimatedFare:        models.Fare{BaseFare: 50, DistanceFare: 6, Total: 56, Currency: "PHP"},
		Status:               models.RideStatusRequesting,
		RequestedAt:          time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
	}
}

func sampleRide(id, passengerID, driverID string) *models.Ride {
	return &models.Ride{
		ID:           id,
		PassengerID:  passengerID,
		DriverID:     driverID,
		VehicleClass: models.VehicleSedan,
		Fare:         models.Fare{BaseFare: 50, DistanceFare: 6, Total: 56, Currency: "PHP"},
		Payment:      models.Payment{ID: "pay-" + id, Amount: 56, Method: models.PaymentMethodCash, Status: models.PaymentStatusPending},
		Status:       models.RideStatusMatched,
		RequestedAt:  time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		MatchedAt:    time.Date(2024, 3, 4, 8, 1, 0, 0, time.UTC),
	}
}

func TestStore_Requests(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetRequest(ctx, "r1")
			assert.ErrorIs(t, err, apperrors.ErrRideNotFound)

			req := sampleRequest("r1", "p1")
			require.NoError(t, store.SaveRequest(ctx, req))

			got, err := store.GetRequest(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, req.EstimatedFare, got.EstimatedFare)
			assert.Equal(t, "City Hall", got.Destination.Address)
			assert.True(t, req.RequestedAt.Equal(got.RequestedAt))

			got.Status = models.RideStatusSearching
			require.NoError(t, store.UpdateRequest(ctx, got))

			again, err := store.GetRequest(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, models.RideStatusSearching, again.Status)

			assert.ErrorIs(t, store.UpdateRequest(ctx, sampleRequest("missing", "p1")), apperrors.ErrRideNotFound)

			require.NoError(t, store.SaveRequest(ctx, sampleRequest("r2", "p1")))
			require.NoError(t, store.SaveRequest(ctx, sampleRequest("r3", "p2")))

			list, err := store.ListRequests(ctx, "p1")
			require.NoError(t, err)
			ids := []string{}
			for _, r := range list {
				ids = append(ids, r.ID)
			}
			sort.Strings(ids)
			assert.Equal(t, []string{"r1", "r2"}, ids)

			list, err = store.ListRequests(ctx, "nobody")
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestStore_Rides(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetRide(ctx, "r1")
			assert.ErrorIs(t, err, apperrors.ErrRideNotFound)

			require.NoError(t, store.SaveRide(ctx, sampleRide("r1", "p1", "d1")))
			require.NoError(t, store.SaveRide(ctx, sampleRide("r2", "p1", "d2")))
			require.NoError(t, store.SaveRide(ctx, sampleRide("r3", "p2", "d1")))

			ride, err := store.GetRide(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, "d1", ride.DriverID)
			assert.Equal(t, 56, ride.Payment.Amount)

			ride.Status = models.RideStatusArriving
			require.NoError(t, store.UpdateRide(ctx, ride))
			ride, err = store.GetRide(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, models.RideStatusArriving, ride.Status)

			assert.ErrorIs(t, store.UpdateRide(ctx, sampleRide("missing", "p1", "d1")), apperrors.ErrRideNotFound)

			byPassenger, err := store.ListRides(ctx, rides.RideQuery{PassengerID: "p1"})
			require.NoError(t, err)
			assert.Len(t, byPassenger, 2)

			byDriver, err := store.ListRides(ctx, rides.RideQuery{DriverID: "d1"})
			require.NoError(t, err)
			assert.Len(t, byDriver, 2)

			both, err := store.ListRides(ctx, rides.RideQuery{PassengerID: "p1", DriverID: "d1"})
			require.NoError(t, err)
			require.Len(t, both, 1)
			assert.Equal(t, "r1", both[0].ID)
		})
	}
}

func TestStore_ActivePointer(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			id, err := store.GetActive(ctx, "p1")
			require.NoError(t, err)
			assert.Empty(t, id)

			require.NoError(t, store.SetActive(ctx, "p1", "r1"))
			id, err = store.GetActive(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "r1", id)

			require.NoError(t, store.SetActive(ctx, "p1", "r2"))
			id, err = store.GetActive(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "r2", id)

			require.NoError(t, store.ClearActive(ctx, "p1"))
			require.NoError(t, store.ClearActive(ctx, "p1"))
			id, err = store.GetActive(ctx, "p1")
			require.NoError(t, err)
			assert.Empty(t, id)
		})
	}
}

func TestMemoryStore_CopiesRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	req := sampleRequest("r1", "p1")
	require.NoError(t, store.SaveRequest(ctx, req))
	req.Status = models.RideStatusCancelled

	got, err := store.GetRequest(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusRequesting, got.Status)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStore(&database.RedisClient{Client: client})
	mr.Close()

	ctx := context.Background()
	assert.ErrorIs(t, store.SaveRequest(ctx, sampleRequest("r1", "p1")), apperrors.ErrStorageUnavailable)
	_, err = store.GetRide(ctx, "r1")
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	_, err = store.GetActive(ctx, "p1")
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}
