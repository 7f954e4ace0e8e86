package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	drivermocks "github.com/tara-ride/dispatch/services/drivers/mocks"
	ridemocks "github.com/tara-ride/dispatch/services/rides/mocks"
)

func TestRideLifecycle_Completes(t *testing.T) {
	f := newFixture(t)
	ride := f.matchedRide(t, "p1", "d1")

	arriving := f.advance(t, ride.ID, models.RideStatusArriving)
	require.NotNil(t, arriving.AcceptedAt)
	assert.True(t, f.driver(t, "d1").Reserved)

	completed := f.advance(t, ride.ID, models.RideStatusArrived, models.RideStatusInProgress, models.RideStatusCompleted)
	assert.Equal(t, models.RideStatusCompleted, completed.Status)
	assert.NotNil(t, completed.ArrivedAt)
	assert.NotNil(t, completed.StartedAt)
	assert.NotNil(t, completed.CompletedAt)
	assert.Equal(t, models.PaymentStatusCompleted, completed.Payment.Status)
	assert.Equal(t, completed.Fare.Total, completed.Payment.Amount)

	driver := f.driver(t, "d1")
	assert.False(t, driver.Reserved)
	assert.Equal(t, 1, driver.TotalTrips)

	active, err := f.store.GetActive(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.Equal(t, []string{
		"ride.requested", "ride.matched",
		"ride.status", "ride.status", "ride.status", "ride.completed",
	}, f.events.subjects())

	// the passenger may book again
	f.request(t, "p1")
}

func TestAdvance_RejectsSkippedSteps(t *testing.T) {
	f := newFixture(t)
	ride := f.matchedRide(t, "p1", "d1")

	for _, target := range []models.RideStatus{
		models.RideStatusInProgress,
		models.RideStatusCompleted,
		models.RideStatusMatched,
		models.RideStatusSearching,
		models.RideStatusConverted,
	} {
		_, err := f.uc.Advance(context.Background(), ride.ID, target)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "target %s", target)
	}

	stored, err := f.store.GetRide(context.Background(), ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusMatched, stored.Status)
}

func TestAdvance_RequestOnlyCancels(t *testing.T) {
	f := newFixture(t)
	req := f.request(t, "p1")

	_, err := f.uc.Advance(context.Background(), req.ID, models.RideStatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.uc.Advance(context.Background(), req.ID, models.RideStatusArriving)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	tracked, err := f.uc.Advance(context.Background(), req.ID, models.RideStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusCancelled, tracked.Status())

	_, err = f.uc.Advance(context.Background(), req.ID, models.RideStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestAdvance_UnknownID(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Advance(context.Background(), "missing", models.RideStatusArriving)
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)
}

func TestCancel_RideReleasesDriver(t *testing.T) {
	f := newFixture(t)
	ride := f.matchedRide(t, "p1", "d1")
	f.advance(t, ride.ID, models.RideStatusArriving)

	tracked, err := f.uc.Cancel(context.Background(), ride.ID, "driver too far")
	require.NoError(t, err)
	require.Equal(t, models.TrackedRide, tracked.Kind)
	assert.Equal(t, models.RideStatusCancelled, tracked.Ride.Status)
	assert.Equal(t, "driver too far", tracked.Ride.CancelReason)
	assert.NotNil(t, tracked.Ride.CancelledAt)

	driver := f.driver(t, "d1")
	assert.False(t, driver.Reserved)
	assert.Equal(t, 0, driver.TotalTrips)

	active, err := f.store.GetActive(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCancel_TerminalIsUnchanged(t *testing.T) {
	f := newFixture(t)
	ride := f.matchedRide(t, "p1", "d1")
	completed := f.advance(t, ride.ID, models.RideStatusArriving, models.RideStatusArrived, models.RideStatusInProgress, models.RideStatusCompleted)
	published := len(f.events.subjects())

	tracked, err := f.uc.Cancel(context.Background(), ride.ID, "too late")
	require.NoError(t, err)
	assert.Equal(t, completed, tracked.Ride)
	assert.Len(t, f.events.subjects(), published)

	req := f.request(t, "p1")
	first, err := f.uc.Cancel(context.Background(), req.ID, "first")
	require.NoError(t, err)
	second, err := f.uc.Cancel(context.Background(), req.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "first", second.Request.CancelReason)
}

func TestCancel_UnknownID(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Cancel(context.Background(), "missing", "")
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)
}

func TestAdvance_StorageFailureKeepsDriverReserved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t)
	store := ridemocks.NewMockRideStore(ctrl)
	directory := drivermocks.NewMockDirectory(ctrl)
	f.uc.store = store
	f.uc.directory = directory

	ride := &models.Ride{ID: "r1", PassengerID: "p1", DriverID: "d1", Status: models.RideStatusInProgress}
	store.EXPECT().GetRide(gomock.Any(), "r1").Return(ride, nil)
	store.EXPECT().UpdateRide(gomock.Any(), gomock.Any()).Return(errors.New("i/o timeout"))

	_, err := f.uc.Advance(context.Background(), "r1", models.RideStatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestAdvance_ReleaseFailureIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t)
	directory := drivermocks.NewMockDirectory(ctrl)
	f.uc.directory = directory

	ride := &models.Ride{ID: "r1", PassengerID: "p1", DriverID: "d1", Status: models.RideStatusInProgress}
	require.NoError(t, f.store.SaveRide(context.Background(), ride))
	require.NoError(t, f.store.SetActive(context.Background(), "p1", "r1"))

	directory.EXPECT().RecordTrip(gomock.Any(), "d1").Return(nil)
	directory.EXPECT().Release(gomock.Any(), "d1").Return(errors.New("connection reset"))

	_, err := f.uc.Advance(context.Background(), "r1", models.RideStatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)

	// the transition itself is committed
	stored, err := f.store.GetRide(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusCompleted, stored.Status)

	active, err := f.store.GetActive(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func closedRideWithHeldDriver(t *testing.T, f *fixture, directory *drivermocks.MockDirectory) {
	t.Helper()
	ride := &models.Ride{ID: "r1", PassengerID: "p1", DriverID: "d1", Status: models.RideStatusInProgress}
	require.NoError(t, f.store.SaveRide(context.Background(), ride))
	require.NoError(t, f.store.SetActive(context.Background(), "p1", "r1"))

	directory.EXPECT().RecordTrip(gomock.Any(), "d1").Return(nil)
	directory.EXPECT().Release(gomock.Any(), "d1").Return(errors.New("connection reset"))

	_, err := f.uc.Advance(context.Background(), "r1", models.RideStatusCompleted)
	require.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestCancel_ClosedRideRetriesDriverRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t)
	directory := drivermocks.NewMockDirectory(ctrl)
	f.uc.directory = directory
	closedRideWithHeldDriver(t, f, directory)
	published := len(f.events.subjects())

	directory.EXPECT().Release(gomock.Any(), "d1").Return(nil)

	tracked, err := f.uc.Cancel(context.Background(), "r1", "")
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusCompleted, tracked.Ride.Status)
	assert.True(t, tracked.Ride.DriverReleased)

	// released once, later cancels leave the directory alone
	again, err := f.uc.Cancel(context.Background(), "r1", "")
	require.NoError(t, err)
	assert.Equal(t, tracked.Ride, again.Ride)
	assert.Len(t, f.events.subjects(), published)
}

func TestCancel_ClosedRideReleaseStillFailing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t)
	directory := drivermocks.NewMockDirectory(ctrl)
	f.uc.directory = directory
	closedRideWithHeldDriver(t, f, directory)

	directory.EXPECT().Release(gomock.Any(), "d1").Return(errors.New("connection reset"))

	_, err := f.uc.Cancel(context.Background(), "r1", "")
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)

	stored, err := f.store.GetRide(context.Background(), "r1")
	require.NoError(t, err)
	assert.False(t, stored.DriverReleased)
}

func TestAdvance_ClosedRideRetriesDriverRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t)
	directory := drivermocks.NewMockDirectory(ctrl)
	f.uc.directory = directory
	closedRideWithHeldDriver(t, f, directory)

	directory.EXPECT().Release(gomock.Any(), "d1").Return(nil)

	_, err := f.uc.Advance(context.Background(), "r1", models.RideStatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	stored, err := f.store.GetRide(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusCompleted, stored.Status)
	assert.True(t, stored.DriverReleased)
}

func TestCancel_ClosedRideKeepsDriverOfNewerRide(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t)
	directory := drivermocks.NewMockDirectory(ctrl)
	f.uc.directory = directory
	closedRideWithHeldDriver(t, f, directory)

	newer := &models.Ride{ID: "r2", PassengerID: "p2", DriverID: "d1", Status: models.RideStatusMatched}
	require.NoError(t, f.store.SaveRide(context.Background(), newer))

	tracked, err := f.uc.Cancel(context.Background(), "r1", "")
	require.NoError(t, err)
	assert.True(t, tracked.Ride.DriverReleased)
}

func TestAdvance_ReleasedDriverCanBeMatchedAgain(t *testing.T) {
	f := newFixture(t)
	ride := f.matchedRide(t, "p1", "d1")
	completed := f.advance(t, ride.ID, models.RideStatusArriving, models.RideStatusArrived, models.RideStatusInProgress, models.RideStatusCompleted)
	assert.True(t, completed.DriverReleased)

	stored, err := f.store.GetRide(context.Background(), ride.ID)
	require.NoError(t, err)
	assert.True(t, stored.DriverReleased)

	next := f.request(t, "p2")
	matched, err := f.uc.Search(context.Background(), next.ID)
	require.NoError(t, err)
	assert.Equal(t, "d1", matched.DriverID)
}

func TestCreateRequest_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t)
	store := ridemocks.NewMockRideStore(ctrl)
	f.uc.store = store

	store.EXPECT().GetActive(gomock.Any(), "p1").Return("", errors.New("dial tcp: refused"))

	_, err := f.uc.CreateRequest(context.Background(), models.CreateRideRequest{
		PassengerID:  "p1",
		Pickup:       smCity,
		Destination:  cityHall,
		VehicleClass: models.VehicleSedan,
	})
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestCreateRequest_SaveFailureRollsBackPointer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t)
	store := ridemocks.NewMockRideStore(ctrl)
	f.uc.store = store

	gomock.InOrder(
		store.EXPECT().GetActive(gomock.Any(), "p1").Return("", nil),
		store.EXPECT().SetActive(gomock.Any(), "p1", gomock.Any()).Return(nil),
		store.EXPECT().SaveRequest(gomock.Any(), gomock.Any()).Return(errors.New("disk full")),
		store.EXPECT().ClearActive(gomock.Any(), "p1").Return(nil),
	)

	_, err := f.uc.CreateRequest(context.Background(), models.CreateRideRequest{
		PassengerID:  "p1",
		Pickup:       smCity,
		Destination:  cityHall,
		VehicleClass: models.VehicleSedan,
	})
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}
