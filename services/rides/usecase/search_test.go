package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	drivermocks "github.com/tara-ride/dispatch/services/drivers/mocks"
	matchmocks "github.com/tara-ride/dispatch/services/match/mocks"
	"github.com/tara-ride/dispatch/services/rides"
)

func TestSearch_MatchesNearestDriver(t *testing.T) {
	f := newFixture(t)
	f.addDriver(t, "far", models.Coordinates{Latitude: 14.10, Longitude: 121.35})
	f.addDriver(t, "near", models.Coordinates{Latitude: 14.0690, Longitude: 121.3260})
	req := f.request(t, "p1")

	ride, err := f.uc.Search(context.Background(), req.ID)
	require.NoError(t, err)

	assert.Equal(t, req.ID, ride.ID)
	assert.Equal(t, "near", ride.DriverID)
	assert.Equal(t, models.RideStatusMatched, ride.Status)
	assert.Equal(t, req.EstimatedFare, ride.Fare)
	assert.Equal(t, 56, ride.Payment.Amount)
	assert.Equal(t, models.PaymentStatusPending, ride.Payment.Status)
	assert.Equal(t, req.RequestedAt, ride.RequestedAt)

	stored, err := f.store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusConverted, stored.Status)

	assert.True(t, f.driver(t, "near").Reserved)
	assert.False(t, f.driver(t, "far").Reserved)

	tracked, err := f.uc.Get(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TrackedRide, tracked.Kind)

	active, err := f.store.GetActive(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, ride.ID, active)

	assert.Equal(t, []string{"ride.requested", "ride.matched"}, f.events.subjects())
	assert.Equal(t, 1.0, counterValue(t, f.metrics, "dispatch_rides_matched_total"))
}

func TestSearch_NoDriversLeavesRequestSearchable(t *testing.T) {
	f := newFixture(t)
	req := f.request(t, "p1")

	ride, err := f.uc.Search(context.Background(), req.ID)
	assert.Nil(t, ride)
	assert.ErrorIs(t, err, apperrors.ErrNoDriversAvailable)

	stored, err := f.store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusSearching, stored.Status)

	_, err = f.uc.Search(context.Background(), req.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoDriversAvailable)

	f.addDriver(t, "d1", plaza.Coordinates)
	ride, err = f.uc.Search(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, "d1", ride.DriverID)
}

func TestSearch_SkipsOfflineAndReservedDrivers(t *testing.T) {
	f := newFixture(t)
	f.addDriver(t, "offline", smCity.Coordinates)
	f.addDriver(t, "busy", smCity.Coordinates)
	f.addDriver(t, "free", plaza.Coordinates)
	require.NoError(t, f.directory.SetOnline(context.Background(), "offline", false))
	_, err := f.directory.Reserve(context.Background(), "busy")
	require.NoError(t, err)

	req := f.request(t, "p1")
	ride, err := f.uc.Search(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, "free", ride.DriverID)
}

func TestSearch_OnlyFromRequesting(t *testing.T) {
	f := newFixture(t)
	ride := f.matchedRide(t, "p1", "d1")

	_, err := f.uc.Search(context.Background(), ride.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.uc.Search(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)
}

func TestSearch_DriverHoldsOneActiveRide(t *testing.T) {
	f := newFixture(t)
	first := f.matchedRide(t, "p1", "d1")

	second := f.request(t, "p2")
	_, err := f.uc.Search(context.Background(), second.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoDriversAvailable)

	f.advance(t, first.ID, models.RideStatusArriving, models.RideStatusArrived, models.RideStatusInProgress, models.RideStatusCompleted)

	ride, err := f.uc.Search(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, "d1", ride.DriverID)
}

func TestSearch_RetriesAfterLostRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	matcher := matchmocks.NewMockMatchUC(ctrl)
	f := newFixtureWithMatcher(t, matcher)
	directory := drivermocks.NewMockDirectory(ctrl)
	f.uc.directory = directory

	req := f.request(t, "p1")

	gomock.InOrder(
		matcher.EXPECT().FindNearestExcluding(gomock.Any(), smCity.Coordinates, models.VehicleSedan, map[string]struct{}{}).
			Return(&models.Driver{ID: "d1"}, nil),
		directory.EXPECT().Reserve(gomock.Any(), "d1").Return(false, nil),
		matcher.EXPECT().FindNearestExcluding(gomock.Any(), smCity.Coordinates, models.VehicleSedan, map[string]struct{}{"d1": {}}).
			Return(&models.Driver{ID: "d2"}, nil),
		directory.EXPECT().Reserve(gomock.Any(), "d2").Return(true, nil),
	)

	ride, err := f.uc.Search(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, "d2", ride.DriverID)
	assert.Equal(t, 1.0, counterValue(t, f.metrics, "dispatch_reserve_conflicts_total"))
}

func TestSearch_AllCandidatesTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	matcher := matchmocks.NewMockMatchUC(ctrl)
	f := newFixtureWithMatcher(t, matcher)
	directory := drivermocks.NewMockDirectory(ctrl)
	f.uc.directory = directory

	req := f.request(t, "p1")

	matcher.EXPECT().FindNearestExcluding(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.Driver{ID: "d1"}, nil).Times(2)
	directory.EXPECT().Reserve(gomock.Any(), "d1").Return(false, nil).Times(2)

	_, err := f.uc.Search(context.Background(), req.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoDriversAvailable)

	stored, err := f.store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusSearching, stored.Status)
}

func TestSearch_TimeoutCountsAsNoDrivers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	matcher := matchmocks.NewMockMatchUC(ctrl)
	f := newFixtureWithMatcher(t, matcher)
	f.uc.cfg.Match.SearchTimeout = 20 * time.Millisecond

	req := f.request(t, "p1")

	matcher.EXPECT().FindNearestExcluding(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ models.Coordinates, _ models.VehicleClass, _ map[string]struct{}) (*models.Driver, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	_, err := f.uc.Search(context.Background(), req.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoDriversAvailable)

	stored, err := f.store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusSearching, stored.Status)
}

func TestSearch_DirectoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	matcher := matchmocks.NewMockMatchUC(ctrl)
	f := newFixtureWithMatcher(t, matcher)

	req := f.request(t, "p1")

	matcher.EXPECT().FindNearestExcluding(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	_, err := f.uc.Search(context.Background(), req.ID)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

// blockingMatcher parks inside the scan until the test lets it continue
type blockingMatcher struct {
	driver  *models.Driver
	entered chan struct{}
	proceed chan struct{}
}

func (m *blockingMatcher) FindNearest(ctx context.Context, pickup models.Coordinates, class models.VehicleClass) (*models.Driver, error) {
	return m.FindNearestExcluding(ctx, pickup, class, nil)
}

func (m *blockingMatcher) FindNearestExcluding(ctx context.Context, pickup models.Coordinates, class models.VehicleClass, excluded map[string]struct{}) (*models.Driver, error) {
	close(m.entered)
	<-m.proceed
	return m.driver, nil
}

func TestSearch_CancelledMeanwhileReleasesDriver(t *testing.T) {
	matcher := &blockingMatcher{
		driver:  &models.Driver{ID: "d1"},
		entered: make(chan struct{}),
		proceed: make(chan struct{}),
	}
	f := newFixtureWithMatcher(t, matcher)
	f.addDriver(t, "d1", smCity.Coordinates)
	req := f.request(t, "p1")

	type result struct {
		ride *models.Ride
		err  error
	}
	done := make(chan result, 1)
	go func() {
		ride, err := f.uc.Search(context.Background(), req.ID)
		done <- result{ride, err}
	}()

	<-matcher.entered
	tracked, err := f.uc.Cancel(context.Background(), req.ID, "took a jeepney")
	require.NoError(t, err)
	assert.Equal(t, models.TrackedRequest, tracked.Kind)
	assert.Equal(t, models.RideStatusCancelled, tracked.Status())
	close(matcher.proceed)

	res := <-done
	assert.Nil(t, res.ride)
	assert.ErrorIs(t, res.err, apperrors.ErrRequestCancelled)

	assert.False(t, f.driver(t, "d1").Reserved)

	_, err = f.store.GetRide(context.Background(), req.ID)
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)

	active, err := f.store.GetActive(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSearch_RejectsSecondSearchWhileOneIsRunning(t *testing.T) {
	matcher := &blockingMatcher{
		driver:  &models.Driver{ID: "d1"},
		entered: make(chan struct{}),
		proceed: make(chan struct{}),
	}
	f := newFixtureWithMatcher(t, matcher)
	f.addDriver(t, "d1", smCity.Coordinates)
	req := f.request(t, "p1")

	done := make(chan error, 1)
	go func() {
		_, err := f.uc.Search(context.Background(), req.ID)
		done <- err
	}()

	<-matcher.entered
	_, err := f.uc.Search(context.Background(), req.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	close(matcher.proceed)

	require.NoError(t, <-done)
	ride, err := f.store.GetRide(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, "d1", ride.DriverID)
}

func TestSearch_ConcurrentSearchesShareNoDriver(t *testing.T) {
	f := newFixture(t)
	f.addDriver(t, "d1", smCity.Coordinates)

	const passengers = 8
	requests := make([]*models.RideRequest, passengers)
	for i := range requests {
		requests[i] = f.request(t, "p"+string(rune('a'+i)))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		matched []string
		errs    []error
	)
	for _, req := range requests {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			ride, err := f.uc.Search(context.Background(), id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			matched = append(matched, ride.ID)
		}(req.ID)
	}
	wg.Wait()

	require.Len(t, matched, 1)
	require.Len(t, errs, passengers-1)
	for _, err := range errs {
		assert.ErrorIs(t, err, apperrors.ErrNoDriversAvailable)
	}
	assert.True(t, f.driver(t, "d1").Reserved)

	list, err := f.store.ListRides(context.Background(), rides.RideQuery{DriverID: "d1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
