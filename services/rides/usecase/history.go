package usecase

import (
	"context"
	"sort"

	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/rides"
)

// Get returns the ride with the id, or the request when no ride exists yet
func (uc *RideUC) Get(ctx context.Context, id string) (*models.Tracked, error) {
	if id == "" {
		return nil, apperrors.ErrRideNotFound
	}
	return uc.load(ctx, id)
}

// ListForPassenger returns the passenger's requests and rides, newest first.
// A request that became a ride is listed once, as the ride.
func (uc *RideUC) ListForPassenger(ctx context.Context, passengerID string, filter models.HistoryFilter) ([]models.Tracked, error) {
	if passengerID == "" {
		return nil, apperrors.ErrInvalidPassengerID
	}

	rideList, err := uc.store.ListRides(ctx, rides.RideQuery{PassengerID: passengerID})
	if err != nil {
		return nil, storeErr("list rides", err)
	}
	requests, err := uc.store.ListRequests(ctx, passengerID)
	if err != nil {
		return nil, storeErr("list ride requests", err)
	}

	seen := make(map[string]struct{}, len(rideList))
	result := make([]models.Tracked, 0, len(rideList)+len(requests))
	for i := range rideList {
		seen[rideList[i].ID] = struct{}{}
		if filter.Matches(rideList[i].Status) {
			result = append(result, *models.TrackRide(&rideList[i]))
		}
	}
	for i := range requests {
		if requests[i].Status == models.RideStatusConverted {
			continue
		}
		if _, ok := seen[requests[i].ID]; ok {
			continue
		}
		if filter.Matches(requests[i].Status) {
			result = append(result, *models.TrackRequest(&requests[i]))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RequestedAt().After(result[j].RequestedAt())
	})
	return result, nil
}

// ListForDriver returns the rides assigned to a driver, newest first
func (uc *RideUC) ListForDriver(ctx context.Context, driverID string, filter models.HistoryFilter) ([]models.Ride, error) {
	if driverID == "" {
		return nil, apperrors.ErrInvalidDriverID
	}

	rideList, err := uc.store.ListRides(ctx, rides.RideQuery{DriverID: driverID})
	if err != nil {
		return nil, storeErr("list rides", err)
	}

	result := make([]models.Ride, 0, len(rideList))
	for _, ride := range rideList {
		if filter.Matches(ride.Status) {
			result = append(result, ride)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RequestedAt.After(result[j].RequestedAt)
	})
	return result, nil
}
