package rides

import (
	"context"

	"github.com/tara-ride/dispatch/internal/pkg/models"
)

// RideQuery selects rides by owner. Empty fields are ignored.
type RideQuery struct {
	PassengerID string
	DriverID    string
}

// RideStore is the durable record of ride requests, rides and the active
// pointer of every passenger. Writes replace whole records; missing records
// are reported as ErrRideNotFound.
// go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/tara-ride/dispatch/services/rides RideStore
type RideStore interface {
	SaveRequest(ctx context.Context, req *models.RideRequest) error
	GetRequest(ctx context.Context, id string) (*models.RideRequest, error)
	UpdateRequest(ctx context.Context, req *models.RideRequest) error
	ListRequests(ctx context.Context, passengerID string) ([]models.RideRequest, error)

	SaveRide(ctx context.Context, ride *models.Ride) error
	GetRide(ctx context.Context, id string) (*models.Ride, error)
	UpdateRide(ctx context.Context, ride *models.Ride) error
	ListRides(ctx context.Context, query RideQuery) ([]models.Ride, error)

	SetActive(ctx context.Context, passengerID, id string) error
	// GetActive returns an empty id when the passenger has no pointer
	GetActive(ctx context.Context, passengerID string) (string, error)
	ClearActive(ctx context.Context, passengerID string) error
}
