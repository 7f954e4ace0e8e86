package rides

import (
	"context"

	"github.com/tara-ride/dispatch/internal/pkg/models"
)

// RideUC defines the ride lifecycle: requests are priced, matched to a
// driver, then advanced through the ride status graph
// go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/tara-ride/dispatch/services/rides RideUC
type RideUC interface {
	CreateRequest(ctx context.Context, in models.CreateRideRequest) (*models.RideRequest, error)
	Search(ctx context.Context, requestID string) (*models.Ride, error)
	Advance(ctx context.Context, id string, target models.RideStatus) (*models.Tracked, error)
	Cancel(ctx context.Context, id, reason string) (*models.Tracked, error)
	Get(ctx context.Context, id string) (*models.Tracked, error)
	ListForPassenger(ctx context.Context, passengerID string, filter models.HistoryFilter) ([]models.Tracked, error)
	ListForDriver(ctx context.Context, driverID string, filter models.HistoryFilter) ([]models.Ride, error)
	AddTip(ctx context.Context, rideID string, amount int) (*models.Ride, error)
	Rate(ctx context.Context, rideID string, by models.RatingParty, stars int) (*models.Ride, error)
}
