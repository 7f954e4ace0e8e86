package drivers

import (
	"context"

	"github.com/tara-ride/dispatch/internal/pkg/models"
)

// Directory is the registry of drivers used for matching. Reserve must be an
// atomic check-and-set so that concurrent searches never share a driver.
// go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/tara-ride/dispatch/services/drivers Directory
type Directory interface {
	Register(ctx context.Context, reg models.DriverRegistration) (*models.Driver, error)
	Get(ctx context.Context, driverID string) (*models.Driver, error)
	ListOnline(ctx context.Context, class models.VehicleClass) ([]models.Driver, error)
	Reserve(ctx context.Context, driverID string) (bool, error)
	Release(ctx context.Context, driverID string) error
	UpdateLocation(ctx context.Context, driverID string, location models.Coordinates) error
	SetOnline(ctx context.Context, driverID string, online bool) error
	RecordTrip(ctx context.Context, driverID string) error
	AddRating(ctx context.Context, driverID string, stars int) error
}
