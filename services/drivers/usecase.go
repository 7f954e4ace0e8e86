package drivers

import (
	"context"

	"github.com/tara-ride/dispatch/internal/pkg/models"
)

// DriverUC defines the driver-facing operations exposed over HTTP
// go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/tara-ride/dispatch/services/drivers DriverUC
type DriverUC interface {
	RegisterDriver(ctx context.Context, reg models.DriverRegistration) (*models.Driver, error)
	GetDriver(ctx context.Context, driverID string) (*models.Driver, error)
	SetOnline(ctx context.Context, driverID string, online bool) (*models.Driver, error)
	UpdateLocation(ctx context.Context, driverID string, location models.Coordinates) (*models.Driver, error)
}
