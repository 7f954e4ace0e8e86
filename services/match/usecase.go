package match

import (
	"context"

	"github.com/tara-ride/dispatch/internal/pkg/models"
)

// MatchUC selects the driver to offer a ride to. Implementations must not
// reserve or otherwise mutate the directory.
// go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/tara-ride/dispatch/services/match MatchUC
type MatchUC interface {
	FindNearest(ctx context.Context, pickup models.Coordinates, class models.VehicleClass) (*models.Driver, error)
	FindNearestExcluding(ctx context.Context, pickup models.Coordinates, class models.VehicleClass, excluded map[string]struct{}) (*models.Driver, error)
}
