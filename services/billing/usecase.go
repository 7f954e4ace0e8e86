package billing

import (
	"context"

	"github.com/tara-ride/dispatch/internal/pkg/models"
)

// EarningsUC reports what drivers earned from completed rides
// go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/tara-ride/dispatch/services/billing EarningsUC
type EarningsUC interface {
	DriverEarnings(ctx context.Context, driverID string) (*models.DriverEarnings, error)
}
