package rides

import (
	"context"

	"github.com/tara-ride/dispatch/internal/pkg/models"
)

// RideGW publishes lifecycle events to the message bus
// go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/tara-ride/dispatch/services/rides RideGW
type RideGW interface {
	PublishRideEvent(ctx context.Context, subject string, event models.RideEvent) error
}
