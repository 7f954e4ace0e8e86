package gateway

import (
	"context"

	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/rides"
)

// NoopGateway drops events. Used when EVENTS_BACKEND=none.
type NoopGateway struct{}

var _ rides.RideGW = NoopGateway{}

func (NoopGateway) PublishRideEvent(ctx context.Context, subject string, event models.RideEvent) error {
	logger.DebugCtx(ctx, "Ride event dropped, no events backend",
		logger.String("subject", subject),
		logger.String("ride_id", event.RideID))
	return nil
}
