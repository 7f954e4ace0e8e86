package gateway

import (
	"context"
	"fmt"

	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	natspkg "github.com/tara-ride/dispatch/internal/pkg/nats"
	nrpkg "github.com/tara-ride/dispatch/internal/pkg/newrelic"
	"github.com/tara-ride/dispatch/services/rides"
)

// NATSGateway publishes ride events as JSON on NATS subjects
type NATSGateway struct {
	natsClient *natspkg.Client
}

// NewNATSGateway creates a new NATS ride gateway
func NewNATSGateway(natsClient *natspkg.Client) *NATSGateway {
	return &NATSGateway{natsClient: natsClient}
}

var _ rides.RideGW = (*NATSGateway)(nil)

func (g *NATSGateway) PublishRideEvent(ctx context.Context, subject string, event models.RideEvent) error {
	return nrpkg.WithSegment(ctx, "NATS/"+subject, func() error {
		if err := g.natsClient.PublishJSON(subject, event); err != nil {
			return fmt.Errorf("failed to publish %s: %w", subject, err)
		}
		logger.DebugCtx(ctx, "Published ride event",
			logger.String("subject", subject),
			logger.String("ride_id", event.RideID),
			logger.String("status", string(event.Status)))
		return nil
	})
}
