package gateway

import (
	"context"
	"fmt"

	"github.com/tara-ride/dispatch/internal/pkg/models"
	nsqpkg "github.com/tara-ride/dispatch/internal/pkg/nsq"
	"github.com/tara-ride/dispatch/services/rides"
)

// NSQGateway publishes ride events to NSQ topics named after the subject
type NSQGateway struct {
	producer *nsqpkg.Producer
}

// NewNSQGateway creates a new NSQ ride gateway
func NewNSQGateway(producer *nsqpkg.Producer) *NSQGateway {
	return &NSQGateway{producer: producer}
}

var _ rides.RideGW = (*NSQGateway)(nil)

func (g *NSQGateway) PublishRideEvent(ctx context.Context, subject string, event models.RideEvent) error {
	if err := g.producer.Publish(subject, event); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}
