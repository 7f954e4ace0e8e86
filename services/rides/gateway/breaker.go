package gateway

import (
	"context"

	"github.com/tara-ride/dispatch/internal/pkg/circuitbreaker"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/rides"
)

// BreakerGateway stops publishing to a broker that keeps failing so ride
// operations do not wait on retries against it.
type BreakerGateway struct {
	next    rides.RideGW
	breaker *circuitbreaker.Breaker
}

// NewBreakerGateway wraps next with breaker
func NewBreakerGateway(next rides.RideGW, breaker *circuitbreaker.Breaker) *BreakerGateway {
	return &BreakerGateway{next: next, breaker: breaker}
}

var _ rides.RideGW = (*BreakerGateway)(nil)

func (g *BreakerGateway) PublishRideEvent(ctx context.Context, subject string, event models.RideEvent) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.PublishRideEvent(ctx, subject, event)
	})
}
