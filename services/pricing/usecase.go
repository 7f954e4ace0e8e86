package pricing

import (
	"github.com/tara-ride/dispatch/internal/pkg/models"
)

// FareEngine prices trips from coordinates. Implementations are pure.
type FareEngine interface {
	DistanceKm(a, b models.Coordinates) float64
	RoundKm(distanceKm float64) float64
	ComputeFare(distanceKm float64, class models.VehicleClass) (models.Fare, error)
	EstimateDurationMinutes(distanceKm float64) int
	Quote(pickup, destination models.Coordinates) []models.FareQuote
	Currency() string
}
