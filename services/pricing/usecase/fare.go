package usecase

import (
	"fmt"
	"math"

	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/internal/utils"
	"github.com/tara-ride/dispatch/services/pricing"
)

const (
	defaultSpeedKmh       = 30.0
	defaultMinDurationMin = 5
)

type fareEngine struct {
	table          models.FareTable
	speedKmh       float64
	minDurationMin int
}

// NewFareEngine creates a fare engine over the given table and duration settings
func NewFareEngine(table models.FareTable, rides models.RidesConfig) pricing.FareEngine {
	speed := rides.AssumedSpeedKmh
	if speed <= 0 {
		speed = defaultSpeedKmh
	}
	minDuration := rides.MinDurationMin
	if minDuration <= 0 {
		minDuration = defaultMinDurationMin
	}
	return &fareEngine{
		table:          table,
		speedKmh:       speed,
		minDurationMin: minDuration,
	}
}

// RoundKm rounds a distance to two decimals for display and pricing
func RoundKm(d float64) float64 {
	return math.Round(d*100) / 100
}

func (e *fareEngine) RoundKm(d float64) float64 {
	return RoundKm(d)
}

// DistanceKm returns the full precision haversine distance
func (e *fareEngine) DistanceKm(a, b models.Coordinates) float64 {
	return utils.HaversineKm(a, b)
}

// ComputeFare prices a distance for a vehicle class. The distance part is
// rounded to whole currency units and the total is always base + distance.
func (e *fareEngine) ComputeFare(distanceKm float64, class models.VehicleClass) (models.Fare, error) {
	rate, ok := e.table.Rates[class]
	if !ok {
		return models.Fare{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidVehicleClass, class)
	}
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		distanceKm = 0
	}

	distanceFare := int(math.Round(distanceKm * float64(rate.PerKmRate)))
	return models.Fare{
		BaseFare:     rate.BaseFare,
		DistanceFare: distanceFare,
		Total:        rate.BaseFare + distanceFare,
		Currency:     e.table.Currency,
	}, nil
}

// EstimateDurationMinutes assumes a constant average speed with a floor
func (e *fareEngine) EstimateDurationMinutes(distanceKm float64) int {
	if distanceKm <= 0 {
		return e.minDurationMin
	}
	minutes := int(math.Ceil(distanceKm / e.speedKmh * 60))
	if minutes < e.minDurationMin {
		return e.minDurationMin
	}
	return minutes
}

// Quote prices the trip for every vehicle class
func (e *fareEngine) Quote(pickup, destination models.Coordinates) []models.FareQuote {
	distance := RoundKm(e.DistanceKm(pickup, destination))
	duration := e.EstimateDurationMinutes(distance)

	quotes := make([]models.FareQuote, 0, len(models.VehicleClasses))
	for _, class := range models.VehicleClasses {
		fare, err := e.ComputeFare(distance, class)
		if err != nil {
			continue
		}
		quotes = append(quotes, models.FareQuote{
			VehicleClass:         class,
			DistanceKm:           distance,
			EstimatedDurationMin: duration,
			Capacity:             e.table.Rates[class].Capacity,
			Fare:                 fare,
		})
	}
	return quotes
}

func (e *fareEngine) Currency() string {
	return e.table.Currency
}
