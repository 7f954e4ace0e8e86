package usecase

import (
	"context"

	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/drivers"
	"github.com/tara-ride/dispatch/services/match"
	"github.com/tara-ride/dispatch/services/pricing"
)

// MatchUC picks the nearest eligible driver from the directory
type MatchUC struct {
	directory drivers.Directory
	fares     pricing.FareEngine
}

// NewMatchUC creates a new matching use case
func NewMatchUC(directory drivers.Directory, fares pricing.FareEngine) *MatchUC {
	return &MatchUC{
		directory: directory,
		fares:     fares,
	}
}

var _ match.MatchUC = (*MatchUC)(nil)

// FindNearest returns the online, unreserved driver of the class closest to
// pickup. Ties go to the driver listed first.
func (uc *MatchUC) FindNearest(ctx context.Context, pickup models.Coordinates, class models.VehicleClass) (*models.Driver, error) {
	return uc.FindNearestExcluding(ctx, pickup, class, nil)
}

// FindNearestExcluding is FindNearest ignoring the given driver ids
func (uc *MatchUC) FindNearestExcluding(ctx context.Context, pickup models.Coordinates, class models.VehicleClass, excluded map[string]struct{}) (*models.Driver, error) {
	candidates, err := uc.directory.ListOnline(ctx, class)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to list candidate drivers",
			logger.String("vehicle_class", string(class)),
			logger.Err(err))
		return nil, err
	}

	var (
		best     *models.Driver
		bestDist float64
	)
	for i := range candidates {
		if _, skip := excluded[candidates[i].ID]; skip {
			continue
		}
		dist := uc.fares.DistanceKm(pickup, candidates[i].Location)
		if best == nil || dist < bestDist {
			best = &candidates[i]
			bestDist = dist
		}
	}

	if best == nil {
		logger.DebugCtx(ctx, "No eligible drivers",
			logger.String("vehicle_class", string(class)),
			logger.Int("candidates", len(candidates)),
			logger.Int("excluded", len(excluded)))
		return nil, apperrors.ErrNoDriversAvailable
	}

	logger.DebugCtx(ctx, "Nearest driver selected",
		logger.String("driver_id", best.ID),
		logger.Float64("distance_km", bestDist))
	return best, nil
}
