package usecase

import (
	"context"
	"fmt"

	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/drivers"
)

// DriverUC implements the driver-facing use cases on top of the directory
type DriverUC struct {
	directory drivers.Directory
}

// NewDriverUC creates a new driver use case
func NewDriverUC(directory drivers.Directory) *DriverUC {
	return &DriverUC{directory: directory}
}

var _ drivers.DriverUC = (*DriverUC)(nil)

// RegisterDriver validates and stores a driver profile
func (uc *DriverUC) RegisterDriver(ctx context.Context, reg models.DriverRegistration) (*models.Driver, error) {
	if !reg.VehicleClass.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidVehicleClass, reg.VehicleClass)
	}
	if !reg.Location.Valid() {
		return nil, apperrors.ErrInvalidCoordinates
	}

	driver, err := uc.directory.Register(ctx, reg)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to register driver",
			logger.String("driver_id", reg.ID),
			logger.Err(err))
		return nil, err
	}

	logger.InfoCtx(ctx, "Driver registered",
		logger.String("driver_id", driver.ID),
		logger.String("vehicle_class", string(driver.VehicleClass)),
		logger.Bool("online", driver.Online))
	return driver, nil
}

func (uc *DriverUC) GetDriver(ctx context.Context, driverID string) (*models.Driver, error) {
	if driverID == "" {
		return nil, apperrors.ErrInvalidDriverID
	}
	return uc.directory.Get(ctx, driverID)
}

// SetOnline toggles availability. A reserved driver going offline keeps the
// current ride; it simply stops being offered new ones.
func (uc *DriverUC) SetOnline(ctx context.Context, driverID string, online bool) (*models.Driver, error) {
	if driverID == "" {
		return nil, apperrors.ErrInvalidDriverID
	}
	if err := uc.directory.SetOnline(ctx, driverID, online); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Driver availability changed",
		logger.String("driver_id", driverID),
		logger.Bool("online", online))
	return uc.directory.Get(ctx, driverID)
}

func (uc *DriverUC) UpdateLocation(ctx context.Context, driverID string, location models.Coordinates) (*models.Driver, error) {
	if driverID == "" {
		return nil, apperrors.ErrInvalidDriverID
	}
	if !location.Valid() {
		return nil, apperrors.ErrInvalidCoordinates
	}
	if err := uc.directory.UpdateLocation(ctx, driverID, location); err != nil {
		return nil, err
	}

	logger.DebugCtx(ctx, "Driver location updated",
		logger.String("driver_id", driverID),
		logger.Float64("latitude", location.Latitude),
		logger.Float64("longitude", location.Longitude))
	return uc.directory.Get(ctx, driverID)
}
