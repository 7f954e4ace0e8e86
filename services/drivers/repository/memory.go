package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tara-ride/dispatch/internal/pkg/constants"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/internal/utils"
	"github.com/tara-ride/dispatch/services/drivers"
)

// MemoryDirectory keeps drivers in process, in registration order
type MemoryDirectory struct {
	mu      sync.Mutex
	order   []string
	drivers map[string]*models.Driver
}

// NewMemoryDirectory creates an empty in-memory directory
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{drivers: make(map[string]*models.Driver)}
}

var _ drivers.Directory = (*MemoryDirectory)(nil)

// Register adds a driver or refreshes the profile of a known one. A known
// driver keeps its position in the scan order and its reservation.
func (d *MemoryDirectory) Register(ctx context.Context, reg models.DriverRegistration) (*models.Driver, error) {
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	driver, ok := d.drivers[reg.ID]
	if !ok {
		driver = &models.Driver{ID: reg.ID}
		d.drivers[reg.ID] = driver
		d.order = append(d.order, reg.ID)
	}
	driver.Name = reg.Name
	driver.VehicleClass = reg.VehicleClass
	driver.PlateNumber = reg.PlateNumber
	driver.Online = reg.Online
	driver.Location = reg.Location
	driver.Geohash = utils.EncodeLocation(reg.Location, constants.GeohashPrecision)
	driver.UpdatedAt = models.Now()

	out := *driver
	return &out, nil
}

func (d *MemoryDirectory) Get(ctx context.Context, driverID string) (*models.Driver, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	driver, ok := d.drivers[driverID]
	if !ok {
		return nil, apperrors.ErrDriverNotFound
	}
	out := *driver
	return &out, nil
}

// ListOnline returns online, unreserved drivers of the class in registration order
func (d *MemoryDirectory) ListOnline(ctx context.Context, class models.VehicleClass) ([]models.Driver, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	result := make([]models.Driver, 0, len(d.order))
	for _, id := range d.order {
		driver := d.drivers[id]
		if driver.Online && !driver.Reserved && driver.VehicleClass == class {
			result = append(result, *driver)
		}
	}
	return result, nil
}

// Reserve marks an online, unreserved driver as reserved in one critical section
func (d *MemoryDirectory) Reserve(ctx context.Context, driverID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	driver, ok := d.drivers[driverID]
	if !ok {
		return false, apperrors.ErrDriverNotFound
	}
	if !driver.Online || driver.Reserved {
		return false, nil
	}
	driver.Reserved = true
	return true, nil
}

func (d *MemoryDirectory) Release(ctx context.Context, driverID string) error {
	return d.update(driverID, func(driver *models.Driver) {
		driver.Reserved = false
	})
}

func (d *MemoryDirectory) UpdateLocation(ctx context.Context, driverID string, location models.Coordinates) error {
	return d.update(driverID, func(driver *models.Driver) {
		driver.Location = location
		driver.Geohash = utils.EncodeLocation(location, constants.GeohashPrecision)
		driver.UpdatedAt = models.Now()
	})
}

func (d *MemoryDirectory) SetOnline(ctx context.Context, driverID string, online bool) error {
	return d.update(driverID, func(driver *models.Driver) {
		driver.Online = online
		driver.UpdatedAt = models.Now()
	})
}

func (d *MemoryDirectory) RecordTrip(ctx context.Context, driverID string) error {
	return d.update(driverID, func(driver *models.Driver) {
		driver.TotalTrips++
	})
}

// AddRating folds a new star rating into the running average
func (d *MemoryDirectory) AddRating(ctx context.Context, driverID string, stars int) error {
	return d.update(driverID, func(driver *models.Driver) {
		total := driver.Rating*float64(driver.RatingCount) + float64(stars)
		driver.RatingCount++
		driver.Rating = total / float64(driver.RatingCount)
	})
}

func (d *MemoryDirectory) update(driverID string, fn func(*models.Driver)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	driver, ok := d.drivers[driverID]
	if !ok {
		return apperrors.ErrDriverNotFound
	}
	fn(driver)
	return nil
}
