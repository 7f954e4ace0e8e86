package models

import "time"

// Driver is a registered driver as seen by the dispatch core
type Driver struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	VehicleClass VehicleClass `json:"vehicle_class"`
	PlateNumber  string       `json:"plate_number,omitempty"`
	Online       bool         `json:"online"`
	Location     Coordinates  `json:"location"`
	Geohash      string       `json:"geohash,omitempty"`
	Rating       float64      `json:"rating"`
	RatingCount  int          `json:"rating_count"`
	TotalTrips   int          `json:"total_trips"`
	Reserved     bool         `json:"reserved"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// DriverRegistration is the payload used to add a driver to the directory
type DriverRegistration struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	VehicleClass VehicleClass `json:"vehicle_class"`
	PlateNumber  string       `json:"plate_number"`
	Location     Coordinates  `json:"location"`
	Online       bool         `json:"online"`
}

// DriverOnlineRequest toggles the online flag of a driver
type DriverOnlineRequest struct {
	Online bool `json:"online"`
}

// DriverLocationRequest updates the last known position of a driver
type DriverLocationRequest struct {
	Location Coordinates `json:"location"`
}
