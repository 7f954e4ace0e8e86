package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLocations    = errors.New("pickup and destination must differ")
	ErrRideAlreadyActive   = errors.New("passenger already has an active ride")
	ErrNoDriversAvailable  = errors.New("no available drivers found")
	ErrInvalidTransition   = errors.New("invalid ride status transition")
	ErrRideNotFound        = errors.New("ride not found")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrInvalidVehicleClass = errors.New("invalid vehicle class")
	ErrDriverNotFound      = errors.New("driver not found")
	ErrInvalidDriverID     = errors.New("driver_id is required")
	ErrInvalidPassengerID  = errors.New("passenger_id is required")
	ErrInvalidCoordinates  = errors.New("invalid location coordinates")
	ErrRequestCancelled    = errors.New("ride request was cancelled")
	ErrInvalidTip          = errors.New("tip must be a positive amount on a completed ride")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrAlreadyRated        = errors.New("ride already rated by this party")
)

// Storage wraps a backend failure so callers can match ErrStorageUnavailable
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}

// IsDomain reports whether err carries one of the sentinels above other than
// ErrStorageUnavailable
func IsDomain(err error) bool {
	for _, target := range []error{
		ErrInvalidLocations, ErrRideAlreadyActive, ErrNoDriversAvailable,
		ErrInvalidTransition, ErrRideNotFound, ErrInvalidVehicleClass,
		ErrDriverNotFound, ErrInvalidDriverID, ErrInvalidPassengerID,
		ErrInvalidCoordinates, ErrRequestCancelled, ErrInvalidTip,
		ErrInvalidRating, ErrAlreadyRated,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
