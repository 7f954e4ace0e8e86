package models

import "time"

// RideEvent is published after a committed lifecycle change
type RideEvent struct {
	RideID       string       `json:"ride_id"`
	PassengerID  string       `json:"passenger_id"`
	DriverID     string       `json:"driver_id,omitempty"`
	VehicleClass VehicleClass `json:"vehicle_class"`
	Status       RideStatus   `json:"status"`
	Fare         Fare         `json:"fare"`
	Reason       string       `json:"reason,omitempty"`
	OccurredAt   time.Time    `json:"occurred_at"`
}

// NewRequestEvent builds an event from a ride request
func NewRequestEvent(req *RideRequest) RideEvent {
	return RideEvent{
		RideID:       req.ID,
		PassengerID:  req.PassengerID,
		VehicleClass: req.VehicleClass,
		Status:       req.Status,
		Fare:         req.EstimatedFare,
		Reason:       req.CancelReason,
		OccurredAt:   Now(),
	}
}

// NewRideEvent builds an event from a ride
func NewRideEvent(ride *Ride) RideEvent {
	return RideEvent{
		RideID:       ride.ID,
		PassengerID:  ride.PassengerID,
		DriverID:     ride.DriverID,
		VehicleClass: ride.VehicleClass,
		Status:       ride.Status,
		Fare:         ride.Fare,
		Reason:       ride.CancelReason,
		OccurredAt:   Now(),
	}
}

// DriverEarnings sums completed ride totals of a driver over calendar windows
type DriverEarnings struct {
	DriverID       string `json:"driver_id"`
	Today          int    `json:"today"`
	Week           int    `json:"week"`
	Month          int    `json:"month"`
	Total          int    `json:"total"`
	CompletedTrips int    `json:"completed_trips"`
	Currency       string `json:"currency"`
}
