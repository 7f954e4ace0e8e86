package models

import "time"

// TrackedKind tells which variant a Tracked value holds
type TrackedKind string

const (
	TrackedRequest TrackedKind = "request"
	TrackedRide    TrackedKind = "ride"
)

// Tracked is either a RideRequest or a Ride, discriminated by Kind.
// Exactly one of Request and Ride is set.
type Tracked struct {
	Kind    TrackedKind  `json:"kind"`
	Request *RideRequest `json:"request,omitempty"`
	Ride    *Ride        `json:"ride,omitempty"`
}

// TrackRequest wraps a request
func TrackRequest(req *RideRequest) *Tracked {
	return &Tracked{Kind: TrackedRequest, Request: req}
}

// TrackRide wraps a ride
func TrackRide(ride *Ride) *Tracked {
	return &Tracked{Kind: TrackedRide, Ride: ride}
}

// ID returns the id of the wrapped entity
func (t *Tracked) ID() string {
	if t.Kind == TrackedRide {
		return t.Ride.ID
	}
	return t.Request.ID
}

// Status returns the status of the wrapped entity
func (t *Tracked) Status() RideStatus {
	if t.Kind == TrackedRide {
		return t.Ride.Status
	}
	return t.Request.Status
}

// PassengerID returns the passenger owning the wrapped entity
func (t *Tracked) PassengerID() string {
	if t.Kind == TrackedRide {
		return t.Ride.PassengerID
	}
	return t.Request.PassengerID
}

// RequestedAt returns when the trip was first requested
func (t *Tracked) RequestedAt() time.Time {
	if t.Kind == TrackedRide {
		return t.Ride.RequestedAt
	}
	return t.Request.RequestedAt
}
