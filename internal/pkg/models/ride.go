package models

import "time"

// RideStatus represents the lifecycle state of a ride or ride request
type RideStatus string

const (
	RideStatusRequesting RideStatus = "requesting"
	RideStatusSearching  RideStatus = "searching"
	RideStatusMatched    RideStatus = "matched"
	RideStatusArriving   RideStatus = "arriving"
	RideStatusArrived    RideStatus = "arrived"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"

	// RideStatusConverted marks a request that produced a ride. Requests only.
	RideStatusConverted RideStatus = "converted"
)

// IsTerminal reports whether no further transition can leave this status
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled || s == RideStatusConverted
}

// rideTransitions is the forward graph of a matched ride. Cancellation is
// handled separately since it is reachable from every non-terminal status.
var rideTransitions = map[RideStatus]RideStatus{
	RideStatusMatched:    RideStatusArriving,
	RideStatusArriving:   RideStatusArrived,
	RideStatusArrived:    RideStatusInProgress,
	RideStatusInProgress: RideStatusCompleted,
}

// CanTransition reports whether a ride may move from one status to another
func CanTransition(from, to RideStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == RideStatusCancelled {
		return true
	}
	next, ok := rideTransitions[from]
	return ok && next == to
}

// PaymentMethod is how the passenger intends to pay
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodGCash   PaymentMethod = "gcash"
	PaymentMethodPayMaya PaymentMethod = "paymaya"
	PaymentMethodCard    PaymentMethod = "card"
)

// PaymentStatus tracks the bookkeeping state of a payment record
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is the payment bookkeeping attached to a ride. No money moves here.
type Payment struct {
	ID     string        `json:"id"`
	Amount int           `json:"amount"`
	Method PaymentMethod `json:"method"`
	Status PaymentStatus `json:"status"`
}

// RideRequest is a passenger's priced request before a driver is assigned
type RideRequest struct {
	ID                   string       `json:"id"`
	PassengerID          string       `json:"passenger_id"`
	Pickup               Location     `json:"pickup"`
	Destination          Location     `json:"destination"`
	VehicleClass         VehicleClass `json:"vehicle_class"`
	DistanceKm           float64      `json:"distance_km"`
	EstimatedDurationMin int          `json:"estimated_duration_min"`
	EstimatedFare        Fare         `json:"estimated_fare"`
	Status               RideStatus   `json:"status"`
	RequestedAt          time.Time    `json:"requested_at"`
	CancelledAt          *time.Time   `json:"cancelled_at,omitempty"`
	CancelReason         string       `json:"cancel_reason,omitempty"`
}

// RideRoute is the planned trip of a ride
type RideRoute struct {
	Origin      Location `json:"origin"`
	Destination Location `json:"destination"`
	DistanceKm  float64  `json:"distance_km"`
	DurationMin int      `json:"duration_min"`
}

// RideRatings holds the stars each party gave after completion
type RideRatings struct {
	ByPassenger int `json:"by_passenger,omitempty"`
	ByDriver    int `json:"by_driver,omitempty"`
}

// Ride is a matched trip. Its ID equals the ID of the request it came from.
type Ride struct {
	ID           string       `json:"id"`
	PassengerID  string       `json:"passenger_id"`
	DriverID     string       `json:"driver_id"`
	Route        RideRoute    `json:"route"`
	VehicleClass VehicleClass `json:"vehicle_class"`
	Fare         Fare         `json:"fare"`
	Payment      Payment      `json:"payment"`
	Status       RideStatus   `json:"status"`
	RequestedAt  time.Time    `json:"requested_at"`
	MatchedAt    time.Time    `json:"matched_at"`
	AcceptedAt   *time.Time   `json:"accepted_at,omitempty"`
	ArrivedAt    *time.Time   `json:"arrived_at,omitempty"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	CancelledAt  *time.Time   `json:"cancelled_at,omitempty"`
	CancelReason string       `json:"cancel_reason,omitempty"`
	Ratings      RideRatings  `json:"ratings"`
	// DriverReleased is set once a terminal ride has given its driver back
	DriverReleased bool `json:"driver_released,omitempty"`
}

// HistoryFilter narrows ride listings by lifecycle state
type HistoryFilter string

const (
	HistoryAll      HistoryFilter = "all"
	HistoryActive   HistoryFilter = "active"
	HistoryTerminal HistoryFilter = "terminal"
)

// Matches reports whether a status passes the filter
func (f HistoryFilter) Matches(status RideStatus) bool {
	switch f {
	case HistoryActive:
		return !status.IsTerminal()
	case HistoryTerminal:
		return status.IsTerminal()
	default:
		return true
	}
}

// RatingParty identifies who is giving a rating
type RatingParty string

const (
	RatingByPassenger RatingParty = "passenger"
	RatingByDriver    RatingParty = "driver"
)

// CreateRideRequest is the payload for creating a ride request
type CreateRideRequest struct {
	PassengerID  string       `json:"passenger_id"`
	Pickup       Location     `json:"pickup"`
	Destination  Location     `json:"destination"`
	VehicleClass VehicleClass `json:"vehicle_class"`
}

// AdvanceRideRequest asks for a ride to move to the given status
type AdvanceRideRequest struct {
	Status RideStatus `json:"status"`
}

// CancelRideRequest carries the reason of a cancellation
type CancelRideRequest struct {
	Reason string `json:"reason"`
}

// TipRequest adds a tip to a completed ride
type TipRequest struct {
	Amount int `json:"amount"`
}

// RatingRequest rates the other party of a completed ride
type RatingRequest struct {
	By    RatingParty `json:"by"`
	Stars int         `json:"stars"`
}
