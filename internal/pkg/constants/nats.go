package constants

// Ride lifecycle subjects, shared by the NATS and NSQ publishers
const (
	SubjectRideRequested = "ride.requested"
	SubjectRideMatched   = "ride.matched"
	SubjectRideStatus    = "ride.status"
	SubjectRideCompleted = "ride.completed"
	SubjectRideCancelled = "ride.cancelled"
)
