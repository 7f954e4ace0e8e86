package constants

// Redis key formats
const (
	// Ride store
	KeyRideRequest       = "tara:ride_requests:%s"           // Format: tara:ride_requests:{id}
	KeyPassengerRequests = "tara:ride_requests:passenger:%s" // Set of request ids of a passenger
	KeyRide              = "tara:rides:%s"                   // Format: tara:rides:{id}
	KeyPassengerRides    = "tara:rides:passenger:%s"         // Set of ride ids of a passenger
	KeyDriverRides       = "tara:rides:driver:%s"            // Set of ride ids of a driver
	KeyActivePointer     = "tara:active_pointer:%s"          // Format: tara:active_pointer:{passenger_id}

	// Driver directory
	KeyDriver      = "tara:drivers:%s"   // Format: tara:drivers:{driver_id}, hash
	KeyDriverOrder = "tara:driver_order" // Sorted set of driver ids scored by registration sequence
	KeyDriverSeq   = "tara:driver_seq"   // Registration counter
)

// Redis hash fields of a driver
const (
	FieldName         = "name"
	FieldVehicleClass = "vehicle_class"
	FieldPlateNumber  = "plate_number"
	FieldOnline       = "online"
	FieldReserved     = "reserved"
	FieldLatitude     = "lat"
	FieldLongitude    = "lng"
	FieldGeohash      = "geohash"
	FieldRating       = "rating"
	FieldRatingCount  = "rating_count"
	FieldTotalTrips   = "total_trips"
	FieldUpdatedAt    = "updated_at"
)

// GeohashPrecision is the cell precision stored with driver positions
const GeohashPrecision = 7
