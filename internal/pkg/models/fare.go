package models

// Fare is the price breakdown of a trip. Amounts are whole currency units.
type Fare struct {
	BaseFare     int    `json:"base_fare"`
	DistanceFare int    `json:"distance_fare"`
	Tip          int    `json:"tip"`
	Total        int    `json:"total"`
	Currency     string `json:"currency"`
}

// FareQuote is a price estimate for one vehicle class
type FareQuote struct {
	VehicleClass         VehicleClass `json:"vehicle_class"`
	DistanceKm           float64      `json:"distance_km"`
	EstimatedDurationMin int          `json:"estimated_duration_min"`
	Capacity             int          `json:"capacity"`
	Fare                 Fare         `json:"fare"`
}
