package models

// Coordinates is a point on the map in degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Equal reports whether both points are exactly the same
func (c Coordinates) Equal(other Coordinates) bool {
	return c.Latitude == other.Latitude && c.Longitude == other.Longitude
}

// Valid reports whether the coordinates fall within the WGS84 ranges
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Location represents a named place used as a pickup or destination
type Location struct {
	Coordinates Coordinates `json:"coordinates"`
	Address     string      `json:"address"`
	Landmark    string      `json:"landmark,omitempty"`
}
