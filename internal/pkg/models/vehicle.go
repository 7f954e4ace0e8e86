package models

// VehicleClass is the kind of vehicle a passenger asks for
type VehicleClass string

const (
	VehicleTricycle   VehicleClass = "tricycle"
	VehicleMotorcycle VehicleClass = "motorcycle"
	VehicleSedan      VehicleClass = "sedan"
	VehicleSUV        VehicleClass = "suv"
)

// VehicleClasses lists every supported class in display order
var VehicleClasses = []VehicleClass{VehicleTricycle, VehicleMotorcycle, VehicleSedan, VehicleSUV}

// Valid reports whether the class is one of the supported classes
func (v VehicleClass) Valid() bool {
	for _, class := range VehicleClasses {
		if class == v {
			return true
		}
	}
	return false
}

// FareRate is the pricing row of a single vehicle class
type FareRate struct {
	BaseFare  int `json:"base_fare" mapstructure:"base_fare"`
	PerKmRate int `json:"per_km_rate" mapstructure:"per_km_rate"`
	Capacity  int `json:"capacity" mapstructure:"capacity"`
}

// FareTable holds the rates for every vehicle class
type FareTable struct {
	Currency string                    `json:"currency" mapstructure:"currency"`
	Rates    map[VehicleClass]FareRate `json:"rates" mapstructure:"rates"`
}

// DefaultFareTable returns the built-in San Pablo City rates in PHP
func DefaultFareTable() FareTable {
	return FareTable{
		Currency: "PHP",
		Rates: map[VehicleClass]FareRate{
			VehicleTricycle:   {BaseFare: 20, PerKmRate: 10, Capacity: 3},
			VehicleMotorcycle: {BaseFare: 30, PerKmRate: 12, Capacity: 1},
			VehicleSedan:      {BaseFare: 50, PerKmRate: 15, Capacity: 4},
			VehicleSUV:        {BaseFare: 70, PerKmRate: 18, Capacity: 6},
		},
	}
}
