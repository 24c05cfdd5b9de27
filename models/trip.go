package models

// TripResult aggregates everything computed for one trip request
type TripResult struct {
	StartLocation    string         `json:"startLocation"`
	EndLocation      string         `json:"endLocation"`
	VehicleType      string         `json:"vehicleType,omitempty"`
	StartCoordinates Coordinates    `json:"startCoordinates"`
	EndCoordinates   Coordinates    `json:"endCoordinates"`
	Routes           []RouteSummary `json:"routes"` // provider order, index 0 is the primary route
	DistanceKm       float64        `json:"distanceKm"`
	EmissionsGrams   float64        `json:"emissionsGrams"` // grams of CO2

	// Weather is nil and WeatherUnavailable set when the lookup failed
	Weather            *WeatherReading `json:"weather,omitempty"`
	WeatherUnavailable bool            `json:"weatherUnavailable,omitempty"`

	// Traffic is nil when no flow data was available
	Traffic *TrafficReading `json:"traffic,omitempty"`
}

// PrimaryRoute returns the first candidate route
func (t TripResult) PrimaryRoute() (RouteSummary, bool) {
	if len(t.Routes) == 0 {
		return RouteSummary{}, false
	}
	return t.Routes[0], true
}
