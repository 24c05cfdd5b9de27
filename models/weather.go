package models

// WeatherReading represents current conditions at a location.
// A nil field means the provider did not report it.
type WeatherReading struct {
	Location     string   `json:"location"`
	AirQuality   *int     `json:"airQuality,omitempty"`  // AQI index
	TemperatureC *float64 `json:"temperature,omitempty"` // in Celsius
}
