package api

import (
	"strconv"

	"trip-impact-service/models"
	"trip-impact-service/trip"

	"github.com/google/uuid"
)

// notAvailable is how absent readings are shown to users
const notAvailable = "N/A"

// weatherErrorMessage is shown when the weather lookup failed
const weatherErrorMessage = "Could not fetch weather data. Please try again."

// TripRequest is the body accepted by POST /api/trips, as JSON or form fields
type TripRequest struct {
	StartLocation  string  `json:"start_location" form:"start_location" binding:"required"`
	EndLocation    string  `json:"end_location" form:"end_location" binding:"required"`
	FuelEfficiency float64 `json:"fuel_efficiency" form:"fuel_efficiency" binding:"required,gt=0"`
	VehicleType    string  `json:"vehicle_type" form:"vehicle_type"`
}

// WeatherDTO renders a weather reading, or the reason it is missing
type WeatherDTO struct {
	AirQuality  string `json:"air_quality,omitempty"`
	Temperature string `json:"temperature,omitempty"`
	Error       string `json:"error,omitempty"`
}

// TrafficDTO renders a traffic reading
type TrafficDTO struct {
	CurrentSpeed  string `json:"current_speed"`
	FreeFlowSpeed string `json:"free_flow_speed"`
}

// RouteDTO renders one candidate route
type RouteDTO struct {
	Distance float64 `json:"distance"` // meters
	Duration float64 `json:"duration"` // seconds
}

// TripResponse is the body returned for an estimated trip
type TripResponse struct {
	ID            uuid.UUID          `json:"id"`
	Status        string             `json:"status"`
	StartLocation string             `json:"start_location"`
	EndLocation   string             `json:"end_location"`
	VehicleType   string             `json:"vehicle_type,omitempty"`
	Start         models.Coordinates `json:"start_coordinates"`
	End           models.Coordinates `json:"end_coordinates"`
	Routes        []RouteDTO         `json:"routes"`
	DistanceKm    float64            `json:"distance_km"`
	Emissions     float64            `json:"emissions"` // grams of CO2
	Weather       WeatherDTO         `json:"weather_data"`
	Traffic       *TrafficDTO        `json:"traffic_data,omitempty"`
}

// RejectionResponse is the body returned when a trip is declined
type RejectionResponse struct {
	Status     string  `json:"status"`
	Reason     string  `json:"reason"`
	Message    string  `json:"message"`
	DistanceKm float64 `json:"distance_km"`
}

func toTripResponse(stored StoredTrip) TripResponse {
	t := stored.Trip
	resp := TripResponse{
		ID:            stored.ID,
		Status:        "ok",
		StartLocation: t.StartLocation,
		EndLocation:   t.EndLocation,
		VehicleType:   t.VehicleType,
		Start:         t.StartCoordinates,
		End:           t.EndCoordinates,
		Routes:        make([]RouteDTO, 0, len(t.Routes)),
		DistanceKm:    t.DistanceKm,
		Emissions:     t.EmissionsGrams,
		Weather:       toWeatherDTO(t.Weather),
	}
	for _, r := range t.Routes {
		resp.Routes = append(resp.Routes, RouteDTO{Distance: r.DistanceMeters, Duration: r.DurationSeconds})
	}
	if t.Traffic != nil {
		resp.Traffic = &TrafficDTO{
			CurrentSpeed:  formatOptionalFloat(t.Traffic.CurrentSpeed),
			FreeFlowSpeed: formatOptionalFloat(t.Traffic.FreeFlowSpeed),
		}
	}
	return resp
}

func toWeatherDTO(w *models.WeatherReading) WeatherDTO {
	if w == nil {
		return WeatherDTO{Error: weatherErrorMessage}
	}
	dto := WeatherDTO{AirQuality: notAvailable, Temperature: notAvailable}
	if w.AirQuality != nil {
		dto.AirQuality = strconv.Itoa(*w.AirQuality)
	}
	if w.TemperatureC != nil {
		dto.Temperature = formatFloat(*w.TemperatureC)
	}
	return dto
}

func toRejectionResponse(out trip.Outcome) RejectionResponse {
	return RejectionResponse{
		Status:     "rejected",
		Reason:     string(out.Rejection),
		Message:    out.Rejection.Message(),
		DistanceKm: out.DistanceKm,
	}
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
