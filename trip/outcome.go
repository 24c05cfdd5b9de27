package trip

import (
	"errors"

	"trip-impact-service/models"
)

// Distance bounds outside which a trip is declined
const (
	MinDistanceKm = 1.0
	MaxDistanceKm = 1000.0
)

var (
	// ErrCoordinatesUnavailable wraps a failure to geocode either endpoint
	ErrCoordinatesUnavailable = errors.New("could not fetch coordinates")
	// ErrRouteUnavailable wraps a failure to obtain a route
	ErrRouteUnavailable = errors.New("could not fetch route data")
)

// Rejection is a policy decision to not estimate a trip. It is not an error.
type Rejection string

const (
	RejectionNone     Rejection = ""
	RejectionTooShort Rejection = "too_short"
	RejectionTooLong  Rejection = "too_long"
)

// Message returns the guidance shown to the user
func (r Rejection) Message() string {
	switch r {
	case RejectionTooShort:
		return "The distance is too short. Please consider walking or cycling."
	case RejectionTooLong:
		return "The distance is too large. Long-distance travel might take considerable time."
	default:
		return ""
	}
}

// checkDistance applies the distance bounds to the primary route length
func checkDistance(distanceKm float64) Rejection {
	switch {
	case distanceKm < MinDistanceKm:
		return RejectionTooShort
	case distanceKm > MaxDistanceKm:
		return RejectionTooLong
	default:
		return RejectionNone
	}
}

// Request is one trip to estimate
type Request struct {
	StartLocation  string
	EndLocation    string
	FuelEfficiency float64 // km per litre
	VehicleType    string
}

// Outcome is the result of a pipeline run that did not fail.
// Exactly one of Trip and Rejection is set.
type Outcome struct {
	Trip       *models.TripResult
	Rejection  Rejection
	DistanceKm float64
}

// Rejected reports whether the trip was declined by policy
func (o Outcome) Rejected() bool {
	return o.Rejection != RejectionNone
}
