package models

// RouteSummary is one candidate route returned by a routing provider
type RouteSummary struct {
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// DistanceKm returns the route length in kilometres
func (r RouteSummary) DistanceKm() float64 {
	return r.DistanceMeters / 1000
}
