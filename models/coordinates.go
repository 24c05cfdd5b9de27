package models

import (
	"fmt"
	"strconv"
)

// Coordinates is a WGS84 latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String formats the pair as "lat,lon"
func (c Coordinates) String() string {
	return fmt.Sprintf("%s,%s", formatDegrees(c.Latitude), formatDegrees(c.Longitude))
}

// LonLat formats the pair longitude first, as routing engines expect it
func (c Coordinates) LonLat() string {
	return fmt.Sprintf("%s,%s", formatDegrees(c.Longitude), formatDegrees(c.Latitude))
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
