package trip

import (
	"errors"
	"math"
)

// EmissionFactor is grams of CO2 released per litre of fuel burned
const EmissionFactor = 2392.0

// ErrInvalidFuelEfficiency is returned for a fuel efficiency that is not a positive finite number
var ErrInvalidFuelEfficiency = errors.New("fuel efficiency must be a positive number")

// CalculateEmissions returns the grams of CO2 emitted driving distanceKm in a
// vehicle that covers kmPerLiter kilometres per litre.
func CalculateEmissions(distanceKm, kmPerLiter float64) (float64, error) {
	if !validFuelEfficiency(kmPerLiter) {
		return 0, ErrInvalidFuelEfficiency
	}
	return (distanceKm / kmPerLiter) * EmissionFactor, nil
}

func validFuelEfficiency(kmPerLiter float64) bool {
	return kmPerLiter > 0 && !math.IsInf(kmPerLiter, 1) && !math.IsNaN(kmPerLiter)
}
