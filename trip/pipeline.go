package trip

import (
	"context"
	"fmt"
	"time"

	"trip-impact-service/collector"
	"trip-impact-service/datasource"
	"trip-impact-service/models"

	"go.uber.org/zap"
)

// Pipeline resolves, routes and enriches trips
type Pipeline struct {
	geocoder   datasource.Geocoder
	router     datasource.Router
	conditions *collector.ConditionsCollector
	logger     *zap.Logger
}

// NewPipeline creates a new Pipeline
func NewPipeline(
	geocoder datasource.Geocoder,
	router datasource.Router,
	conditions *collector.ConditionsCollector,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		geocoder:   geocoder,
		router:     router,
		conditions: conditions,
		logger:     logger,
	}
}

// Estimate runs the trip pipeline.
//
// Geocoding and routing failures abort with ErrCoordinatesUnavailable or
// ErrRouteUnavailable. Trips shorter than MinDistanceKm or longer than
// MaxDistanceKm are declined before weather and traffic are looked up.
// Weather and traffic failures never abort.
func (p *Pipeline) Estimate(ctx context.Context, req Request) (Outcome, error) {
	if !validFuelEfficiency(req.FuelEfficiency) {
		return Outcome{}, ErrInvalidFuelEfficiency
	}

	start := time.Now()
	log := p.logger.With(
		zap.String("start_location", req.StartLocation),
		zap.String("end_location", req.EndLocation),
	)

	startCoords, err := p.geocoder.Geocode(ctx, req.StartLocation)
	if err != nil {
		log.Warn("could not fetch start coordinates", zap.String("geocoder", p.geocoder.Name()), zap.Error(err))
		return Outcome{}, fmt.Errorf("%w: %q: %w", ErrCoordinatesUnavailable, req.StartLocation, err)
	}

	endCoords, err := p.geocoder.Geocode(ctx, req.EndLocation)
	if err != nil {
		log.Warn("could not fetch end coordinates", zap.String("geocoder", p.geocoder.Name()), zap.Error(err))
		return Outcome{}, fmt.Errorf("%w: %q: %w", ErrCoordinatesUnavailable, req.EndLocation, err)
	}

	routes, err := p.router.Route(ctx, startCoords, endCoords)
	if err != nil {
		log.Warn("could not fetch route data", zap.String("router", p.router.Name()), zap.Error(err))
		return Outcome{}, fmt.Errorf("%w: %w", ErrRouteUnavailable, err)
	}
	if len(routes) == 0 {
		return Outcome{}, fmt.Errorf("%w: %w", ErrRouteUnavailable, datasource.ErrNoRoute)
	}

	distanceKm := routes[0].DistanceKm()
	if rejection := checkDistance(distanceKm); rejection != RejectionNone {
		log.Info("trip declined",
			zap.String("reason", string(rejection)),
			zap.Float64("distance_km", distanceKm),
		)
		return Outcome{Rejection: rejection, DistanceKm: distanceKm}, nil
	}

	conditions := p.conditions.Collect(ctx, req.StartLocation, startCoords)

	emissions, err := CalculateEmissions(distanceKm, req.FuelEfficiency)
	if err != nil {
		return Outcome{}, err
	}

	result := &models.TripResult{
		StartLocation:      req.StartLocation,
		EndLocation:        req.EndLocation,
		VehicleType:        req.VehicleType,
		StartCoordinates:   startCoords,
		EndCoordinates:     endCoords,
		Routes:             routes,
		DistanceKm:         distanceKm,
		EmissionsGrams:     emissions,
		Weather:            conditions.Weather,
		WeatherUnavailable: conditions.Weather == nil,
		Traffic:            conditions.Traffic,
	}

	log.Info("trip estimated",
		zap.Float64("distance_km", distanceKm),
		zap.Float64("emissions_g", emissions),
		zap.Bool("weather", conditions.Weather != nil),
		zap.Bool("traffic", conditions.Traffic != nil),
		zap.Duration("elapsed", time.Since(start)),
	)

	return Outcome{Trip: result, DistanceKm: distanceKm}, nil
}
