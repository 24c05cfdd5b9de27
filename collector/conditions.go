package collector

import (
	"context"
	"errors"
	"sync"
	"time"

	"trip-impact-service/datasource"
	"trip-impact-service/models"

	"go.uber.org/zap"
)

// DefaultFetchTimeout bounds each weather or traffic call
const DefaultFetchTimeout = 10 * time.Second

// Conditions holds the outcome of the weather and traffic lookups for one trip.
// A nil reading comes with the error that caused it.
type Conditions struct {
	Weather    *models.WeatherReading
	WeatherErr error
	Traffic    *models.TrafficReading
	TrafficErr error
}

// ConditionsCollector fetches weather and traffic concurrently. Neither lookup can
// fail the collection; failures are recorded in Conditions.
type ConditionsCollector struct {
	weather      datasource.WeatherSource
	traffic      datasource.TrafficSource
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewConditionsCollector creates a new collector for the given sources
func NewConditionsCollector(weather datasource.WeatherSource, traffic datasource.TrafficSource, logger *zap.Logger) *ConditionsCollector {
	return &ConditionsCollector{
		weather:      weather,
		traffic:      traffic,
		fetchTimeout: DefaultFetchTimeout,
		logger:       logger,
	}
}

// SetFetchTimeout changes the timeout for each lookup
func (cc *ConditionsCollector) SetFetchTimeout(timeout time.Duration) {
	cc.fetchTimeout = timeout
}

// Collect fetches weather for location and traffic at point, waiting for both
func (cc *ConditionsCollector) Collect(ctx context.Context, location string, point models.Coordinates) Conditions {
	var (
		wg     sync.WaitGroup
		result Conditions
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Weather, result.WeatherErr = cc.fetchWeather(ctx, location)
	}()
	go func() {
		defer wg.Done()
		result.Traffic, result.TrafficErr = cc.fetchTraffic(ctx, point)
	}()
	wg.Wait()

	return result
}

func (cc *ConditionsCollector) fetchWeather(ctx context.Context, location string) (*models.WeatherReading, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, cc.fetchTimeout)
	defer cancel()

	start := time.Now()
	reading, err := cc.weather.Weather(fetchCtx, location)
	if err != nil {
		cc.logger.Warn("weather unavailable",
			zap.String("source", cc.weather.Name()),
			zap.String("location", location),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}
	return &reading, nil
}

func (cc *ConditionsCollector) fetchTraffic(ctx context.Context, point models.Coordinates) (*models.TrafficReading, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, cc.fetchTimeout)
	defer cancel()

	start := time.Now()
	reading, err := cc.traffic.Traffic(fetchCtx, point)
	if err != nil {
		fields := []zap.Field{
			zap.String("source", cc.traffic.Name()),
			zap.Stringer("point", point),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		}
		// a point without a flow segment is routine, not a fault
		if errors.Is(err, datasource.ErrNoData) {
			cc.logger.Info("no traffic data for point", fields...)
		} else {
			cc.logger.Warn("traffic unavailable", fields...)
		}
		return nil, err
	}
	return &reading, nil
}
