package datasource

import (
	"context"
	"fmt"

	"trip-impact-service/models"

	"golang.org/x/time/rate"
)

// RateLimitedGeocoder wraps a Geocoder with rate limiting
type RateLimitedGeocoder struct {
	geocoder Geocoder
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedGeocoder creates a new rate limited geocoder
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedGeocoder(geocoder Geocoder, rps float64, burst int) *RateLimitedGeocoder {
	return &RateLimitedGeocoder{
		geocoder: geocoder,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", geocoder.Name()),
	}
}

// Geocode resolves a location, respecting rate limits
func (r *RateLimitedGeocoder) Geocode(ctx context.Context, text string) (models.Coordinates, error) {
	// Wait for rate limiter permission or context cancellation
	if err := r.limiter.Wait(ctx); err != nil {
		return models.Coordinates{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	// Forward to the underlying provider
	return r.geocoder.Geocode(ctx, text)
}

// Name returns the provider name
func (r *RateLimitedGeocoder) Name() string {
	return r.name
}

// RateLimitedRouter wraps a Router with rate limiting
type RateLimitedRouter struct {
	router  Router
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedRouter creates a new rate limited router
func NewRateLimitedRouter(router Router, rps float64, burst int) *RateLimitedRouter {
	return &RateLimitedRouter{
		router:  router,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", router.Name()),
	}
}

// Route computes routes, respecting rate limits
func (r *RateLimitedRouter) Route(ctx context.Context, start, end models.Coordinates) ([]models.RouteSummary, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.router.Route(ctx, start, end)
}

// Name returns the provider name
func (r *RateLimitedRouter) Name() string {
	return r.name
}

// RateLimitedWeatherSource wraps a WeatherSource with rate limiting
type RateLimitedWeatherSource struct {
	source  WeatherSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedWeatherSource creates a new rate limited weather source
func NewRateLimitedWeatherSource(source WeatherSource, rps float64, burst int) *RateLimitedWeatherSource {
	return &RateLimitedWeatherSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// Weather fetches current weather, respecting rate limits
func (r *RateLimitedWeatherSource) Weather(ctx context.Context, location string) (models.WeatherReading, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.WeatherReading{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.Weather(ctx, location)
}

// Name returns the source name
func (r *RateLimitedWeatherSource) Name() string {
	return r.name
}

// RateLimitedTrafficSource wraps a TrafficSource with rate limiting
type RateLimitedTrafficSource struct {
	source  TrafficSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedTrafficSource creates a new rate limited traffic source
func NewRateLimitedTrafficSource(source TrafficSource, rps float64, burst int) *RateLimitedTrafficSource {
	return &RateLimitedTrafficSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// Traffic fetches traffic flow, respecting rate limits
func (r *RateLimitedTrafficSource) Traffic(ctx context.Context, point models.Coordinates) (models.TrafficReading, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.TrafficReading{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.Traffic(ctx, point)
}

// Name returns the source name
func (r *RateLimitedTrafficSource) Name() string {
	return r.name
}

// Verify that our rate limited types implement the required interfaces
var (
	_ Geocoder      = (*RateLimitedGeocoder)(nil)
	_ Router        = (*RateLimitedRouter)(nil)
	_ WeatherSource = (*RateLimitedWeatherSource)(nil)
	_ TrafficSource = (*RateLimitedTrafficSource)(nil)
)
