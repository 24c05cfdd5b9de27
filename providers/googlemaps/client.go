// Package googlemaps adapts the Google Maps Geocoding and Directions APIs to the
// datasource Geocoder and Router contracts.
package googlemaps

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"trip-impact-service/datasource"
	"trip-impact-service/models"

	"go.uber.org/zap"
	maps "googlemaps.github.io/maps"
)

const zeroResults = "ZERO_RESULTS"

// Client implements both datasource.Geocoder and datasource.Router
type Client struct {
	maps   *maps.Client
	logger *zap.Logger
}

var (
	_ datasource.Geocoder = (*Client)(nil)
	_ datasource.Router   = (*Client)(nil)
)

// NewClient creates a Google Maps client. An empty baseURL uses Google's hosts.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	opts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}

	mc, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("maps.NewClient: %w", err)
	}
	return &Client{maps: mc, logger: logger}, nil
}

// Name returns the name of this provider
func (c *Client) Name() string {
	return "GoogleMaps"
}

// Geocode resolves text to the coordinates of the first result
func (c *Client) Geocode(ctx context.Context, text string) (models.Coordinates, error) {
	start := time.Now()
	results, err := c.maps.Geocode(ctx, &maps.GeocodingRequest{Address: text})
	c.logLatency("geocode", start, err)

	if err != nil && !isZeroResults(err) {
		return models.Coordinates{}, &datasource.NetworkError{API: c.Name(), Err: err}
	}
	if len(results) == 0 {
		return models.Coordinates{}, fmt.Errorf("%s: %q: %w", c.Name(), text, datasource.ErrNotFound)
	}

	loc := results[0].Geometry.Location
	return models.Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

// Route requests driving directions, including alternatives, from start to end.
// Leg distances and durations are summed per route.
func (c *Client) Route(ctx context.Context, start, end models.Coordinates) ([]models.RouteSummary, error) {
	began := time.Now()
	routes, _, err := c.maps.Directions(ctx, &maps.DirectionsRequest{
		Origin:       start.String(),
		Destination:  end.String(),
		Mode:         maps.TravelModeDriving,
		Alternatives: true,
	})
	c.logLatency("directions", began, err)

	if err != nil && !isZeroResults(err) {
		return nil, &datasource.NetworkError{API: c.Name(), Err: err}
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("%s: %w", c.Name(), datasource.ErrNoRoute)
	}

	summaries := make([]models.RouteSummary, 0, len(routes))
	for _, route := range routes {
		var summary models.RouteSummary
		for _, leg := range route.Legs {
			summary.DistanceMeters += float64(leg.Distance.Meters)
			summary.DurationSeconds += leg.Duration.Seconds()
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (c *Client) logLatency(call string, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("api", c.Name()),
		zap.String("call", call),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil && !isZeroResults(err) {
		c.logger.Error("API request failed", append(fields, zap.Error(err))...)
		return
	}
	c.logger.Info("API response", fields...)
}

func isZeroResults(err error) bool {
	return err != nil && strings.Contains(err.Error(), zeroResults)
}
