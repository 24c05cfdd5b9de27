// Package opencage implements geocoding against the OpenCage Geocoding API.
package opencage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"trip-impact-service/datasource"
	"trip-impact-service/models"

	"go.uber.org/zap"
)

// DefaultBaseURL is the OpenCage forward geocoding endpoint
const DefaultBaseURL = "https://api.opencagedata.com/geocode/v1/json"

// Geocoder is an implementation of datasource.Geocoder for OpenCage
type Geocoder struct {
	apiKey    string
	baseURL   string
	requester *datasource.Requester
	logger    *zap.Logger
}

// Ensure Geocoder implements datasource.Geocoder
var _ datasource.Geocoder = (*Geocoder)(nil)

// NewGeocoder creates a new OpenCage geocoder. An empty baseURL selects DefaultBaseURL.
func NewGeocoder(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	g := &Geocoder{
		apiKey:  apiKey,
		baseURL: baseURL,
		logger:  logger,
	}
	g.requester = datasource.NewRequester(g.Name(), timeout, logger)
	return g
}

// Name returns the name of this provider
func (g *Geocoder) Name() string {
	return "OpenCage"
}

// GeocodeResponse represents the part of the API response we consume
type GeocodeResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
		Formatted string `json:"formatted"`
	} `json:"results"`
}

// Geocode resolves text to the coordinates of the first result
func (g *Geocoder) Geocode(ctx context.Context, text string) (models.Coordinates, error) {
	params := url.Values{}
	params.Add("q", text)
	params.Add("key", g.apiKey)

	var resp GeocodeResponse
	if err := g.requester.GetJSON(ctx, g.baseURL, params, &resp); err != nil {
		return models.Coordinates{}, err
	}

	if len(resp.Results) == 0 {
		g.logger.Warn("geocoding returned no results", zap.String("location", text))
		return models.Coordinates{}, fmt.Errorf("%s: %q: %w", g.Name(), text, datasource.ErrNotFound)
	}

	first := resp.Results[0]
	return models.Coordinates{
		Latitude:  first.Geometry.Lat,
		Longitude: first.Geometry.Lng,
	}, nil
}
