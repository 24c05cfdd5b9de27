// Package osrm implements driving routes against an OSRM route service.
package osrm

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"trip-impact-service/datasource"
	"trip-impact-service/models"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public OSRM demo server's driving profile
const DefaultBaseURL = "http://router.project-osrm.org/route/v1/driving"

// Router is an implementation of datasource.Router for OSRM
type Router struct {
	baseURL   string
	requester *datasource.Requester
	logger    *zap.Logger
}

// Ensure Router implements datasource.Router
var _ datasource.Router = (*Router)(nil)

// NewRouter creates a new OSRM router. An empty baseURL selects DefaultBaseURL.
func NewRouter(baseURL string, timeout time.Duration, logger *zap.Logger) *Router {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	r := &Router{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
	r.requester = datasource.NewRequester(r.Name(), timeout, logger)
	return r
}

// Name returns the name of this provider
func (r *Router) Name() string {
	return "OSRM"
}

// RouteResponse represents the part of the API response we consume
type RouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// Route requests driving routes from start to end.
// OSRM takes coordinates longitude first.
func (r *Router) Route(ctx context.Context, start, end models.Coordinates) ([]models.RouteSummary, error) {
	endpoint := fmt.Sprintf("%s/%s;%s", r.baseURL, start.LonLat(), end.LonLat())
	params := url.Values{}
	params.Add("overview", "simplified")
	params.Add("geometries", "geojson")

	var resp RouteResponse
	if err := r.requester.GetJSON(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Routes) == 0 {
		r.logger.Warn("routing returned no routes",
			zap.Stringer("start", start),
			zap.Stringer("end", end),
			zap.String("code", resp.Code),
		)
		return nil, fmt.Errorf("%s: %w", r.Name(), datasource.ErrNoRoute)
	}

	routes := make([]models.RouteSummary, 0, len(resp.Routes))
	for _, route := range resp.Routes {
		routes = append(routes, models.RouteSummary{
			DistanceMeters:  route.Distance,
			DurationSeconds: route.Duration,
		})
	}
	return routes, nil
}
