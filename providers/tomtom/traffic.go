// Package tomtom implements traffic flow lookups against the TomTom Traffic Flow API.
package tomtom

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"trip-impact-service/datasource"
	"trip-impact-service/models"

	"go.uber.org/zap"
)

// DefaultBaseURL is the absolute flow segment endpoint at zoom level 10
const DefaultBaseURL = "https://api.tomtom.com/traffic/services/4/flowSegmentData/absolute/10/json"

// TrafficSource is an implementation of datasource.TrafficSource for TomTom
type TrafficSource struct {
	apiKey    string
	baseURL   string
	requester *datasource.Requester
	logger    *zap.Logger
}

// Ensure TrafficSource implements datasource.TrafficSource
var _ datasource.TrafficSource = (*TrafficSource)(nil)

// NewTrafficSource creates a new TomTom traffic source. An empty baseURL selects DefaultBaseURL.
func NewTrafficSource(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) *TrafficSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	t := &TrafficSource{
		apiKey:  apiKey,
		baseURL: baseURL,
		logger:  logger,
	}
	t.requester = datasource.NewRequester(t.Name(), timeout, logger)
	return t
}

// Name returns the name of this provider
func (t *TrafficSource) Name() string {
	return "TomTom"
}

// FlowResponse represents the API response structure
type FlowResponse struct {
	FlowSegmentData *struct {
		CurrentSpeed  *float64 `json:"currentSpeed"`
		FreeFlowSpeed *float64 `json:"freeFlowSpeed"`
	} `json:"flowSegmentData"`
}

// Traffic fetches the flow on the road segment closest to point
func (t *TrafficSource) Traffic(ctx context.Context, point models.Coordinates) (models.TrafficReading, error) {
	params := url.Values{}
	params.Add("key", t.apiKey)
	params.Add("point", point.String())

	var resp FlowResponse
	if err := t.requester.GetJSON(ctx, t.baseURL, params, &resp); err != nil {
		return models.TrafficReading{}, err
	}

	if resp.FlowSegmentData == nil {
		t.logger.Warn("traffic response has no flow segment", zap.Stringer("point", point))
		return models.TrafficReading{}, fmt.Errorf("%s: %w", t.Name(), datasource.ErrNoData)
	}

	return models.TrafficReading{
		CurrentSpeed:  resp.FlowSegmentData.CurrentSpeed,
		FreeFlowSpeed: resp.FlowSegmentData.FreeFlowSpeed,
	}, nil
}
