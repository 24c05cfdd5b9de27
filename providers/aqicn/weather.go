// Package aqicn implements current weather and air quality lookups against the
// World Air Quality Index (aqicn.org) feed API.
package aqicn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trip-impact-service/datasource"
	"trip-impact-service/models"

	"go.uber.org/zap"
)

// DefaultBaseURL is the AQICN city feed endpoint
const DefaultBaseURL = "https://api.waqi.info/feed"

// WeatherSource is an implementation of datasource.WeatherSource for AQICN
type WeatherSource struct {
	token     string
	baseURL   string
	requester *datasource.Requester
	logger    *zap.Logger
}

// Ensure WeatherSource implements datasource.WeatherSource
var _ datasource.WeatherSource = (*WeatherSource)(nil)

// NewWeatherSource creates a new AQICN weather source. An empty baseURL selects DefaultBaseURL.
func NewWeatherSource(token, baseURL string, timeout time.Duration, logger *zap.Logger) *WeatherSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	w := &WeatherSource{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
	w.requester = datasource.NewRequester(w.Name(), timeout, logger)
	return w
}

// Name returns the name of this provider
func (w *WeatherSource) Name() string {
	return "AQICN"
}

// FeedResponse represents the API response structure. Data is an object on
// success and an error string otherwise, so it is decoded in a second step.
type FeedResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type feedData struct {
	AQI  json.RawMessage `json:"aqi"`
	IAQI struct {
		T *struct {
			V *float64 `json:"v"`
		} `json:"t"`
	} `json:"iaqi"`
}

// Weather fetches the air quality index and temperature for a city
func (w *WeatherSource) Weather(ctx context.Context, location string) (models.WeatherReading, error) {
	endpoint := fmt.Sprintf("%s/%s/", w.baseURL, url.PathEscape(location))
	params := url.Values{}
	params.Add("token", w.token)

	var resp FeedResponse
	if err := w.requester.GetJSON(ctx, endpoint, params, &resp); err != nil {
		return models.WeatherReading{}, err
	}

	trimmed := bytes.TrimSpace(resp.Data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		w.logger.Warn("weather feed carried no data object",
			zap.String("location", location),
			zap.String("status", resp.Status),
			zap.ByteString("data", trimmed),
		)
		return models.WeatherReading{}, fmt.Errorf("%s: %q: %w", w.Name(), location, datasource.ErrNoData)
	}

	var data feedData
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return models.WeatherReading{}, fmt.Errorf("%s: failed to parse data: %w", w.Name(), err)
	}

	reading := models.WeatherReading{
		Location:   location,
		AirQuality: parseAQI(data.AQI),
	}
	if data.IAQI.T != nil && data.IAQI.T.V != nil {
		temp := *data.IAQI.T.V
		reading.TemperatureC = &temp
	}
	return reading, nil
}

// parseAQI accepts a number or a numeric string; "-" and anything else is absent
func parseAQI(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		v := int(math.Round(num))
		return &v
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return &v
		}
	}
	return nil
}
