package aqicn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trip-impact-service/datasource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSource(t *testing.T, body string) *WeatherSource {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return NewWeatherSource("token", ts.URL, time.Second, zap.NewNop())
}

func TestWeatherFullReading(t *testing.T) {
	var gotPath, gotToken string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotToken = r.URL.Query().Get("token")
		_, _ = w.Write([]byte(`{"status":"ok","data":{"aqi":57,"iaqi":{"t":{"v":21.5}}}}`))
	}))
	defer ts.Close()

	w := NewWeatherSource("token", ts.URL, time.Second, zap.NewNop())

	reading, err := w.Weather(context.Background(), "New York")
	require.NoError(t, err)
	assert.Equal(t, "/New%20York/", gotPath)
	assert.Equal(t, "token", gotToken)
	assert.Equal(t, "New York", reading.Location)
	require.NotNil(t, reading.AirQuality)
	assert.Equal(t, 57, *reading.AirQuality)
	require.NotNil(t, reading.TemperatureC)
	assert.Equal(t, 21.5, *reading.TemperatureC)
}

func TestWeatherMissingTemperature(t *testing.T) {
	w := newTestSource(t, `{"status":"ok","data":{"aqi":12,"iaqi":{}}}`)

	reading, err := w.Weather(context.Background(), "Paris")
	require.NoError(t, err)
	require.NotNil(t, reading.AirQuality)
	assert.Equal(t, 12, *reading.AirQuality)
	assert.Nil(t, reading.TemperatureC)
}

func TestWeatherDashAQIIsAbsent(t *testing.T) {
	w := newTestSource(t, `{"status":"ok","data":{"aqi":"-","iaqi":{"t":{"v":3}}}}`)

	reading, err := w.Weather(context.Background(), "Oslo")
	require.NoError(t, err)
	assert.Nil(t, reading.AirQuality)
	require.NotNil(t, reading.TemperatureC)
	assert.Equal(t, 3.0, *reading.TemperatureC)
}

func TestWeatherErrorPayload(t *testing.T) {
	w := newTestSource(t, `{"status":"error","data":"Unknown station"}`)

	_, err := w.Weather(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.True(t, errors.Is(err, datasource.ErrNoData))
}

func TestParseAQI(t *testing.T) {
	assert.Nil(t, parseAQI(nil))
	assert.Nil(t, parseAQI([]byte(`null`)))
	assert.Nil(t, parseAQI([]byte(`"-"`)))
	require.NotNil(t, parseAQI([]byte(`"42"`)))
	assert.Equal(t, 42, *parseAQI([]byte(`"42"`)))
	assert.Equal(t, 8, *parseAQI([]byte(`7.6`)))
}
