package googlemaps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trip-impact-service/datasource"
	"trip-impact-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := NewClient("test-key", ts.URL, time.Second, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/geocode/json"))
		assert.Equal(t, "Lisbon", r.URL.Query().Get("address"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":38.72,"lng":-9.14}}}]}`))
	})

	coords, err := c.Geocode(context.Background(), "Lisbon")
	require.NoError(t, err)
	assert.Equal(t, 38.72, coords.Latitude)
	assert.Equal(t, -9.14, coords.Longitude)
}

func TestGeocodeZeroResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	_, err := c.Geocode(context.Background(), "Nowhere")
	require.Error(t, err)
	assert.True(t, errors.Is(err, datasource.ErrNotFound))
}

func TestGeocodeDenied(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"invalid key","results":[]}`))
	})

	_, err := c.Geocode(context.Background(), "Lisbon")
	require.Error(t, err)
	assert.True(t, datasource.IsNetworkError(err))
}

func TestRouteSumsLegs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/directions/json"))
		assert.Equal(t, "38.72,-9.14", r.URL.Query().Get("origin"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","routes":[
			{"legs":[
				{"distance":{"text":"2 km","value":2000},"duration":{"text":"3 mins","value":180}},
				{"distance":{"text":"3 km","value":3000},"duration":{"text":"4 mins","value":240}}
			]},
			{"legs":[{"distance":{"text":"6 km","value":6000},"duration":{"text":"8 mins","value":480}}]}
		]}`))
	})

	routes, err := c.Route(context.Background(),
		models.Coordinates{Latitude: 38.72, Longitude: -9.14},
		models.Coordinates{Latitude: 38.7, Longitude: -9.2},
	)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, 5000.0, routes[0].DistanceMeters)
	assert.Equal(t, 420.0, routes[0].DurationSeconds)
	assert.Equal(t, 6000.0, routes[1].DistanceMeters)
}
