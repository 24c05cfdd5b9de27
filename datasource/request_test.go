package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetJSONDecodesBody(t *testing.T) {
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": 42}`))
	}))
	defer ts.Close()

	r := NewRequester("Test", time.Second, zap.NewNop())

	var out struct {
		Value int `json:"value"`
	}
	err := r.GetJSON(context.Background(), ts.URL, url.Values{"q": {"Berlin, DE"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, 42, out.Value)
	assert.Equal(t, "Berlin, DE", gotQuery.Get("q"))
}

func TestGetJSONNon2xxIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	r := NewRequester("Test", time.Second, zap.NewNop())

	var out map[string]any
	err := r.GetJSON(context.Background(), ts.URL, nil, &out)
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "Test", netErr.API)
	assert.Equal(t, http.StatusTooManyRequests, netErr.StatusCode)
	assert.True(t, IsNetworkError(err))
}

func TestGetJSONTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	r := NewRequester("Slow", 50*time.Millisecond, zap.NewNop())

	var out map[string]any
	err := r.GetJSON(context.Background(), ts.URL, nil, &out)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestGetJSONMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	r := NewRequester("Test", time.Second, zap.NewNop())

	var out map[string]any
	err := r.GetJSON(context.Background(), ts.URL, nil, &out)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}
