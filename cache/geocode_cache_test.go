package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"trip-impact-service/datasource"
	"trip-impact-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockGeocoder counts calls and resolves each text to a stable point
type mockGeocoder struct {
	calls   atomic.Int32
	latency time.Duration
	fail    map[string]error
}

func (m *mockGeocoder) Geocode(ctx context.Context, text string) (models.Coordinates, error) {
	m.calls.Add(1)
	if m.latency > 0 {
		time.Sleep(m.latency)
	}
	if err, ok := m.fail[text]; ok {
		return models.Coordinates{}, err
	}
	return models.Coordinates{Latitude: float64(len(text)), Longitude: -float64(len(text))}, nil
}

func (m *mockGeocoder) Name() string { return "Mock" }

func TestCacheHitSkipsSource(t *testing.T) {
	src := &mockGeocoder{}
	c, err := NewCachedGeocoder(src, 10, zap.NewNop())
	require.NoError(t, err)

	first, err := c.Geocode(context.Background(), "Madrid")
	require.NoError(t, err)
	second, err := c.Geocode(context.Background(), "Madrid")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load())

	hits, misses := c.CacheStats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, "Mock [Cached]", c.Name())
}

func TestCacheKeyIsCaseSensitive(t *testing.T) {
	src := &mockGeocoder{}
	c, err := NewCachedGeocoder(src, 10, zap.NewNop())
	require.NoError(t, err)

	_, err = c.Geocode(context.Background(), "madrid")
	require.NoError(t, err)
	_, err = c.Geocode(context.Background(), "Madrid")
	require.NoError(t, err)

	assert.Equal(t, int32(2), src.calls.Load())
	assert.Equal(t, 2, c.Len())
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	notFound := fmt.Errorf("mock: %w", datasource.ErrNotFound)
	src := &mockGeocoder{fail: map[string]error{"Atlantis": notFound}}
	c, err := NewCachedGeocoder(src, 10, zap.NewNop())
	require.NoError(t, err)

	_, err = c.Geocode(context.Background(), "Atlantis")
	require.ErrorIs(t, err, datasource.ErrNotFound)
	_, err = c.Geocode(context.Background(), "Atlantis")
	require.ErrorIs(t, err, datasource.ErrNotFound)

	assert.Equal(t, int32(2), src.calls.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	src := &mockGeocoder{}
	c, err := NewCachedGeocoder(src, 2, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	for _, loc := range []string{"A", "BB", "A", "CCC"} {
		_, err := c.Geocode(ctx, loc)
		require.NoError(t, err)
	}
	// "BB" was least recently used when "CCC" arrived
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int32(3), src.calls.Load())

	_, err = c.Geocode(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int32(3), src.calls.Load())

	_, err = c.Geocode(ctx, "BB")
	require.NoError(t, err)
	assert.Equal(t, int32(4), src.calls.Load())
}

func TestConcurrentMissesShareOneCall(t *testing.T) {
	src := &mockGeocoder{latency: 50 * time.Millisecond}
	c, err := NewCachedGeocoder(src, 10, zap.NewNop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]models.Coordinates, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			coords, err := c.Geocode(context.Background(), "Rome")
			assert.NoError(t, err)
			results[i] = coords
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
	assert.LessOrEqual(t, src.calls.Load(), int32(2))
}

func TestNonPositiveSizeUsesDefault(t *testing.T) {
	c, err := NewCachedGeocoder(&mockGeocoder{}, 0, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, c)
}

// blockingGeocoder holds every lookup until released, honouring ctx like a real client
type blockingGeocoder struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (b *blockingGeocoder) Geocode(ctx context.Context, text string) (models.Coordinates, error) {
	b.calls.Add(1)
	b.entered <- struct{}{}
	select {
	case <-b.release:
		return models.Coordinates{Latitude: 41.9, Longitude: 12.5}, nil
	case <-ctx.Done():
		return models.Coordinates{}, ctx.Err()
	}
}

func (b *blockingGeocoder) Name() string { return "Blocking" }

func TestCancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	src := &blockingGeocoder{entered: make(chan struct{}, 4), release: make(chan struct{})}
	c, err := NewCachedGeocoder(src, 10, zap.NewNop())
	require.NoError(t, err)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Geocode(ctxA, "Rome")
		errA <- err
	}()
	<-src.entered

	type result struct {
		coords models.Coordinates
		err    error
	}
	resB := make(chan result, 1)
	go func() {
		coords, err := c.Geocode(context.Background(), "Rome")
		resB <- result{coords, err}
	}()
	// let the second caller join the in-flight lookup
	time.Sleep(20 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(src.release)
	select {
	case r := <-resB:
		require.NoError(t, r.err)
		assert.Equal(t, models.Coordinates{Latitude: 41.9, Longitude: 12.5}, r.coords)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}

	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestSharedLookupIsBounded(t *testing.T) {
	src := &blockingGeocoder{entered: make(chan struct{}, 1), release: make(chan struct{})}
	c, err := NewCachedGeocoder(src, 10, zap.NewNop())
	require.NoError(t, err)
	c.SetLookupTimeout(30 * time.Millisecond)

	_, err = c.Geocode(context.Background(), "Rome")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, c.Len())
}
