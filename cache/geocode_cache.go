package cache

import (
	"context"
	"sync"
	"time"

	"trip-impact-service/datasource"
	"trip-impact-service/models"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultGeocodeCacheSize is used when a non-positive size is requested
const DefaultGeocodeCacheSize = 1024

// DefaultLookupTimeout bounds a shared upstream lookup
const DefaultLookupTimeout = 30 * time.Second

// CachedGeocoder wraps a Geocoder with a bounded least-recently-used cache.
// Keys are the location text exactly as given; resolved coordinates never change
// for a key, so there is no expiry, only eviction.
type CachedGeocoder struct {
	source  datasource.Geocoder
	entries *lru.Cache[string, models.Coordinates]
	group   singleflight.Group
	logger  *zap.Logger

	lookupTimeout time.Duration

	mutex          sync.RWMutex
	cacheHitCount  int
	cacheMissCount int
}

// NewCachedGeocoder creates a new cached wrapper holding at most size locations
func NewCachedGeocoder(source datasource.Geocoder, size int, logger *zap.Logger) (*CachedGeocoder, error) {
	if size <= 0 {
		size = DefaultGeocodeCacheSize
	}
	entries, err := lru.New[string, models.Coordinates](size)
	if err != nil {
		return nil, err
	}
	return &CachedGeocoder{
		source:        source,
		entries:       entries,
		logger:        logger,
		lookupTimeout: DefaultLookupTimeout,
	}, nil
}

// SetLookupTimeout changes the bound on a shared upstream lookup
func (c *CachedGeocoder) SetLookupTimeout(timeout time.Duration) {
	c.lookupTimeout = timeout
}

// Name returns the name of the underlying geocoder with [Cached] suffix
func (c *CachedGeocoder) Name() string {
	return c.source.Name() + " [Cached]"
}

// Geocode returns cached coordinates for text or resolves and caches them.
// Failures are never cached. Concurrent misses for the same text share one upstream call,
// which a cancelled caller leaves running for the others.
func (c *CachedGeocoder) Geocode(ctx context.Context, text string) (models.Coordinates, error) {
	if coords, ok := c.entries.Get(text); ok {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		c.logger.Debug("geocode cache hit",
			zap.String("location", text),
			zap.String("source", c.source.Name()),
		)
		return coords, nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	c.logger.Debug("geocode cache miss",
		zap.String("location", text),
		zap.String("source", c.source.Name()),
	)

	// the shared lookup runs detached from any one caller's cancellation
	ch := c.group.DoChan(text, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.lookupTimeout)
		defer cancel()

		coords, err := c.source.Geocode(lookupCtx, text)
		if err != nil {
			return models.Coordinates{}, err
		}
		c.entries.Add(text, coords)
		return coords, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return models.Coordinates{}, res.Err
		}
		return res.Val.(models.Coordinates), nil
	case <-ctx.Done():
		return models.Coordinates{}, ctx.Err()
	}
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedGeocoder) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

// Len returns the number of cached locations
func (c *CachedGeocoder) Len() int {
	return c.entries.Len()
}

// Ensure CachedGeocoder implements the Geocoder interface
var _ datasource.Geocoder = (*CachedGeocoder)(nil)
