package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trip-impact-service/api"
	"trip-impact-service/cache"
	"trip-impact-service/collector"
	"trip-impact-service/config"
	"trip-impact-service/datasource"
	"trip-impact-service/logger"
	"trip-impact-service/providers/aqicn"
	"trip-impact-service/providers/googlemaps"
	"trip-impact-service/providers/opencage"
	"trip-impact-service/providers/osrm"
	"trip-impact-service/providers/tomtom"
	"trip-impact-service/trip"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	port := flag.Int("port", 0, "Port to run the server on (overrides config)")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable API rate limiting")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if !*enableRateLimiting {
		cfg.RateLimit.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logg, err := logger.NewNamed(cfg.AppEnv, "trip-impact-service", cfg.Log.File)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	geocoder, router, err := buildResolvers(cfg, logg)
	if err != nil {
		logg.Fatal("failed to create providers", zap.Error(err))
	}

	var weather datasource.WeatherSource = aqicn.NewWeatherSource(
		cfg.Providers.Weather.APIKey, cfg.Providers.Weather.BaseURL, cfg.HTTP.Timeout, logg)
	var traffic datasource.TrafficSource = tomtom.NewTrafficSource(
		cfg.Providers.Traffic.APIKey, cfg.Providers.Traffic.BaseURL, cfg.HTTP.Timeout, logg)

	if cfg.RateLimit.Enabled {
		rps, burst := resolverLimits(cfg, cfg.Providers.Geocoding)
		geocoder = datasource.NewRateLimitedGeocoder(geocoder, rps, burst)
		rps, burst = resolverLimits(cfg, cfg.Providers.Routing)
		router = datasource.NewRateLimitedRouter(router, rps, burst)
		weather = datasource.NewRateLimitedWeatherSource(weather, cfg.Providers.Weather.RPS, cfg.Providers.Weather.Burst)
		traffic = datasource.NewRateLimitedTrafficSource(traffic, cfg.Providers.Traffic.RPS, cfg.Providers.Traffic.Burst)
		logg.Info("applied rate limiting to upstream providers")
	}

	cachedGeocoder, err := cache.NewCachedGeocoder(geocoder, cfg.Cache.GeocodeSize, logg)
	if err != nil {
		logg.Fatal("failed to create geocode cache", zap.Error(err))
	}
	// leaves room for a rate limiter wait before the HTTP call
	cachedGeocoder.SetLookupTimeout(2 * cfg.HTTP.Timeout)

	conditions := collector.NewConditionsCollector(weather, traffic, logg)
	conditions.SetFetchTimeout(cfg.Collector.FetchTimeout)

	pipeline := trip.NewPipeline(cachedGeocoder, router, conditions, logg)
	tripStore := api.NewTripStore()
	server := api.NewServer(pipeline, tripStore, cachedGeocoder, cfg.Server.Port, logg)

	logg.Info("providers configured",
		zap.String("geocoder", cachedGeocoder.Name()),
		zap.String("router", router.Name()),
		zap.String("weather", weather.Name()),
		zap.String("traffic", traffic.Name()),
	)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	pruneDone := make(chan struct{})

	// Periodically drop stored trips older than the configured age
	go func() {
		ticker := time.NewTicker(pruneInterval(cfg.Store.MaxAge))
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := tripStore.PruneOlderThan(cfg.Store.MaxAge); n > 0 {
					logg.Info("pruned stored trips", zap.Int("count", n))
				}
			case <-pruneDone:
				return
			}
		}
	}()

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server stopped", zap.Error(err))
		}
	}()

	sig := <-shutdownChan
	logg.Info("shutting down", zap.String("signal", sig.String()))
	close(pruneDone)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logg.Error("forced shutdown", zap.Error(err))
	}

	hits, misses := cachedGeocoder.CacheStats()
	logg.Info("shutdown complete", zap.Int("geocode_cache_hits", hits), zap.Int("geocode_cache_misses", misses))
}

// buildResolvers creates the geocoder and router selected in the configuration.
// When both are Google they share one client.
func buildResolvers(cfg *config.Config, logg *zap.Logger) (datasource.Geocoder, datasource.Router, error) {
	var google *googlemaps.Client
	googleClient := func() (*googlemaps.Client, error) {
		if google != nil {
			return google, nil
		}
		var err error
		google, err = googlemaps.NewClient(cfg.Providers.Google.APIKey, cfg.Providers.Google.BaseURL, cfg.HTTP.Timeout, logg)
		return google, err
	}

	var geocoder datasource.Geocoder
	switch cfg.Providers.Geocoding.Provider {
	case config.ProviderGoogle:
		client, err := googleClient()
		if err != nil {
			return nil, nil, err
		}
		geocoder = client
	default:
		geocoder = opencage.NewGeocoder(cfg.Providers.Geocoding.APIKey, cfg.Providers.Geocoding.BaseURL, cfg.HTTP.Timeout, logg)
	}

	var router datasource.Router
	switch cfg.Providers.Routing.Provider {
	case config.ProviderGoogle:
		client, err := googleClient()
		if err != nil {
			return nil, nil, err
		}
		router = client
	default:
		router = osrm.NewRouter(cfg.Providers.Routing.BaseURL, cfg.HTTP.Timeout, logg)
	}

	return geocoder, router, nil
}

// resolverLimits picks the rate limits for a geocoding or routing provider.
// Google-backed resolvers use the Google quota.
func resolverLimits(cfg *config.Config, pc config.ProviderConfig) (float64, int) {
	if pc.Provider == config.ProviderGoogle {
		return cfg.Providers.Google.RPS, cfg.Providers.Google.Burst
	}
	return pc.RPS, pc.Burst
}

func pruneInterval(maxAge time.Duration) time.Duration {
	if interval := maxAge / 4; interval >= time.Minute {
		return interval
	}
	return time.Minute
}
