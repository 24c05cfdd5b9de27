package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trip-impact-service/datasource"
	"trip-impact-service/trip"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TripEstimator runs the trip pipeline
type TripEstimator interface {
	Estimate(ctx context.Context, req trip.Request) (trip.Outcome, error)
}

// CacheStatsProvider reports geocode cache usage
type CacheStatsProvider interface {
	CacheStats() (hits, misses int)
	Len() int
}

// Server represents the API server
type Server struct {
	estimator TripEstimator
	tripStore *TripStore
	cache     CacheStatsProvider
	router    *gin.Engine
	server    *http.Server
	logger    *zap.Logger
}

// NewServer creates a new API server. cache may be nil.
func NewServer(estimator TripEstimator, tripStore *TripStore, cache CacheStatsProvider, port int, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	server := &Server{
		estimator: estimator,
		tripStore: tripStore,
		cache:     cache,
		router:    router,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
	server.RegisterRoutes(&router.RouterGroup)
	return server
}

// RegisterRoutes registers all routes on the given router group
func (s *Server) RegisterRoutes(r *gin.RouterGroup) {
	api := r.Group("/api")
	{
		api.POST("/trips", s.handleCreateTrip)
		api.GET("/trips", s.handleListTrips)
		api.GET("/trips/:id", s.handleGetTrip)
		api.GET("/cache/stats", s.handleCacheStats)
		api.GET("/health", s.handleHealthCheck)
	}
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server
func (s *Server) Start() error {
	s.logger.Info("starting API server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleCreateTrip handles POST /api/trips
func (s *Server) handleCreateTrip(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBind(&req); err != nil {
		s.logger.Warn("invalid trip request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input. Start and end locations are required and fuel efficiency must be a positive number.",
		})
		return
	}

	out, err := s.estimator.Estimate(c.Request.Context(), trip.Request{
		StartLocation:  req.StartLocation,
		EndLocation:    req.EndLocation,
		FuelEfficiency: req.FuelEfficiency,
		VehicleType:    req.VehicleType,
	})
	if err != nil {
		status, message := errorStatus(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	if out.Rejected() {
		c.JSON(http.StatusOK, toRejectionResponse(out))
		return
	}

	stored := s.tripStore.Save(out.Trip)
	c.JSON(http.StatusCreated, toTripResponse(stored))
}

// handleGetTrip handles GET /api/trips/:id
func (s *Server) handleGetTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip ID"})
		return
	}

	stored, exists := s.tripStore.Get(id)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No trip found with ID: %s", id)})
		return
	}

	c.JSON(http.StatusOK, toTripResponse(stored))
}

// handleListTrips handles GET /api/trips
func (s *Server) handleListTrips(c *gin.Context) {
	stored := s.tripStore.List()
	trips := make([]TripResponse, 0, len(stored))
	for _, st := range stored {
		trips = append(trips, toTripResponse(st))
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}

// handleCacheStats reports geocode cache hits and misses
func (s *Server) handleCacheStats(c *gin.Context) {
	if s.cache == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "geocode cache disabled"})
		return
	}

	hits, misses := s.cache.CacheStats()
	c.JSON(http.StatusOK, gin.H{
		"hits":    hits,
		"misses":  misses,
		"entries": s.cache.Len(),
	})
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// errorStatus maps a pipeline failure to an HTTP status and user-facing message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, trip.ErrInvalidFuelEfficiency):
		return http.StatusBadRequest, "Invalid fuel efficiency. Please enter a valid number."
	case errors.Is(err, trip.ErrCoordinatesUnavailable):
		if errors.Is(err, datasource.ErrNotFound) {
			return http.StatusNotFound, "Could not fetch coordinates. Please try again."
		}
		return http.StatusBadGateway, "Could not fetch coordinates. Please try again."
	case errors.Is(err, trip.ErrRouteUnavailable):
		if errors.Is(err, datasource.ErrNoRoute) {
			return http.StatusNotFound, "Could not fetch route data. Please try again."
		}
		return http.StatusBadGateway, "Could not fetch route data. Please try again."
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "The request timed out. Please try again."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}
