package datasource

import (
	"context"

	"trip-impact-service/models"
)

// Geocoder resolves free-text locations to coordinates
type Geocoder interface {
	// Geocode returns the coordinates of the provider's first match for text
	Geocode(ctx context.Context, text string) (models.Coordinates, error)

	// Name returns the provider's name
	Name() string
}

// Router computes driving routes between two points
type Router interface {
	// Route returns the candidate routes in provider order
	Route(ctx context.Context, start, end models.Coordinates) ([]models.RouteSummary, error)

	// Name returns the provider's name
	Name() string
}

// WeatherSource fetches current weather and air quality for a location
type WeatherSource interface {
	Weather(ctx context.Context, location string) (models.WeatherReading, error)
	Name() string
}

// TrafficSource fetches traffic flow around a point
type TrafficSource interface {
	Traffic(ctx context.Context, point models.Coordinates) (models.TrafficReading, error)
	Name() string
}
