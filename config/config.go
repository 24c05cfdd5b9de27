// Package config loads service configuration from defaults, an optional config
// file and TRIP_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider names accepted for geocoding and routing
const (
	ProviderOpenCage = "opencage"
	ProviderOSRM     = "osrm"
	ProviderGoogle   = "google"
)

// EnvPrefix prefixes every environment override, e.g. TRIP_PROVIDERS_TRAFFIC_API_KEY
const EnvPrefix = "TRIP"

// ProviderConfig configures one upstream API
type ProviderConfig struct {
	Provider string  `mapstructure:"provider"`
	BaseURL  string  `mapstructure:"base_url"`
	APIKey   string  `mapstructure:"api_key"`
	RPS      float64 `mapstructure:"rps"`
	Burst    int     `mapstructure:"burst"`
}

// Config represents the application configuration
type Config struct {
	AppEnv string `mapstructure:"app_env"`

	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`

	Log struct {
		File string `mapstructure:"file"`
	} `mapstructure:"log"`

	HTTP struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"http"`

	Collector struct {
		FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	} `mapstructure:"collector"`

	Cache struct {
		GeocodeSize int `mapstructure:"geocode_size"`
	} `mapstructure:"cache"`

	Store struct {
		MaxAge time.Duration `mapstructure:"max_age"`
	} `mapstructure:"store"`

	RateLimit struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"rate_limit"`

	Providers struct {
		Geocoding ProviderConfig `mapstructure:"geocoding"`
		Routing   ProviderConfig `mapstructure:"routing"`
		Weather   ProviderConfig `mapstructure:"weather"`
		Traffic   ProviderConfig `mapstructure:"traffic"`
		Google    ProviderConfig `mapstructure:"google"`
	} `mapstructure:"providers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.file", "")
	v.SetDefault("http.timeout", 10*time.Second)
	v.SetDefault("collector.fetch_timeout", 10*time.Second)
	v.SetDefault("cache.geocode_size", 1024)
	v.SetDefault("store.max_age", 24*time.Hour)
	v.SetDefault("rate_limit.enabled", true)

	v.SetDefault("providers.geocoding.provider", ProviderOpenCage)
	v.SetDefault("providers.geocoding.base_url", "")
	v.SetDefault("providers.geocoding.api_key", "")
	// OpenCage free tier allows 1 request per second
	v.SetDefault("providers.geocoding.rps", 1.0)
	v.SetDefault("providers.geocoding.burst", 2)

	v.SetDefault("providers.routing.provider", ProviderOSRM)
	v.SetDefault("providers.routing.base_url", "")
	v.SetDefault("providers.routing.api_key", "")
	// the public OSRM demo server asks for at most 1 request per second
	v.SetDefault("providers.routing.rps", 1.0)
	v.SetDefault("providers.routing.burst", 1)

	v.SetDefault("providers.weather.base_url", "")
	v.SetDefault("providers.weather.api_key", "")
	v.SetDefault("providers.weather.rps", 5.0)
	v.SetDefault("providers.weather.burst", 5)

	v.SetDefault("providers.traffic.base_url", "")
	v.SetDefault("providers.traffic.api_key", "")
	v.SetDefault("providers.traffic.rps", 5.0)
	v.SetDefault("providers.traffic.burst", 5)

	v.SetDefault("providers.google.base_url", "")
	v.SetDefault("providers.google.api_key", "")
	v.SetDefault("providers.google.rps", 10.0)
	v.SetDefault("providers.google.burst", 10)
}

// Load reads configuration. A missing file at path is not an error; the
// defaults and environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that every selected provider has what it needs
func (c *Config) Validate() error {
	var errs []error

	switch c.Providers.Geocoding.Provider {
	case ProviderOpenCage:
		if c.Providers.Geocoding.APIKey == "" {
			errs = append(errs, errors.New("OpenCage geocoding is selected but no API key provided"))
		}
	case ProviderGoogle:
		if c.Providers.Google.APIKey == "" {
			errs = append(errs, errors.New("Google geocoding is selected but no API key provided"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown geocoding provider %q", c.Providers.Geocoding.Provider))
	}

	switch c.Providers.Routing.Provider {
	case ProviderOSRM:
	case ProviderGoogle:
		if c.Providers.Google.APIKey == "" {
			errs = append(errs, errors.New("Google routing is selected but no API key provided"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown routing provider %q", c.Providers.Routing.Provider))
	}

	if c.Providers.Weather.APIKey == "" {
		errs = append(errs, errors.New("AQICN weather requires an API token"))
	}
	if c.Providers.Traffic.APIKey == "" {
		errs = append(errs, errors.New("TomTom traffic requires an API key"))
	}
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}

	return errors.Join(errs...)
}
