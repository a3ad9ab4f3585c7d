package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

const (
	GeocoderGoogle    = "google"
	GeocoderNominatim = "nominatim"
	GeocoderOnDevice  = "ondevice"
)

type Config struct {
	Port                  int           `env:"PORT" envDefault:"8085"`
	Dsn                   string        `env:"DSN"`
	GoogleMapsAPIKey      string        `env:"GOOGLE_MAPS_API_KEY"`
	SlackAPIToken         string        `env:"SLACK_API_TOKEN"`
	Geocoder              string        `env:"GEOCODER" envDefault:"google"`
	NominatimBaseURL      string        `env:"NOMINATIM_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	NominatimUserAgent    string        `env:"NOMINATIM_USER_AGENT" envDefault:"whereintheworld/1.0"`
	GoogleBaseURL         string        `env:"GOOGLE_BASE_URL" envDefault:"https://maps.googleapis.com"`
	SlackBaseURL          string        `env:"SLACK_BASE_URL" envDefault:"https://slack.com"`
	WifiInterval          time.Duration `env:"WIFI_INTERVAL" envDefault:"60s"`
	Debug                 bool          `env:"DEBUG"`
	DebounceInterval      time.Duration `env:"DEBOUNCE_INTERVAL" envDefault:"20s"`
	StartupDelay          time.Duration `env:"STARTUP_DELAY" envDefault:"20s"`
	SlackPermanentEmojis  []string      `env:"SLACK_PERMANENT_EMOJIS" envSeparator:","`
	WifiCommand           string        `env:"WIFI_COMMAND" envDefault:"iwgetid -r"`
	RedisURL              string        `env:"REDIS_URL"`
	GeocodeCacheTTL       time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"24h"`
	CacheCellLevel        int           `env:"CACHE_CELL_LEVEL" envDefault:"13"`
	ControlSecret         string        `env:"CONTROL_SECRET"`
	OnDeviceMaxDistanceKm float64       `env:"ONDEVICE_MAX_DISTANCE_KM" envDefault:"50"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	cfg, err := Parse()
	if err != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", err)
	}
	return cfg
}

// Parse reads the environment into a Config and applies debug overrides.
func Parse() (*Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	cfg.applyDebug()
	return &cfg, err
}

func (c *Config) applyDebug() {
	if !c.Debug {
		return
	}
	c.WifiInterval = 10 * time.Second
	c.StartupDelay = 5 * time.Second
}
