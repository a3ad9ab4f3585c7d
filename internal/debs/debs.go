package deps

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/bwise1/whereintheworld/config"
	"github.com/bwise1/whereintheworld/internal/cache"
	"github.com/bwise1/whereintheworld/internal/db"
	"github.com/bwise1/whereintheworld/internal/display"
	googlemaps "github.com/bwise1/whereintheworld/internal/http/google"
	"github.com/bwise1/whereintheworld/internal/http/nominatim"
	"github.com/bwise1/whereintheworld/internal/http/slack"
	"github.com/bwise1/whereintheworld/internal/location"
	"github.com/bwise1/whereintheworld/internal/preferences"
	"github.com/bwise1/whereintheworld/internal/sources"
	"github.com/bwise1/whereintheworld/internal/status"
	"github.com/bwise1/whereintheworld/internal/tracker"
	"github.com/bwise1/whereintheworld/util"
	"github.com/bwise1/whereintheworld/util/websockets"
	"github.com/redis/go-redis/v9"
)

type Dependencies struct {
	Config      *config.Config
	Preferences *preferences.Store
	Google      *googlemaps.GoogleMapsClient
	Nominatim   *nominatim.Client
	OnDevice    *location.OnDeviceGeocoder
	Resolver    *location.Resolver
	Slack       *slack.Client
	Status      *status.Service
	Coordinates *sources.PushedCoordinateSource
	Tracker     *tracker.Tracker
	Display     *display.Display
	WebSocket   *websockets.WebSocketManager
	Redis       *redis.Client
}

func New(cfg *config.Config) *Dependencies {
	kv, err := openKV(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to open preference store", "error", err)
	}
	prefs := preferences.NewStore(kv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	keys, err := prefs.GetAPIKeys(ctx)
	if err != nil {
		log.Printf("[Deps] unable to read stored API keys: %v", err)
	}
	googleKey := firstNonEmpty(keys.Google, cfg.GoogleMapsAPIKey)
	slackToken := firstNonEmpty(keys.Slack, cfg.SlackAPIToken)
	log.Printf("[Deps] google key %s, slack token %s", util.MaskSecret(googleKey), util.MaskSecret(slackToken))

	for name, u := range map[string]string{"GOOGLE_BASE_URL": cfg.GoogleBaseURL, "SLACK_BASE_URL": cfg.SlackBaseURL, "NOMINATIM_BASE_URL": cfg.NominatimBaseURL} {
		if !util.IsURL(u) {
			log.Panicln("invalid base url", name, u)
		}
	}

	google := googlemaps.NewGoogleMapsClient(googleKey)
	google.BaseURL = cfg.GoogleBaseURL

	osm, err := nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimUserAgent)
	if err != nil {
		log.Panicln("invalid nominatim base url", "error", err)
	}

	onDevice, err := location.NewOnDeviceGeocoder("", cfg.OnDeviceMaxDistanceKm)
	if err != nil {
		log.Panicln("failed to load gazetteer", "error", err)
	}

	slackClient := slack.NewClient(slackToken)
	slackClient.BaseURL = cfg.SlackBaseURL

	hub := websockets.NewWebSocketManager()
	disp := display.New(hub)
	hub.Greeting = disp.Snapshot

	d := &Dependencies{
		Config:      cfg,
		Preferences: prefs,
		Google:      google,
		Nominatim:   osm,
		OnDevice:    onDevice,
		Slack:       slackClient,
		Status:      status.NewService(slackClient, prefs, cfg.SlackPermanentEmojis),
		Coordinates: sources.NewPushedCoordinateSource(),
		Display:     disp,
		WebSocket:   hub,
	}

	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[Deps] geocode cache disabled: %v", err)
		} else {
			d.Redis = client
		}
	}

	d.Resolver = location.NewResolver(d.selectBackend(keys.UseOpenStreetMap))
	d.Tracker = tracker.New(
		sources.NewCommandWifiSource(cfg.WifiCommand),
		d.Coordinates,
		d.Resolver,
		prefs,
		tracker.Options{WifiInterval: cfg.WifiInterval, Debounce: cfg.DebounceInterval},
	)

	if cfg.Geocoder == config.GeocoderGoogle && !keys.UseOpenStreetMap && googleKey == "" {
		log.Println("[Deps] no Google Maps API key configured; geocoding will fail until one is set")
	}
	return d
}

// openKV picks the preference backend from the DSN.
func openKV(dsn string) (preferences.KV, error) {
	switch {
	case dsn == "":
		log.Println("[Deps] no DSN set, preferences are kept in memory")
		return preferences.NewMemoryKV(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return db.New(dsn)
	default:
		return db.OpenSQLite(dsn)
	}
}

// selectBackend returns the configured geocoder, wrapped in the Redis cache when available.
func (d *Dependencies) selectBackend(useOpenStreetMap bool) location.Backend {
	var backend location.Backend
	switch {
	case useOpenStreetMap, d.Config.Geocoder == config.GeocoderNominatim:
		backend = d.Nominatim
	case d.Config.Geocoder == config.GeocoderOnDevice:
		backend = d.OnDevice
	default:
		backend = d.Google
	}
	if d.Redis == nil {
		return backend
	}
	return location.NewCachedBackend(backend,
		cache.NewGeocodeCache(d.Redis, d.Config.GeocodeCacheTTL),
		d.Config.CacheCellLevel)
}

// ApplySecrets hot-swaps API keys and the geocoding backend after a settings
// change. A cleared stored key falls back to the environment key, as at startup.
func (d *Dependencies) ApplySecrets(keys preferences.APIKeys) {
	googleKey := firstNonEmpty(keys.Google, d.Config.GoogleMapsAPIKey)
	slackToken := firstNonEmpty(keys.Slack, d.Config.SlackAPIToken)
	log.Printf("[Deps] applying google key %s, slack token %s, openstreetmap %t",
		util.MaskSecret(googleKey), util.MaskSecret(slackToken), keys.UseOpenStreetMap)

	d.Google.SetAPIKey(googleKey)
	d.Slack.SetToken(slackToken)
	d.Resolver.SetBackend(d.selectBackend(keys.UseOpenStreetMap))
}

func (d *Dependencies) Close() {
	if err := d.Preferences.Close(); err != nil {
		log.Printf("[Deps] closing preference store: %v", err)
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			log.Printf("[Deps] closing redis: %v", err)
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
