package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Build-time defaults. Override per badge with:
//
//	go build -ldflags "-X 'github.com/rook-computer/badge/internal/config.DefaultFirstName=Ada'"
var (
	DefaultIdentifier     = ""
	DefaultAppPassword    = ""
	DefaultFirstName      = "Trevor"
	DefaultLastName       = "Johnson"
	DefaultProfileURL     = "https://bsky.app/profile/seagl.org"
	DefaultSearchTag      = "seagl2025"
	DefaultOfficialHandle = "seagl.org"
	DefaultWiFiSSID       = ""
	DefaultWiFiPassword   = ""
)

const (
	DefaultAuthURL   = "https://bsky.social/xrpc/com.atproto.server.createSession"
	DefaultSearchURL = "https://bsky.social/xrpc/app.bsky.feed.searchPosts"

	DefaultRefreshInterval = 5 * time.Minute
	DefaultFetchTimeout    = 10 * time.Second
	DefaultFramebuffer     = "/dev/fb0"
	DefaultListenAddr      = ":8080"
)

// Environment variable names.
const (
	EnvIdentifier      = "BADGE_IDENTIFIER"
	EnvAppPassword     = "BADGE_APP_PASSWORD"
	EnvAuthURL         = "BADGE_AUTH_URL"
	EnvSearchURL       = "BADGE_SEARCH_URL"
	EnvSearchTag       = "BADGE_SEARCH_TAG"
	EnvOfficialHandle  = "BADGE_OFFICIAL_HANDLE"
	EnvProfileURL      = "BADGE_PROFILE_URL"
	EnvFirstName       = "BADGE_FIRST_NAME"
	EnvLastName        = "BADGE_LAST_NAME"
	EnvRefreshInterval = "BADGE_REFRESH_INTERVAL"
	EnvFetchTimeout    = "BADGE_FETCH_TIMEOUT"
	EnvWiFiSSID        = "BADGE_WIFI_SSID"
	EnvWiFiPassword    = "BADGE_WIFI_PASSWORD"
	EnvFramebuffer     = "BADGE_FRAMEBUFFER"
	EnvButtonPins      = "BADGE_BUTTON_PINS"
	EnvButtonDevice    = "BADGE_BUTTON_DEVICE"
	EnvBacklightPin    = "BADGE_BACKLIGHT_PIN"
	EnvBacklightSysfs  = "BADGE_BACKLIGHT_SYSFS"
	EnvListenAddr      = "BADGE_LISTEN"
	EnvDevMode         = "BADGE_DEV"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
)

// Config holds everything the badge needs at runtime. All of it is volatile;
// nothing is written back.
type Config struct {
	Account AccountConfig
	Feed    FeedConfig
	Badge   BadgeConfig
	WiFi    WiFiConfig
	Device  DeviceConfig
	Server  ServerConfig
	Log     LogConfig
}

type AccountConfig struct {
	Identifier  string
	AppPassword string
}

type FeedConfig struct {
	AuthURL         string
	SearchURL       string
	SearchTag       string
	OfficialHandle  string
	RefreshInterval time.Duration
	Timeout         time.Duration
}

type BadgeConfig struct {
	FirstName  string
	LastName   string
	ProfileURL string
}

type WiFiConfig struct {
	SSID     string
	Password string
}

// DeviceConfig names the hardware the badge drives. Empty pin names select the
// in-memory implementations.
type DeviceConfig struct {
	Framebuffer    string
	ButtonPins     []string
	ButtonDevice   string
	BacklightPin   string
	BacklightSysfs string
}

type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

type LogConfig struct {
	Level  string
	Format string
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Account: AccountConfig{
			Identifier:  DefaultIdentifier,
			AppPassword: DefaultAppPassword,
		},
		Feed: FeedConfig{
			AuthURL:         DefaultAuthURL,
			SearchURL:       DefaultSearchURL,
			SearchTag:       DefaultSearchTag,
			OfficialHandle:  DefaultOfficialHandle,
			RefreshInterval: DefaultRefreshInterval,
			Timeout:         DefaultFetchTimeout,
		},
		Badge: BadgeConfig{
			FirstName:  DefaultFirstName,
			LastName:   DefaultLastName,
			ProfileURL: DefaultProfileURL,
		},
		WiFi: WiFiConfig{
			SSID:     DefaultWiFiSSID,
			Password: DefaultWiFiPassword,
		},
		Device: DeviceConfig{
			Framebuffer: DefaultFramebuffer,
		},
		Server: ServerConfig{
			ListenAddr: DefaultListenAddr,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadEnvFiles loads .env files from the working directory, later files winning.
// Missing files are skipped; the names of the loaded files are returned.
func LoadEnvFiles(files ...string) ([]string, error) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			return loaded, fmt.Errorf("load %s: %w", file, err)
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}

// Load returns the default configuration overridden by the process environment.
func Load() (Config, error) {
	cfg := Default()

	cfg.Account.Identifier = GetEnv(EnvIdentifier, cfg.Account.Identifier)
	cfg.Account.AppPassword = GetEnv(EnvAppPassword, cfg.Account.AppPassword)

	cfg.Feed.AuthURL = GetEnv(EnvAuthURL, cfg.Feed.AuthURL)
	cfg.Feed.SearchURL = GetEnv(EnvSearchURL, cfg.Feed.SearchURL)
	cfg.Feed.SearchTag = strings.TrimPrefix(GetEnv(EnvSearchTag, cfg.Feed.SearchTag), "#")
	cfg.Feed.OfficialHandle = strings.TrimPrefix(GetEnv(EnvOfficialHandle, cfg.Feed.OfficialHandle), "@")

	var err error
	if cfg.Feed.RefreshInterval, err = getEnvDuration(EnvRefreshInterval, cfg.Feed.RefreshInterval); err != nil {
		return Config{}, err
	}
	if cfg.Feed.Timeout, err = getEnvDuration(EnvFetchTimeout, cfg.Feed.Timeout); err != nil {
		return Config{}, err
	}

	cfg.Badge.FirstName = GetEnv(EnvFirstName, cfg.Badge.FirstName)
	cfg.Badge.LastName = GetEnv(EnvLastName, cfg.Badge.LastName)
	cfg.Badge.ProfileURL = GetEnv(EnvProfileURL, cfg.Badge.ProfileURL)

	cfg.WiFi.SSID = GetEnv(EnvWiFiSSID, cfg.WiFi.SSID)
	cfg.WiFi.Password = GetEnv(EnvWiFiPassword, cfg.WiFi.Password)

	cfg.Device.Framebuffer = GetEnv(EnvFramebuffer, cfg.Device.Framebuffer)
	cfg.Device.ButtonPins = splitList(GetEnv(EnvButtonPins, strings.Join(cfg.Device.ButtonPins, ",")))
	cfg.Device.ButtonDevice = GetEnv(EnvButtonDevice, cfg.Device.ButtonDevice)
	cfg.Device.BacklightPin = GetEnv(EnvBacklightPin, cfg.Device.BacklightPin)
	cfg.Device.BacklightSysfs = GetEnv(EnvBacklightSysfs, cfg.Device.BacklightSysfs)

	cfg.Server.ListenAddr = GetEnv(EnvListenAddr, cfg.Server.ListenAddr)
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, perr := strconv.ParseBool(raw)
		if perr != nil {
			return Config{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, perr)
		}
		cfg.Server.DevMode = parsed
	}

	cfg.Log.Level = GetEnv(EnvLogLevel, cfg.Log.Level)
	cfg.Log.Format = GetEnv(EnvLogFormat, cfg.Log.Format)

	if cfg.Feed.RefreshInterval <= 0 {
		return Config{}, fmt.Errorf("%s must be positive", EnvRefreshInterval)
	}
	if len(cfg.Device.ButtonPins) > 2 {
		return Config{}, fmt.Errorf("%s takes at most two pins (got %d)", EnvButtonPins, len(cfg.Device.ButtonPins))
	}
	return cfg, nil
}

// GetEnv returns the trimmed value of key, or defaultValue when unset or blank.
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or a bare number of milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (got %q): %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
