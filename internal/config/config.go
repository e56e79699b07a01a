// Package config loads fabsync configuration from a TOML file and the
// environment.
//
// Precedence is: built-in defaults, then config.toml, then environment
// variables. A .env file is loaded first and a .env.local file overrides it,
// so local development settings never need to touch the committed file.
// Missing calendar ID or service-account credentials are fatal at startup,
// before any network activity.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/dfw-fab/fabsync/internal/filter"
)

// Source kinds for the local event locator.
const (
	SourceHTML = "html"
	SourceAPI  = "api"
)

// Config is the full configuration surface for a run.
type Config struct {
	// Calendar backend
	CalendarID      string `toml:"calendar_id"`
	CredentialsFile string `toml:"credentials_file"`
	Timezone        string `toml:"timezone"`

	// Event shaping
	DefaultEventHours int `toml:"default_event_hours"`
	TargetYear        int `toml:"target_year"`

	// Filtering policy
	MajorTypes             []string            `toml:"major_types"`
	TypeRadiusMiles        map[string]float64  `toml:"type_radius_miles"`
	TypeCountryWhitelist   map[string][]string `toml:"type_country_whitelist"`
	IncludeUnknownDistance bool                `toml:"include_unknown_distance"`

	// Sources
	LocalURL       string  `toml:"local_url"`
	GlobalURL      string  `toml:"global_url"`
	SourceKind     string  `toml:"source_kind"` // "html" or "api"
	SearchLocation string  `toml:"search_location"`
	SearchRadius   float64 `toml:"search_radius_miles"`
	RequestDelayMS int     `toml:"request_delay_ms"`

	// Collaborators
	DiscordWebhookURL string `toml:"discord_webhook_url"`
	LogDir            string `toml:"log_dir"`
	DataDir           string `toml:"data_dir"`
}

// Defaults returns the built-in configuration, matching the categories and
// radii the sync was originally tuned for.
func Defaults() *Config {
	return &Config{
		Timezone:          "America/Chicago",
		DefaultEventHours: 6,
		MajorTypes: []string{
			"World Championship", "Pro Tour", "World Premiere",
			"Calling", "Battle Hardened",
		},
		TypeRadiusMiles: map[string]float64{
			"Pro Quest":         250,
			"Pro Quest+":        250,
			"Skirmish":          250,
			"Road to Nationals": 250,
			"Prerelease":        100,
		},
		TypeCountryWhitelist: map[string][]string{
			"Battle Hardened": {"usa", "united states", "us"},
		},
		LocalURL:       "https://fabtcg.com/en/events/",
		GlobalURL:      "https://fabtcg.com/en/organised-play/",
		SourceKind:     SourceHTML,
		SearchLocation: "Fort Worth, TX 76117, USA",
		SearchRadius:   250,
		RequestDelayMS: 1000,
		LogDir:         "logs",
		DataDir:        "data",
	}
}

// Load builds the configuration for a run. path names a TOML file and may be
// empty or missing; environment variables override whatever it sets.
func Load(path string) (*Config, error) {
	// Base .env, then .env.local overrides.
	_ = godotenv.Load(".env")
	if _, err := os.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if cfg.TargetYear == 0 {
		cfg.TargetYear = time.Now().Year()
	}

	return cfg, nil
}

// applyEnv overlays recognized environment variables onto cfg.
func applyEnv(cfg *Config) {
	setString(&cfg.CalendarID, "CALENDAR_ID")
	setString(&cfg.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&cfg.Timezone, "TIMEZONE")
	setString(&cfg.LocalURL, "FAB_LOCAL_URL")
	setString(&cfg.GlobalURL, "FAB_GLOBAL_URL")
	setString(&cfg.SourceKind, "FAB_SOURCE_KIND")
	setString(&cfg.SearchLocation, "SEARCH_LOCATION")
	setString(&cfg.DiscordWebhookURL, "DISCORD_WEBHOOK_URL")
	setString(&cfg.LogDir, "LOG_DIR")
	setString(&cfg.DataDir, "DATA_DIR")

	setInt(&cfg.DefaultEventHours, "DEFAULT_EVENT_HOURS")
	setInt(&cfg.TargetYear, "TARGET_YEAR")
	setInt(&cfg.RequestDelayMS, "REQUEST_DELAY_MS")

	if v := os.Getenv("MAX_DISTANCE_COMPETITIVE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.SearchRadius = f
			for _, t := range []string{"Pro Quest", "Pro Quest+", "Skirmish", "Road to Nationals"} {
				cfg.TypeRadiusMiles[t] = f
			}
		}
	}
	if v := os.Getenv("MAX_DISTANCE_PRERELEASE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TypeRadiusMiles["Prerelease"] = f
		}
	}
	if v := os.Getenv("INCLUDE_UNKNOWN_DISTANCE"); v != "" {
		cfg.IncludeUnknownDistance = strings.EqualFold(v, "true")
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// RequestDelay returns the configured inter-page delay.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks that everything the calendar reconciler needs is present.
// Failures here abort the run before any network call.
func (c *Config) Validate() error {
	if c.CalendarID == "" {
		return fmt.Errorf("calendar ID is required (set CALENDAR_ID or calendar_id)")
	}
	if c.CredentialsFile == "" {
		return fmt.Errorf("service account credentials are required (set GOOGLE_APPLICATION_CREDENTIALS or credentials_file)")
	}
	if _, err := os.Stat(c.CredentialsFile); err != nil {
		return fmt.Errorf("credentials file %s: %w", c.CredentialsFile, err)
	}
	if c.SourceKind != SourceHTML && c.SourceKind != SourceAPI {
		return fmt.Errorf("source kind must be %q or %q, got %q", SourceHTML, SourceAPI, c.SourceKind)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return c.validateCategories()
}

// validateCategories rejects filtering keys that name no known event
// category, catching config typos before a silent no-match run.
func (c *Config) validateCategories() error {
	known := make(map[string]bool)
	for _, cat := range filter.Categories() {
		known[cat] = true
	}
	for _, t := range c.MajorTypes {
		if !known[t] {
			return fmt.Errorf("unknown event category %q in major_types", t)
		}
	}
	for t := range c.TypeRadiusMiles {
		if !known[t] {
			return fmt.Errorf("unknown event category %q in type_radius_miles", t)
		}
	}
	for t := range c.TypeCountryWhitelist {
		if !known[t] {
			return fmt.Errorf("unknown event category %q in type_country_whitelist", t)
		}
	}
	return nil
}
