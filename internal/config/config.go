// Package config loads runtime configuration from an optional YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultAddr           = "127.0.0.1:8080"
	defaultMarket         = "US"
	defaultSearchLimit    = 20
	defaultBatchSize      = 10
	defaultRequestTimeout = 15 * time.Second
	defaultSpotifyTimeout = 10 * time.Second
	defaultLogLevel       = "info"

	maxSearchLimit = 50
)

// ErrInvalid is returned when a setting is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all runtime settings.
type Config struct {
	Addr           string
	LogLevel       string
	MoodsFile      string // Optional YAML mood table; empty uses the built-in table
	DatabaseURL    string // Optional; enables recommendation history
	RequestTimeout time.Duration

	Spotify   Spotify
	Search    Search
	Recommend Recommend
}

// Spotify holds API credentials and transport settings.
type Spotify struct {
	ClientID     string
	ClientSecret string
	Market       string
	Timeout      time.Duration
}

// Search controls the candidate pool.
type Search struct {
	Limit int
}

// Recommend controls batching and result size.
type Recommend struct {
	BatchSize    int
	DefaultCount int // 0 uses the mood table's default
}

// New returns a viper instance with defaults, environment bindings and the
// config file search path applied. An empty path searches for moodify.yaml
// in the working directory and ~/.config/moodify.
func New(path string) *viper.Viper {
	v := viper.New()

	v.SetDefault("addr", defaultAddr)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("moods_file", "")
	v.SetDefault("database_url", "")
	v.SetDefault("request_timeout", defaultRequestTimeout)
	v.SetDefault("spotify.client_id", "")
	v.SetDefault("spotify.client_secret", "")
	v.SetDefault("spotify.market", defaultMarket)
	v.SetDefault("spotify.timeout", defaultSpotifyTimeout)
	v.SetDefault("search.limit", defaultSearchLimit)
	v.SetDefault("recommend.batch_size", defaultBatchSize)
	v.SetDefault("recommend.default_count", 0)

	v.SetEnvPrefix("MOODIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credential names used by earlier deployments.
	_ = v.BindEnv("spotify.client_id", "MOODIFY_SPOTIFY_CLIENT_ID", "SPOTIFY_ID", "SPOT_CLIENT_ID")
	_ = v.BindEnv("spotify.client_secret", "MOODIFY_SPOTIFY_CLIENT_SECRET", "SPOTIFY_SECRET", "SPOT_CLIENT_SECRET")
	_ = v.BindEnv("database_url", "MOODIFY_DATABASE_URL", "DATABASE_URL")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("moodify")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "moodify"))
		}
	}

	return v
}

// Load reads the config file (if any) and returns validated settings.
// A missing file in the default search path is not an error; a missing
// explicit path is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		Addr:           v.GetString("addr"),
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		MoodsFile:      v.GetString("moods_file"),
		DatabaseURL:    v.GetString("database_url"),
		RequestTimeout: v.GetDuration("request_timeout"),
		Spotify: Spotify{
			ClientID:     v.GetString("spotify.client_id"),
			ClientSecret: v.GetString("spotify.client_secret"),
			Market:       v.GetString("spotify.market"),
			Timeout:      v.GetDuration("spotify.timeout"),
		},
		Search: Search{
			Limit: v.GetInt("search.limit"),
		},
		Recommend: Recommend{
			BatchSize:    v.GetInt("recommend.batch_size"),
			DefaultCount: v.GetInt("recommend.default_count"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is in range.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q, want debug, info, warn or error", c.LogLevel))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout %v, want > 0", c.RequestTimeout))
	}
	if c.Spotify.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("spotify.timeout %v, want > 0", c.Spotify.Timeout))
	}
	if c.Search.Limit < 1 || c.Search.Limit > maxSearchLimit {
		errs = append(errs, fmt.Errorf("search.limit %d, want 1-%d", c.Search.Limit, maxSearchLimit))
	}
	if c.Recommend.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("recommend.batch_size %d, want > 0", c.Recommend.BatchSize))
	}
	if c.Recommend.DefaultCount < 0 {
		errs = append(errs, fmt.Errorf("recommend.default_count %d, want >= 0", c.Recommend.DefaultCount))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// HasCredentials reports whether both Spotify credentials are set.
func (c *Config) HasCredentials() bool {
	return c.Spotify.ClientID != "" && c.Spotify.ClientSecret != ""
}
