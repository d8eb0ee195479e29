package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets credential variables that may leak in from the host.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MOODIFY_SPOTIFY_CLIENT_ID", "MOODIFY_SPOTIFY_CLIENT_SECRET",
		"SPOTIFY_ID", "SPOTIFY_SECRET", "SPOT_CLIENT_ID", "SPOT_CLIENT_SECRET",
		"MOODIFY_DATABASE_URL", "DATABASE_URL", "MOODIFY_ADDR", "MOODIFY_LOG_LEVEL",
		"MOODIFY_SEARCH_LIMIT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moodify.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load(New(""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Search.Limit != 20 {
		t.Errorf("Search.Limit = %d, want 20", cfg.Search.Limit)
	}
	if cfg.Recommend.BatchSize != 10 {
		t.Errorf("Recommend.BatchSize = %d, want 10", cfg.Recommend.BatchSize)
	}
	if cfg.Recommend.DefaultCount != 0 {
		t.Errorf("Recommend.DefaultCount = %d, want 0", cfg.Recommend.DefaultCount)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout = %v, want 15s", cfg.RequestTimeout)
	}
	if cfg.Spotify.Market != "US" {
		t.Errorf("Spotify.Market = %q, want US", cfg.Spotify.Market)
	}
	if cfg.HasCredentials() {
		t.Error("HasCredentials() = true with no credentials set")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
addr: 0.0.0.0:9000
log_level: DEBUG
request_timeout: 5s
spotify:
  client_id: file-id
  client_secret: file-secret
  market: GB
search:
  limit: 50
recommend:
  batch_size: 5
  default_count: 7
`)

	cfg, err := Load(New(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if cfg.Spotify.ClientID != "file-id" || cfg.Spotify.ClientSecret != "file-secret" || cfg.Spotify.Market != "GB" {
		t.Errorf("Spotify = %+v", cfg.Spotify)
	}
	if cfg.Search.Limit != 50 || cfg.Recommend.BatchSize != 5 || cfg.Recommend.DefaultCount != 7 {
		t.Errorf("Search = %+v, Recommend = %+v", cfg.Search, cfg.Recommend)
	}
	if !cfg.HasCredentials() {
		t.Error("HasCredentials() = false")
	}
}

func TestLoadEnvironment(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantID     string
		wantSecret string
	}{
		{
			name:       "prefixed",
			env:        map[string]string{"MOODIFY_SPOTIFY_CLIENT_ID": "a", "MOODIFY_SPOTIFY_CLIENT_SECRET": "b"},
			wantID:     "a",
			wantSecret: "b",
		},
		{
			name:       "spotify names",
			env:        map[string]string{"SPOTIFY_ID": "c", "SPOTIFY_SECRET": "d"},
			wantID:     "c",
			wantSecret: "d",
		},
		{
			name:       "legacy names",
			env:        map[string]string{"SPOT_CLIENT_ID": "e", "SPOT_CLIENT_SECRET": "f"},
			wantID:     "e",
			wantSecret: "f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(New(""))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Spotify.ClientID != tt.wantID || cfg.Spotify.ClientSecret != tt.wantSecret {
				t.Errorf("credentials = %q/%q, want %q/%q",
					cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, tt.wantID, tt.wantSecret)
			}
		})
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "search:\n  limit: 30\n")
	t.Setenv("MOODIFY_SEARCH_LIMIT", "12")

	cfg, err := Load(New(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Search.Limit != 12 {
		t.Errorf("Search.Limit = %d, want 12", cfg.Search.Limit)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(New(filepath.Join(t.TempDir(), "missing.yaml"))); err == nil {
		t.Error("Load() error = nil, want error for missing explicit file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Addr:           ":8080",
			LogLevel:       "info",
			RequestTimeout: time.Second,
			Spotify:        Spotify{Timeout: time.Second},
			Search:         Search{Limit: 20},
			Recommend:      Recommend{BatchSize: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty addr", func(c *Config) { c.Addr = "" }, "addr"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "request_timeout"},
		{"zero spotify timeout", func(c *Config) { c.Spotify.Timeout = 0 }, "spotify.timeout"},
		{"search limit too high", func(c *Config) { c.Search.Limit = 51 }, "search.limit"},
		{"search limit zero", func(c *Config) { c.Search.Limit = 0 }, "search.limit"},
		{"zero batch size", func(c *Config) { c.Recommend.BatchSize = 0 }, "batch_size"},
		{"negative default count", func(c *Config) { c.Recommend.DefaultCount = -1 }, "default_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate() error = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
