package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/justestif/moodify/internal/auth"
	"github.com/justestif/moodify/internal/config"
	"github.com/justestif/moodify/internal/db"
	"github.com/justestif/moodify/internal/moods"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MOODIFY_SPOTIFY_CLIENT_ID", "MOODIFY_SPOTIFY_CLIENT_SECRET",
		"SPOTIFY_ID", "SPOTIFY_SECRET", "SPOT_CLIENT_ID", "SPOT_CLIENT_SECRET",
		"MOODIFY_DATABASE_URL", "DATABASE_URL", "MOODIFY_ADDR", "MOODIFY_LOG_LEVEL",
		"MOODIFY_MOODS_FILE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// testCommand returns a command carrying the flags loadApp reads.
func testCommand(configPath string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", configPath, "")
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().String("addr", "", "")
	return cmd
}

func TestLoadAppDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	defer slog.SetDefault(slog.Default())

	a, err := loadApp(testCommand(""), map[string]string{"addr": "addr"})
	if err != nil {
		t.Fatalf("loadApp() error = %v", err)
	}
	if a.cfg.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q, want default", a.cfg.Addr)
	}
	if got := a.table.Labels(); len(got) != 6 {
		t.Errorf("Labels() = %v, want the 6 built-in moods", got)
	}
}

func TestLoadAppFlagOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "moodify.yaml", "addr: 0.0.0.0:7000\nlog_level: info\n")

	cmd := testCommand(path)
	if err := cmd.Flags().Set("addr", "0.0.0.0:9000"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("log-level", "debug"); err != nil {
		t.Fatal(err)
	}

	a, err := loadApp(cmd, map[string]string{"addr": "addr"})
	if err != nil {
		t.Fatalf("loadApp() error = %v", err)
	}
	if a.cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q, want flag value", a.cfg.Addr)
	}
	if a.cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", a.cfg.LogLevel)
	}
}

func TestLoadAppUnsetFlagKeepsFileValue(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "moodify.yaml", "addr: 0.0.0.0:7000\n")

	a, err := loadApp(testCommand(path), map[string]string{"addr": "addr"})
	if err != nil {
		t.Fatalf("loadApp() error = %v", err)
	}
	if a.cfg.Addr != "0.0.0.0:7000" {
		t.Errorf("Addr = %q, want file value", a.cfg.Addr)
	}
}

func TestLoadAppMoodsFile(t *testing.T) {
	clearEnv(t)
	moodsPath := writeFile(t, "moods.yaml", `default_count: 3
moods:
  - name: focus
    target_valence: 0.4
    target_energy: 0.3
    target_danceability: 0.2
    target_tempo: 90
`)
	path := writeFile(t, "moodify.yaml", "moods_file: "+moodsPath+"\n")

	a, err := loadApp(testCommand(path), map[string]string{})
	if err != nil {
		t.Fatalf("loadApp() error = %v", err)
	}
	if got := a.table.Labels(); len(got) != 1 || got[0] != "focus" {
		t.Errorf("Labels() = %v, want [focus]", got)
	}
	if a.table.DefaultCount() != 3 {
		t.Errorf("DefaultCount() = %d, want 3", a.table.DefaultCount())
	}
}

func TestLoadAppInvalidMoodsFile(t *testing.T) {
	clearEnv(t)
	moodsPath := writeFile(t, "moods.yaml", "moods:\n  - name: bad\n    target_valence: 2\n    target_tempo: 90\n")
	path := writeFile(t, "moodify.yaml", "moods_file: "+moodsPath+"\n")

	_, err := loadApp(testCommand(path), map[string]string{})
	if !errors.Is(err, moods.ErrInvalidProfile) {
		t.Errorf("loadApp() error = %v, want ErrInvalidProfile", err)
	}
}

func TestLoadAppInvalidConfig(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "moodify.yaml", "search:\n  limit: 500\n")

	_, err := loadApp(testCommand(path), map[string]string{})
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("loadApp() error = %v, want ErrInvalid", err)
	}
}

func TestNewServiceRequiresCredentials(t *testing.T) {
	a := &app{
		cfg:    &config.Config{},
		logger: slog.New(slog.DiscardHandler),
		table:  moods.Default(),
	}
	_, err := a.newService(false)
	if !errors.Is(err, auth.ErrMissingCredentials) {
		t.Errorf("newService() error = %v, want ErrMissingCredentials", err)
	}
}

func TestNewServiceTokenCheck(t *testing.T) {
	var hits atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	newApp := func() *app {
		return &app{
			cfg: &config.Config{
				Spotify: config.Spotify{
					ClientID:     "id",
					ClientSecret: "secret",
					Timeout:      5 * time.Second,
				},
			},
			logger:   slog.New(slog.DiscardHandler),
			table:    moods.Default(),
			tokenURL: tokenSrv.URL,
		}
	}

	tests := []struct {
		name     string
		verify   bool
		wantHits int32
	}{
		{"one-shot skips the check", false, 0},
		{"server start checks once", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits.Store(0)
			svc, err := newApp().newService(tt.verify)
			if err != nil {
				t.Fatalf("newService() error = %v", err)
			}
			if svc == nil {
				t.Fatal("newService() returned nil service")
			}
			if got := hits.Load(); got != tt.wantHits {
				t.Errorf("token requests = %d, want %d", got, tt.wantHits)
			}
		})
	}
}

func TestOpenHistoryDisabled(t *testing.T) {
	a := &app{cfg: &config.Config{}}
	history, err := a.openHistory(context.Background())
	if err != nil || history != nil {
		t.Errorf("openHistory() = %v, %v; want nil, nil", history, err)
	}
}

func TestRecommendUnknownMoodFailsFast(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"recommend", "furious"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	// No credentials are configured, so reaching the network would fail differently.
	err := rootCmd.Execute()
	if !errors.Is(err, moods.ErrUnknownMood) {
		t.Fatalf("Execute() error = %v, want ErrUnknownMood", err)
	}
	if !strings.Contains(err.Error(), "happy") {
		t.Errorf("error %q should list known moods", err)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		logger := newLogger(tt.level)
		ctx := context.Background()
		if !logger.Enabled(ctx, tt.want) {
			t.Errorf("newLogger(%q) should enable %v", tt.level, tt.want)
		}
		if tt.want > slog.LevelDebug && logger.Enabled(ctx, tt.want-4) {
			t.Errorf("newLogger(%q) should not enable %v", tt.level, tt.want-4)
		}
	}
}

func TestFormatMoods(t *testing.T) {
	got := formatMoods(moods.Default())
	for _, want := range []string{"MOOD", "happy", "study", "110", "Default count: 10"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatMoods() missing %q:\n%s", want, got)
		}
	}
	if lines := strings.Count(got, "\n"); lines != 9 {
		t.Errorf("formatMoods() has %d lines, want 9", lines)
	}
}

func TestFormatHistory(t *testing.T) {
	if got := formatHistory(nil); got != "No recommendations recorded\n" {
		t.Errorf("formatHistory(nil) = %q", got)
	}

	id := uuid.New()
	recs := []db.Recommendation{{
		ID:        id,
		Mood:      "chill",
		Requested: 5,
		PoolSize:  20,
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}}
	got := formatHistory(recs)
	for _, want := range []string{id.String(), "2026-03-01 09:30", "chill", "requested=5", "pool=20"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatHistory() missing %q:\n%s", want, got)
		}
	}
}

func TestFormatRecommendation(t *testing.T) {
	rec := &db.Recommendation{
		ID:        uuid.New(),
		Mood:      "sad",
		PoolSize:  12,
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Tracks: []db.RecommendedTrack{
			{Position: 1, TrackID: "a", Name: "Slow", Artists: "X", Score: 0.91},
			{Position: 2, TrackID: "b", Name: "Rain", Artists: "Y", Score: 0.8},
		},
	}
	got := formatRecommendation(rec)
	for _, want := range []string{`"sad"`, "2 of 12 candidates", ` 1. 0.9100  "Slow" - X`, ` 2. 0.8000  "Rain" - Y`} {
		if !strings.Contains(got, want) {
			t.Errorf("formatRecommendation() missing %q:\n%s", want, got)
		}
	}
}
