// Command moodify ranks Spotify tracks by how well they match a mood.
// It serves a small web UI and JSON API, and offers the same lookup from
// the command line.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/justestif/moodify/internal/auth"
	"github.com/justestif/moodify/internal/config"
	"github.com/justestif/moodify/internal/db"
	"github.com/justestif/moodify/internal/moods"
	"github.com/justestif/moodify/internal/recommend"
	"github.com/justestif/moodify/internal/spotify"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "moodify",
	Short: "Mood-based Spotify track recommendations",
	Long: `moodify turns a mood label (happy, sad, romance, chill, energetic, study)
into a ranked list of Spotify tracks. Candidates come from catalog search and
are scored against the mood's target valence, energy, danceability and tempo.

Credentials are read from MOODIFY_SPOTIFY_CLIENT_ID and
MOODIFY_SPOTIFY_CLIENT_SECRET (or SPOTIFY_ID and SPOTIFY_SECRET).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./moodify.yaml or ~/.config/moodify/moodify.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the loaded configuration and shared dependencies of a command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	table    *moods.Table
	tokenURL string // empty uses the Spotify accounts service
}

// loadApp reads configuration, sets up logging and loads the mood table.
// flags maps config keys to flag names that override them when set.
func loadApp(cmd *cobra.Command, flags map[string]string) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	v := config.New(path)

	flags["log_level"] = "log-level"
	for key, name := range flags {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("binding flag %s: %w", name, err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}

	table := moods.Default()
	if cfg.MoodsFile != "" {
		table, err = moods.LoadFile(cfg.MoodsFile)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded mood table", "path", cfg.MoodsFile, "moods", table.Labels())
	}

	return &app{cfg: cfg, logger: logger, table: table}, nil
}

// newLogger returns a JSON logger on stderr at the given level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// newService builds the recommendation service backed by the Spotify API.
// With verify set it fetches a token first, bounded by spotify.timeout and
// independent of any request deadline.
func (a *app) newService(verify bool) (*recommend.Service, error) {
	if !a.cfg.HasCredentials() {
		return nil, fmt.Errorf("%w: set MOODIFY_SPOTIFY_CLIENT_ID and MOODIFY_SPOTIFY_CLIENT_SECRET", auth.ErrMissingCredentials)
	}

	authenticator, err := auth.New(auth.Config{
		ClientID:     a.cfg.Spotify.ClientID,
		ClientSecret: a.cfg.Spotify.ClientSecret,
		TokenURL:     a.tokenURL,
		Timeout:      a.cfg.Spotify.Timeout,
	})
	if err != nil {
		return nil, err
	}

	client := spotify.New(authenticator.Client(context.Background()), spotify.WithMarket(a.cfg.Spotify.Market))

	if verify {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Spotify.Timeout)
		defer cancel()
		if err := authenticator.Verify(ctx); err != nil {
			// Token refresh is retried on every request, so a transient failure
			// here should not prevent startup.
			a.logger.Warn("spotify credentials check failed", "error", err)
		}
	}

	return recommend.NewService(a.table, client, client,
		recommend.WithLogger(a.logger),
		recommend.WithBatchSize(a.cfg.Recommend.BatchSize),
		recommend.WithSearchLimit(a.cfg.Search.Limit),
		recommend.WithDefaultCount(a.cfg.Recommend.DefaultCount),
	), nil
}

// openHistory connects to the history database. It returns nil when no
// database is configured.
func (a *app) openHistory(ctx context.Context) (*db.DB, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
