package main

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/justestif/moodify/internal/web"
	webfs "github.com/justestif/moodify/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI and JSON API",
	Long: `Serve starts the HTTP server. Routes:

  GET  /         mood picker page
  POST /search   {"mood": "happy", "count": 10} -> ranked tracks
  GET  /moods    supported moods and their targets
  GET  /healthz  liveness

When database_url is set, every successful search is recorded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, map[string]string{"addr": "addr"})
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		svc, err := a.newService(true)
		if err != nil {
			return err
		}

		templates, err := fs.Sub(webfs.TemplatesFS, "templates")
		if err != nil {
			return fmt.Errorf("creating templates filesystem: %w", err)
		}
		static, err := fs.Sub(webfs.StaticFS, "static")
		if err != nil {
			return fmt.Errorf("creating static filesystem: %w", err)
		}

		cfg := web.ServerConfig{
			Addr:           a.cfg.Addr,
			Recommender:    svc,
			RequestTimeout: a.cfg.RequestTimeout,
			TemplatesFS:    templates,
			StaticFS:       static,
			Logger:         a.logger,
		}

		history, err := a.openHistory(ctx)
		if err != nil {
			return err
		}
		if history != nil {
			defer history.Close()
			cfg.Recorder = history.Recommendations()
			a.logger.Info("recommendation history enabled")
		}

		server, err := web.NewServer(cfg)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}
		return server.Run()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8080)")

	rootCmd.AddCommand(serveCmd)
}
