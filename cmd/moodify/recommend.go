package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justestif/moodify/internal/recommend"
	"github.com/justestif/moodify/internal/web"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <mood>",
	Short: "Print ranked tracks for a mood",
	Long: `Recommend searches Spotify for the mood, scores every candidate against the
mood's target audio features and prints the best matches.`,
	Example: `  moodify recommend happy
  moodify recommend chill --count 5 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		asJSON, _ := cmd.Flags().GetBool("json")
		if count < 0 {
			return fmt.Errorf("--count must not be negative")
		}

		a, err := loadApp(cmd, map[string]string{})
		if err != nil {
			return err
		}
		// Unknown moods fail before any credential or network work.
		if _, err := a.table.Lookup(args[0]); err != nil {
			return fmt.Errorf("%w (known moods: %v)", err, a.table.Labels())
		}

		// The first search call authenticates, so no separate token check.
		svc, err := a.newService(false)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RequestTimeout)
		defer cancel()

		res, err := svc.Recommend(ctx, recommend.Request{Mood: args[0], Count: count})
		if err != nil {
			return err
		}

		resp := web.NewSearchResponse(res)

		history, err := a.openHistory(ctx)
		if err != nil {
			a.logger.Warn("recommendation history unavailable", "error", err)
		} else if history != nil {
			defer history.Close()
			requested := count
			if requested == 0 {
				requested = svc.DefaultCount()
			}
			id, err := history.Recommendations().Record(ctx, res, requested)
			if err != nil {
				a.logger.Warn("recording recommendation failed", "error", err)
			} else {
				resp.RecommendationID = id.String()
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		fmt.Fprint(out, recommend.FormatResult(res))
		return nil
	},
}

func init() {
	recommendCmd.Flags().IntP("count", "n", 0, "number of tracks to return (default from the mood table)")
	recommendCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(recommendCmd)
}
