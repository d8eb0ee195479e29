package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/justestif/moodify/internal/db"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show recorded recommendations",
	Long: `History lists recent recommendations, or the ranked tracks of one
recommendation when an id is given. Requires database_url.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, map[string]string{})
		if err != nil {
			return err
		}
		if a.cfg.DatabaseURL == "" {
			return errors.New("history requires database_url (or DATABASE_URL) to be set")
		}

		ctx := cmd.Context()
		history, err := a.openHistory(ctx)
		if err != nil {
			return err
		}
		defer history.Close()
		repo := history.Recommendations()
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid recommendation id %q: %w", args[0], err)
			}
			rec, err := repo.Get(ctx, id)
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("recommendation %s not found", id)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatRecommendation(rec))
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		recs, err := repo.ListRecent(ctx, limit)
		if err != nil {
			return err
		}
		fmt.Fprint(out, formatHistory(recs))
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of recommendations to list")

	rootCmd.AddCommand(historyCmd)
}

func formatHistory(recs []db.Recommendation) string {
	if len(recs) == 0 {
		return "No recommendations recorded\n"
	}
	var sb strings.Builder
	for _, r := range recs {
		sb.WriteString(fmt.Sprintf("%s  %s  %-10s requested=%d pool=%d missing=%d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Mood, r.Requested, r.PoolSize, r.MissingFeatures))
	}
	return sb.String()
}

func formatRecommendation(r *db.Recommendation) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %q on %s (%d of %d candidates)\n\n",
		r.ID, r.Mood, r.CreatedAt.Format("Jan 2, 2006 15:04"), len(r.Tracks), r.PoolSize))
	for _, t := range r.Tracks {
		sb.WriteString(fmt.Sprintf("%2d. %.4f  \"%s\" - %s\n", t.Position, t.Score, t.Name, t.Artists))
	}
	return sb.String()
}
