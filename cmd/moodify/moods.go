package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justestif/moodify/internal/moods"
)

var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "List supported moods and their target features",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, map[string]string{})
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(a.table.Profiles())
		}
		fmt.Fprint(out, formatMoods(a.table))
		return nil
	},
}

func init() {
	moodsCmd.Flags().Bool("json", false, "output moods as JSON")

	rootCmd.AddCommand(moodsCmd)
}

// formatMoods renders the mood table as aligned text.
func formatMoods(table *moods.Table) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-10s %7s %6s %6s %6s  %s\n", "MOOD", "VALENCE", "ENERGY", "DANCE", "TEMPO", "DESCRIPTION"))
	for _, p := range table.Profiles() {
		sb.WriteString(fmt.Sprintf("%-10s %7.2f %6.2f %6.2f %6.0f  %s\n",
			p.Name, p.Valence, p.Energy, p.Danceability, p.Tempo, moods.Describe(p)))
	}
	sb.WriteString(fmt.Sprintf("\nDefault count: %d\n", table.DefaultCount()))
	return sb.String()
}
