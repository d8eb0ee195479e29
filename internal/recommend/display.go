package recommend

import (
	"fmt"
	"strings"
)

// FormatResult returns a human-readable listing of a recommendation.
func FormatResult(r *Result) string {
	var sb strings.Builder

	if r == nil || len(r.Tracks) == 0 {
		sb.WriteString("No tracks found\n")
		return sb.String()
	}

	trackWord := "track"
	if len(r.Tracks) > 1 {
		trackWord = "tracks"
	}

	sb.WriteString(fmt.Sprintf("%d %s for %q from %d candidates",
		len(r.Tracks), trackWord, r.Mood.Name, r.PoolSize))
	if r.Missing > 0 {
		sb.WriteString(fmt.Sprintf(" (%d without audio features)", r.Missing))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Target: Valence=%.0f%% Energy=%.0f%% Danceability=%.0f%% Tempo=%.0f BPM\n\n",
		r.Mood.Valence*100, r.Mood.Energy*100, r.Mood.Danceability*100, r.Mood.Tempo))

	for i, t := range r.Tracks {
		sb.WriteString(fmt.Sprintf("%2d. %.4f  \"%s\" - %s\n", i+1, t.Score, t.Name, t.Artists))
		if t.URL != "" {
			sb.WriteString(fmt.Sprintf("            %s\n", t.URL))
		}
	}

	return sb.String()
}
