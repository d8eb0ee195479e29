package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/moodify/internal/recommend"
)

// maxSearchLimit is the largest page size the search endpoint accepts.
const maxSearchLimit = 50

// SearchTracks runs a keyword track search and returns de-duplicated candidates
// in the order Spotify ranked them.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]recommend.Candidate, error) {
	if limit <= 0 {
		limit = recommend.DefaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack,
		spotify.Limit(limit),
		spotify.Market(c.market),
	)
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}
	if result == nil || result.Tracks == nil {
		return nil, nil
	}

	candidates := make([]recommend.Candidate, 0, len(result.Tracks.Tracks))
	seen := make(map[spotify.ID]struct{}, len(result.Tracks.Tracks))
	for _, t := range result.Tracks.Tracks {
		if t.ID == "" {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		candidates = append(candidates, convertTrack(t))
	}

	return candidates, nil
}

// convertTrack converts a Spotify FullTrack to a recommendation candidate.
func convertTrack(t spotify.FullTrack) recommend.Candidate {
	// Join artist names, skipping blanks
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if a.Name != "" {
			artists = append(artists, a.Name)
		}
	}

	// Spotify lists album images largest first; the last is the thumbnail.
	var artwork string
	if images := t.Album.Images; len(images) > 0 {
		artwork = images[len(images)-1].URL
	}

	return recommend.Candidate{
		ID:         t.ID.String(),
		Name:       t.Name,
		Artists:    strings.Join(artists, ", "),
		URL:        t.ExternalURLs["spotify"],
		ArtworkURL: artwork,
	}
}
