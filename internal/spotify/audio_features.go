package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/moodify/internal/recommend"
)

// AudioFeatures retrieves audio features for one batch of track ids.
// The result is ordered like ids; tracks without available features are nil.
// Batching is the caller's job (see recommend.FetchFeatures).
func (c *Client) AudioFeatures(ctx context.Context, ids []string) ([]*recommend.FeatureVector, error) {
	out := make([]*recommend.FeatureVector, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	// Build ID slice and index map for fast lookup
	spotifyIDs := make([]spotify.ID, len(ids))
	indexByID := make(map[string]int, len(ids))
	for i, id := range ids {
		spotifyIDs[i] = spotify.ID(id)
		indexByID[id] = i
	}

	features, err := c.api.GetAudioFeatures(ctx, spotifyIDs...)
	if err != nil {
		return nil, fmt.Errorf("fetching audio features (%d ids): %w", len(ids), err)
	}

	// Map features back to positions
	for _, f := range features {
		if f == nil {
			continue // Track has no audio features
		}
		idx, ok := indexByID[f.ID.String()]
		if !ok {
			continue
		}
		out[idx] = convertAudioFeatures(f)
	}

	return out, nil
}

// convertAudioFeatures copies the scored attributes out of a Spotify response.
func convertAudioFeatures(f *spotify.AudioFeatures) *recommend.FeatureVector {
	return recommend.NewFeatureVector(
		float64(f.Valence),
		float64(f.Energy),
		float64(f.Danceability),
		float64(f.Tempo),
	)
}
