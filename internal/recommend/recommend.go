// Package recommend ranks catalog tracks against a mood profile using
// their audio features.
package recommend

// Candidate is a track returned by catalog search. Display fields are
// carried through scoring unchanged.
type Candidate struct {
	ID         string
	Name       string
	Artists    string // Comma-separated artist names
	URL        string // External Spotify link
	ArtworkURL string
}

// FeatureVector holds the audio features used for scoring.
// A nil field means the provider did not report that attribute.
type FeatureVector struct {
	Valence      *float64
	Energy       *float64
	Danceability *float64
	Tempo        *float64 // BPM
}

// NewFeatureVector returns a vector with every attribute set.
func NewFeatureVector(valence, energy, danceability, tempo float64) *FeatureVector {
	return &FeatureVector{
		Valence:      &valence,
		Energy:       &energy,
		Danceability: &danceability,
		Tempo:        &tempo,
	}
}

// Scored is a candidate with its similarity score in [0, 1].
type Scored struct {
	Candidate
	Score float64
}
