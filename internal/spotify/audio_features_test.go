package spotify

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/zmb3/spotify/v2"
)

func TestConvertAudioFeatures(t *testing.T) {
	features := &spotify.AudioFeatures{
		ID:           "test123",
		Acousticness: 0.5,
		Danceability: 0.7,
		Energy:       0.8,
		Tempo:        120.0,
		Valence:      0.6,
	}

	fv := convertAudioFeatures(features)

	tests := []struct {
		name     string
		got      *float64
		expected float32
	}{
		{"Danceability", fv.Danceability, 0.7},
		{"Energy", fv.Energy, 0.8},
		{"Tempo", fv.Tempo, 120.0},
		{"Valence", fv.Valence, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got == nil {
				t.Errorf("%s is nil, want %v", tt.name, tt.expected)
				return
			}
			if *tt.got != float64(tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, *tt.got, tt.expected)
			}
		})
	}
}

func TestConvertAudioFeaturesZeroValues(t *testing.T) {
	fv := convertAudioFeatures(&spotify.AudioFeatures{ID: "silent"})

	// Zero values are real readings, not missing ones
	if fv.Energy == nil || *fv.Energy != 0 {
		t.Errorf("Energy = %v, want 0", fv.Energy)
	}
	if fv.Valence == nil || *fv.Valence != 0 {
		t.Errorf("Valence = %v, want 0", fv.Valence)
	}
}

func TestAudioFeatures(t *testing.T) {
	api := &fakeAPI{
		features: map[spotify.ID]*spotify.AudioFeatures{
			"a": {ID: "a", Valence: 0.25, Energy: 0.5, Danceability: 0.75, Tempo: 90},
			"c": {ID: "c", Valence: 1, Energy: 1, Danceability: 1, Tempo: 180},
		},
	}
	client := New(api)

	got, err := client.AudioFeatures(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("AudioFeatures() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d vectors, want 3", len(got))
	}
	if got[0] == nil || math.Abs(*got[0].Valence-0.25) > 1e-6 || *got[0].Tempo != 90 {
		t.Errorf("vector 0 = %+v", got[0])
	}
	if got[1] != nil {
		t.Errorf("vector 1 = %+v, want nil for track without features", got[1])
	}
	if got[2] == nil || *got[2].Tempo != 180 {
		t.Errorf("vector 2 = %+v", got[2])
	}

	if len(api.featureIDs) != 1 || len(api.featureIDs[0]) != 3 {
		t.Errorf("got calls %v, want one call with 3 ids", api.featureIDs)
	}
}

func TestAudioFeaturesIgnoresUnknownIDs(t *testing.T) {
	// Provider answers with a feature record for an id we never asked about.
	api := &fakeAPI{
		features: map[spotify.ID]*spotify.AudioFeatures{
			"a": {ID: "zzz", Valence: 0.5},
		},
	}

	got, err := New(api).AudioFeatures(context.Background(), []string{"a"})
	if err != nil {
		t.Fatalf("AudioFeatures() error = %v", err)
	}
	if got[0] != nil {
		t.Errorf("vector 0 = %+v, want nil", got[0])
	}
}

func TestAudioFeaturesError(t *testing.T) {
	cause := errors.New("connection reset")
	_, err := New(&fakeAPI{featuresErr: cause}).AudioFeatures(context.Background(), []string{"a", "b"})
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want wrapped cause", err)
	}
}

func TestAudioFeaturesEmpty(t *testing.T) {
	api := &fakeAPI{}
	got, err := New(api).AudioFeatures(context.Background(), nil)
	if err != nil {
		t.Fatalf("AudioFeatures() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d vectors, want 0", len(got))
	}
	if len(api.featureIDs) != 0 {
		t.Errorf("provider called %d times, want 0", len(api.featureIDs))
	}
}
