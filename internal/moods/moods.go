// Package moods holds the mood profile table: the target audio attributes
// a recommendation is scored against.
package moods

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// DefaultCount is the number of tracks returned when the caller does not ask for a count.
const DefaultCount = 10

var (
	// ErrEmptyMood is returned when no mood label was supplied.
	ErrEmptyMood = errors.New("no mood provided")

	// ErrUnknownMood is returned when the label is not in the table.
	ErrUnknownMood = errors.New("unknown mood")

	// ErrInvalidProfile is returned when a profile fails validation.
	ErrInvalidProfile = errors.New("invalid mood profile")
)

// Profile is the target attribute profile for a single mood.
type Profile struct {
	Name         string   `yaml:"name" json:"name"`
	Valence      float64  `yaml:"target_valence" json:"target_valence"`
	Energy       float64  `yaml:"target_energy" json:"target_energy"`
	Danceability float64  `yaml:"target_danceability" json:"target_danceability"`
	Tempo        float64  `yaml:"target_tempo" json:"target_tempo"` // BPM
	SeedGenres   []string `yaml:"seed_genres,omitempty" json:"seed_genres,omitempty"`
	SeedTracks   []string `yaml:"seed_tracks,omitempty" json:"seed_tracks,omitempty"`
}

// Validate checks that all targets are within their documented ranges.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProfile)
	}
	if p.Name != normalize(p.Name) {
		return fmt.Errorf("%w: name %q must be lower-case without surrounding spaces", ErrInvalidProfile, p.Name)
	}
	bounded := []struct {
		name  string
		value float64
	}{
		{"target_valence", p.Valence},
		{"target_energy", p.Energy},
		{"target_danceability", p.Danceability},
	}
	for _, b := range bounded {
		if math.IsNaN(b.value) || b.value < 0 || b.value > 1 {
			return fmt.Errorf("%w: %s %s = %v, want [0, 1]", ErrInvalidProfile, p.Name, b.name, b.value)
		}
	}
	if math.IsNaN(p.Tempo) || math.IsInf(p.Tempo, 0) || p.Tempo <= 0 {
		return fmt.Errorf("%w: %s target_tempo = %v, want > 0", ErrInvalidProfile, p.Name, p.Tempo)
	}
	return nil
}

// Table is an immutable label to profile mapping.
type Table struct {
	profiles     map[string]Profile
	labels       []string
	defaultCount int
}

// NewTable validates the profiles and builds a table.
func NewTable(profiles []Profile, defaultCount int) (*Table, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: table has no moods", ErrInvalidProfile)
	}
	if defaultCount <= 0 {
		return nil, fmt.Errorf("%w: default count = %d, want > 0", ErrInvalidProfile, defaultCount)
	}

	t := &Table{
		profiles:     make(map[string]Profile, len(profiles)),
		labels:       make([]string, 0, len(profiles)),
		defaultCount: defaultCount,
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.profiles[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate mood %q", ErrInvalidProfile, p.Name)
		}
		t.profiles[p.Name] = clone(p)
		t.labels = append(t.labels, p.Name)
	}
	slices.Sort(t.labels)

	return t, nil
}

// Lookup returns the profile for a label. Labels are matched
// case-insensitively after trimming whitespace.
func (t *Table) Lookup(label string) (Profile, error) {
	key := normalize(label)
	if key == "" {
		return Profile{}, ErrEmptyMood
	}
	p, ok := t.profiles[key]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownMood, key)
	}
	return clone(p), nil
}

// Labels returns the known mood labels in sorted order.
func (t *Table) Labels() []string {
	return slices.Clone(t.labels)
}

// Profiles returns every profile sorted by label.
func (t *Table) Profiles() []Profile {
	out := make([]Profile, len(t.labels))
	for i, l := range t.labels {
		out[i] = clone(t.profiles[l])
	}
	return out
}

// DefaultCount returns the result count used when none is requested.
func (t *Table) DefaultCount() int {
	return t.defaultCount
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func clone(p Profile) Profile {
	p.SeedGenres = slices.Clone(p.SeedGenres)
	p.SeedTracks = slices.Clone(p.SeedTracks)
	return p
}
