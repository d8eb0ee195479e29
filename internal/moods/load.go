package moods

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk shape of a mood table:
//
//	default_count: 10
//	moods:
//	  - name: happy
//	    target_valence: 0.9
//	    target_energy: 0.75
//	    target_danceability: 0.8
//	    target_tempo: 110
type fileFormat struct {
	DefaultCount int       `yaml:"default_count"`
	Moods        []Profile `yaml:"moods"`
}

// LoadFile reads and validates a mood table from a YAML file.
// A missing default_count falls back to DefaultCount.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mood file: %w", err)
	}
	return Parse(data)
}

// Parse builds a table from YAML bytes.
func Parse(data []byte) (*Table, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing mood file: %w", err)
	}
	if f.DefaultCount == 0 {
		f.DefaultCount = DefaultCount
	}
	return NewTable(f.Moods, f.DefaultCount)
}
