package moods

// defaultProfiles is the reference mood set.
var defaultProfiles = []Profile{
	{
		Name:         "happy",
		Valence:      0.9,
		Energy:       0.75,
		Danceability: 0.8,
		Tempo:        110,
		SeedGenres:   []string{"pop"},
		SeedTracks:   []string{"030OCtLMrljNhp8OWHBWW3"},
	},
	{
		Name:         "sad",
		Valence:      0.15,
		Energy:       0.25,
		Danceability: 0.2,
		Tempo:        70,
		SeedGenres:   []string{"acoustic"},
		SeedTracks:   []string{"5wANPM4fQCJwkGd4rN57mH"},
	},
	{
		Name:         "romance",
		Valence:      0.7,
		Energy:       0.5,
		Danceability: 0.5,
		Tempo:        80,
		SeedGenres:   []string{"rnb", "soul"},
		SeedTracks:   []string{"2eAvDnpXP5W0cVtiI0PUxV"},
	},
	{
		Name:         "chill",
		Valence:      0.4,
		Energy:       0.25,
		Danceability: 0.35,
		Tempo:        85,
		SeedGenres:   []string{"lofi"},
		SeedTracks:   []string{"3pE4j1NfiDMAdgA1mBq4tC"},
	},
	{
		Name:         "energetic",
		Valence:      0.8,
		Energy:       0.95,
		Danceability: 0.9,
		Tempo:        130,
		SeedGenres:   []string{"dance"},
		SeedTracks:   []string{"0lHAMNU8RGiIObScrsRgmP"},
	},
	{
		Name:         "study",
		Valence:      0.35,
		Energy:       0.2,
		Danceability: 0.15,
		Tempo:        75,
		SeedGenres:   []string{"lofi", "ambient"},
		SeedTracks:   []string{"3VWwthiY2ofI0V6Aum3nyA"},
	},
}

// Default returns the built-in mood table.
func Default() *Table {
	t, err := NewTable(defaultProfiles, DefaultCount)
	if err != nil {
		// The built-in table is covered by tests.
		panic(err)
	}
	return t
}
