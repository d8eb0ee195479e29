package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/justestif/moodify/internal/moods"
)

// DefaultSearchLimit is the candidate pool size requested from catalog search.
const DefaultSearchLimit = 20

var (
	// ErrEmptyPool is returned when catalog search finds no candidates.
	ErrEmptyPool = errors.New("no tracks found for mood")

	// ErrSearch wraps catalog search failures.
	ErrSearch = errors.New("catalog search failed")
)

// Searcher finds candidate tracks for a keyword query.
type Searcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// Request is a single recommendation request.
type Request struct {
	Mood  string
	Count int // 0 uses the default count
}

// Result is the ranked outcome of a request.
type Result struct {
	Mood     moods.Profile
	Tracks   []Scored
	PoolSize int // Candidates considered after de-duplication
	Missing  int // Candidates scored without features
}

// Service turns a mood label into ranked tracks.
type Service struct {
	moods        *moods.Table
	searcher     Searcher
	provider     FeatureProvider
	scorer       *Scorer
	logger       *slog.Logger
	batchSize    int
	searchLimit  int
	defaultCount int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for batch warnings and request logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBatchSize sets the maximum ids per feature lookup.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithSearchLimit sets the candidate pool size requested from search.
func WithSearchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.searchLimit = n
		}
	}
}

// WithDefaultCount overrides the mood table's default result count.
func WithDefaultCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultCount = n
		}
	}
}

// WithScorer replaces the default scorer.
func WithScorer(sc *Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// NewService creates a recommendation service.
func NewService(table *moods.Table, searcher Searcher, provider FeatureProvider, opts ...Option) *Service {
	s := &Service{
		moods:        table,
		searcher:     searcher,
		provider:     provider,
		scorer:       DefaultScorer(),
		logger:       slog.Default(),
		batchSize:    DefaultBatchSize,
		searchLimit:  DefaultSearchLimit,
		defaultCount: table.DefaultCount(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Moods returns the mood table the service scores against.
func (s *Service) Moods() *moods.Table {
	return s.moods
}

// DefaultCount returns the count used for requests that do not set one.
func (s *Service) DefaultCount() int {
	return s.defaultCount
}

// Recommend validates the mood, searches the catalog, scores the pool and
// returns the top tracks.
// Unknown or empty moods fail with moods.ErrUnknownMood or moods.ErrEmptyMood
// before any external call. An empty pool fails with ErrEmptyPool.
// Feature lookup failures only lower the affected tracks' scores.
func (s *Service) Recommend(ctx context.Context, req Request) (*Result, error) {
	profile, err := s.moods.Lookup(req.Mood)
	if err != nil {
		return nil, err
	}

	count := req.Count
	if count <= 0 {
		count = s.defaultCount
	}

	logger := s.logger.With(slog.String("mood", profile.Name))

	pool, err := s.searcher.SearchTracks(ctx, profile.Name, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}
	pool = uniqueCandidates(pool)
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyPool, profile.Name)
	}

	ids := make([]string, len(pool))
	for i, c := range pool {
		ids[i] = c.ID
	}

	features := FetchFeatures(ctx, s.provider, ids, s.batchSize, logger)

	scored := make([]Scored, len(pool))
	missing := 0
	for i, c := range pool {
		if features[i] == nil {
			missing++
		}
		scored[i] = Scored{
			Candidate: c,
			Score:     s.scorer.Score(features[i], profile),
		}
	}

	top, _ := Rank(scored, count)

	logger.Info("recommendation complete",
		slog.Int("pool", len(pool)),
		slog.Int("missing_features", missing),
		slog.Int("requested", count),
		slog.Int("returned", len(top)),
	)

	return &Result{
		Mood:     profile,
		Tracks:   top,
		PoolSize: len(pool),
		Missing:  missing,
	}, nil
}

// uniqueCandidates drops candidates without an id and repeated ids.
func uniqueCandidates(pool []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(pool))
	out := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if c.ID == "" {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
