package recommend

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/justestif/moodify/internal/moods"
)

const (
	// MaxTempo normalizes tempo distance onto the same scale as the bounded attributes.
	MaxTempo = 200.0

	// JitterMin and JitterMax bound the per-candidate perturbation [JitterMin, JitterMax).
	JitterMin = -0.03
	JitterMax = 0.06

	midpoint      = 0.5
	midpointTempo = 100.0
)

// ErrInvalidWeights is returned by NewScorer for weights that are negative or do not sum to 1.
var ErrInvalidWeights = errors.New("invalid scoring weights")

// Weights sets how much each attribute's distance counts toward the total.
type Weights struct {
	Valence      float64
	Energy       float64
	Danceability float64
	Tempo        float64
}

// DefaultWeights favors valence and energy over danceability and tempo.
func DefaultWeights() Weights {
	return Weights{
		Valence:      0.35,
		Energy:       0.30,
		Danceability: 0.20,
		Tempo:        0.15,
	}
}

// Validate checks that weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Valence, w.Energy, w.Danceability, w.Tempo} {
		if math.IsNaN(v) || v < 0 {
			return fmt.Errorf("%w: %+v", ErrInvalidWeights, w)
		}
	}
	sum := w.Valence + w.Energy + w.Danceability + w.Tempo
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: sum = %v, want 1", ErrInvalidWeights, sum)
	}
	return nil
}

// RandomSource returns uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// globalSource uses the goroutine-safe top-level generator.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Scorer computes a bounded similarity between a feature vector and a mood profile.
// It is safe for concurrent use if its RandomSource is.
type Scorer struct {
	weights Weights
	rnd     RandomSource
}

// NewScorer creates a scorer. A nil rnd uses the process-wide generator.
func NewScorer(weights Weights, rnd RandomSource) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = globalSource{}
	}
	return &Scorer{weights: weights, rnd: rnd}, nil
}

// DefaultScorer returns a scorer with DefaultWeights and the process-wide generator.
func DefaultScorer() *Scorer {
	return &Scorer{weights: DefaultWeights(), rnd: globalSource{}}
}

// Similarity returns 1 minus the weighted attribute distance, floored at 0.
// A nil vector has similarity 0.
func (s *Scorer) Similarity(fv *FeatureVector, p moods.Profile) float64 {
	if fv == nil {
		return 0
	}

	dValence := math.Abs(bounded(fv.Valence) - p.Valence)
	dEnergy := math.Abs(bounded(fv.Energy) - p.Energy)
	dDance := math.Abs(bounded(fv.Danceability) - p.Danceability)
	dTempo := math.Abs(tempo(fv.Tempo)-p.Tempo) / MaxTempo

	w := s.weights
	distance := w.Valence*dValence +
		w.Energy*dEnergy +
		w.Danceability*dDance +
		w.Tempo*dTempo

	return math.Max(0, 1-distance)
}

// Score returns the similarity plus a random perturbation in [JitterMin, JitterMax),
// clamped to [0, 1] and rounded to 4 decimal places.
// A nil vector always scores exactly 0.
func (s *Scorer) Score(fv *FeatureVector, p moods.Profile) float64 {
	if fv == nil {
		return 0
	}
	jitter := JitterMin + s.rnd.Float64()*(JitterMax-JitterMin)
	return round4(clamp01(s.Similarity(fv, p) + jitter))
}

// bounded reads a [0, 1] attribute, defaulting to the midpoint.
func bounded(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return midpoint
	}
	return clamp01(*v)
}

// tempo reads a BPM attribute, defaulting to the midpoint tempo.
func tempo(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return midpointTempo
	}
	return *v
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
