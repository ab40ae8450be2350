// Package params holds validated search parameters: per-signal weights, the
// result cap, and the similarity floor.
package params

import (
	"fmt"
	"math"
)

// Parameter limits and defaults.
const (
	DefaultMaxResults = 10
	MaxMaxResults     = 50
	DefaultThreshold  = 0.3
)

// Weights are the per-signal ranking weights. Semantic, ContextMatch,
// Authority and Recency drive the combined score; Keyword only biases the
// hybrid retrieval strategy.
type Weights struct {
	Semantic     float64
	Keyword      float64
	Recency      float64
	Authority    float64
	ContextMatch float64
}

// DefaultWeights returns the baseline weight profile.
func DefaultWeights() Weights {
	return Weights{
		Semantic:     0.45,
		Keyword:      0.15,
		Recency:      0.10,
		Authority:    0.15,
		ContextMatch: 0.30,
	}
}

// Normalized rescales the four combination weights so they sum to 1.0.
// Keyword is left untouched (it is not part of the combined score).
// All-zero combination weights fall back to the default profile.
func (w Weights) Normalized() Weights {
	sum := w.Semantic + w.Recency + w.Authority + w.ContextMatch
	if sum <= 0 {
		return DefaultWeights().Normalized()
	}
	return Weights{
		Semantic:     w.Semantic / sum,
		Keyword:      w.Keyword,
		Recency:      w.Recency / sum,
		Authority:    w.Authority / sum,
		ContextMatch: w.ContextMatch / sum,
	}
}

// Hash returns a stable textual fingerprint of the weights for cache keys.
// Weights are normalized first so scaled-but-equivalent profiles collide.
func (w Weights) Hash() string {
	n := w.Normalized()
	return fmt.Sprintf("%.4f|%.4f|%.4f|%.4f|%.4f",
		n.Semantic, n.Keyword, n.Recency, n.Authority, n.ContextMatch)
}

// Search is a validated set of retrieval parameters.
type Search struct {
	weights             Weights
	maxResults          int
	similarityThreshold float64
}

// New validates and normalizes search parameters.
// Defaults: DefaultWeights, maxResults=10, threshold=0.3.
func New(w Weights, maxResults int, similarityThreshold float64) (Search, error) {
	zero := Weights{}
	if w == zero {
		w = DefaultWeights()
	}
	if w.Semantic < 0 || w.Keyword < 0 || w.Recency < 0 || w.Authority < 0 || w.ContextMatch < 0 {
		return Search{}, fmt.Errorf("weights must be non-negative")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxMaxResults {
		maxResults = MaxMaxResults
	}
	if similarityThreshold == 0 {
		similarityThreshold = DefaultThreshold
	}
	if similarityThreshold < 0 || similarityThreshold > 1 {
		return Search{}, fmt.Errorf("similarity_threshold must be between 0 and 1")
	}

	return Search{
		weights:             w,
		maxResults:          maxResults,
		similarityThreshold: similarityThreshold,
	}, nil
}

// Default returns the default parameter set.
func Default() Search {
	p, _ := New(DefaultWeights(), DefaultMaxResults, DefaultThreshold)
	return p
}

// Weights returns the raw (possibly unnormalized) weights.
func (s *Search) Weights() Weights { return s.weights }

// MaxResults returns the result cap for the final ranked list.
func (s *Search) MaxResults() int { return s.maxResults }

// SimilarityThreshold returns the minimum backend similarity to keep.
func (s *Search) SimilarityThreshold() float64 { return s.similarityThreshold }

// WithWeights returns a copy with replaced weights.
func (s Search) WithWeights(w Weights) Search {
	s.weights = w
	return s
}

// WithSimilarityThreshold returns a copy with a replaced similarity floor,
// clamped to [0,1].
func (s Search) WithSimilarityThreshold(t float64) Search {
	s.similarityThreshold = math.Max(0, math.Min(1, t))
	return s
}
