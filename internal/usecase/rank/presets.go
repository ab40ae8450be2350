package rank

import (
	"github.com/helmfirth/quarry/internal/domain/intent"
	"github.com/helmfirth/quarry/internal/domain/params"
)

// Preset is a fixed per-intent ranking profile applied before retrieval and
// ranking. A zero SimilarityThreshold keeps the caller's floor.
type Preset struct {
	Weights             params.Weights
	SimilarityThreshold float64
}

// presets tune the combination per intent: implementation questions trust
// authoritative, context-matched passages; learning questions trust raw
// semantic similarity; troubleshooting casts a wider net (lower floor) and
// leans on context match.
var presets = map[intent.Intent]Preset{
	intent.Learning: {
		Weights: params.Weights{Semantic: 0.60, Keyword: 0.15, Recency: 0.05, Authority: 0.15, ContextMatch: 0.20},
	},
	intent.Implementation: {
		Weights: params.Weights{Semantic: 0.35, Keyword: 0.15, Recency: 0.05, Authority: 0.25, ContextMatch: 0.35},
	},
	intent.Troubleshooting: {
		Weights:             params.Weights{Semantic: 0.35, Keyword: 0.15, Recency: 0.10, Authority: 0.15, ContextMatch: 0.40},
		SimilarityThreshold: 0.2,
	},
	intent.Optimization: {
		Weights: params.Weights{Semantic: 0.40, Keyword: 0.15, Recency: 0.10, Authority: 0.20, ContextMatch: 0.30},
	},
	intent.Benchmarking: {
		Weights: params.Weights{Semantic: 0.35, Keyword: 0.15, Recency: 0.20, Authority: 0.25, ContextMatch: 0.20},
	},
	intent.Planning: {
		Weights: params.Weights{Semantic: 0.40, Keyword: 0.15, Recency: 0.15, Authority: 0.20, ContextMatch: 0.25},
	},
	intent.Research: {
		Weights: params.DefaultWeights(),
	},
}

// PresetFor returns the ranking profile for an intent. Unknown intents get
// the research (default-weight) profile.
func PresetFor(i intent.Intent) Preset {
	if p, ok := presets[i]; ok {
		return p
	}
	return presets[intent.Research]
}
