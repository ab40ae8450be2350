package retrieve

import (
	"context"

	"github.com/helmfirth/quarry/internal/domain/candidate"
)

// SearchOptions narrow a single backend call.
type SearchOptions struct {
	MaxResults          int
	SimilarityThreshold float64
	// Phase restricts results to passages tagged with this lifecycle stage
	// (passages tagged "all" always match). Empty means no restriction.
	Phase string
}

// Backend is the vector/keyword search collaborator. Implementations must be
// safe for concurrent use and must return an empty slice, not an error, on an
// empty corpus.
type Backend interface {
	SemanticSearch(ctx context.Context, text string, opts SearchOptions) ([]candidate.Candidate, error)
	HybridSearch(ctx context.Context, text string, opts SearchOptions) ([]candidate.Candidate, error)
}
