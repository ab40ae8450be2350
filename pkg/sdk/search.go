package quarry

import (
	"context"
	"fmt"
	"time"

	"github.com/helmfirth/quarry/internal/domain/candidate"
	retrieveuc "github.com/helmfirth/quarry/internal/usecase/retrieve"
)

// Search runs one retrieval strategy directly, bypassing classification
// and ranking. The default mode is semantic; ModeHybrid additionally runs
// a BM25 pass and fuses both rankings, and fails with
// ErrKeywordSearchNotSupported when the backend lacks text search.
func (c *Client) Search(ctx context.Context, q SearchQuery) (hits []SearchHit, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	opts := retrieveuc.SearchOptions{
		MaxResults:          q.MaxResults,
		SimilarityThreshold: q.SimilarityThreshold,
		Phase:               q.Phase,
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}

	var cands []candidate.Candidate
	switch q.Mode {
	case "", ModeSemantic:
		cands, err = c.searchSvc.SemanticSearch(ctx, q.Text, opts)
	case ModeHybrid:
		cands, err = c.searchSvc.HybridSearch(ctx, q.Text, opts)
	default:
		return nil, fmt.Errorf("quarry: unsupported search mode %q", q.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits = make([]SearchHit, len(cands))
	for i := range cands {
		hits[i] = fromInternalCandidate(&cands[i])
	}
	return hits, nil
}

func fromInternalCandidate(c *candidate.Candidate) SearchHit {
	hit := SearchHit{
		ID:         c.ID(),
		Content:    c.Content(),
		Score:      c.Similarity(),
		Intent:     c.IntentTag(),
		Phase:      c.PhaseTag(),
		Frameworks: c.FrameworkTags(),
	}
	if a := c.Authority(); a != candidate.NoSignal {
		hit.Authority = &a
	}
	if f := c.Freshness(); f != candidate.NoSignal {
		hit.Freshness = &f
	}
	return hit
}
