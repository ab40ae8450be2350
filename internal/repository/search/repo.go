// Package search implements the retrieval backend over the passage index:
// KNN vector search and BM25 keyword search, fused for hybrid queries.
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/helmfirth/quarry/internal/db"
	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/domain/candidate"
	"github.com/helmfirth/quarry/internal/usecase/retrieve"
)

// freshnessHorizon is the age at which a passage's freshness hint decays to
// zero. Business benchmarks go stale in about two years.
const freshnessHorizon = 2 * 365 * 24 * time.Hour

// returnFields are the hash fields fetched alongside every search hit.
// __vector_score must stay in the list: with a RETURN clause FT.SEARCH sends
// only the named fields, and the driver derives Score from __vector_score.
var returnFields = []string{
	"content", "intent", "phase", "frameworks", "authority", "published_at",
	"__vector_score",
}

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Repo implements usecase/retrieve.Backend.
type Repo struct {
	store store
	embed domain.Embedder
	now   func() time.Time
}

var _ retrieve.Backend = (*Repo)(nil)

// New creates a search repository.
func New(s store, embed domain.Embedder) *Repo {
	return &Repo{store: s, embed: embed, now: time.Now}
}

// WithClock overrides the freshness clock, for tests.
func (r *Repo) WithClock(now func() time.Time) *Repo {
	r.now = now
	return r
}

// SemanticSearch embeds the query text and runs a KNN search, dropping hits
// below the similarity threshold.
func (r *Repo) SemanticSearch(
	ctx context.Context, text string, opts retrieve.SearchOptions,
) ([]candidate.Candidate, error) {
	embResult, err := r.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName(),
		Vector:       embResult.Embedding,
		K:            opts.MaxResults,
		Phase:        opts.Phase,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	if sr == nil || sr.Total == 0 {
		return []candidate.Candidate{}, nil
	}

	cands := make([]candidate.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		if entry.Score < opts.SimilarityThreshold {
			continue
		}
		cands = append(cands, r.toCandidate(entry, entry.Score))
	}
	return cands, nil
}

// HybridSearch runs KNN and BM25 over the same query and fuses the two
// rankings via RRF. Fused scores are normalized into (0,1] by the top score,
// so no similarity threshold applies. Requires a TEXT field in the index.
func (r *Repo) HybridSearch(
	ctx context.Context, text string, opts retrieve.SearchOptions,
) ([]candidate.Candidate, error) {
	if !r.store.SupportsTextSearch(ctx) {
		return nil, domain.ErrKeywordSearchNotSupported
	}

	embResult, err := r.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	knn, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName(),
		Vector:       embResult.Embedding,
		K:            opts.MaxResults,
		Phase:        opts.Phase,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	bm25, err := r.store.SearchBM25(ctx, &db.TextQuery{
		IndexName:    indexName(),
		Query:        text,
		TopK:         opts.MaxResults,
		Phase:        opts.Phase,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w", err)
	}

	fused := fuseRRF(entriesOf(knn), entriesOf(bm25), opts.MaxResults)
	cands := make([]candidate.Candidate, 0, len(fused))
	for _, f := range fused {
		cands = append(cands, r.toCandidate(f.entry, f.score))
	}
	return cands, nil
}

// toCandidate converts a search hit into a retrieval candidate, deriving the
// freshness hint from published_at.
func (r *Repo) toCandidate(entry db.SearchEntry, similarity float64) candidate.Candidate {
	var frameworks []string
	if raw := entry.Fields["frameworks"]; raw != "" {
		frameworks = strings.Split(raw, ",")
	}

	authority := candidate.NoSignal
	if raw := entry.Fields["authority"]; raw != "" {
		if a, err := strconv.ParseFloat(raw, 64); err == nil {
			authority = a
		}
	}

	freshness := candidate.NoSignal
	if raw := entry.Fields["published_at"]; raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			freshness = r.freshnessOf(time.Unix(unix, 0))
		}
	}

	return candidate.Reconstruct(
		strings.TrimPrefix(entry.Key, keyPrefix()),
		entry.Fields["content"], similarity,
		entry.Fields["intent"], entry.Fields["phase"], frameworks,
		authority, freshness,
	)
}

// freshnessOf maps publication age onto [0,1] with linear decay over the
// freshness horizon.
func (r *Repo) freshnessOf(publishedAt time.Time) float64 {
	age := r.now().Sub(publishedAt)
	if age <= 0 {
		return 1
	}
	f := 1 - float64(age)/float64(freshnessHorizon)
	if f < 0 {
		return 0
	}
	return f
}

func entriesOf(sr *db.SearchResult) []db.SearchEntry {
	if sr == nil {
		return nil
	}
	return sr.Entries
}

func indexName() string {
	return fmt.Sprintf("%spassages:idx", domain.KeyPrefix)
}

func keyPrefix() string {
	return fmt.Sprintf("%spassage:", domain.KeyPrefix)
}
