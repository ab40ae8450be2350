// Package retrieve fans a classified query out to concurrent search
// strategies and merges their results into one deduplicated candidate list.
package retrieve

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/domain/candidate"
	"github.com/helmfirth/quarry/internal/domain/query"
	"github.com/helmfirth/quarry/internal/logger"
	"github.com/helmfirth/quarry/internal/metrics"
)

// Fan-out plan constants. The shares deliberately over-fetch relative to the
// final result cap so the ranker has a surplus to re-sort.
const (
	DefaultStrategyTimeout = 3 * time.Second

	semanticShare = 0.6
	hybridShare   = 0.4

	// Scoped strategies (framework- and stage-restricted) fetch few, highly
	// similar passages.
	scopedMaxResults = 3
	frameworkFloor   = 0.75
	phaseFloor       = 0.70
)

// Option configures the orchestrator.
type Option func(*Service)

// WithStrategyTimeout replaces the per-strategy timeout. Non-positive values
// are ignored.
func WithStrategyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithCache enables merged-result caching, keyed by normalized query text,
// weight profile, and context fingerprint.
func WithCache(size int, ttl time.Duration) Option {
	return func(s *Service) {
		if size > 0 && ttl > 0 {
			s.cache = newResultCache(size, ttl)
		}
	}
}

// Service is the retrieval orchestrator.
type Service struct {
	backend Backend
	timeout time.Duration
	cache   *resultCache
}

// New creates an orchestrator over the given backend.
func New(backend Backend, opts ...Option) *Service {
	s := &Service{backend: backend, timeout: DefaultStrategyTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

// strategy is one planned retrieval call. Plan order is merge order.
type strategy struct {
	kind string
	run  func(ctx context.Context) ([]candidate.Candidate, error)
}

// Search issues every planned strategy concurrently, waits for all of them,
// and merges the buffered results in fixed plan order. A failed or timed-out
// strategy degrades to an empty set; only total failure returns an error
// (domain.ErrRetrievalUnavailable). The merged list has no duplicate ids and
// at most max_results × 2 entries.
func (s *Service) Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error) {
	if s.cache != nil {
		if hit, ok := s.cache.get(q); ok {
			metrics.RetrievalCacheTotal.WithLabelValues("hit").Inc()
			return hit, nil
		}
		metrics.RetrievalCacheTotal.WithLabelValues("miss").Inc()
	}

	plan := s.plan(q)

	// Fixed result slots: each goroutine writes only its own index, so the
	// merge needs no locking and completion order never affects output.
	results := make([][]candidate.Candidate, len(plan))
	errs := make([]error, len(plan))

	var wg sync.WaitGroup
	for i, st := range plan {
		i, st := i, st
		wg.Add(1)
		go func() {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			results[i], errs[i] = st.run(callCtx)
		}()
	}
	wg.Wait()

	log := logger.FromContext(ctx)
	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		results[i] = nil
		metrics.RetrievalStrategyFailures.WithLabelValues(plan[i].kind).Inc()
		log.Warn("retrieval strategy failed",
			zap.String("strategy", plan[i].kind),
			zap.Error(err),
		)
	}
	if failed == len(plan) {
		return nil, domain.ErrRetrievalUnavailable
	}

	p := q.Params()
	merged := merge(results, p.MaxResults()*2)
	metrics.RetrievalCandidates.Observe(float64(len(merged)))
	// A degraded merge must not be pinned for the TTL: the next identical
	// query should retry the failed strategies.
	if s.cache != nil && failed == 0 {
		s.cache.add(q, merged)
	}
	return merged, nil
}

// plan builds the strategy list in merge order: pure semantic, hybrid, one
// framework-scoped call per detected framework, then a stage-scoped call when
// a lifecycle stage was detected.
func (s *Service) plan(q query.Query) []strategy {
	p := q.Params()
	bc := q.Context()
	text := q.Expanded()
	threshold := p.SimilarityThreshold()

	plan := []strategy{
		{kind: "semantic", run: func(ctx context.Context) ([]candidate.Candidate, error) {
			return s.backend.SemanticSearch(ctx, text, SearchOptions{
				MaxResults:          share(p.MaxResults(), semanticShare),
				SimilarityThreshold: threshold,
			})
		}},
		{kind: "hybrid", run: func(ctx context.Context) ([]candidate.Candidate, error) {
			return s.backend.HybridSearch(ctx, text, SearchOptions{
				MaxResults:          share(p.MaxResults(), hybridShare),
				SimilarityThreshold: threshold,
			})
		}},
	}

	for _, f := range bc.Frameworks() {
		prefixed := f.Name() + " " + text
		plan = append(plan, strategy{kind: "framework", run: func(ctx context.Context) ([]candidate.Candidate, error) {
			return s.backend.SemanticSearch(ctx, prefixed, SearchOptions{
				MaxResults:          scopedMaxResults,
				SimilarityThreshold: frameworkFloor,
			})
		}})
	}

	if st := bc.Stage(); st != nil {
		phase := st.Stage()
		plan = append(plan, strategy{kind: "phase", run: func(ctx context.Context) ([]candidate.Candidate, error) {
			return s.backend.SemanticSearch(ctx, text, SearchOptions{
				MaxResults:          scopedMaxResults,
				SimilarityThreshold: phaseFloor,
				Phase:               phase,
			})
		}})
	}

	return plan
}

// share computes a strategy's result cap as a fraction of the overall cap,
// never below 1.
func share(max int, frac float64) int {
	n := int(float64(max) * frac)
	if n < 1 {
		n = 1
	}
	return n
}
