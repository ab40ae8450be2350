// Package pipeline coordinates one question through classification,
// expansion, retrieval, ranking, and packaging.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/domain/bizctx"
	"github.com/helmfirth/quarry/internal/domain/intent"
	"github.com/helmfirth/quarry/internal/domain/params"
	"github.com/helmfirth/quarry/internal/domain/query"
	"github.com/helmfirth/quarry/internal/metrics"
	"github.com/helmfirth/quarry/internal/usecase/answer"
	"github.com/helmfirth/quarry/internal/usecase/rank"
)

// Ask is one pipeline request. Weights and SimilarityThreshold override the
// per-intent preset when set; MaxResults and TopK fall back to the domain
// defaults when non-positive.
type Ask struct {
	Query               string
	User                *domain.UserContext
	History             []string
	Weights             *params.Weights
	SimilarityThreshold float64
	MaxResults          int
	TopK                int
}

// Response is the pipeline output.
type Response struct {
	Intent        intent.Classified
	Context       bizctx.Context
	ExpandedQuery string
	Results       []answer.Cited
}

// Option configures the pipeline.
type Option func(*Service)

// Defaults are server-side fallbacks applied when a request leaves
// MaxResults, TopK, or SimilarityThreshold unset. Zero fields defer to the
// per-intent preset and the domain defaults.
type Defaults struct {
	MaxResults          int
	TopK                int
	SimilarityThreshold float64
}

// WithDefaults installs operator-configured request fallbacks.
func WithDefaults(d Defaults) Option {
	return func(s *Service) { s.defaults = d }
}

// WithObserver attaches a progress channel. Sends are non-blocking: events
// are dropped when the observer is not keeping up.
func WithObserver(ch chan<- ProgressEvent) Option {
	return func(s *Service) { s.observer = ch }
}

// Service is the coordinating task for one request at a time; it is itself
// stateless and safe for concurrent use.
type Service struct {
	classifier Classifier
	expander   Expander
	retriever  Retriever
	ranker     Ranker
	packager   Packager
	observer   chan<- ProgressEvent
	defaults   Defaults
}

// New wires the pipeline stages together.
func New(
	classifier Classifier, expander Expander, retriever Retriever,
	ranker Ranker, packager Packager, opts ...Option,
) *Service {
	s := &Service{
		classifier: classifier,
		expander:   expander,
		retriever:  retriever,
		ranker:     ranker,
		packager:   packager,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Ask runs the full pipeline. A blank query is rejected with
// domain.ErrInvalidQuery before any retrieval call is issued. An empty result
// list is a valid response, not an error; only invalid input and total
// retrieval failure surface as errors. Cancelling ctx cancels all in-flight
// retrieval calls.
func (s *Service) Ask(ctx context.Context, req Ask) (*Response, error) {
	if strings.TrimSpace(req.Query) == "" {
		metrics.PipelineRequestsTotal.WithLabelValues("none", "invalid").Inc()
		return nil, fmt.Errorf("%w: query must not be blank", domain.ErrInvalidQuery)
	}

	start := time.Now()
	cl, bc := s.classifier.Classify(req.Query, req.User, req.History)
	s.stageDone(StageClassify, string(cl.Primary()), start)

	p, err := s.searchParams(&cl, req)
	if err != nil {
		metrics.PipelineRequestsTotal.WithLabelValues(string(cl.Primary()), "invalid").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}

	start = time.Now()
	expanded := s.expander.Expand(req.Query, bc)
	s.stageDone(StageExpand, expanded, start)

	q := query.New(req.Query, expanded, cl, bc, p)

	start = time.Now()
	cands, err := s.retriever.Search(ctx, q)
	if err != nil {
		metrics.PipelineRequestsTotal.WithLabelValues(string(cl.Primary()), "error").Inc()
		return nil, err
	}
	s.stageDone(StageRetrieve, strconv.Itoa(len(cands)), start)

	start = time.Now()
	ranked := s.ranker.Rank(cands, q)
	s.stageDone(StageRank, strconv.Itoa(len(ranked)), start)

	topK := req.TopK
	if topK <= 0 {
		topK = s.defaults.TopK
	}

	start = time.Now()
	results := s.packager.Package(ctx, ranked, topK, cl.Primary())
	s.stageDone(StagePackage, strconv.Itoa(len(results)), start)

	metrics.PipelineRequestsTotal.WithLabelValues(string(cl.Primary()), "ok").Inc()
	return &Response{
		Intent:        cl,
		Context:       bc,
		ExpandedQuery: expanded,
		Results:       results,
	}, nil
}

// searchParams resolves the effective parameters. Resolution order: the
// request, then the per-intent preset, then the operator defaults, then the
// domain defaults.
func (s *Service) searchParams(cl *intent.Classified, req Ask) (params.Search, error) {
	preset := rank.PresetFor(cl.Primary())

	w := preset.Weights
	if req.Weights != nil {
		w = *req.Weights
	}

	threshold := preset.SimilarityThreshold
	if threshold == 0 {
		threshold = s.defaults.SimilarityThreshold
	}
	if req.SimilarityThreshold > 0 {
		threshold = req.SimilarityThreshold
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.defaults.MaxResults
	}

	return params.New(w, maxResults, threshold)
}

func (s *Service) stageDone(stage, detail string, start time.Time) {
	elapsed := time.Since(start)
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	s.notify(stage, detail, elapsed)
}
