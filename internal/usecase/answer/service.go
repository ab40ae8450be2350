// Package answer turns the top-ranked candidates into display-ready records
// with citations and intent-appropriate guidance.
package answer

import (
	"context"

	"go.uber.org/zap"

	"github.com/helmfirth/quarry/internal/domain/candidate"
	"github.com/helmfirth/quarry/internal/domain/intent"
	"github.com/helmfirth/quarry/internal/logger"
)

// DefaultTopK bounds the packaged result count when the caller passes no
// explicit limit.
const DefaultTopK = 5

// Cited is one display-ready result.
type Cited struct {
	ID        string              `json:"id"`
	Content   string              `json:"content"`
	Score     float64             `json:"score"`
	SubScores candidate.SubScores `json:"sub_scores"`
	Citation  Citation            `json:"citation"`
	Guidance  string              `json:"guidance,omitempty"`
}

// Service packages ranked candidates.
type Service struct {
	citations CitationSource
}

// New creates a packager. A nil citation source is allowed; every result then
// carries the fallback citation.
func New(citations CitationSource) *Service {
	return &Service{citations: citations}
}

// Package takes the top-k ranked candidates and attaches citation metadata
// and guidance text. A failed citation lookup degrades to a fallback citation
// for that result; it never drops the result or fails the request.
func (s *Service) Package(
	ctx context.Context, ranked []candidate.Ranked, topK int, primary intent.Intent,
) []Cited {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	guidance := guidanceFor(primary)

	out := make([]Cited, 0, len(ranked))
	for i := range ranked {
		c := ranked[i].Candidate()
		out = append(out, Cited{
			ID:        c.ID(),
			Content:   c.Content(),
			Score:     ranked[i].Combined(),
			SubScores: ranked[i].SubScores(),
			Citation:  s.citation(ctx, &c),
			Guidance:  guidance,
		})
	}
	return out
}

func (s *Service) citation(ctx context.Context, c *candidate.Candidate) Citation {
	fallback := Citation{Source: "knowledge base", Authority: c.Authority()}
	if fallback.Authority < 0 {
		fallback.Authority = 0
	}
	if s.citations == nil {
		return fallback
	}

	cit, err := s.citations.Citation(ctx, c.ID())
	if err != nil {
		logger.FromContext(ctx).Warn("citation lookup failed",
			zap.String("passage_id", c.ID()),
			zap.Error(err),
		)
		return fallback
	}
	return cit
}

// guidanceFor returns a one-line usage hint matched to the asker's goal.
func guidanceFor(primary intent.Intent) string {
	switch primary {
	case intent.Learning:
		return "Background reading: start with the highest-scored passage."
	case intent.Implementation:
		return "Follow the steps in order; adapt the numbers to your own metrics."
	case intent.Troubleshooting:
		return "Compare each diagnosis against your own data before acting."
	case intent.Optimization:
		return "Pick the single highest-leverage change and measure before iterating."
	case intent.Benchmarking:
		return "Benchmarks vary by segment; compare against companies at your stage."
	case intent.Planning:
		return "Use these as planning inputs, not commitments."
	default:
		return ""
	}
}
