// Package rank orders retrieval candidates by a weighted combination of
// semantic, context-match, authority, and freshness sub-scores.
package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/helmfirth/quarry/internal/domain/bizctx"
	"github.com/helmfirth/quarry/internal/domain/candidate"
	"github.com/helmfirth/quarry/internal/domain/intent"
	"github.com/helmfirth/quarry/internal/domain/query"
)

// Mid-range substitutes for candidates whose backend supplied no authority or
// recency hint.
const (
	DefaultAuthority = 0.7
	DefaultFreshness = 0.8
)

// Semantic sub-score boosts.
const (
	intentTagBoost      = 0.1
	contextBoostScale   = 0.15
	frameworkBoostScale = 0.1
)

// Context-match sub-score contributions.
const (
	frameworkTagWeight = 0.3
	stageMatchBonus    = 0.2
	scenarioWeight     = 0.15
)

// Service ranks candidates. Stateless and safe for concurrent use.
type Service struct{}

// New creates a ranker.
func New() *Service { return &Service{} }

// Rank derives sub-scores for every candidate and returns new ranked values
// ordered strictly descending by combined score, ties broken by candidate id
// ascending. Input candidates are never mutated. An empty input yields an
// empty (non-error) result.
func (s *Service) Rank(cands []candidate.Candidate, q query.Query) []candidate.Ranked {
	cl := q.Intent()
	bc := q.Context()
	p := q.Params()
	w := p.Weights().Normalized()

	ranked := make([]candidate.Ranked, 0, len(cands))
	for i := range cands {
		c := &cands[i]

		scores := subScores(c, &cl, &bc)
		combined := scores.Semantic*w.Semantic +
			scores.ContextMatch*w.ContextMatch +
			scores.Authority*w.Authority +
			scores.Freshness*w.Recency

		ranked = append(ranked, candidate.NewRanked(*c, scores, combined))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Combined() != ranked[j].Combined() {
			return ranked[i].Combined() > ranked[j].Combined()
		}
		a, b := ranked[i].Candidate(), ranked[j].Candidate()
		return a.ID() < b.ID()
	})
	return ranked
}

func subScores(c *candidate.Candidate, cl *intent.Classified, bc *bizctx.Context) candidate.SubScores {
	ctxMatch := contextMatch(c, bc)
	return candidate.SubScores{
		Semantic:     semanticScore(c, cl, bc, ctxMatch),
		ContextMatch: ctxMatch,
		Authority:    hintOrDefault(c.Authority(), DefaultAuthority),
		Freshness:    hintOrDefault(c.Freshness(), DefaultFreshness),
	}
}

// semanticScore starts from the backend similarity and boosts it when the
// passage's declared tags line up with the classification.
func semanticScore(
	c *candidate.Candidate, cl *intent.Classified, bc *bizctx.Context, ctxMatch float64,
) float64 {
	score := clamp01(c.Similarity())
	if c.IntentTag() != "" && c.IntentTag() == string(cl.Primary()) {
		score += intentTagBoost
	}
	score += contextBoostScale * ctxMatch
	score += frameworkBoostScale * frameworkRelevance(c, bc)
	return clamp01(score)
}

// frameworkRelevance is the strongest detected-framework score among the
// frameworks the passage is tagged with, 0 when none overlap.
func frameworkRelevance(c *candidate.Candidate, bc *bizctx.Context) float64 {
	best := 0.0
	for _, f := range bc.Frameworks() {
		for _, tag := range c.FrameworkTags() {
			if tag == f.Name() && f.Score() > best {
				best = f.Score()
			}
		}
	}
	return best
}

// contextMatch measures how well the passage's tags cover the detected
// business context: framework tags, lifecycle stage, and scenario mentions.
func contextMatch(c *candidate.Candidate, bc *bizctx.Context) float64 {
	var score float64

	for _, f := range bc.Frameworks() {
		for _, tag := range c.FrameworkTags() {
			if tag == f.Name() {
				score += frameworkTagWeight
				break
			}
		}
	}

	if st := bc.Stage(); st != nil {
		if c.PhaseTag() == st.Stage() || c.PhaseTag() == "all" {
			score += stageMatchBonus
		}
	}

	content := strings.ToLower(c.Content())
	for _, scenario := range bc.Scenarios() {
		if strings.Contains(content, scenario) {
			score += scenarioWeight
		}
	}

	return clamp01(score)
}

func hintOrDefault(v, def float64) float64 {
	if v < 0 {
		return def
	}
	return clamp01(v)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
