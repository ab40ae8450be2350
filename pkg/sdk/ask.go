package quarry

import (
	"context"
	"fmt"
	"time"

	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/domain/bizctx"
	"github.com/helmfirth/quarry/internal/domain/intent"
	"github.com/helmfirth/quarry/internal/domain/params"
	answeruc "github.com/helmfirth/quarry/internal/usecase/answer"
	pipelineuc "github.com/helmfirth/quarry/internal/usecase/pipeline"
)

// Ask runs a question through the full pipeline: classification, expansion,
// concurrent retrieval, ranking, and citation packaging.
func (c *Client) Ask(ctx context.Context, q Question) (answer Answer, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err) }()

	resp, err := c.askSvc.Ask(ctx, toInternalAsk(q))
	if err != nil {
		return Answer{}, fmt.Errorf("ask: %w", err)
	}
	return fromInternalResponse(resp), nil
}

func toInternalAsk(q Question) pipelineuc.Ask {
	ask := pipelineuc.Ask{
		Query:               q.Text,
		History:             q.History,
		SimilarityThreshold: q.SimilarityThreshold,
		MaxResults:          q.MaxResults,
		TopK:                q.TopK,
	}
	if q.UserContext != nil {
		ask.User = &domain.UserContext{
			MonthlyRevenue: q.UserContext.MonthlyRevenue,
			Industry:       q.UserContext.Industry,
			TeamSize:       q.UserContext.TeamSize,
		}
	}
	if q.Weights != nil {
		ask.Weights = &params.Weights{
			Semantic:     q.Weights.Semantic,
			Keyword:      q.Weights.Keyword,
			Recency:      q.Weights.Recency,
			Authority:    q.Weights.Authority,
			ContextMatch: q.Weights.ContextMatch,
		}
	}
	return ask
}

func fromInternalResponse(resp *pipelineuc.Response) Answer {
	results := make([]CitedPassage, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = fromInternalCited(r)
	}
	return Answer{
		Intent:        fromInternalIntent(&resp.Intent),
		Context:       fromInternalContext(&resp.Context),
		ExpandedQuery: resp.ExpandedQuery,
		Results:       results,
	}
}

func fromInternalIntent(cl *intent.Classified) IntentInfo {
	secondary := make([]string, len(cl.Secondary()))
	for i, s := range cl.Secondary() {
		secondary[i] = string(s)
	}
	return IntentInfo{
		Primary:     string(cl.Primary()),
		Confidence:  cl.Confidence(),
		Secondary:   secondary,
		Urgency:     string(cl.Urgency()),
		Specificity: string(cl.Specificity()),
		Scope:       string(cl.Scope()),
	}
}

func fromInternalContext(bc *bizctx.Context) ContextInfo {
	frameworks := make([]FrameworkMatch, len(bc.Frameworks()))
	for i, f := range bc.Frameworks() {
		frameworks[i] = FrameworkMatch{
			Name:       f.Name(),
			Score:      f.Score(),
			Components: f.Components(),
		}
	}
	metricMatches := make([]MetricMatch, len(bc.Metrics()))
	for i, m := range bc.Metrics() {
		metricMatches[i] = MetricMatch{
			Name:       m.Name(),
			Category:   m.Category(),
			Variant:    m.Variant(),
			Confidence: m.Confidence(),
		}
	}
	var stage *StageMatch
	if s := bc.Stage(); s != nil {
		stage = &StageMatch{Stage: s.Stage(), Signals: s.Signals()}
	}
	return ContextInfo{
		Frameworks: frameworks,
		Metrics:    metricMatches,
		Stage:      stage,
		Scenarios:  bc.Scenarios(),
	}
}

func fromInternalCited(r answeruc.Cited) CitedPassage {
	return CitedPassage{
		ID:      r.ID,
		Content: r.Content,
		Score:   r.Score,
		SubScores: SubScores{
			Semantic:     r.SubScores.Semantic,
			ContextMatch: r.SubScores.ContextMatch,
			Authority:    r.SubScores.Authority,
			Freshness:    r.SubScores.Freshness,
		},
		Citation: Citation{
			Title:       r.Citation.Title,
			Source:      r.Citation.Source,
			Authority:   r.Citation.Authority,
			PublishedAt: r.Citation.PublishedAt,
		},
		Guidance: r.Guidance,
	}
}
