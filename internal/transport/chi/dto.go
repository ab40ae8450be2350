package chi

import (
	"fmt"
	"time"

	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/domain/bizctx"
	"github.com/helmfirth/quarry/internal/domain/candidate"
	"github.com/helmfirth/quarry/internal/domain/intent"
	"github.com/helmfirth/quarry/internal/domain/params"
	dompas "github.com/helmfirth/quarry/internal/domain/passage"
	"github.com/helmfirth/quarry/internal/usecase/answer"
	"github.com/helmfirth/quarry/internal/usecase/pipeline"
)

// askRequest is the POST /ask body.
type askRequest struct {
	Query               string          `json:"query"`
	History             []string        `json:"history,omitempty"`
	UserContext         *userContextDTO `json:"user_context,omitempty"`
	Weights             *weightsDTO     `json:"weights,omitempty"`
	SimilarityThreshold float64         `json:"similarity_threshold,omitempty"`
	MaxResults          int             `json:"max_results,omitempty"`
	TopK                int             `json:"top_k,omitempty"`
}

type userContextDTO struct {
	MonthlyRevenue float64 `json:"monthly_revenue,omitempty"`
	Industry       string  `json:"industry,omitempty"`
	TeamSize       int     `json:"team_size,omitempty"`
}

type weightsDTO struct {
	Semantic     float64 `json:"semantic"`
	Keyword      float64 `json:"keyword"`
	Recency      float64 `json:"recency"`
	Authority    float64 `json:"authority"`
	ContextMatch float64 `json:"context_match"`
}

// askResponse is the POST /ask reply.
type askResponse struct {
	Intent        intentDTO      `json:"intent"`
	Context       contextDTO     `json:"context"`
	ExpandedQuery string         `json:"expanded_query"`
	Results       []answer.Cited `json:"results"`
}

type intentDTO struct {
	Primary     string   `json:"primary"`
	Confidence  float64  `json:"confidence"`
	Secondary   []string `json:"secondary,omitempty"`
	Evidence    []string `json:"evidence,omitempty"`
	Urgency     string   `json:"urgency,omitempty"`
	Specificity string   `json:"specificity,omitempty"`
	Scope       string   `json:"scope,omitempty"`
}

type contextDTO struct {
	Frameworks []frameworkDTO `json:"frameworks,omitempty"`
	Metrics    []metricDTO    `json:"metrics,omitempty"`
	Stage      *stageDTO      `json:"stage,omitempty"`
	Scenarios  []string       `json:"scenarios,omitempty"`
}

type frameworkDTO struct {
	Name       string   `json:"name"`
	Score      float64  `json:"score"`
	Components []string `json:"components,omitempty"`
}

type metricDTO struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Variant    string  `json:"variant,omitempty"`
	Confidence float64 `json:"confidence"`
}

type stageDTO struct {
	Stage   string   `json:"stage"`
	Signals []string `json:"signals,omitempty"`
}

// searchRequest is the POST /search body: raw retrieval without the pipeline.
type searchRequest struct {
	Query               string  `json:"query"`
	Mode                string  `json:"mode,omitempty"` // "semantic" (default) or "hybrid"
	MaxResults          int     `json:"max_results,omitempty"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
	Phase               string  `json:"phase,omitempty"`
}

type searchResponse struct {
	Results []searchHitDTO `json:"results"`
	Total   int            `json:"total"`
}

type searchHitDTO struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Score      float64  `json:"score"`
	Intent     string   `json:"intent,omitempty"`
	Phase      string   `json:"phase,omitempty"`
	Frameworks []string `json:"frameworks,omitempty"`
	Authority  *float64 `json:"authority,omitempty"`
	Freshness  *float64 `json:"freshness,omitempty"`
}

// passageRequest is the POST /passages body.
type passageRequest struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Title       string   `json:"title,omitempty"`
	Source      string   `json:"source,omitempty"`
	Intent      string   `json:"intent,omitempty"`
	Phase       string   `json:"phase,omitempty"`
	Frameworks  []string `json:"frameworks,omitempty"`
	Authority   float64  `json:"authority,omitempty"`
	PublishedAt string   `json:"published_at,omitempty"` // RFC 3339
}

type passageResponse struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Title       string    `json:"title,omitempty"`
	Source      string    `json:"source,omitempty"`
	Intent      string    `json:"intent,omitempty"`
	Phase       string    `json:"phase,omitempty"`
	Frameworks  []string  `json:"frameworks,omitempty"`
	Authority   float64   `json:"authority,omitempty"`
	PublishedAt time.Time `json:"published_at,omitzero"`
	VectorDim   int       `json:"vector_dim,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func askFromRequest(req *askRequest) pipeline.Ask {
	ask := pipeline.Ask{
		Query:               req.Query,
		History:             req.History,
		SimilarityThreshold: req.SimilarityThreshold,
		MaxResults:          req.MaxResults,
		TopK:                req.TopK,
	}
	if req.UserContext != nil {
		ask.User = &domain.UserContext{
			MonthlyRevenue: req.UserContext.MonthlyRevenue,
			Industry:       req.UserContext.Industry,
			TeamSize:       req.UserContext.TeamSize,
		}
	}
	if req.Weights != nil {
		ask.Weights = &params.Weights{
			Semantic:     req.Weights.Semantic,
			Keyword:      req.Weights.Keyword,
			Recency:      req.Weights.Recency,
			Authority:    req.Weights.Authority,
			ContextMatch: req.Weights.ContextMatch,
		}
	}
	return ask
}

func askToResponse(resp *pipeline.Response) askResponse {
	results := resp.Results
	if results == nil {
		results = []answer.Cited{}
	}
	return askResponse{
		Intent:        intentToDTO(&resp.Intent),
		Context:       contextToDTO(&resp.Context),
		ExpandedQuery: resp.ExpandedQuery,
		Results:       results,
	}
}

func intentToDTO(cl *intent.Classified) intentDTO {
	dto := intentDTO{
		Primary:     string(cl.Primary()),
		Confidence:  cl.Confidence(),
		Evidence:    cl.Evidence(),
		Urgency:     string(cl.Urgency()),
		Specificity: string(cl.Specificity()),
		Scope:       string(cl.Scope()),
	}
	for _, s := range cl.Secondary() {
		dto.Secondary = append(dto.Secondary, string(s))
	}
	return dto
}

func contextToDTO(bc *bizctx.Context) contextDTO {
	dto := contextDTO{Scenarios: bc.Scenarios()}
	for _, f := range bc.Frameworks() {
		dto.Frameworks = append(dto.Frameworks, frameworkDTO{
			Name:       f.Name(),
			Score:      f.Score(),
			Components: f.Components(),
		})
	}
	for _, m := range bc.Metrics() {
		dto.Metrics = append(dto.Metrics, metricDTO{
			Name:       m.Name(),
			Category:   m.Category(),
			Variant:    m.Variant(),
			Confidence: m.Confidence(),
		})
	}
	if st := bc.Stage(); st != nil {
		dto.Stage = &stageDTO{Stage: st.Stage(), Signals: st.Signals()}
	}
	return dto
}

func candidateToHit(c *candidate.Candidate) searchHitDTO {
	hit := searchHitDTO{
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

func passageFromRequest(req *passageRequest) (dompas.Passage, error) {
	var publishedAt time.Time
	if req.PublishedAt != "" {
		ts, err := time.Parse(time.RFC3339, req.PublishedAt)
		if err != nil {
			return dompas.Passage{}, fmt.Errorf("published_at must be RFC 3339: %w", err)
		}
		publishedAt = ts
	}
	return dompas.New(
		req.ID, req.Content, req.Title, req.Source,
		req.Intent, req.Phase, req.Frameworks,
		req.Authority, publishedAt,
	)
}

func passageToResponse(p *dompas.Passage) passageResponse {
	return passageResponse{
		ID:          p.ID(),
		Content:     p.Content(),
		Title:       p.Title(),
		Source:      p.Source(),
		Intent:      p.IntentTag(),
		Phase:       p.PhaseTag(),
		Frameworks:  p.Frameworks(),
		Authority:   p.Authority(),
		PublishedAt: p.PublishedAt(),
		VectorDim:   len(p.Vector()),
	}
}
