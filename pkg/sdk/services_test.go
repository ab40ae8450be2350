package quarry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/domain/bizctx"
	"github.com/helmfirth/quarry/internal/domain/candidate"
	"github.com/helmfirth/quarry/internal/domain/intent"
	dompas "github.com/helmfirth/quarry/internal/domain/passage"
	answeruc "github.com/helmfirth/quarry/internal/usecase/answer"
	healthuc "github.com/helmfirth/quarry/internal/usecase/health"
	pipelineuc "github.com/helmfirth/quarry/internal/usecase/pipeline"
	retrieveuc "github.com/helmfirth/quarry/internal/usecase/retrieve"
)

func TestAsk_ConvertsRequestAndResponse(t *testing.T) {
	stage := bizctx.NewStageMatch("growth", []string{"monthly revenue band"})

	var got pipelineuc.Ask
	askSvc := &mockAskUC{askFn: func(_ context.Context, req pipelineuc.Ask) (*pipelineuc.Response, error) {
		got = req
		return &pipelineuc.Response{
			Intent: intent.NewClassified(
				intent.Implementation, 0.8, []string{"how do i"}, []intent.Intent{intent.Research},
				intent.UrgencyStandard, intent.SpecificitySpecific, intent.ScopeTactical,
			),
			Context: bizctx.New(
				[]bizctx.FrameworkMatch{bizctx.NewFrameworkMatch("Pirate Metrics", 0.6, []string{"retention"})},
				nil,
				&stage,
				nil,
			),
			ExpandedQuery: "reduce churn retention pirate metrics",
			Results: []answeruc.Cited{{
				ID:      "p-1",
				Content: "Negative churn happens when...",
				Score:   0.87,
				SubScores: candidate.SubScores{
					Semantic: 0.9, ContextMatch: 0.7, Authority: 0.8, Freshness: 0.5,
				},
				Citation: answeruc.Citation{Source: "handbook", Authority: 0.8},
			}},
		}, nil
	}}

	c := testClient(askSvc, nil, nil, nil)
	answer, err := c.Ask(context.Background(), Question{
		Text:        "how do i reduce churn",
		UserContext: &UserContext{MonthlyRevenue: 8_000, Industry: "saas"},
		Weights:     &Weights{Semantic: 0.5, Authority: 0.5},
		MaxResults:  20,
		TopK:        3,
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}

	if got.Query != "how do i reduce churn" {
		t.Errorf("query = %q", got.Query)
	}
	if got.User == nil || got.User.MonthlyRevenue != 8_000 {
		t.Errorf("user context = %+v", got.User)
	}
	if got.Weights == nil || got.Weights.Semantic != 0.5 {
		t.Errorf("weights = %+v", got.Weights)
	}
	if got.MaxResults != 20 || got.TopK != 3 {
		t.Errorf("max_results=%d top_k=%d", got.MaxResults, got.TopK)
	}

	if answer.Intent.Primary != "implementation" || answer.Intent.Confidence != 0.8 {
		t.Errorf("intent = %+v", answer.Intent)
	}
	if len(answer.Intent.Secondary) != 1 || answer.Intent.Secondary[0] != "research" {
		t.Errorf("secondary = %v", answer.Intent.Secondary)
	}
	if len(answer.Context.Frameworks) != 1 || answer.Context.Frameworks[0].Name != "Pirate Metrics" {
		t.Errorf("frameworks = %+v", answer.Context.Frameworks)
	}
	if answer.Context.Stage == nil || answer.Context.Stage.Stage != "growth" {
		t.Errorf("stage = %+v", answer.Context.Stage)
	}
	if len(answer.Results) != 1 {
		t.Fatalf("results = %+v", answer.Results)
	}
	r := answer.Results[0]
	if r.ID != "p-1" || r.Score != 0.87 || r.SubScores.ContextMatch != 0.7 {
		t.Errorf("result = %+v", r)
	}
	if r.Citation.Source != "handbook" {
		t.Errorf("citation = %+v", r.Citation)
	}
}

func TestAsk_PropagatesInvalidQuery(t *testing.T) {
	askSvc := &mockAskUC{askFn: func(_ context.Context, _ pipelineuc.Ask) (*pipelineuc.Response, error) {
		return nil, domain.ErrInvalidQuery
	}}

	c := testClient(askSvc, nil, nil, nil)
	_, err := c.Ask(context.Background(), Question{Text: "   "})

	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearch_SemanticDefaultMode(t *testing.T) {
	searchSvc := &mockSearchUC{semanticFn: func(
		_ context.Context, text string, opts retrieveuc.SearchOptions,
	) ([]candidate.Candidate, error) {
		if text != "churn benchmarks" {
			t.Errorf("text = %q", text)
		}
		if opts.MaxResults != 10 {
			t.Errorf("default max results = %d", opts.MaxResults)
		}
		return []candidate.Candidate{
			candidate.Reconstruct("p-1", "content", 0.9, "benchmarking", "growth", nil, 0.8, candidate.NoSignal),
		}, nil
	}}

	c := testClient(nil, nil, searchSvc, nil)
	hits, err := c.Search(context.Background(), SearchQuery{Text: "churn benchmarks"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(hits) != 1 || hits[0].ID != "p-1" || hits[0].Score != 0.9 {
		t.Fatalf("hits = %+v", hits)
	}
	if hits[0].Authority == nil || *hits[0].Authority != 0.8 {
		t.Errorf("authority = %v", hits[0].Authority)
	}
	if hits[0].Freshness != nil {
		t.Errorf("freshness should be nil on missing signal")
	}
}

func TestSearch_HybridNotSupported(t *testing.T) {
	searchSvc := &mockSearchUC{hybridFn: func(
		_ context.Context, _ string, _ retrieveuc.SearchOptions,
	) ([]candidate.Candidate, error) {
		return nil, domain.ErrKeywordSearchNotSupported
	}}

	c := testClient(nil, nil, searchSvc, nil)
	_, err := c.Search(context.Background(), SearchQuery{Text: "q", Mode: ModeHybrid})

	if !errors.Is(err, ErrKeywordSearchNotSupported) {
		t.Fatalf("expected ErrKeywordSearchNotSupported, got %v", err)
	}
}

func TestSearch_UnknownMode(t *testing.T) {
	c := testClient(nil, nil, &mockSearchUC{}, nil)
	_, err := c.Search(context.Background(), SearchQuery{Text: "q", Mode: "bm42"})

	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestPassages_IngestRoundtrip(t *testing.T) {
	published := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	ingestSvc := &mockIngestUC{ingestFn: func(_ context.Context, p dompas.Passage) (dompas.Passage, error) {
		if p.ID() != "p-1" || p.PhaseTag() != "growth" {
			t.Errorf("internal passage = %+v", p)
		}
		return p.WithVector([]float32{0.1, 0.2}), nil
	}}

	c := testClient(nil, ingestSvc, nil, nil)
	stored, err := c.Passages().Ingest(context.Background(), Passage{
		ID:          "p-1",
		Content:     "Your LTV:CAC ratio should be at least 3:1.",
		Phase:       "growth",
		Authority:   0.85,
		PublishedAt: published,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if stored.VectorDim != 2 {
		t.Errorf("vector dim = %d", stored.VectorDim)
	}
	if !stored.PublishedAt.Equal(published) {
		t.Errorf("published_at = %v", stored.PublishedAt)
	}
}

func TestPassages_IngestValidation(t *testing.T) {
	c := testClient(nil, &mockIngestUC{}, nil, nil)

	_, err := c.Passages().Ingest(context.Background(), Passage{ID: "p-1", Content: ""})
	if err == nil {
		t.Fatal("expected validation error for empty content")
	}
}

func TestPassages_GetNotFound(t *testing.T) {
	ingestSvc := &mockIngestUC{getFn: func(_ context.Context, _ string) (dompas.Passage, error) {
		return dompas.Passage{}, domain.ErrPassageNotFound
	}}

	c := testClient(nil, ingestSvc, nil, nil)
	_, err := c.Passages().Get(context.Background(), "missing")

	if !errors.Is(err, ErrPassageNotFound) {
		t.Fatalf("expected ErrPassageNotFound, got %v", err)
	}
}

func TestPassages_Delete(t *testing.T) {
	var deleted string
	ingestSvc := &mockIngestUC{deleteFn: func(_ context.Context, id string) error {
		deleted = id
		return nil
	}}

	c := testClient(nil, ingestSvc, nil, nil)
	if err := c.Passages().Delete(context.Background(), "p-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != "p-1" {
		t.Errorf("deleted id = %q", deleted)
	}
}

func TestHealth_MapsReport(t *testing.T) {
	healthSvc := &mockHealthUC{checkFn: func(_ context.Context) healthuc.Report {
		return healthuc.Report{
			Status: healthuc.Degraded,
			Checks: map[string]healthuc.CheckResult{"store": healthuc.CheckError},
		}
	}}

	c := testClient(nil, nil, nil, healthSvc)
	hs := c.Health(context.Background())

	if hs.Status != "degraded" || hs.Checks["store"] != "error" {
		t.Errorf("health = %+v", hs)
	}
}
