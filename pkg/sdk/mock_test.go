package quarry

import (
	"context"

	"github.com/helmfirth/quarry/internal/domain/candidate"
	dompas "github.com/helmfirth/quarry/internal/domain/passage"
	healthuc "github.com/helmfirth/quarry/internal/usecase/health"
	pipelineuc "github.com/helmfirth/quarry/internal/usecase/pipeline"
	retrieveuc "github.com/helmfirth/quarry/internal/usecase/retrieve"
)

// --- askUseCase mock ---

type mockAskUC struct {
	askFn func(ctx context.Context, req pipelineuc.Ask) (*pipelineuc.Response, error)
}

func (m *mockAskUC) Ask(ctx context.Context, req pipelineuc.Ask) (*pipelineuc.Response, error) {
	return m.askFn(ctx, req)
}

// --- ingestUseCase mock ---

type mockIngestUC struct {
	ingestFn func(ctx context.Context, p dompas.Passage) (dompas.Passage, error)
	getFn    func(ctx context.Context, id string) (dompas.Passage, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockIngestUC) Ingest(ctx context.Context, p dompas.Passage) (dompas.Passage, error) {
	return m.ingestFn(ctx, p)
}

func (m *mockIngestUC) Get(ctx context.Context, id string) (dompas.Passage, error) {
	return m.getFn(ctx, id)
}

func (m *mockIngestUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	semanticFn func(ctx context.Context, text string, opts retrieveuc.SearchOptions) ([]candidate.Candidate, error)
	hybridFn   func(ctx context.Context, text string, opts retrieveuc.SearchOptions) ([]candidate.Candidate, error)
}

func (m *mockSearchUC) SemanticSearch(
	ctx context.Context, text string, opts retrieveuc.SearchOptions,
) ([]candidate.Candidate, error) {
	return m.semanticFn(ctx, text, opts)
}

func (m *mockSearchUC) HybridSearch(
	ctx context.Context, text string, opts retrieveuc.SearchOptions,
) ([]candidate.Candidate, error) {
	return m.hybridFn(ctx, text, opts)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

// --- helpers ---

func testClient(
	askSvc askUseCase,
	ingestSvc ingestUseCase,
	searchSvc searchUseCase,
	healthSvc healthUseCase,
) *Client {
	return &Client{
		askSvc:    askSvc,
		ingestSvc: ingestSvc,
		searchSvc: searchSvc,
		healthSvc: healthSvc,
	}
}
