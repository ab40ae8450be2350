package quarry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/helmfirth/quarry/internal/db"
	dbRedis "github.com/helmfirth/quarry/internal/db/redis"
	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/domain/candidate"
	dompas "github.com/helmfirth/quarry/internal/domain/passage"
	authorityrepo "github.com/helmfirth/quarry/internal/repository/authority"
	passagerepo "github.com/helmfirth/quarry/internal/repository/passage"
	searchrepo "github.com/helmfirth/quarry/internal/repository/search"
	answeruc "github.com/helmfirth/quarry/internal/usecase/answer"
	classifyuc "github.com/helmfirth/quarry/internal/usecase/classify"
	expanduc "github.com/helmfirth/quarry/internal/usecase/expand"
	healthuc "github.com/helmfirth/quarry/internal/usecase/health"
	ingestuc "github.com/helmfirth/quarry/internal/usecase/ingest"
	pipelineuc "github.com/helmfirth/quarry/internal/usecase/pipeline"
	rankuc "github.com/helmfirth/quarry/internal/usecase/rank"
	retrieveuc "github.com/helmfirth/quarry/internal/usecase/retrieve"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultVectorDimensions = 1536
)

// Внутренние интерфейсы для подмены в тестах.
type askUseCase interface {
	Ask(ctx context.Context, req pipelineuc.Ask) (*pipelineuc.Response, error)
}

type ingestUseCase interface {
	Ingest(ctx context.Context, p dompas.Passage) (dompas.Passage, error)
	Get(ctx context.Context, id string) (dompas.Passage, error)
	Delete(ctx context.Context, id string) error
}

type searchUseCase interface {
	SemanticSearch(ctx context.Context, text string, opts retrieveuc.SearchOptions) ([]candidate.Candidate, error)
	HybridSearch(ctx context.Context, text string, opts retrieveuc.SearchOptions) ([]candidate.Candidate, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the quarry SDK entry point.
type Client struct {
	store     db.Store
	askSvc    askUseCase
	ingestSvc ingestUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a quarry Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions: defaultVectorDimensions,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("quarry: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("quarry: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(ctx, store, cfg, obs)
}

func createStore(cfg *clientConfig) (db.Store, error) {
	// Valkey speaks the same protocol; both drivers share the rueidis store.
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("quarry: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("quarry: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	vectorDim := cfg.vectorDimensions

	passageRepo := passagerepo.New(store, vectorDim)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		passageRepo = passageRepo.WithHNSW(passagerepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}
	if err := passageRepo.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("quarry: ensure index: %w", err)
	}

	// Embedder: noop если не задан (Ask и Ingest вернут ошибку)
	var docEmb domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		docEmb = &embedderAdapter{inner: cfg.embedder}
	}
	queryEmb := docEmb
	if cfg.queryInstruction != "" {
		queryEmb = domain.NewInstructionEmbedder(docEmb, cfg.queryInstruction)
	}

	searchRepo := searchrepo.New(store, queryEmb)
	citationRepo := authorityrepo.New(store)

	retrieveOpts := []retrieveuc.Option{}
	if cfg.strategyTimeout > 0 {
		retrieveOpts = append(retrieveOpts, retrieveuc.WithStrategyTimeout(cfg.strategyTimeout))
	}
	if cfg.cacheSize > 0 {
		retrieveOpts = append(retrieveOpts, retrieveuc.WithCache(cfg.cacheSize, cfg.cacheTTL))
	}

	askSvc := pipelineuc.New(
		classifyuc.New(classifyuc.Tuning{}),
		expanduc.New(),
		retrieveuc.New(searchRepo, retrieveOpts...),
		rankuc.New(),
		answeruc.New(citationRepo),
	)

	return &Client{
		store:     store,
		askSvc:    askSvc,
		ingestSvc: ingestuc.New(passageRepo, docEmb, vectorDim),
		searchSvc: searchRepo,
		healthSvc: healthuc.New(store, nil),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"quarry: embedder not configured (use WithEmbedder)",
	)
}
