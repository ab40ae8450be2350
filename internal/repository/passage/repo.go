// Package passage persists corpus passages as Redis hashes under the
// quarry:passage: prefix and owns the FT index over them.
package passage

import (
	"context"
	"errors"
	"fmt"

	"github.com/helmfirth/quarry/internal/db"
	"github.com/helmfirth/quarry/internal/domain"
	dompas "github.com/helmfirth/quarry/internal/domain/passage"
)

// store is the consumer interface for passage storage (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Repo implements usecase/ingest.Repository.
type Repo struct {
	store     store
	vectorDim int
	hnsw      HNSWConfig
}

// New creates a passage repository.
func New(s store, vectorDim int) *Repo {
	return &Repo{store: s, vectorDim: vectorDim, hnsw: HNSWConfig{M: 32, EFConstruct: 400}}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// EnsureIndex creates the passage search index when it does not exist yet.
// Safe to call on every startup.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, IndexName())
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def := buildIndex(r.vectorDim, r.store.SupportsTextSearch(ctx), r.hnsw)
	if err := r.store.CreateIndex(ctx, def); err != nil {
		// Lost the race against a concurrent startup.
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Create stores a new passage. Returns domain.ErrAlreadyExists on a duplicate id.
func (r *Repo) Create(ctx context.Context, p dompas.Passage) error {
	key := passageKey(p.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	if err := r.store.HSet(ctx, key, buildHashFields(&p)); err != nil {
		return fmt.Errorf("hset passage %s: %w", key, err)
	}
	return nil
}

// Get returns a passage by id.
func (r *Repo) Get(ctx context.Context, id string) (dompas.Passage, error) {
	key := passageKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return dompas.Passage{}, fmt.Errorf("hgetall passage %s: %w", key, err)
	}
	if len(m) == 0 {
		return dompas.Passage{}, domain.ErrPassageNotFound
	}
	return parseHashFields(id, m), nil
}

// Delete removes a passage. Returns domain.ErrPassageNotFound when absent.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := passageKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrPassageNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del passage %s: %w", key, err)
	}
	return nil
}
