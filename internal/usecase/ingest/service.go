// Package ingest handles corpus passage CRUD with automatic vectorization.
package ingest

import (
	"context"
	"fmt"

	dompas "github.com/helmfirth/quarry/internal/domain/passage"
)

// Service embeds passage content and stores the passage with its vector.
type Service struct {
	repo      Repository
	embedder  Embedder
	vectorDim int
}

// New creates an ingestion service. vectorDim > 0 enables a dimension check
// against the index schema.
func New(repo Repository, embedder Embedder, vectorDim int) *Service {
	return &Service{repo: repo, embedder: embedder, vectorDim: vectorDim}
}

// Ingest vectorizes the passage content and stores it. Returns the stored
// passage carrying its vector.
func (s *Service) Ingest(ctx context.Context, p dompas.Passage) (dompas.Passage, error) {
	result, err := s.embedder.Embed(ctx, p.Content())
	if err != nil {
		return dompas.Passage{}, fmt.Errorf("vectorize passage: %w", err)
	}

	if s.vectorDim > 0 && len(result.Embedding) != s.vectorDim {
		return dompas.Passage{}, fmt.Errorf(
			"vector dimension mismatch: got %d, want %d",
			len(result.Embedding), s.vectorDim,
		)
	}

	p = p.WithVector(result.Embedding)
	if err := s.repo.Create(ctx, p); err != nil {
		return dompas.Passage{}, fmt.Errorf("create passage: %w", err)
	}
	return p, nil
}

// Get returns a passage by id.
func (s *Service) Get(ctx context.Context, id string) (dompas.Passage, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return dompas.Passage{}, fmt.Errorf("get passage: %w", err)
	}
	return p, nil
}

// Delete removes a passage by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete passage: %w", err)
	}
	return nil
}
