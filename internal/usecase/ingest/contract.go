package ingest

import (
	"context"

	"github.com/helmfirth/quarry/internal/domain"
	dompas "github.com/helmfirth/quarry/internal/domain/passage"
)

// Repository persists passages.
type Repository interface {
	Create(ctx context.Context, p dompas.Passage) error
	Get(ctx context.Context, id string) (dompas.Passage, error)
	Delete(ctx context.Context, id string) error
}

// Embedder vectorizes passage content.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
