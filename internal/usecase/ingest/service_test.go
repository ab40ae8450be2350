package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/helmfirth/quarry/internal/domain"
	dompas "github.com/helmfirth/quarry/internal/domain/passage"
)

type mockRepo struct {
	createFn func(ctx context.Context, p dompas.Passage) error
	getFn    func(ctx context.Context, id string) (dompas.Passage, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockRepo) Create(ctx context.Context, p dompas.Passage) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (dompas.Passage, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return dompas.Passage{}, nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func testPassage(t *testing.T) dompas.Passage {
	t.Helper()
	p, err := dompas.New("p-1", "Your LTV:CAC ratio should be at least 3:1.",
		"Unit Economics 101", "saas-metrics-handbook",
		"implementation", "growth", nil, 0.85,
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build passage: %v", err)
	}
	return p
}

func TestIngest_HappyPath(t *testing.T) {
	embedder := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}

	var stored dompas.Passage
	repo := &mockRepo{createFn: func(_ context.Context, p dompas.Passage) error {
		stored = p
		return nil
	}}

	svc := New(repo, embedder, 3)
	p, err := svc.Ingest(context.Background(), testPassage(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Vector()) != 3 {
		t.Fatalf("returned passage has no vector: %v", p.Vector())
	}
	if len(stored.Vector()) != 3 || stored.Vector()[0] != 0.1 {
		t.Fatalf("stored passage vector = %v", stored.Vector())
	}
}

func TestIngest_DimensionMismatch(t *testing.T) {
	embedder := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2},
	}}
	repo := &mockRepo{createFn: func(_ context.Context, _ dompas.Passage) error {
		t.Fatal("Create must not be called on dimension mismatch")
		return nil
	}}

	svc := New(repo, embedder, 3)
	if _, err := svc.Ingest(context.Background(), testPassage(t)); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestIngest_EmbedError(t *testing.T) {
	embedder := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	svc := New(&mockRepo{}, embedder, 0)

	_, err := svc.Ingest(context.Background(), testPassage(t))
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected embedding error, got %v", err)
	}
}

func TestIngest_CreateError(t *testing.T) {
	embedder := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}
	repo := &mockRepo{createFn: func(_ context.Context, _ dompas.Passage) error {
		return domain.ErrAlreadyExists
	}}

	svc := New(repo, embedder, 0)
	_, err := svc.Ingest(context.Background(), testPassage(t))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGet_PropagatesNotFound(t *testing.T) {
	repo := &mockRepo{getFn: func(_ context.Context, _ string) (dompas.Passage, error) {
		return dompas.Passage{}, domain.ErrPassageNotFound
	}}

	svc := New(repo, &mockEmbedder{}, 0)
	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrPassageNotFound) {
		t.Fatalf("expected ErrPassageNotFound, got %v", err)
	}
}

func TestDelete_PropagatesNotFound(t *testing.T) {
	repo := &mockRepo{deleteFn: func(_ context.Context, _ string) error {
		return domain.ErrPassageNotFound
	}}

	svc := New(repo, &mockEmbedder{}, 0)
	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrPassageNotFound) {
		t.Fatalf("expected ErrPassageNotFound, got %v", err)
	}
}
