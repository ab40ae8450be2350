package passage

import (
	"context"
	"errors"
	"testing"

	"github.com/helmfirth/quarry/internal/db"
	"github.com/helmfirth/quarry/internal/domain"
)

// --- Create ---

func TestCreate_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()
	p := testPassage(t)

	var gotFields map[string]string
	ms.existsFn = func(_ context.Context, key string) (bool, error) {
		if key != "quarry:passage:p-1" {
			t.Errorf("unexpected key: %s", key)
		}
		return false, nil
	}
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != "quarry:passage:p-1" {
			t.Errorf("unexpected key: %s", key)
		}
		gotFields = fields
		return nil
	}

	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFields["content"] != p.Content() {
		t.Errorf("content not stored: %q", gotFields["content"])
	}
	if gotFields["frameworks"] != "Pirate Metrics,Sales Velocity" {
		t.Errorf("frameworks tag = %q", gotFields["frameworks"])
	}
	if gotFields["authority"] != "0.85" {
		t.Errorf("authority = %q", gotFields["authority"])
	}
	if gotFields["published_at"] == "" {
		t.Error("published_at missing")
	}
	if len(gotFields["vector"]) != 8*4 {
		t.Errorf("vector bytes = %d, want 32", len(gotFields["vector"]))
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	err := repo.Create(context.Background(), testPassage(t))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_HSetError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("OOM")
	}

	if err := repo.Create(context.Background(), testPassage(t)); err == nil {
		t.Fatal("expected error on HSET failure")
	}
}

// --- Get ---

func TestGet_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	p := testPassage(t)

	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "quarry:passage:p-1" {
			t.Errorf("unexpected key: %s", key)
		}
		return buildHashFields(&p), nil
	}

	got, err := repo.Get(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != "p-1" || got.Content() != p.Content() {
		t.Errorf("roundtrip mismatch: id=%s content=%q", got.ID(), got.Content())
	}
	if got.Authority() != 0.85 {
		t.Errorf("authority = %v", got.Authority())
	}
	if !got.PublishedAt().Equal(p.PublishedAt()) {
		t.Errorf("published_at = %v, want %v", got.PublishedAt(), p.PublishedAt())
	}
	if len(got.Frameworks()) != 2 || got.Frameworks()[0] != "Pirate Metrics" {
		t.Errorf("frameworks = %v", got.Frameworks())
	}
	if len(got.Vector()) != 8 {
		t.Errorf("vector dim = %d", len(got.Vector()))
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrPassageNotFound) {
		t.Fatalf("expected ErrPassageNotFound, got %v", err)
	}
}

func TestGet_UntaggedPassage(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{"content": "plain advice"}, nil
	}

	got, err := repo.Get(context.Background(), "p-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IntentTag() != "" || got.PhaseTag() != "" || got.Frameworks() != nil {
		t.Error("expected empty tags for untagged passage")
	}
	if got.Authority() != 0 || !got.PublishedAt().IsZero() {
		t.Error("expected zero hints for untagged passage")
	}
}

// --- Delete ---

func TestDelete_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	var deleted string
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}

	if err := repo.Delete(context.Background(), "p-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "quarry:passage:p-1" {
		t.Errorf("deleted key = %s", deleted)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrPassageNotFound) {
		t.Fatalf("expected ErrPassageNotFound, got %v", err)
	}
}

// --- EnsureIndex ---

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotDef *db.IndexDefinition
	ms.indexExistsFn = func(_ context.Context, name string) (bool, error) {
		if name != "quarry:passages:idx" {
			t.Errorf("unexpected index name: %s", name)
		}
		return false, nil
	}
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		gotDef = def
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDef == nil {
		t.Fatal("expected CreateIndex call")
	}
	if gotDef.Name != "quarry:passages:idx" {
		t.Errorf("index name = %s", gotDef.Name)
	}
	if gotDef.Prefixes[0] != "quarry:passage:" {
		t.Errorf("prefix = %s", gotDef.Prefixes[0])
	}

	byName := make(map[string]db.IndexField, len(gotDef.Fields))
	for _, f := range gotDef.Fields {
		byName[f.Name] = f
	}
	if byName["content"].Type != db.IndexFieldText {
		t.Error("content should be TEXT when backend supports it")
	}
	if byName["frameworks"].TagSeparator != "," {
		t.Error("frameworks TAG separator should be comma")
	}
	vec := byName["vector"]
	if vec.Type != db.IndexFieldVector || vec.VectorAlgo != db.VectorHNSW {
		t.Error("vector field should be HNSW VECTOR")
	}
	if vec.VectorDim != 1536 || vec.VectorDistance != db.DistanceCosine {
		t.Errorf("vector dim/distance = %d/%s", vec.VectorDim, vec.VectorDistance)
	}
}

func TestEnsureIndex_SkipsWhenPresent(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		t.Fatal("CreateIndex should not be called")
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndex_NoTextField(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextVal = false

	var gotDef *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		gotDef = def
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, f := range gotDef.Fields {
		if f.Type == db.IndexFieldText {
			t.Fatal("unexpected TEXT field without backend support")
		}
	}
}

func TestEnsureIndex_LostCreateRace(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return db.ErrIndexExists
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("expected race to be tolerated, got %v", err)
	}
}
