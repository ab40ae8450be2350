package search

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/helmfirth/quarry/internal/db"
	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/domain/candidate"
	"github.com/helmfirth/quarry/internal/usecase/retrieve"
)

// --- SemanticSearch ---

func TestSemanticSearch_HappyPath(t *testing.T) {
	repo, ms, _ := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.IndexName != "quarry:passages:idx" {
			t.Errorf("index = %s", q.IndexName)
		}
		if q.K != 6 {
			t.Errorf("K = %d, want 6", q.K)
		}
		if q.Phase != "" {
			t.Errorf("phase = %q, want empty", q.Phase)
		}
		if len(q.Vector) != 3 {
			t.Errorf("vector dim = %d", len(q.Vector))
		}
		return &db.SearchResult{Total: 2, Entries: []db.SearchEntry{
			entry("quarry:passage:p-1", 0.92, map[string]string{
				"content":    "LTV:CAC of 3:1 is the SaaS benchmark.",
				"intent":     "benchmarking",
				"phase":      "growth",
				"frameworks": "Pirate Metrics,Sales Velocity",
				"authority":  "0.85",
			}),
			entry("quarry:passage:p-2", 0.55, map[string]string{
				"content": "Generic advice.",
			}),
		}}, nil
	}

	cands, err := repo.SemanticSearch(context.Background(), "ltv cac ratio",
		retrieve.SearchOptions{MaxResults: 6, SimilarityThreshold: 0.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}

	c := cands[0]
	if c.ID() != "p-1" {
		t.Errorf("id = %s, want key prefix trimmed", c.ID())
	}
	if c.Similarity() != 0.92 {
		t.Errorf("similarity = %v", c.Similarity())
	}
	if c.IntentTag() != "benchmarking" || c.PhaseTag() != "growth" {
		t.Errorf("tags = %s/%s", c.IntentTag(), c.PhaseTag())
	}
	if len(c.FrameworkTags()) != 2 || c.FrameworkTags()[1] != "Sales Velocity" {
		t.Errorf("frameworks = %v", c.FrameworkTags())
	}
	if c.Authority() != 0.85 {
		t.Errorf("authority = %v", c.Authority())
	}

	c2 := cands[1]
	if c2.Authority() != candidate.NoSignal || c2.Freshness() != candidate.NoSignal {
		t.Error("expected NoSignal hints when fields are absent")
	}
}

func TestSemanticSearch_ReturnFieldsCarryVectorScore(t *testing.T) {
	repo, ms, _ := newTestRepo(t)

	var returned []string
	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		returned = q.ReturnFields
		// A real server honors the RETURN clause literally: the driver can
		// only derive Score when __vector_score is in the requested set.
		fields := map[string]string{}
		for _, f := range q.ReturnFields {
			if f == "__vector_score" {
				fields["content"] = "exact match"
				return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{
					entry("quarry:passage:p-1", 0.99, fields),
				}}, nil
			}
		}
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{
			entry("quarry:passage:p-1", 0, fields),
		}}, nil
	}

	cands, err := repo.SemanticSearch(context.Background(), "q",
		retrieve.SearchOptions{MaxResults: 5, SimilarityThreshold: 0.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var hasScore bool
	for _, f := range returned {
		if f == "__vector_score" {
			hasScore = true
		}
	}
	if !hasScore {
		t.Fatalf("RETURN fields %v must include __vector_score", returned)
	}
	if len(cands) != 1 || cands[0].Similarity() != 0.99 {
		t.Fatalf("perfect-match hit must survive the threshold, got %v", cands)
	}
}

func TestSemanticSearch_ThresholdFilters(t *testing.T) {
	repo, ms, _ := newTestRepo(t)
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 2, Entries: []db.SearchEntry{
			entry("quarry:passage:hi", 0.80, nil),
			entry("quarry:passage:lo", 0.29, nil),
		}}, nil
	}

	cands, err := repo.SemanticSearch(context.Background(), "q",
		retrieve.SearchOptions{MaxResults: 10, SimilarityThreshold: 0.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 1 || cands[0].ID() != "hi" {
		t.Fatalf("threshold should drop low-score hits, got %d", len(cands))
	}
}

func TestSemanticSearch_PhasePassthrough(t *testing.T) {
	repo, ms, _ := newTestRepo(t)
	var gotPhase string
	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		gotPhase = q.Phase
		return &db.SearchResult{}, nil
	}

	_, err := repo.SemanticSearch(context.Background(), "q",
		retrieve.SearchOptions{MaxResults: 3, Phase: "startup"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPhase != "startup" {
		t.Errorf("phase = %q", gotPhase)
	}
}

func TestSemanticSearch_Freshness(t *testing.T) {
	repo, ms, _ := newTestRepo(t)

	yearAgo := testNow.AddDate(-1, 0, 0).Unix()
	future := testNow.AddDate(0, 1, 0).Unix()
	ancient := testNow.AddDate(-5, 0, 0).Unix()

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 3, Entries: []db.SearchEntry{
			entry("quarry:passage:mid", 0.9, map[string]string{
				"published_at": strconv.FormatInt(yearAgo, 10),
			}),
			entry("quarry:passage:new", 0.8, map[string]string{
				"published_at": strconv.FormatInt(future, 10),
			}),
			entry("quarry:passage:old", 0.7, map[string]string{
				"published_at": strconv.FormatInt(ancient, 10),
			}),
		}}, nil
	}

	cands, err := repo.SemanticSearch(context.Background(), "q",
		retrieve.SearchOptions{MaxResults: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f := cands[0].Freshness(); math.Abs(f-0.5) > 0.01 {
		t.Errorf("one-year-old freshness = %v, want ~0.5", f)
	}
	if f := cands[1].Freshness(); f != 1 {
		t.Errorf("future freshness = %v, want 1", f)
	}
	if f := cands[2].Freshness(); f != 0 {
		t.Errorf("ancient freshness = %v, want 0", f)
	}
}

func TestSemanticSearch_EmbedError(t *testing.T) {
	repo, _, me := newTestRepo(t)
	me.embedFn = func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{}, domain.ErrEmbeddingProviderError
	}

	_, err := repo.SemanticSearch(context.Background(), "q", retrieve.SearchOptions{MaxResults: 3})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected embedding error, got %v", err)
	}
}

func TestSemanticSearch_EmptyCorpus(t *testing.T) {
	repo, _, _ := newTestRepo(t)

	cands, err := repo.SemanticSearch(context.Background(), "q", retrieve.SearchOptions{MaxResults: 3})
	if err != nil {
		t.Fatalf("empty corpus must not error: %v", err)
	}
	if cands == nil || len(cands) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", cands)
	}
}

// --- HybridSearch ---

func TestHybridSearch_Fusion(t *testing.T) {
	repo, ms, _ := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 2, Entries: []db.SearchEntry{
			entry("quarry:passage:a", 0.9, map[string]string{"content": "a-knn"}),
			entry("quarry:passage:b", 0.8, map[string]string{"content": "b-knn"}),
		}}, nil
	}
	ms.searchBM25Fn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		if q.Query != "churn benchmarks" {
			t.Errorf("bm25 query = %q", q.Query)
		}
		return &db.SearchResult{Total: 2, Entries: []db.SearchEntry{
			entry("quarry:passage:b", 12.5, map[string]string{"content": "b-bm25"}),
			entry("quarry:passage:c", 11.0, map[string]string{"content": "c-bm25"}),
		}}, nil
	}

	cands, err := repo.HybridSearch(context.Background(), "churn benchmarks",
		retrieve.SearchOptions{MaxResults: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 3 {
		t.Fatalf("got %d candidates, want 3", len(cands))
	}

	// b appears in both rankings so it fuses highest; normalization pins it at 1.
	if cands[0].ID() != "b" || cands[0].Similarity() != 1 {
		t.Errorf("top = %s score %v, want b at 1", cands[0].ID(), cands[0].Similarity())
	}
	// The doubly ranked entry keeps its KNN-side fields.
	if cands[0].Content() != "b-knn" {
		t.Errorf("content = %q, want KNN entry kept", cands[0].Content())
	}
	// KNN rank 1 beats BM25 rank 2 under RRF.
	if cands[1].ID() != "a" || cands[2].ID() != "c" {
		t.Errorf("order = %s,%s, want a,c", cands[1].ID(), cands[2].ID())
	}
	for _, c := range cands[1:] {
		if c.Similarity() <= 0 || c.Similarity() >= 1 {
			t.Errorf("%s fused score out of (0,1): %v", c.ID(), c.Similarity())
		}
	}
}

func TestHybridSearch_TopKCap(t *testing.T) {
	repo, ms, _ := newTestRepo(t)
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 3, Entries: []db.SearchEntry{
			entry("quarry:passage:a", 0.9, nil),
			entry("quarry:passage:b", 0.8, nil),
			entry("quarry:passage:c", 0.7, nil),
		}}, nil
	}

	cands, err := repo.HybridSearch(context.Background(), "q", retrieve.SearchOptions{MaxResults: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want topK cap 2", len(cands))
	}
}

func TestHybridSearch_NoTextSupport(t *testing.T) {
	repo, ms, _ := newTestRepo(t)
	ms.supportsTextVal = false

	_, err := repo.HybridSearch(context.Background(), "q", retrieve.SearchOptions{MaxResults: 3})
	if !errors.Is(err, domain.ErrKeywordSearchNotSupported) {
		t.Fatalf("expected ErrKeywordSearchNotSupported, got %v", err)
	}
}

func TestHybridSearch_BM25Error(t *testing.T) {
	repo, ms, _ := newTestRepo(t)
	ms.searchBM25Fn = func(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
		return nil, errors.New("FT.SEARCH syntax error")
	}

	if _, err := repo.HybridSearch(context.Background(), "q", retrieve.SearchOptions{MaxResults: 3}); err == nil {
		t.Fatal("expected error")
	}
}

// --- fuseRRF ---

func TestFuseRRF_Empty(t *testing.T) {
	if got := fuseRRF(nil, nil, 5); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestFuseRRF_SingleList(t *testing.T) {
	knn := []db.SearchEntry{
		entry("a", 0.9, nil),
		entry("b", 0.8, nil),
	}
	fused := fuseRRF(knn, nil, 5)
	if len(fused) != 2 {
		t.Fatalf("got %d", len(fused))
	}
	if fused[0].entry.Key != "a" || fused[0].score != 1 {
		t.Errorf("top = %s score %v", fused[0].entry.Key, fused[0].score)
	}
	// 1/62 over 1/61.
	want := (1.0 / 62.0) / (1.0 / 61.0)
	if math.Abs(fused[1].score-want) > 1e-12 {
		t.Errorf("second score = %v, want %v", fused[1].score, want)
	}
}

func TestFuseRRF_TieBreaksByKey(t *testing.T) {
	knn := []db.SearchEntry{entry("z", 0.9, nil)}
	bm25 := []db.SearchEntry{entry("a", 10, nil)}
	fused := fuseRRF(knn, bm25, 5)
	if len(fused) != 2 {
		t.Fatalf("got %d", len(fused))
	}
	if fused[0].entry.Key != "a" || fused[1].entry.Key != "z" {
		t.Errorf("tie order = %s,%s, want a,z", fused[0].entry.Key, fused[1].entry.Key)
	}
}
