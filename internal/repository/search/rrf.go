package search

import (
	"sort"

	"github.com/helmfirth/quarry/internal/db"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fusedEntry pairs a search hit with its normalized fused score.
type fusedEntry struct {
	entry db.SearchEntry
	score float64
}

// fuseRRF merges the KNN and BM25 rankings via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
// When a hit appears in both lists the KNN entry is kept (its fields carry
// the vector-side metadata). Fused scores are divided by the maximum so the
// top hit scores 1.
func fuseRRF(knn, bm25 []db.SearchEntry, topK int) []fusedEntry {
	type scored struct {
		entry db.SearchEntry
		score float64
	}

	merged := make(map[string]*scored)

	for rank, e := range knn {
		merged[e.Key] = &scored{entry: e, score: 1.0 / float64(rrfK+rank+1)}
	}

	for rank, e := range bm25 {
		s := 1.0 / float64(rrfK+rank+1)
		if existing, ok := merged[e.Key]; ok {
			existing.score += s
		} else {
			merged[e.Key] = &scored{entry: e, score: s}
		}
	}

	if len(merged) == 0 {
		return nil
	}

	fused := make([]fusedEntry, 0, len(merged))
	var maxScore float64
	for _, s := range merged {
		if s.score > maxScore {
			maxScore = s.score
		}
		fused = append(fused, fusedEntry{entry: s.entry, score: s.score})
	}

	for i := range fused {
		fused[i].score /= maxScore
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].entry.Key < fused[j].entry.Key
	})

	if len(fused) > topK {
		fused = fused[:topK]
	}

	return fused
}
