package retrieve

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/helmfirth/quarry/internal/domain/candidate"
	"github.com/helmfirth/quarry/internal/domain/query"
)

// resultCache memoizes merged candidate lists. Keys cover everything that
// changes the fan-out plan: normalized query text, weight profile, and the
// detected-context fingerprint. Entries expire after the configured TTL.
type resultCache struct {
	lru *expirable.LRU[string, []candidate.Candidate]
}

func newResultCache(size int, ttl time.Duration) *resultCache {
	return &resultCache{lru: expirable.NewLRU[string, []candidate.Candidate](size, nil, ttl)}
}

func cacheKey(q query.Query) string {
	p := q.Params()
	bc := q.Context()

	h := sha256.New()
	io.WriteString(h, q.Normalized())
	io.WriteString(h, "|")
	io.WriteString(h, p.Weights().Hash())
	io.WriteString(h, "|")
	io.WriteString(h, bc.Fingerprint())
	return hex.EncodeToString(h.Sum(nil))
}

// get returns a copy so callers can never mutate a cached entry.
func (c *resultCache) get(q query.Query) ([]candidate.Candidate, bool) {
	cached, ok := c.lru.Get(cacheKey(q))
	if !ok {
		return nil, false
	}
	out := make([]candidate.Candidate, len(cached))
	copy(out, cached)
	return out, true
}

func (c *resultCache) add(q query.Query, cands []candidate.Candidate) {
	stored := make([]candidate.Candidate, len(cands))
	copy(stored, cands)
	c.lru.Add(cacheKey(q), stored)
}
