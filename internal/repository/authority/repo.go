// Package authority resolves passage ids to citation metadata from the
// passage hashes, with mid-range defaults when the corpus carries no signal.
package authority

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/usecase/answer"
)

// DefaultAuthority is assumed for passages without an editorial rating.
const DefaultAuthority = 0.5

// store is the consumer interface for citation lookups (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements usecase/answer.CitationSource.
type Repo struct {
	store store
}

var _ answer.CitationSource = (*Repo)(nil)

// New creates a citation repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Citation returns citation metadata for a passage id. Missing passages yield
// domain.ErrPassageNotFound; missing fields fall back to defaults.
func (r *Repo) Citation(ctx context.Context, id string) (answer.Citation, error) {
	key := fmt.Sprintf("%spassage:%s", domain.KeyPrefix, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return answer.Citation{}, fmt.Errorf("hgetall citation %s: %w", key, err)
	}
	if len(m) == 0 {
		return answer.Citation{}, domain.ErrPassageNotFound
	}

	c := answer.Citation{
		Title:     m["title"],
		Source:    m["source"],
		Authority: DefaultAuthority,
	}
	if raw := m["authority"]; raw != "" {
		if a, err := strconv.ParseFloat(raw, 64); err == nil && a >= 0 && a <= 1 {
			c.Authority = a
		}
	}
	if raw := m["published_at"]; raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			c.PublishedAt = time.Unix(unix, 0).UTC()
		}
	}
	return c, nil
}
