package answer

import (
	"context"
	"time"
)

// Citation is display metadata for one passage.
type Citation struct {
	Title       string    `json:"title,omitempty"`
	Source      string    `json:"source"`
	Authority   float64   `json:"authority"`
	PublishedAt time.Time `json:"published_at,omitzero"`
}

// CitationSource resolves a passage id to its citation metadata.
type CitationSource interface {
	Citation(ctx context.Context, id string) (Citation, error)
}
