// Package passage holds the ingested corpus unit: a cited text passage with
// its retrieval tags and ranking hints.
package passage

import (
	"fmt"
	"strings"
	"time"
)

// MaxContentBytes caps passage size; larger texts should be chunked upstream.
const MaxContentBytes = 32 * 1024

// Passage is one ingested corpus passage.
type Passage struct {
	id          string
	content     string
	title       string
	source      string
	intentTag   string
	phaseTag    string
	frameworks  []string
	authority   float64
	publishedAt time.Time
	vector      []float32
}

// New validates and creates a passage. Authority must be in [0,1] (0 = let the
// ranker fall back to its default). The vector is attached later by ingestion.
func New(
	id, content, title, source string,
	intentTag, phaseTag string, frameworks []string,
	authority float64, publishedAt time.Time,
) (Passage, error) {
	if strings.TrimSpace(id) == "" {
		return Passage{}, fmt.Errorf("passage id is required")
	}
	if strings.TrimSpace(content) == "" {
		return Passage{}, fmt.Errorf("passage content is required")
	}
	if len(content) > MaxContentBytes {
		return Passage{}, fmt.Errorf("passage content too large (max %d bytes)", MaxContentBytes)
	}
	if authority < 0 || authority > 1 {
		return Passage{}, fmt.Errorf("authority must be between 0 and 1")
	}
	return Passage{
		id: id, content: content, title: title, source: source,
		intentTag: intentTag, phaseTag: phaseTag, frameworks: frameworks,
		authority: authority, publishedAt: publishedAt,
	}, nil
}

// Reconstruct rebuilds a passage from storage without validation.
func Reconstruct(
	id, content, title, source string,
	intentTag, phaseTag string, frameworks []string,
	authority float64, publishedAt time.Time, vector []float32,
) Passage {
	return Passage{
		id: id, content: content, title: title, source: source,
		intentTag: intentTag, phaseTag: phaseTag, frameworks: frameworks,
		authority: authority, publishedAt: publishedAt, vector: vector,
	}
}

// WithVector returns a copy carrying the embedding vector.
func (p Passage) WithVector(v []float32) Passage {
	p.vector = v
	return p
}

// ID returns the passage identifier.
func (p *Passage) ID() string { return p.id }

// Content returns the passage text.
func (p *Passage) Content() string { return p.content }

// Title returns the citation title.
func (p *Passage) Title() string { return p.title }

// Source returns the citation source (book, article, url).
func (p *Passage) Source() string { return p.source }

// IntentTag returns the intent the passage best serves ("" when untagged).
func (p *Passage) IntentTag() string { return p.intentTag }

// PhaseTag returns the lifecycle stage the passage targets ("all" for generic).
func (p *Passage) PhaseTag() string { return p.phaseTag }

// Frameworks returns the framework tags.
func (p *Passage) Frameworks() []string { return p.frameworks }

// Authority returns the editorial authority level in [0,1].
func (p *Passage) Authority() float64 { return p.authority }

// PublishedAt returns the publication time (zero when unknown).
func (p *Passage) PublishedAt() time.Time { return p.publishedAt }

// Vector returns the embedding vector (nil before ingestion).
func (p *Passage) Vector() []float32 { return p.vector }
