package quarry

import (
	"context"
	"fmt"
	"time"

	dompas "github.com/helmfirth/quarry/internal/domain/passage"
)

// PassageService manages knowledge base passages.
type PassageService struct {
	svc ingestUseCase
	obs *observer
}

// Passages returns the passage ingestion service.
func (c *Client) Passages() *PassageService {
	return &PassageService{svc: c.ingestSvc, obs: c.obs}
}

// Ingest validates a passage, embeds its content, and stores it.
// Returns the stored passage with its vector dimension populated.
func (s *PassageService) Ingest(ctx context.Context, p Passage) (stored Passage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("ingest", start, err) }()

	d, err := toInternalPassage(p)
	if err != nil {
		return Passage{}, fmt.Errorf("ingest: %w", err)
	}
	out, err := s.svc.Ingest(ctx, d)
	if err != nil {
		return Passage{}, fmt.Errorf("ingest: %w", err)
	}
	return fromInternalPassage(&out), nil
}

// Get retrieves a passage by ID.
func (s *PassageService) Get(ctx context.Context, id string) (p Passage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("get_passage", start, err) }()

	d, err := s.svc.Get(ctx, id)
	if err != nil {
		return Passage{}, fmt.Errorf("get passage: %w", err)
	}
	return fromInternalPassage(&d), nil
}

// Delete removes a passage by ID.
func (s *PassageService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("delete_passage", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete passage: %w", err)
	}
	return nil
}

func toInternalPassage(p Passage) (dompas.Passage, error) {
	d, err := dompas.New(
		p.ID, p.Content, p.Title, p.Source,
		p.Intent, p.Phase, p.Frameworks,
		p.Authority, p.PublishedAt,
	)
	if err != nil {
		return dompas.Passage{}, fmt.Errorf("validate passage: %w", err)
	}
	return d, nil
}

func fromInternalPassage(d *dompas.Passage) Passage {
	return Passage{
		ID:          d.ID(),
		Content:     d.Content(),
		Title:       d.Title(),
		Source:      d.Source(),
		Intent:      d.IntentTag(),
		Phase:       d.PhaseTag(),
		Frameworks:  d.Frameworks(),
		Authority:   d.Authority(),
		PublishedAt: d.PublishedAt(),
		VectorDim:   len(d.Vector()),
	}
}
