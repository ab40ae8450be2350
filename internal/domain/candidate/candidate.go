// Package candidate holds retrieved passages and their ranked form.
// Candidates are read-only to the ranker: ranking produces new Ranked values.
package candidate

// NoSignal marks an absent authority or freshness hint. The ranker substitutes
// its defaults when it sees a negative value.
const NoSignal = -1.0

// Candidate is a passage retrieved by one search strategy.
type Candidate struct {
	id            string
	content       string
	similarity    float64
	intentTag     string
	phaseTag      string
	frameworkTags []string
	authority     float64
	freshness     float64
}

// New creates a candidate without authority/freshness hints.
func New(id, content string, similarity float64) Candidate {
	return Candidate{
		id: id, content: content, similarity: similarity,
		authority: NoSignal, freshness: NoSignal,
	}
}

// Reconstruct creates a fully populated candidate, as produced by retrieval
// backends. Pass NoSignal for missing authority/freshness hints.
func Reconstruct(
	id, content string, similarity float64,
	intentTag, phaseTag string, frameworkTags []string,
	authority, freshness float64,
) Candidate {
	return Candidate{
		id: id, content: content, similarity: similarity,
		intentTag: intentTag, phaseTag: phaseTag, frameworkTags: frameworkTags,
		authority: authority, freshness: freshness,
	}
}

// WithSimilarity returns a copy with a replaced similarity score.
func (c Candidate) WithSimilarity(s float64) Candidate {
	c.similarity = s
	return c
}

// ID returns the passage identifier.
func (c *Candidate) ID() string { return c.id }

// Content returns the passage text.
func (c *Candidate) Content() string { return c.content }

// Similarity returns the backend-assigned similarity score.
func (c *Candidate) Similarity() float64 { return c.similarity }

// IntentTag returns the passage's declared intent tag ("" when untagged).
func (c *Candidate) IntentTag() string { return c.intentTag }

// PhaseTag returns the lifecycle stage the passage targets ("all" or "" when generic).
func (c *Candidate) PhaseTag() string { return c.phaseTag }

// FrameworkTags returns the frameworks the passage is tagged with.
func (c *Candidate) FrameworkTags() []string { return c.frameworkTags }

// Authority returns the authority hint, or NoSignal when absent.
func (c *Candidate) Authority() float64 { return c.authority }

// Freshness returns the recency hint, or NoSignal when absent.
func (c *Candidate) Freshness() float64 { return c.freshness }

// SubScores are the four derived ranking dimensions, each in [0,1].
type SubScores struct {
	Semantic     float64 `json:"semantic"`
	ContextMatch float64 `json:"context_match"`
	Authority    float64 `json:"authority"`
	Freshness    float64 `json:"freshness"`
}

// Ranked is a candidate plus its derived sub-scores and combined score.
// The combined score is a convex combination of the four sub-scores.
type Ranked struct {
	cand     Candidate
	scores   SubScores
	combined float64
}

// NewRanked creates a ranked candidate.
func NewRanked(c Candidate, scores SubScores, combined float64) Ranked {
	return Ranked{cand: c, scores: scores, combined: combined}
}

// Candidate returns the underlying retrieval candidate.
func (r *Ranked) Candidate() Candidate { return r.cand }

// SubScores returns the four ranking dimensions.
func (r *Ranked) SubScores() SubScores { return r.scores }

// Combined returns the weighted combined score in [0,1].
func (r *Ranked) Combined() float64 { return r.combined }
