package quarry

import "time"

// Question is a natural-language business question with optional tuning.
type Question struct {
	Text                string
	History             []string
	UserContext         *UserContext
	Weights             *Weights
	SimilarityThreshold float64
	MaxResults          int
	TopK                int
}

// UserContext carries optional facts about the asking business.
type UserContext struct {
	MonthlyRevenue float64 // USD per month; 0 = unknown
	Industry       string
	TeamSize       int
}

// Weights overrides the per-intent ranking weight preset.
type Weights struct {
	Semantic     float64
	Keyword      float64
	Recency      float64
	Authority    float64
	ContextMatch float64
}

// Answer is the full pipeline response to a question.
type Answer struct {
	Intent        IntentInfo
	Context       ContextInfo
	ExpandedQuery string
	Results       []CitedPassage
}

// IntentInfo describes the classified question intent.
type IntentInfo struct {
	Primary     string
	Confidence  float64
	Secondary   []string
	Urgency     string
	Specificity string
	Scope       string
}

// ContextInfo describes the detected business context.
type ContextInfo struct {
	Frameworks []FrameworkMatch
	Metrics    []MetricMatch
	Stage      *StageMatch
	Scenarios  []string
}

// FrameworkMatch is a detected business framework.
type FrameworkMatch struct {
	Name       string
	Score      float64
	Components []string
}

// MetricMatch is a detected financial metric.
type MetricMatch struct {
	Name       string
	Category   string
	Variant    string
	Confidence float64
}

// StageMatch is the detected business lifecycle stage.
type StageMatch struct {
	Stage   string
	Signals []string
}

// CitedPassage is one ranked result with citation metadata.
type CitedPassage struct {
	ID        string
	Content   string
	Score     float64
	SubScores SubScores
	Citation  Citation
	Guidance  string
}

// SubScores break the combined score into its components.
type SubScores struct {
	Semantic     float64
	ContextMatch float64
	Authority    float64
	Freshness    float64
}

// Citation points at the origin of a passage.
type Citation struct {
	Title       string
	Source      string
	Authority   float64
	PublishedAt time.Time
}

// SearchMode controls which retrieval strategy a direct search uses.
type SearchMode string

// Search mode constants.
const (
	ModeSemantic SearchMode = "semantic"
	ModeHybrid   SearchMode = "hybrid"
)

// SearchQuery is a direct single-strategy search, bypassing the pipeline.
type SearchQuery struct {
	Text                string
	Mode                SearchMode
	MaxResults          int
	SimilarityThreshold float64
	Phase               string
}

// SearchHit is a single direct-search result. Authority and Freshness are
// nil when the passage carries no such signal.
type SearchHit struct {
	ID         string
	Content    string
	Score      float64
	Intent     string
	Phase      string
	Frameworks []string
	Authority  *float64
	Freshness  *float64
}

// Passage is a knowledge base entry for ingestion.
type Passage struct {
	ID          string
	Content     string
	Title       string
	Source      string
	Intent      string
	Phase       string
	Frameworks  []string
	Authority   float64
	PublishedAt time.Time
	VectorDim   int // populated on reads; ignored on ingest
}
