// Package classify scores a raw question against the taxonomy dictionaries to
// produce an intent and a structured business context.
package classify

import (
	"math"
	"sort"
	"strings"

	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/domain/bizctx"
	"github.com/helmfirth/quarry/internal/domain/intent"
	"github.com/helmfirth/quarry/internal/domain/query"
	"github.com/helmfirth/quarry/internal/taxonomy"
)

// Tuning constants. These are output contracts, not derived values: changing
// them silently changes confidence scores and framework inclusion for every
// caller, so they are named and overridable but default to the historical
// values.
const (
	// DefaultConfidenceNorm divides the raw intent score; 2-3 strong phrase
	// matches saturate confidence at 1.0.
	DefaultConfidenceNorm = 10.0
	// DefaultFrameworkFloor drops frameworks scored at or below it.
	DefaultFrameworkFloor = 0.3
	// DefaultMetricFloor drops metric detections below it.
	DefaultMetricFloor = 0.2
)

// Framework relevance contributions per evidence kind.
const (
	directMentionWeight = 0.8
	componentWeight     = 0.3
	indicatorWeight     = 0.2
)

// Metric detection scoring.
const (
	exactVariantConfidence = 0.9
	overlapScale           = 0.7
)

// Tuning overrides the scoring constants. Zero fields keep the defaults.
type Tuning struct {
	ConfidenceNorm float64
	FrameworkFloor float64
	MetricFloor    float64
}

// Service classifies queries. Stateless and safe for concurrent use.
type Service struct {
	confidenceNorm float64
	frameworkFloor float64
	metricFloor    float64
}

// New creates a classifier with the given tuning (zero values = defaults).
func New(t Tuning) *Service {
	s := &Service{
		confidenceNorm: DefaultConfidenceNorm,
		frameworkFloor: DefaultFrameworkFloor,
		metricFloor:    DefaultMetricFloor,
	}
	if t.ConfidenceNorm > 0 {
		s.confidenceNorm = t.ConfidenceNorm
	}
	if t.FrameworkFloor > 0 {
		s.frameworkFloor = t.FrameworkFloor
	}
	if t.MetricFloor > 0 {
		s.metricFloor = t.MetricFloor
	}
	return s
}

// Classify scores the question against the intent and context dictionaries.
// It never fails: a query with no recognizable signal yields the default
// intent (research, confidence 0) and an empty context.
func (s *Service) Classify(
	raw string, user *domain.UserContext, history []string,
) (intent.Classified, bizctx.Context) {
	normalized := query.Normalize(raw)
	if normalized == "" {
		return intent.Default(), bizctx.Empty()
	}

	classified := s.classifyIntent(normalized)
	bc := bizctx.New(
		s.detectFrameworks(normalized),
		s.detectMetrics(normalized),
		s.detectStage(normalized, user, history),
		detectScenarios(normalized),
	)
	return classified, bc
}

// classifyIntent sums pattern weight × occurrences per intent and picks the
// highest nonzero total. Enumeration order breaks ties: the first wins.
func (s *Service) classifyIntent(normalized string) intent.Classified {
	type scored struct {
		in    intent.Intent
		score float64
	}

	var best scored
	var evidence []string
	var others []scored

	for _, in := range intent.All() {
		var score float64
		var matched []string
		for _, p := range taxonomy.IntentPatterns(in) {
			if n := strings.Count(normalized, p.Phrase); n > 0 {
				score += p.Weight * float64(n)
				matched = append(matched, p.Phrase)
			}
		}
		if score == 0 {
			continue
		}
		if score > best.score {
			if best.score > 0 {
				others = append(others, best)
			}
			best = scored{in: in, score: score}
			evidence = matched
		} else {
			others = append(others, scored{in: in, score: score})
		}
	}

	if best.score == 0 {
		return defaultWithTags(normalized)
	}

	sort.SliceStable(others, func(i, j int) bool {
		return others[i].score > others[j].score
	})
	secondary := make([]intent.Intent, len(others))
	for i, o := range others {
		secondary[i] = o.in
	}

	confidence := math.Min(1.0, best.score/s.confidenceNorm)
	return intent.NewClassified(
		best.in, confidence, evidence, secondary,
		detectUrgency(normalized), detectSpecificity(normalized), detectScope(normalized),
	)
}

// defaultWithTags keeps the research/zero-confidence default but still runs
// the deterministic tag lookups: absence of intent signal does not mean
// absence of urgency or scope signal.
func defaultWithTags(normalized string) intent.Classified {
	return intent.NewClassified(
		intent.Research, 0, nil, nil,
		detectUrgency(normalized), detectSpecificity(normalized), detectScope(normalized),
	)
}

// detectFrameworks scores each known framework: direct mention 0.8, each key
// component 0.3, each contextual indicator 0.2, clamped to 1.0. Frameworks at
// or below the floor are dropped.
func (s *Service) detectFrameworks(normalized string) []bizctx.FrameworkMatch {
	var matches []bizctx.FrameworkMatch
	for _, fw := range taxonomy.Frameworks() {
		var score float64
		var components []string

		if strings.Contains(normalized, strings.ToLower(fw.Name)) {
			score += directMentionWeight
		}
		for _, comp := range fw.Components {
			if strings.Contains(normalized, comp) {
				score += componentWeight
				components = append(components, comp)
			}
		}
		for _, ind := range fw.Indicators {
			if strings.Contains(normalized, ind) {
				score += indicatorWeight
			}
		}

		score = math.Min(1.0, score)
		if score > s.frameworkFloor {
			matches = append(matches, bizctx.NewFrameworkMatch(fw.Name, score, components))
		}
	}
	return matches
}

// detectMetrics matches metric variants. An exact substring match of any
// variant yields 0.9; otherwise partial word overlap of the strongest variant
// yields matched/total × 0.7. Detections below the floor are dropped.
// Each metric is reported at most once (keyed by canonical name).
func (s *Service) detectMetrics(normalized string) []bizctx.MetricMatch {
	queryWords := wordSet(normalized)

	var matches []bizctx.MetricMatch
	for _, m := range taxonomy.Metrics() {
		bestConf := 0.0
		bestVariant := ""

		for _, v := range m.Variants {
			if strings.Contains(normalized, v) {
				if exactVariantConfidence > bestConf {
					bestConf = exactVariantConfidence
					bestVariant = v
				}
				continue
			}
			words := strings.Fields(v)
			if len(words) < 2 {
				continue // single-word variants match exactly or not at all
			}
			var overlap int
			for _, w := range words {
				if queryWords[w] {
					overlap++
				}
			}
			if conf := float64(overlap) / float64(len(words)) * overlapScale; conf > bestConf {
				bestConf = conf
				bestVariant = v
			}
		}

		if bestConf >= s.metricFloor {
			matches = append(matches, bizctx.NewMetricMatch(m.Name, m.Category, bestVariant, bestConf))
		}
	}
	return matches
}

// detectStage looks for stage signals in the query, then in history, then
// falls back to the caller-supplied revenue band. First hit wins.
func (s *Service) detectStage(
	normalized string, user *domain.UserContext, history []string,
) *bizctx.StageMatch {
	if m := stageFromText(normalized); m != nil {
		return m
	}
	for _, h := range history {
		if m := stageFromText(query.Normalize(h)); m != nil {
			return m
		}
	}
	if user != nil {
		if stage := taxonomy.StageForRevenue(user.MonthlyRevenue); stage != "" {
			return stageMatchPtr(bizctx.NewStageMatch(stage, []string{"monthly revenue band"}))
		}
	}
	return nil
}

func stageFromText(normalized string) *bizctx.StageMatch {
	for _, st := range taxonomy.Stages() {
		var signals []string
		for _, sig := range st.Signals {
			if strings.Contains(normalized, sig) {
				signals = append(signals, sig)
			}
		}
		if len(signals) > 0 {
			return stageMatchPtr(bizctx.NewStageMatch(st.Name, signals))
		}
	}
	return nil
}

func stageMatchPtr(m bizctx.StageMatch) *bizctx.StageMatch { return &m }

func detectScenarios(normalized string) []string {
	var names []string
	for _, sc := range taxonomy.Scenarios() {
		for _, kw := range sc.Keywords {
			if strings.Contains(normalized, kw) {
				names = append(names, sc.Name)
				break
			}
		}
	}
	return names
}

func detectUrgency(normalized string) intent.Urgency {
	for _, kw := range taxonomy.UrgencyKeywords() {
		if strings.Contains(normalized, kw) {
			return intent.UrgencyImmediate
		}
	}
	return intent.UrgencyStandard
}

func detectSpecificity(normalized string) intent.Specificity {
	for _, kw := range taxonomy.SpecificityKeywords() {
		if strings.Contains(normalized, kw) {
			return intent.SpecificitySpecific
		}
	}
	return intent.SpecificityBroad
}

func detectScope(normalized string) intent.Scope {
	for _, kw := range taxonomy.StrategicKeywords() {
		if strings.Contains(normalized, kw) {
			return intent.ScopeStrategic
		}
	}
	return intent.ScopeTactical
}

func wordSet(s string) map[string]bool {
	words := strings.Fields(s)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
