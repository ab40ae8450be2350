// Package bizctx holds the business context inferred from a query: detected
// frameworks, financial metrics, lifecycle-stage signals, and scenarios.
package bizctx

import (
	"sort"
	"strings"
)

// FrameworkMatch is a detected business framework with its relevance score.
type FrameworkMatch struct {
	name       string
	score      float64
	components []string
}

// NewFrameworkMatch creates a framework match.
func NewFrameworkMatch(name string, score float64, components []string) FrameworkMatch {
	return FrameworkMatch{name: name, score: score, components: components}
}

// Name returns the canonical framework name.
func (f *FrameworkMatch) Name() string { return f.name }

// Score returns the relevance score in [0,1].
func (f *FrameworkMatch) Score() float64 { return f.score }

// Components returns the matched key components.
func (f *FrameworkMatch) Components() []string { return f.components }

// MetricMatch is a detected financial metric.
type MetricMatch struct {
	name       string
	category   string
	variant    string
	confidence float64
}

// NewMetricMatch creates a metric match.
func NewMetricMatch(name, category, variant string, confidence float64) MetricMatch {
	return MetricMatch{name: name, category: category, variant: variant, confidence: confidence}
}

// Name returns the canonical metric name.
func (m *MetricMatch) Name() string { return m.name }

// Category returns the metric category (unit economics, revenue, retention...).
func (m *MetricMatch) Category() string { return m.category }

// Variant returns the matched spelling variant.
func (m *MetricMatch) Variant() string { return m.variant }

// Confidence returns the detection confidence in [0,1].
func (m *MetricMatch) Confidence() float64 { return m.confidence }

// StageMatch is a detected business lifecycle stage.
type StageMatch struct {
	stage   string
	signals []string
}

// NewStageMatch creates a stage match.
func NewStageMatch(stage string, signals []string) StageMatch {
	return StageMatch{stage: stage, signals: signals}
}

// Stage returns the lifecycle stage name.
func (s *StageMatch) Stage() string { return s.stage }

// Signals returns the evidence behind the stage detection.
func (s *StageMatch) Signals() []string { return s.signals }

// Context is the bundle of business signals detected in one query.
// Frameworks and metrics are keyed by canonical name (no duplicates) and
// ordered strongest first.
type Context struct {
	frameworks []FrameworkMatch
	metrics    []MetricMatch
	stage      *StageMatch
	scenarios  []string
}

// New creates a business context. Frameworks and metrics are sorted by score
// descending (name ascending on ties) so downstream ordering is deterministic.
func New(
	frameworks []FrameworkMatch, metrics []MetricMatch,
	stage *StageMatch, scenarios []string,
) Context {
	sort.SliceStable(frameworks, func(i, j int) bool {
		if frameworks[i].score != frameworks[j].score {
			return frameworks[i].score > frameworks[j].score
		}
		return frameworks[i].name < frameworks[j].name
	})
	sort.SliceStable(metrics, func(i, j int) bool {
		if metrics[i].confidence != metrics[j].confidence {
			return metrics[i].confidence > metrics[j].confidence
		}
		return metrics[i].name < metrics[j].name
	})
	return Context{frameworks: frameworks, metrics: metrics, stage: stage, scenarios: scenarios}
}

// Empty returns a context with no detected signals.
func Empty() Context { return Context{} }

// Frameworks returns detected frameworks, strongest first.
func (c *Context) Frameworks() []FrameworkMatch { return c.frameworks }

// Metrics returns detected metrics, strongest first.
func (c *Context) Metrics() []MetricMatch { return c.metrics }

// Stage returns the detected lifecycle stage (nil when none).
func (c *Context) Stage() *StageMatch { return c.stage }

// Scenarios returns detected scenario names.
func (c *Context) Scenarios() []string { return c.scenarios }

// IsEmpty reports whether no signal of any kind was detected.
func (c *Context) IsEmpty() bool {
	return len(c.frameworks) == 0 && len(c.metrics) == 0 &&
		c.stage == nil && len(c.scenarios) == 0
}

// Fingerprint returns a stable string identifying the signals that change the
// retrieval fan-out plan. Used in cache keys.
func (c *Context) Fingerprint() string {
	var b strings.Builder
	for _, f := range c.frameworks {
		b.WriteString("f=")
		b.WriteString(f.name)
		b.WriteByte(';')
	}
	for _, m := range c.metrics {
		b.WriteString("m=")
		b.WriteString(m.name)
		b.WriteByte(';')
	}
	if c.stage != nil {
		b.WriteString("s=")
		b.WriteString(c.stage.stage)
		b.WriteByte(';')
	}
	return b.String()
}
