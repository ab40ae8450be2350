package intent

// Intent is the caller's high-level goal category.
type Intent string

// Intent constants. All() fixes the enumeration order used for tie-breaking.
const (
	Learning        Intent = "learning"
	Implementation  Intent = "implementation"
	Troubleshooting Intent = "troubleshooting"
	Optimization    Intent = "optimization"
	Benchmarking    Intent = "benchmarking"
	Planning        Intent = "planning"
	Research        Intent = "research"
)

// All returns every intent in enumeration order. Classification iterates this
// order, so the first intent wins score ties.
func All() []Intent {
	return []Intent{
		Learning, Implementation, Troubleshooting,
		Optimization, Benchmarking, Planning, Research,
	}
}

// IsValid checks if the intent is one of the supported values.
func (i Intent) IsValid() bool {
	for _, v := range All() {
		if i == v {
			return true
		}
	}
	return false
}

// Urgency tags how time-pressed the caller sounds.
type Urgency string

// Urgency constants.
const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyStandard  Urgency = "standard"
)

// Specificity tags how narrow the question is.
type Specificity string

// Specificity constants.
const (
	SpecificityBroad    Specificity = "broad"
	SpecificitySpecific Specificity = "specific"
)

// Scope tags the planning horizon of the question.
type Scope string

// Scope constants.
const (
	ScopeTactical  Scope = "tactical"
	ScopeStrategic Scope = "strategic"
)

// Classified is the outcome of intent classification for one query.
type Classified struct {
	primary     Intent
	confidence  float64
	evidence    []string
	secondary   []Intent
	urgency     Urgency
	specificity Specificity
	scope       Scope
}

// NewClassified creates a classification result.
func NewClassified(
	primary Intent, confidence float64, evidence []string, secondary []Intent,
	urgency Urgency, specificity Specificity, scope Scope,
) Classified {
	return Classified{
		primary:     primary,
		confidence:  confidence,
		evidence:    evidence,
		secondary:   secondary,
		urgency:     urgency,
		specificity: specificity,
		scope:       scope,
	}
}

// Default returns the zero-signal classification: research at zero confidence.
func Default() Classified {
	return Classified{
		primary:     Research,
		urgency:     UrgencyStandard,
		specificity: SpecificityBroad,
		scope:       ScopeTactical,
	}
}

// Primary returns the winning intent.
func (c *Classified) Primary() Intent { return c.primary }

// Confidence returns the classification confidence in [0,1].
func (c *Classified) Confidence() float64 { return c.confidence }

// Evidence returns the matched phrases backing the primary intent.
func (c *Classified) Evidence() []string { return c.evidence }

// Secondary returns other intents with nonzero scores, strongest first.
func (c *Classified) Secondary() []Intent { return c.secondary }

// Urgency returns the urgency tag.
func (c *Classified) Urgency() Urgency { return c.urgency }

// Specificity returns the specificity tag.
func (c *Classified) Specificity() Specificity { return c.specificity }

// Scope returns the scope tag.
func (c *Classified) Scope() Scope { return c.scope }
