// Package taxonomy holds the static dictionaries the classifier and expander
// score queries against: intent phrase patterns, business frameworks,
// financial metrics, lifecycle stages, and scenario signals. All tables are
// read-only; treat every exported slice and map as immutable.
package taxonomy

import "github.com/helmfirth/quarry/internal/domain/intent"

// IntentPattern is a weighted phrase. Intent score = Σ weight × occurrences.
type IntentPattern struct {
	Phrase string
	Weight float64
}

// intentPatterns maps each intent to its phrase table. Phrases are matched
// against the normalized (lowercased) query with substring occurrence counts.
var intentPatterns = map[intent.Intent][]IntentPattern{
	intent.Learning: {
		{Phrase: "what is", Weight: 3},
		{Phrase: "what are", Weight: 3},
		{Phrase: "explain", Weight: 3},
		{Phrase: "definition of", Weight: 3},
		{Phrase: "difference between", Weight: 2.5},
		{Phrase: "understand", Weight: 2},
		{Phrase: "learn about", Weight: 2},
		{Phrase: "meaning of", Weight: 2},
		{Phrase: "why does", Weight: 1.5},
	},
	intent.Implementation: {
		{Phrase: "how do i", Weight: 3},
		{Phrase: "how to", Weight: 3},
		{Phrase: "calculate", Weight: 3},
		{Phrase: "implement", Weight: 3},
		{Phrase: "steps to", Weight: 2.5},
		{Phrase: "set up", Weight: 2.5},
		{Phrase: "build a", Weight: 2},
		{Phrase: "create a", Weight: 2},
		{Phrase: "apply", Weight: 1.5},
		{Phrase: "formula", Weight: 1.5},
	},
	intent.Troubleshooting: {
		{Phrase: "not working", Weight: 3},
		{Phrase: "fix", Weight: 3},
		{Phrase: "went wrong", Weight: 3},
		{Phrase: "failing", Weight: 2.5},
		{Phrase: "problem with", Weight: 2.5},
		{Phrase: "struggling", Weight: 2.5},
		{Phrase: "declining", Weight: 2},
		{Phrase: "dropping", Weight: 2},
		{Phrase: "stuck", Weight: 2},
		{Phrase: "issue", Weight: 1.5},
	},
	intent.Optimization: {
		{Phrase: "optimize", Weight: 3},
		{Phrase: "improve", Weight: 3},
		{Phrase: "maximize", Weight: 2.5},
		{Phrase: "increase", Weight: 2.5},
		{Phrase: "reduce", Weight: 2.5},
		{Phrase: "boost", Weight: 2},
		{Phrase: "more efficient", Weight: 2},
		{Phrase: "lower", Weight: 1.5},
		{Phrase: "better", Weight: 1},
	},
	intent.Benchmarking: {
		{Phrase: "benchmark", Weight: 3},
		{Phrase: "industry standard", Weight: 3},
		{Phrase: "industry average", Weight: 3},
		{Phrase: "what is a good", Weight: 2.5},
		{Phrase: "typical", Weight: 2},
		{Phrase: "compare to", Weight: 2},
		{Phrase: "average", Weight: 1.5},
		{Phrase: "versus", Weight: 1.5},
	},
	intent.Planning: {
		{Phrase: "roadmap", Weight: 3},
		{Phrase: "plan for", Weight: 3},
		{Phrase: "strategy for", Weight: 2.5},
		{Phrase: "should i", Weight: 2},
		{Phrase: "prioritize", Weight: 2.5},
		{Phrase: "next quarter", Weight: 2},
		{Phrase: "next year", Weight: 2},
		{Phrase: "forecast", Weight: 2},
		{Phrase: "budget for", Weight: 2},
	},
	intent.Research: {
		{Phrase: "research", Weight: 2},
		{Phrase: "alternatives to", Weight: 2},
		{Phrase: "explore", Weight: 1.5},
		{Phrase: "options for", Weight: 1.5},
		{Phrase: "examples of", Weight: 1.5},
		{Phrase: "case stud", Weight: 1.5},
	},
}

// IntentPatterns returns the phrase table for one intent.
func IntentPatterns(i intent.Intent) []IntentPattern {
	return intentPatterns[i]
}

// Urgency, specificity and scope keyword lookups. Presence of any keyword
// flips the tag; absence keeps the default.
var (
	urgencyKeywords = []string{
		"urgent", "asap", "immediately", "right now", "today", "this week",
		"running out", "emergency",
	}
	specificityKeywords = []string{
		"my ", "our ", "we ", "specifically", "exactly", "for a", "for my",
	}
	strategicKeywords = []string{
		"long term", "long-term", "strategy", "strategic", "vision",
		"next year", "3 year", "five year", "roadmap", "positioning",
	}
)

// UrgencyKeywords returns phrases that mark a query as immediate.
func UrgencyKeywords() []string { return urgencyKeywords }

// SpecificityKeywords returns phrases that mark a query as specific.
func SpecificityKeywords() []string { return specificityKeywords }

// StrategicKeywords returns phrases that mark a query as strategic scope.
func StrategicKeywords() []string { return strategicKeywords }
