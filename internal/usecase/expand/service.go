// Package expand augments a question with taxonomy vocabulary so retrieval
// matches corpus terminology the asker did not use.
package expand

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/helmfirth/quarry/internal/domain/bizctx"
	"github.com/helmfirth/quarry/internal/taxonomy"
)

// Expansion limits. More contributors or terms dilutes the embedding toward
// taxonomy boilerplate instead of the asker's question.
const (
	DefaultMaxContributors     = 3
	DefaultTermsPerContributor = 3
)

// Service rewrites queries. Stateless and safe for concurrent use.
type Service struct {
	maxContributors     int
	termsPerContributor int
}

// New creates an expander with the default limits.
func New() *Service {
	return &Service{
		maxContributors:     DefaultMaxContributors,
		termsPerContributor: DefaultTermsPerContributor,
	}
}

// contributor is one detected signal that can donate vocabulary.
type contributor struct {
	score float64
	terms []string
}

// Expand appends vocabulary from the strongest detected frameworks and
// metrics to the query text. Pure text transformation: deterministic, no
// side effects. Returns the input unchanged when the context carries no
// usable signal.
func (s *Service) Expand(original string, bc bizctx.Context) string {
	contributors := collect(bc)
	if len(contributors) == 0 {
		return original
	}

	// Strongest signals first; the taxonomy table order breaks score ties
	// because collect preserves the context's deterministic ordering.
	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].score > contributors[j].score
	})
	if len(contributors) > s.maxContributors {
		contributors = contributors[:s.maxContributors]
	}

	seen := strings.ToLower(original)
	var appended []string
	for _, c := range contributors {
		taken := 0
		for _, term := range c.terms {
			if taken == s.termsPerContributor {
				break
			}
			lower := strings.ToLower(term)
			if containsPhrase(seen, lower) {
				continue
			}
			appended = append(appended, lower)
			seen += " " + lower
			taken++
		}
	}

	if len(appended) == 0 {
		return original
	}
	return original + " " + strings.Join(appended, " ")
}

// containsPhrase reports whether phrase occurs in text on word boundaries.
// A bare substring match would drop a term that only appears inside a longer
// word. Both arguments must already be lowercased.
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return true
	}
	for from := 0; ; {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(phrase)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}
		from = start + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// collect gathers vocabulary donors from the context. Frameworks donate
// their expansion vocabulary; metrics donate calculation terms first, then
// benchmarking terms.
func collect(bc bizctx.Context) []contributor {
	var out []contributor
	for _, f := range bc.Frameworks() {
		fw, ok := taxonomy.FrameworkByName(f.Name())
		if !ok || len(fw.Vocabulary) == 0 {
			continue
		}
		out = append(out, contributor{score: f.Score(), terms: fw.Vocabulary})
	}
	for _, m := range bc.Metrics() {
		met, ok := taxonomy.MetricByName(m.Name())
		if !ok {
			continue
		}
		terms := make([]string, 0, len(met.CalcTerms)+len(met.BenchmarkTerms))
		terms = append(terms, met.CalcTerms...)
		terms = append(terms, met.BenchmarkTerms...)
		if len(terms) == 0 {
			continue
		}
		out = append(out, contributor{score: m.Confidence(), terms: terms})
	}
	return out
}
