// Package query holds the per-request query aggregate: original and
// normalized text, classification outcome, business context, and search
// parameters. Immutable after construction.
package query

import (
	"strings"

	"github.com/helmfirth/quarry/internal/domain/bizctx"
	"github.com/helmfirth/quarry/internal/domain/intent"
	"github.com/helmfirth/quarry/internal/domain/params"
)

// Query is one classified request. It owns copies of its context and
// parameters; nothing aliases them after creation.
type Query struct {
	original   string
	normalized string
	expanded   string
	classified intent.Classified
	context    bizctx.Context
	params     params.Search
}

// New creates a classified query.
func New(
	original, expanded string,
	classified intent.Classified, context bizctx.Context, p params.Search,
) Query {
	return Query{
		original:   original,
		normalized: Normalize(original),
		expanded:   expanded,
		classified: classified,
		context:    context,
		params:     p,
	}
}

// Normalize lowercases and collapses interior whitespace. Classification and
// cache keying both operate on the normalized form.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Original returns the raw question text.
func (q *Query) Original() string { return q.original }

// Normalized returns the normalized question text.
func (q *Query) Normalized() string { return q.normalized }

// Expanded returns the expanded search text.
func (q *Query) Expanded() string { return q.expanded }

// Intent returns the classification outcome.
func (q *Query) Intent() intent.Classified { return q.classified }

// Context returns the detected business context.
func (q *Query) Context() bizctx.Context { return q.context }

// Params returns the search parameters.
func (q *Query) Params() params.Search { return q.params }
