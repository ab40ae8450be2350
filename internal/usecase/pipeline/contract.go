package pipeline

import (
	"context"

	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/domain/bizctx"
	"github.com/helmfirth/quarry/internal/domain/candidate"
	"github.com/helmfirth/quarry/internal/domain/intent"
	"github.com/helmfirth/quarry/internal/domain/query"
	"github.com/helmfirth/quarry/internal/usecase/answer"
)

// Classifier infers intent and business context from a raw question.
type Classifier interface {
	Classify(raw string, user *domain.UserContext, history []string) (intent.Classified, bizctx.Context)
}

// Expander rewrites the question with taxonomy vocabulary.
type Expander interface {
	Expand(original string, bc bizctx.Context) string
}

// Retriever fans the query out to search strategies and merges the results.
type Retriever interface {
	Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error)
}

// Ranker orders candidates by combined score.
type Ranker interface {
	Rank(cands []candidate.Candidate, q query.Query) []candidate.Ranked
}

// Packager turns top-ranked candidates into display-ready records.
type Packager interface {
	Package(ctx context.Context, ranked []candidate.Ranked, topK int, primary intent.Intent) []answer.Cited
}
