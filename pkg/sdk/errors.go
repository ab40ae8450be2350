package quarry

import "github.com/helmfirth/quarry/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery              = domain.ErrInvalidQuery
	ErrPassageNotFound           = domain.ErrPassageNotFound
	ErrAlreadyExists             = domain.ErrAlreadyExists
	ErrRetrievalUnavailable      = domain.ErrRetrievalUnavailable
	ErrEmbeddingProviderError    = domain.ErrEmbeddingProviderError
	ErrKeywordSearchNotSupported = domain.ErrKeywordSearchNotSupported
)
