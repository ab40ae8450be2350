package domain

import "errors"

var (
	// ErrInvalidQuery signals a malformed question (empty or whitespace-only).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrRetrievalUnavailable signals that every retrieval strategy failed.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrPassageNotFound signals a missing corpus passage.
	ErrPassageNotFound = errors.New("passage not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrKeywordSearchNotSupported signals that the backend lacks keyword search.
	ErrKeywordSearchNotSupported = errors.New("keyword search not supported by backend")
)
