package quarry

import "context"

// Embedder converts text to vector embeddings. Required for Ask and
// passage ingestion; a client without one fails on the first embedding call.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
