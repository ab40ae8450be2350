package passage

import (
	"fmt"

	"github.com/helmfirth/quarry/internal/db"
	"github.com/helmfirth/quarry/internal/domain"
)

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// buildIndex creates the passage index definition. textSearchEnabled adds a
// TEXT field over content (BM25 keyword search, Redis 8.4+).
func buildIndex(vectorDim int, textSearchEnabled bool, hnsw HNSWConfig) *db.IndexDefinition {
	def := &db.IndexDefinition{
		Name:     IndexName(),
		Prefixes: []string{keyPrefix()},
		Fields: []db.IndexField{
			{Name: fieldIntent, Type: db.IndexFieldTag},
			{Name: fieldPhase, Type: db.IndexFieldTag},
			{Name: fieldFrameworks, Type: db.IndexFieldTag, TagSeparator: frameworkSeparator},
			{Name: fieldAuthority, Type: db.IndexFieldNumeric},
			{Name: fieldPublishedAt, Type: db.IndexFieldNumeric},
		},
	}

	if textSearchEnabled {
		def.Fields = append(def.Fields, db.IndexField{
			Name: fieldContent,
			Type: db.IndexFieldText,
		})
	}

	def.Fields = append(def.Fields, db.IndexField{
		Name:              fieldVector,
		Type:              db.IndexFieldVector,
		VectorAlgo:        db.VectorHNSW,
		VectorDim:         vectorDim,
		VectorDistance:    db.DistanceCosine,
		VectorM:           hnsw.M,
		VectorEFConstruct: hnsw.EFConstruct,
	})

	return def
}

// IndexName returns the passage search index name.
func IndexName() string {
	return fmt.Sprintf("%spassages:idx", domain.KeyPrefix)
}

func keyPrefix() string {
	return fmt.Sprintf("%spassage:", domain.KeyPrefix)
}

func passageKey(id string) string {
	return keyPrefix() + id
}
