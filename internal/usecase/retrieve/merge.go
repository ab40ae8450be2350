package retrieve

import "github.com/helmfirth/quarry/internal/domain/candidate"

// merge flattens strategy results in plan order, keeping the first occurrence
// of each candidate id. Earlier strategies own the score on collision, so the
// pure-semantic similarity is authoritative. Output length is capped at limit.
func merge(sets [][]candidate.Candidate, limit int) []candidate.Candidate {
	seen := make(map[string]struct{})
	out := make([]candidate.Candidate, 0, limit)
	for _, set := range sets {
		for _, c := range set {
			if _, dup := seen[c.ID()]; dup {
				continue
			}
			seen[c.ID()] = struct{}{}
			out = append(out, c)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
