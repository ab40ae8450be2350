package passage

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	dompas "github.com/helmfirth/quarry/internal/domain/passage"
)

// Hash field names shared by ingestion and the search index schema.
const (
	fieldContent     = "content"
	fieldTitle       = "title"
	fieldSource      = "source"
	fieldIntent      = "intent"
	fieldPhase       = "phase"
	fieldFrameworks  = "frameworks"
	fieldAuthority   = "authority"
	fieldPublishedAt = "published_at"
	fieldVector      = "vector"
)

// frameworkSeparator joins framework tags inside the TAG field.
const frameworkSeparator = ","

// buildHashFields converts a domain Passage into a flat map[string]string for HSET.
func buildHashFields(p *dompas.Passage) map[string]string {
	m := map[string]string{
		fieldContent: p.Content(),
		fieldTitle:   p.Title(),
		fieldSource:  p.Source(),
	}
	if p.IntentTag() != "" {
		m[fieldIntent] = p.IntentTag()
	}
	if p.PhaseTag() != "" {
		m[fieldPhase] = p.PhaseTag()
	}
	if fw := p.Frameworks(); len(fw) > 0 {
		m[fieldFrameworks] = strings.Join(fw, frameworkSeparator)
	}
	if p.Authority() > 0 {
		m[fieldAuthority] = strconv.FormatFloat(p.Authority(), 'f', -1, 64)
	}
	if ts := p.PublishedAt(); !ts.IsZero() {
		m[fieldPublishedAt] = strconv.FormatInt(ts.Unix(), 10)
	}
	if v := p.Vector(); len(v) > 0 {
		m[fieldVector] = vectorToBytes(v)
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Passage.
func parseHashFields(id string, m map[string]string) dompas.Passage {
	var frameworks []string
	if raw := m[fieldFrameworks]; raw != "" {
		frameworks = strings.Split(raw, frameworkSeparator)
	}

	authority, _ := strconv.ParseFloat(m[fieldAuthority], 64)

	var publishedAt time.Time
	if raw := m[fieldPublishedAt]; raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			publishedAt = time.Unix(unix, 0).UTC()
		}
	}

	return dompas.Reconstruct(
		id, m[fieldContent], m[fieldTitle], m[fieldSource],
		m[fieldIntent], m[fieldPhase], frameworks,
		authority, publishedAt, bytesToVector(m[fieldVector]),
	)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
