// Package idgen generates identifiers for forms, fields and responses.
//
// Identifiers are UUIDv7 by default: unique without coordination and
// sortable by creation time, so rapid successive calls never collide the
// way wall-clock-derived ids do.
package idgen

import (
	"github.com/google/uuid"
)

// Generator produces unique identifiers.
type Generator interface {
	Generate() string
}

// Kinds of identifier. Each kind becomes the prefix of generated ids.
const (
	KindForm     = "form"
	KindField    = "field"
	KindResponse = "response"
)

// UUIDv7 generates time-sortable UUIDv7 strings.
//
// Thread-safety: UUIDv7 is stateless and safe for concurrent use.
type UUIDv7 struct{}

// Generate returns a new hyphenated UUIDv7.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Prefixed decorates ids from an underlying generator with "<kind>_".
type Prefixed struct {
	Kind string
	Gen  Generator
}

// Generate returns Kind + "_" + the next underlying id.
func (p Prefixed) Generate() string {
	gen := p.Gen
	if gen == nil {
		gen = UUIDv7{}
	}
	return p.Kind + "_" + gen.Generate()
}
