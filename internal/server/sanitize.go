package server

import (
	"html"

	"github.com/microcosm-cc/bluemonday"

	"github.com/roach88/formkit/internal/model"
)

// sanitizer strips all markup from client text.
type sanitizer struct {
	policy *bluemonday.Policy
}

func newSanitizer() *sanitizer {
	return &sanitizer{policy: bluemonday.StrictPolicy()}
}

// text removes tags and returns plain text. The policy escapes entities;
// they are unescaped so "A & B" survives unchanged.
func (s *sanitizer) text(v string) string {
	return html.UnescapeString(s.policy.Sanitize(v))
}

func (s *sanitizer) ptr(v *string) *string {
	if v == nil {
		return nil
	}
	out := s.text(*v)
	return &out
}

func (s *sanitizer) list(v []string) []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v))
	for i, o := range v {
		out[i] = s.text(o)
	}
	return out
}

// fieldPatch sanitizes the display text of p. Patterns are left alone.
func (s *sanitizer) fieldPatch(p model.FieldPatch) model.FieldPatch {
	p.Label = s.ptr(p.Label)
	p.Placeholder = s.ptr(p.Placeholder)
	p.HelpText = s.ptr(p.HelpText)
	if p.Options != nil {
		opts := s.list(*p.Options)
		p.Options = &opts
	}
	return p
}

// values sanitizes submitted strings, including string list elements.
func (s *sanitizer) values(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch tv := v.(type) {
		case string:
			out[k] = s.text(tv)
		case []any:
			list := make([]any, len(tv))
			for i, e := range tv {
				if str, ok := e.(string); ok {
					list[i] = s.text(str)
				} else {
					list[i] = e
				}
			}
			out[k] = list
		default:
			out[k] = v
		}
	}
	return out
}
