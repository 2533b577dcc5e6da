package model

import "time"

// FormResponse is one submission of answers to a form.
// Responses are created once and never mutated. FormID is not checked
// against the saved collection, so it may dangle.
type FormResponse struct {
	ID          string         `json:"id"`
	FormID      string         `json:"formId"`
	Responses   map[string]any `json:"responses"` // field id -> submitted value
	SubmittedAt time.Time      `json:"submittedAt"`
}

// Clone returns a deep copy of r. Nested lists and objects in the
// submitted values are copied too.
func (r FormResponse) Clone() FormResponse {
	c := r
	if r.Responses != nil {
		c.Responses = cloneObject(r.Responses)
	}
	return c
}

func cloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the container types that JSON decoding and the CLI
// produce. Scalars are returned as is.
func cloneValue(v any) any {
	switch tv := v.(type) {
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), tv...)
	case map[string]any:
		return cloneObject(tv)
	}
	return v
}
