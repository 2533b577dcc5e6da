package model

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Field is a single input definition within a form.
type Field struct {
	ID          string      `json:"id"`
	Type        FieldType   `json:"type"`
	Label       string      `json:"label"`
	Placeholder string      `json:"placeholder,omitempty"`
	Required    bool        `json:"required"`
	HelpText    string      `json:"helpText,omitempty"`
	Options     []string    `json:"options,omitempty"`    // dropdown-like variants only
	Validation  *Validation `json:"validation,omitempty"` // nil when unconstrained
	Step        *int        `json:"step,omitempty"`       // latent multi-step grouping
}

// Validation holds optional per-field constraints.
type Validation struct {
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

// Clone returns a copy of v sharing no memory with it.
func (v *Validation) Clone() *Validation {
	if v == nil {
		return nil
	}
	c := &Validation{Pattern: v.Pattern}
	if v.MinLength != nil {
		n := *v.MinLength
		c.MinLength = &n
	}
	if v.MaxLength != nil {
		n := *v.MaxLength
		c.MaxLength = &n
	}
	return c
}

// DefaultOptions is the option list a new dropdown starts with.
var DefaultOptions = []string{"Option 1", "Option 2", "Option 3"}

// NewField returns a field of type t populated with palette defaults.
// The returned field has no ID; the form store assigns one when it is added.
func NewField(t FieldType) (Field, error) {
	if !t.Valid() {
		return Field{}, fmt.Errorf("new field: %w: %q", ErrUnknownFieldType, t)
	}
	f := Field{
		Type:  t,
		Label: t.Label(),
	}
	if t == FieldDropdown {
		f.Placeholder = "Select an option"
		f.Options = append([]string(nil), DefaultOptions...)
	} else {
		f.Placeholder = fmt.Sprintf("Enter %s...", t)
	}
	return f, nil
}

// Clone returns a deep copy of f.
func (f Field) Clone() Field {
	c := f
	if f.Options != nil {
		c.Options = append([]string(nil), f.Options...)
	}
	c.Validation = f.Validation.Clone()
	if f.Step != nil {
		s := *f.Step
		c.Step = &s
	}
	return c
}

// Normalized returns f with its text NFC normalized and empty options dropped.
func (f Field) Normalized() Field {
	c := f.Clone()
	c.Label = norm.NFC.String(c.Label)
	c.Placeholder = norm.NFC.String(c.Placeholder)
	c.HelpText = norm.NFC.String(c.HelpText)
	c.Options = normalizeOptions(c.Options)
	return c
}

func normalizeOptions(opts []string) []string {
	if opts == nil {
		return nil
	}
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		o = norm.NFC.String(o)
		if o == "" {
			continue
		}
		out = append(out, o)
	}
	return out
}

// FieldPatch is a partial field update. Nil members are left unchanged.
// The field ID is not patchable.
type FieldPatch struct {
	Type        *FieldType  `json:"type,omitempty"`
	Label       *string     `json:"label,omitempty"`
	Placeholder *string     `json:"placeholder,omitempty"`
	Required    *bool       `json:"required,omitempty"`
	HelpText    *string     `json:"helpText,omitempty"`
	Options     *[]string   `json:"options,omitempty"`
	Validation  *Validation `json:"validation,omitempty"`
	Step        *int        `json:"step,omitempty"`
}

// Empty reports whether p changes nothing.
func (p FieldPatch) Empty() bool {
	return p == FieldPatch{}
}

// Apply shallow-merges p into f and returns the result.
// A patch carrying an unknown field type leaves the type unchanged.
func (p FieldPatch) Apply(f Field) Field {
	c := f.Clone()
	if p.Type != nil && p.Type.Valid() {
		c.Type = *p.Type
	}
	if p.Label != nil {
		c.Label = *p.Label
	}
	if p.Placeholder != nil {
		c.Placeholder = *p.Placeholder
	}
	if p.Required != nil {
		c.Required = *p.Required
	}
	if p.HelpText != nil {
		c.HelpText = *p.HelpText
	}
	if p.Options != nil {
		c.Options = append([]string(nil), (*p.Options)...)
	}
	if p.Validation != nil {
		c.Validation = p.Validation.Clone()
	}
	if p.Step != nil {
		s := *p.Step
		c.Step = &s
	}
	return c.Normalized()
}
