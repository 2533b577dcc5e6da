package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Form is an ordered collection of fields plus metadata.
// Field order is significant: it is both render and submission order.
type Form struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Fields      []Field   `json:"fields"`
	Steps       []Step    `json:"steps"`
	IsMultiStep bool      `json:"isMultiStep"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Step groups fields into a page of a multi-step form.
// Steps are carried and persisted but no mutation populates them.
type Step struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// NewForm returns an empty form stamped with now.
func NewForm(id, title string, now time.Time) Form {
	return Form{
		ID:        id,
		Title:     norm.NFC.String(title),
		Fields:    []Field{},
		Steps:     []Step{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of f. History snapshots and values handed to
// callers are always clones so no caller can mutate stored state.
func (f Form) Clone() Form {
	c := f
	c.Fields = cloneFields(f.Fields)
	if f.Steps != nil {
		c.Steps = make([]Step, len(f.Steps))
		for i, s := range f.Steps {
			c.Steps[i] = Step{ID: s.ID, Title: s.Title, Fields: cloneFields(s.Fields)}
		}
	}
	return c
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	return out
}

// FieldIndex returns the position of the field with the given id, or -1.
func (f Form) FieldIndex(id string) int {
	for i, fld := range f.Fields {
		if fld.ID == id {
			return i
		}
	}
	return -1
}

// Field returns the field with the given id.
func (f Form) Field(id string) (Field, bool) {
	i := f.FieldIndex(id)
	if i < 0 {
		return Field{}, false
	}
	return f.Fields[i].Clone(), true
}

// FormPatch is a partial form update. Nil members are left unchanged.
type FormPatch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Fields      *[]Field `json:"fields,omitempty"`
}

// Apply merges p into f. Timestamps are the caller's responsibility.
func (p FormPatch) Apply(f Form) Form {
	c := f.Clone()
	if p.Title != nil {
		c.Title = norm.NFC.String(*p.Title)
	}
	if p.Description != nil {
		c.Description = norm.NFC.String(*p.Description)
	}
	if p.Fields != nil {
		c.Fields = cloneFields(*p.Fields)
		if c.Fields == nil {
			c.Fields = []Field{}
		}
	}
	return c
}

// DomainForm prefixes form fingerprints so they never collide with other hashes.
const DomainForm = "formkit/form/v1"

// Fingerprint hashes the form's content, excluding timestamps.
// Two snapshots with equal fingerprints render and submit identically.
func (f Form) Fingerprint() (string, error) {
	fields := make([]any, len(f.Fields))
	for i, fld := range f.Fields {
		fields[i] = fieldMap(fld)
	}
	steps := make([]any, len(f.Steps))
	for i, s := range f.Steps {
		sf := make([]any, len(s.Fields))
		for j, fld := range s.Fields {
			sf[j] = fieldMap(fld)
		}
		steps[i] = map[string]any{"id": s.ID, "title": s.Title, "fields": sf}
	}
	obj := map[string]any{
		"id":          f.ID,
		"title":       f.Title,
		"description": f.Description,
		"fields":      fields,
		"steps":       steps,
		"isMultiStep": f.IsMultiStep,
	}
	data, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(DomainForm))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func fieldMap(f Field) map[string]any {
	m := map[string]any{
		"id":          f.ID,
		"type":        string(f.Type),
		"label":       f.Label,
		"placeholder": f.Placeholder,
		"required":    f.Required,
		"helpText":    f.HelpText,
	}
	if f.Options != nil {
		m["options"] = f.Options
	}
	if v := f.Validation; v != nil {
		vm := map[string]any{"pattern": v.Pattern}
		if v.MinLength != nil {
			vm["minLength"] = *v.MinLength
		}
		if v.MaxLength != nil {
			vm["maxLength"] = *v.MaxLength
		}
		m["validation"] = vm
	}
	if f.Step != nil {
		m["step"] = *f.Step
	}
	return m
}
