package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldType(t *testing.T) {
	for _, ft := range FieldTypes {
		t.Run(string(ft), func(t *testing.T) {
			got, err := ParseFieldType(string(ft))
			require.NoError(t, err)
			assert.Equal(t, ft, got)
		})
	}

	_, err := ParseFieldType("radio")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFieldType))
}

func TestParseThemeAndPreviewMode(t *testing.T) {
	_, err := ParseTheme("light")
	require.NoError(t, err)
	_, err = ParseTheme("sepia")
	assert.ErrorIs(t, err, ErrUnknownTheme)

	_, err = ParsePreviewMode("tablet")
	require.NoError(t, err)
	_, err = ParsePreviewMode("watch")
	assert.ErrorIs(t, err, ErrUnknownPreviewMode)
}

func TestNewFieldDefaults(t *testing.T) {
	dd, err := NewField(FieldDropdown)
	require.NoError(t, err)
	assert.Equal(t, "Dropdown", dd.Label)
	assert.Equal(t, "Select an option", dd.Placeholder)
	assert.Equal(t, []string{"Option 1", "Option 2", "Option 3"}, dd.Options)
	assert.False(t, dd.Required)
	assert.Empty(t, dd.ID)

	email, err := NewField(FieldEmail)
	require.NoError(t, err)
	assert.Equal(t, "Email", email.Label)
	assert.Equal(t, "Enter email...", email.Placeholder)
	assert.Nil(t, email.Options)

	date, err := NewField(FieldDate)
	require.NoError(t, err)
	assert.Equal(t, "Date Picker", date.Label)

	_, err = NewField("slider")
	assert.ErrorIs(t, err, ErrUnknownFieldType)
}

func TestNewFieldDoesNotShareDefaultOptions(t *testing.T) {
	a, err := NewField(FieldDropdown)
	require.NoError(t, err)
	a.Options[0] = "mutated"

	b, err := NewField(FieldDropdown)
	require.NoError(t, err)
	assert.Equal(t, "Option 1", b.Options[0])
}

func TestFieldPatchApply(t *testing.T) {
	f := Field{ID: "f1", Type: FieldText, Label: "Name"}

	label := "Full name"
	required := true
	opts := []string{"a", "", "b"}
	got := FieldPatch{Label: &label, Required: &required, Options: &opts}.Apply(f)

	assert.Equal(t, "f1", got.ID)
	assert.Equal(t, "Full name", got.Label)
	assert.True(t, got.Required)
	assert.Equal(t, []string{"a", "b"}, got.Options, "empty options are dropped")
	assert.Equal(t, "Name", f.Label, "original untouched")
}

func TestFieldPatchIgnoresUnknownType(t *testing.T) {
	f := Field{ID: "f1", Type: FieldText}
	bad := FieldType("slider")
	got := FieldPatch{Type: &bad}.Apply(f)
	assert.Equal(t, FieldText, got.Type)
}

func TestFieldPatchEmpty(t *testing.T) {
	assert.True(t, FieldPatch{}.Empty())
	label := "x"
	assert.False(t, FieldPatch{Label: &label}.Empty())
}

func TestFieldNormalizesNFC(t *testing.T) {
	// "e" + combining acute accent composes to U+00E9.
	f := Field{Label: "Cafe\u0301"}.Normalized()
	assert.Equal(t, "Caf\u00e9", f.Label)
}

func TestFormCloneIsDeep(t *testing.T) {
	minLen := 3
	f := Form{
		ID: "form-1",
		Fields: []Field{{
			ID:         "f1",
			Options:    []string{"x"},
			Validation: &Validation{MinLength: &minLen},
		}},
	}
	c := f.Clone()
	c.Fields[0].Options[0] = "y"
	*c.Fields[0].Validation.MinLength = 9
	c.Fields = append(c.Fields, Field{ID: "f2"})

	assert.Equal(t, "x", f.Fields[0].Options[0])
	assert.Equal(t, 3, *f.Fields[0].Validation.MinLength)
	assert.Len(t, f.Fields, 1)
}

func TestFormPatchApply(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f := NewForm("form-1", "Survey", now)

	desc := "About you"
	fields := []Field{{ID: "a"}, {ID: "b"}}
	got := FormPatch{Description: &desc, Fields: &fields}.Apply(f)

	assert.Equal(t, "Survey", got.Title)
	assert.Equal(t, "About you", got.Description)
	assert.Len(t, got.Fields, 2)
	assert.Equal(t, 1, got.FieldIndex("b"))
	assert.Equal(t, -1, got.FieldIndex("zzz"))
	assert.Empty(t, f.Fields)
}

func TestFingerprintIgnoresTimestamps(t *testing.T) {
	a := NewForm("form-1", "Survey", time.Unix(0, 0))
	b := a.Clone()
	b.UpdatedAt = time.Unix(1000, 0)

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 64)

	b.Fields = append(b.Fields, Field{ID: "f1", Type: FieldText})
	fc, err := b.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"null", nil, "null"},
		{"string", "hello", `"hello"`},
		{"no html escape", "<a&b>", `"<a&b>"`},
		{"int", 42, "42"},
		{"integral float", float64(3), "3"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"sorted keys", map[string]any{"zebra": 1, "alpha": 2}, `{"alpha":2,"zebra":1}`},
		{"nested", map[string]any{"a": []any{"x", false}}, `{"a":["x",false]}`},
		{"string slice", []string{"a", "b"}, `["a","b"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}

	_, err := MarshalCanonical(struct{}{})
	assert.Error(t, err)
}

func TestJSONFieldNaming(t *testing.T) {
	r := FormResponse{ID: "r1", FormID: "form-1", Responses: map[string]any{}}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"formId"`)
	assert.Contains(t, string(data), `"submittedAt"`)

	f := NewForm("form-1", "T", time.Unix(0, 0))
	data, err = json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"createdAt"`)
	assert.Contains(t, string(data), `"isMultiStep"`)
	assert.Contains(t, string(data), `"fields":[]`)
}

func TestFormResponseCloneIsDeep(t *testing.T) {
	r := FormResponse{
		ID:     "r1",
		FormID: "form-1",
		Responses: map[string]any{
			"tags":  []any{"a", "b"},
			"names": []string{"x"},
			"addr":  map[string]any{"city": "Oslo"},
			"n":     3.0,
		},
	}
	c := r.Clone()

	c.Responses["tags"].([]any)[0] = "changed"
	c.Responses["names"].([]string)[0] = "changed"
	c.Responses["addr"].(map[string]any)["city"] = "changed"

	assert.Equal(t, []any{"a", "b"}, r.Responses["tags"])
	assert.Equal(t, []string{"x"}, r.Responses["names"])
	assert.Equal(t, map[string]any{"city": "Oslo"}, r.Responses["addr"])
	assert.Equal(t, 3.0, c.Responses["n"])
}
