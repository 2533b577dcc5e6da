package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/formkit/internal/model"
)

func intp(n int) *int { return &n }

func TestFieldPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		field    model.Field
		value    any
		wantCode string
		wantMsg  string
	}{
		{
			name:     "required empty string",
			field:    model.Field{ID: "f", Type: model.FieldText, Required: true},
			value:    "",
			wantCode: ErrRequired,
			wantMsg:  MsgRequired,
		},
		{
			name:     "required whitespace",
			field:    model.Field{ID: "f", Type: model.FieldText, Required: true},
			value:    "   ",
			wantCode: ErrRequired,
			wantMsg:  MsgRequired,
		},
		{
			name:     "required nil",
			field:    model.Field{ID: "f", Type: model.FieldText, Required: true},
			value:    nil,
			wantCode: ErrRequired,
			wantMsg:  MsgRequired,
		},
		{
			name:     "required unchecked checkbox",
			field:    model.Field{ID: "f", Type: model.FieldCheckbox, Required: true},
			value:    false,
			wantCode: ErrRequired,
			wantMsg:  MsgRequired,
		},
		{
			name: "min length beats required",
			field: model.Field{ID: "f", Type: model.FieldText, Required: true,
				Validation: &model.Validation{MinLength: intp(5)}},
			value:    "ab",
			wantCode: ErrMinLength,
			wantMsg:  "Minimum length is 5",
		},
		{
			name: "max length",
			field: model.Field{ID: "f", Type: model.FieldText,
				Validation: &model.Validation{MaxLength: intp(3)}},
			value:    "abcd",
			wantCode: ErrMaxLength,
			wantMsg:  "Maximum length is 3",
		},
		{
			name: "min length before format",
			field: model.Field{ID: "f", Type: model.FieldEmail,
				Validation: &model.Validation{MinLength: intp(20)}},
			value:    "bad",
			wantCode: ErrMinLength,
			wantMsg:  "Minimum length is 20",
		},
		{
			name:     "email format",
			field:    model.Field{ID: "f", Type: model.FieldEmail},
			value:    "notanemail",
			wantCode: ErrFormat,
			wantMsg:  MsgEmail,
		},
		{
			name:     "phone format",
			field:    model.Field{ID: "f", Type: model.FieldPhone},
			value:    "0123",
			wantCode: ErrFormat,
			wantMsg:  MsgPhone,
		},
		{
			name:     "optional email whitespace",
			field:    model.Field{ID: "f", Type: model.FieldEmail},
			value:    "   ",
			wantCode: ErrFormat,
			wantMsg:  MsgEmail,
		},
		{
			name: "optional whitespace shorter than min length",
			field: model.Field{ID: "f", Type: model.FieldText,
				Validation: &model.Validation{MinLength: intp(3)}},
			value:    "  ",
			wantCode: ErrMinLength,
			wantMsg:  "Minimum length is 3",
		},
		{
			name:     "required whitespace before format",
			field:    model.Field{ID: "f", Type: model.FieldEmail, Required: true},
			value:    "  ",
			wantCode: ErrRequired,
			wantMsg:  MsgRequired,
		},
		{
			name: "pattern",
			field: model.Field{ID: "f", Type: model.FieldText,
				Validation: &model.Validation{Pattern: `^[A-Z]{3}$`}},
			value:    "abc",
			wantCode: ErrPattern,
			wantMsg:  MsgPattern,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bad := Field(tt.field, tt.value)
			require.True(t, bad)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, "f", got.FieldID)
		})
	}
}

func TestFieldAccepts(t *testing.T) {
	tests := []struct {
		name  string
		field model.Field
		value any
	}{
		{"optional empty", model.Field{Type: model.FieldEmail}, ""},
		{"optional whitespace text", model.Field{Type: model.FieldText}, "   "},
		{"optional unchecked checkbox", model.Field{Type: model.FieldCheckbox}, false},
		{"optional nil with min length", model.Field{Type: model.FieldText,
			Validation: &model.Validation{MinLength: intp(5)}}, nil},
		{"email", model.Field{Type: model.FieldEmail}, "ada@example.com"},
		{"phone with spaces", model.Field{Type: model.FieldPhone}, "+44 20 7946 0958"},
		{"zero bounds unset", model.Field{Type: model.FieldText,
			Validation: &model.Validation{MinLength: intp(0), MaxLength: intp(0)}}, "anything"},
		{"checked checkbox", model.Field{Type: model.FieldCheckbox, Required: true}, true},
		{"number value", model.Field{Type: model.FieldNumber, Required: true,
			Validation: &model.Validation{MinLength: intp(5)}}, float64(3)},
		{"invalid pattern ignored", model.Field{Type: model.FieldText,
			Validation: &model.Validation{Pattern: `(`}}, "x"},
		{"multibyte length", model.Field{Type: model.FieldText,
			Validation: &model.Validation{MaxLength: intp(3)}}, "日本語"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bad := Field(tt.field, tt.value)
			assert.False(t, bad)
		})
	}
}

func TestFieldDeterministic(t *testing.T) {
	f := model.Field{ID: "f", Type: model.FieldEmail, Required: true}
	a, _ := Field(f, "x@")
	b, _ := Field(f, "x@")
	assert.Equal(t, a, b)
}

func TestSubmission(t *testing.T) {
	form := model.Form{Fields: []model.Field{
		{ID: "name", Type: model.FieldText, Required: true},
		{ID: "email", Type: model.FieldEmail},
		{ID: "notes", Type: model.FieldTextarea},
	}}

	errs := Submission(form, map[string]any{"email": "nope"})
	require.Len(t, errs, 2)
	assert.Equal(t, ErrRequired, errs["name"].Code)
	assert.Equal(t, ErrFormat, errs["email"].Code)

	ordered := Ordered(form, errs)
	require.Len(t, ordered, 2)
	assert.Equal(t, "name", ordered[0].FieldID)
	assert.Equal(t, "email", ordered[1].FieldID)

	ok := Submission(form, map[string]any{"name": "Ada", "email": "ada@example.com"})
	assert.Empty(t, ok)
}

func TestErrorString(t *testing.T) {
	e := Error{FieldID: "f", Code: ErrRequired, Message: MsgRequired}
	assert.Equal(t, "[V001] f: This field is required", e.Error())
}
