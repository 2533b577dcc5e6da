// Package validate checks submitted values against field definitions.
//
// Rules run in a fixed precedence and only the first failure is reported
// per field:
//
//  1. required but empty            (V001)
//  2. shorter than minLength        (V002)
//  3. longer than maxLength         (V003)
//  4. type format: email, phone     (V004)
//  5. custom validation pattern     (V005)
//
// Only the required check trims whitespace. Rules 2-5 skip absent values
// (nil, "", false, an empty list), so an optional field left empty always
// passes, but "   " in an optional email field is still checked. Functions
// here are pure and deterministic.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/formkit/internal/model"
)

// Validation error codes.
const (
	ErrRequired  = "V001" // required field left empty
	ErrMinLength = "V002" // value shorter than minLength
	ErrMaxLength = "V003" // value longer than maxLength
	ErrFormat    = "V004" // email or phone format
	ErrPattern   = "V005" // custom pattern mismatch
)

// Messages shown to the person filling the form.
const (
	MsgRequired = "This field is required"
	MsgEmail    = "Please enter a valid email address"
	MsgPhone    = "Please enter a valid phone number"
	MsgPattern  = "Value does not match the required format"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[\+]?[1-9][\d]{0,15}$`)
)

// Error is a single field-level validation failure.
type Error struct {
	FieldID string `json:"fieldId"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.FieldID, e.Message)
}

// Field validates value against f and returns the first failing rule.
// It reports false when the value is acceptable.
func Field(f model.Field, value any) (Error, bool) {
	fail := func(code, msg string) (Error, bool) {
		return Error{FieldID: f.ID, Code: code, Message: msg}, true
	}

	if f.Required && isBlank(value) {
		return fail(ErrRequired, MsgRequired)
	}
	if isEmpty(value) {
		return Error{}, false
	}

	if v := f.Validation; v != nil {
		if n, ok := length(value); ok {
			// A zero bound means unset, as in the palette editor.
			if v.MinLength != nil && *v.MinLength > 0 && n < *v.MinLength {
				return fail(ErrMinLength, fmt.Sprintf("Minimum length is %d", *v.MinLength))
			}
			if v.MaxLength != nil && *v.MaxLength > 0 && n > *v.MaxLength {
				return fail(ErrMaxLength, fmt.Sprintf("Maximum length is %d", *v.MaxLength))
			}
		}
	}

	s, isString := value.(string)
	if isString {
		switch f.Type {
		case model.FieldEmail:
			if !emailRe.MatchString(s) {
				return fail(ErrFormat, MsgEmail)
			}
		case model.FieldPhone:
			if !phoneRe.MatchString(stripSpace(s)) {
				return fail(ErrFormat, MsgPhone)
			}
		}

		if v := f.Validation; v != nil && v.Pattern != "" {
			// Patterns that do not compile are ignored rather than
			// blocking every submission.
			if re, err := regexp.Compile(v.Pattern); err == nil && !re.MatchString(s) {
				return fail(ErrPattern, MsgPattern)
			}
		}
	}

	return Error{}, false
}

// Submission validates values against every field of form, in field
// order. The result maps field id to its error and is empty when the
// submission is acceptable.
func Submission(form model.Form, values map[string]any) map[string]Error {
	errs := make(map[string]Error)
	for _, f := range form.Fields {
		if e, bad := Field(f, values[f.ID]); bad {
			errs[f.ID] = e
		}
	}
	return errs
}

// Ordered returns the errors of a Submission result in form field order.
func Ordered(form model.Form, errs map[string]Error) []Error {
	out := make([]Error, 0, len(errs))
	for _, f := range form.Fields {
		if e, ok := errs[f.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// isBlank reports whether value fails the required check. Whitespace-only
// strings are blank.
func isBlank(value any) bool {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return isEmpty(value)
}

// isEmpty reports whether value counts as not provided: nil, "", an
// unchecked checkbox or an empty list.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case []any:
		return len(v) == 0
	}
	return false
}

// length measures strings in characters and lists in elements.
func length(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v), true
	case []any:
		return len(v), true
	}
	return 0, false
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
