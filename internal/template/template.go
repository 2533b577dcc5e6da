// Package template imports form definitions written in CUE.
//
// A template file declares forms under the top-level "form" struct:
//
//	form: contact: {
//		title:       "Contact us"
//		description: "We reply within a day"
//		fields: [
//			{type: "text", label: "Name", required: true},
//			{type: "email", label: "Email"},
//		]
//	}
//
// Compile turns one such value into a Definition. It checks field types
// against the closed palette, rejects empty option lists, and checks
// length bounds and patterns, so anything that compiles can be built
// without further checks.
package template

import (
	"fmt"
	"regexp"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/formkit/internal/model"
)

// Definition is a compiled form template. Fields carry no ids; they are
// assigned when the definition is built into a form.
type Definition struct {
	Name        string        `json:"name"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Fields      []model.Field `json:"fields"`
}

// Compile parses a CUE value into a Definition.
//
// The value should be the form struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`form: contact: { ... }`)
//	def, err := Compile(v.LookupPath(cue.ParsePath("form.contact")))
func Compile(v cue.Value) (*Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &Definition{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		def.Name = labels[len(labels)-1].String()
	}

	titleVal := v.LookupPath(cue.ParsePath("title"))
	if !titleVal.Exists() {
		return nil, &CompileError{
			Field:   "title",
			Message: "title is required",
			Pos:     v.Pos(),
		}
	}
	title, err := titleVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	def.Title = title

	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		def.Description = desc
	}

	def.Fields, err = parseFields(v)
	if err != nil {
		return nil, err
	}

	return def, nil
}

// parseFields parses the optional fields list.
func parseFields(v cue.Value) ([]model.Field, error) {
	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return []model.Field{}, nil
	}

	iter, err := fieldsVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "fields",
			Message: "fields must be a list",
			Pos:     fieldsVal.Pos(),
		}
	}

	fields := []model.Field{}
	for iter.Next() {
		f, err := parseField(iter.Value())
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// parseField parses one list element. Only type is required; the rest
// falls back to the palette defaults.
func parseField(v cue.Value) (model.Field, error) {
	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return model.Field{}, &CompileError{
			Field:   "type",
			Message: "field type is required",
			Pos:     v.Pos(),
		}
	}
	typeStr, err := typeVal.String()
	if err != nil {
		return model.Field{}, formatCUEError(err)
	}
	ft, err := model.ParseFieldType(typeStr)
	if err != nil {
		return model.Field{}, &CompileError{
			Field:   "type",
			Message: err.Error(),
			Pos:     typeVal.Pos(),
		}
	}

	f, err := model.NewField(ft)
	if err != nil {
		return model.Field{}, err
	}

	if err := lookupString(v, "label", &f.Label); err != nil {
		return model.Field{}, err
	}
	if err := lookupString(v, "placeholder", &f.Placeholder); err != nil {
		return model.Field{}, err
	}
	if err := lookupString(v, "helpText", &f.HelpText); err != nil {
		return model.Field{}, err
	}
	if reqVal := v.LookupPath(cue.ParsePath("required")); reqVal.Exists() {
		req, err := reqVal.Bool()
		if err != nil {
			return model.Field{}, formatCUEError(err)
		}
		f.Required = req
	}

	if optVal := v.LookupPath(cue.ParsePath("options")); optVal.Exists() {
		var opts []string
		if err := optVal.Decode(&opts); err != nil {
			return model.Field{}, formatCUEError(err)
		}
		if len(opts) == 0 {
			return model.Field{}, &CompileError{
				Field:   "options",
				Message: "options must not be empty",
				Pos:     optVal.Pos(),
			}
		}
		f.Options = opts
	}

	if valVal := v.LookupPath(cue.ParsePath("validation")); valVal.Exists() {
		rules, err := parseValidation(valVal)
		if err != nil {
			return model.Field{}, err
		}
		f.Validation = rules
	}

	return f, nil
}

// parseValidation parses minLength, maxLength and pattern.
func parseValidation(v cue.Value) (*model.Validation, error) {
	rules := &model.Validation{}

	for _, name := range []string{"minLength", "maxLength"} {
		nv := v.LookupPath(cue.ParsePath(name))
		if !nv.Exists() {
			continue
		}
		n, err := nv.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if n < 0 {
			return nil, &CompileError{
				Field:   "validation." + name,
				Message: fmt.Sprintf("%s must not be negative", name),
				Pos:     nv.Pos(),
			}
		}
		i := int(n)
		if name == "minLength" {
			rules.MinLength = &i
		} else {
			rules.MaxLength = &i
		}
	}

	if rules.MinLength != nil && rules.MaxLength != nil && *rules.MaxLength > 0 && *rules.MinLength > *rules.MaxLength {
		return nil, &CompileError{
			Field:   "validation",
			Message: fmt.Sprintf("minLength %d exceeds maxLength %d", *rules.MinLength, *rules.MaxLength),
			Pos:     v.Pos(),
		}
	}

	if pv := v.LookupPath(cue.ParsePath("pattern")); pv.Exists() {
		pattern, err := pv.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, &CompileError{
				Field:   "validation.pattern",
				Message: err.Error(),
				Pos:     pv.Pos(),
			}
		}
		rules.Pattern = pattern
	}

	return rules, nil
}

// lookupString sets *dst when the path exists.
func lookupString(v cue.Value, path string, dst *string) error {
	sv := v.LookupPath(cue.ParsePath(path))
	if !sv.Exists() {
		return nil
	}
	s, err := sv.String()
	if err != nil {
		return formatCUEError(err)
	}
	*dst = s
	return nil
}

// CompileError is a template error with its source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
