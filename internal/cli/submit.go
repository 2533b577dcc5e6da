package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/formkit/internal/app"
	"github.com/roach88/formkit/internal/model"
)

// SubmitOptions holds flags for the submit command.
type SubmitOptions struct {
	*RootOptions
	Values []string // key=value, key is a field id or label
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "submit <form-id>",
		Short: "Fill in a saved form",
		Long: `Validate values against a saved form and record them as a response.

Each --value is key=value where key is a field id or a field label.
Checkbox values accept true/false, 1/0.

Exit codes:
  0 - response recorded
  1 - values failed validation, nothing recorded
  2 - unknown form or bad arguments`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Values, "value", nil, "field value as key=value (repeatable)")

	return cmd
}

func runSubmit(opts *SubmitOptions, formID string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	a, logger, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	form, ok := a.Builder().SavedForm(formID)
	if !ok {
		return notFound(out, formID)
	}

	values, err := parseValues(form, opts.Values)
	if err != nil {
		if e := out.Error(ErrCodeGeneric, err.Error(), nil); e != nil {
			return e
		}
		return WrapExitError(ExitCommandError, "invalid --value", err)
	}

	resp, err := a.Submit(formID, values)
	var subErr *app.SubmissionError
	switch {
	case errors.As(err, &subErr):
		if e := out.Error(ErrCodeValidation, "submission rejected", subErr.Errors); e != nil {
			return e
		}
		if out.Format != "json" {
			for _, ve := range subErr.Errors {
				label := ve.FieldID
				if f, ok := form.Field(ve.FieldID); ok {
					label = f.Label
				}
				fmt.Fprintf(out.Writer, "  %s [%s] %s\n", label, ve.Code, ve.Message)
			}
		}
		return NewExitError(ExitFailure, subErr.Error())
	case errors.Is(err, app.ErrFormNotFound):
		return notFound(out, formID)
	case err != nil:
		return WrapExitError(ExitFailure, "submit failed", err)
	}

	return out.Print(resp, func(w io.Writer) {
		fmt.Fprintf(w, "Recorded %s for %s\n", resp.ID, form.Title)
	})
}

// parseValues resolves each key=value pair to a field of form and converts
// checkbox values to booleans.
func parseValues(form model.Form, pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		f, ok := resolveField(form, key)
		if !ok {
			return nil, fmt.Errorf("form %s has no field %q", form.ID, key)
		}
		if f.Type == model.FieldCheckbox {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			values[f.ID] = b
			continue
		}
		values[f.ID] = raw
	}
	return values, nil
}

// resolveField matches key against field ids first, then labels.
func resolveField(form model.Form, key string) (model.Field, bool) {
	if f, ok := form.Field(key); ok {
		return f, true
	}
	for _, f := range form.Fields {
		if strings.EqualFold(f.Label, key) {
			return f, true
		}
	}
	return model.Field{}, false
}
