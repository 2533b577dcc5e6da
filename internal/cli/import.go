package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/formkit/internal/model"
	"github.com/roach88/formkit/internal/template"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	FailFast bool
}

// ImportResult is the JSON payload of a successful import.
type ImportResult struct {
	Imported []ImportedForm `json:"imported"`
}

// ImportedForm maps a template name to the saved form built from it.
type ImportedForm struct {
	Template string `json:"template"`
	FormID   string `json:"formId"`
	Title    string `json:"title"`
	Fields   int    `json:"fields"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import CUE form templates as saved forms",
		Long: `Compile every form declared in the CUE package in dir and save each
one as a new form.

Nothing is imported unless every template compiles.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop at the first template error")

	return cmd
}

func runImport(opts *ImportOptions, dir string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	mode := template.LoadModeCollectAll
	if opts.FailFast {
		mode = template.LoadModeFailFast
	}
	defs, errs := template.LoadDir(dir, mode)
	if len(errs) > 0 {
		details := make([]string, len(errs))
		for i, e := range errs {
			details[i] = e.Error()
		}
		msg := fmt.Sprintf("%d template error(s) in %s", len(errs), dir)
		if err := out.Error(ErrCodeImport, msg, details); err != nil {
			return err
		}
		if out.Format != "json" {
			for _, d := range details {
				fmt.Fprintf(out.Writer, "  %s\n", d)
			}
		}
		return NewExitError(ExitCommandError, msg)
	}

	a, logger, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	result := ImportResult{Imported: make([]ImportedForm, 0, len(defs))}
	for _, def := range defs {
		out.VerboseLog("importing %s", def.Name)
		form, err := a.Import(def)
		if err != nil {
			return WrapExitError(ExitFailure, "import failed", err)
		}
		result.Imported = append(result.Imported, importedForm(def.Name, form))
	}

	return out.Print(result, func(w io.Writer) {
		fmt.Fprintf(w, "Imported %d form(s)\n", len(result.Imported))
		for _, f := range result.Imported {
			fmt.Fprintf(w, "  %s -> %s (%s, %d fields)\n", f.Template, f.FormID, f.Title, f.Fields)
		}
	})
}

func importedForm(name string, f model.Form) ImportedForm {
	return ImportedForm{Template: name, FormID: f.ID, Title: f.Title, Fields: len(f.Fields)}
}
