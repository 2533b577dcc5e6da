package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/formkit/internal/app"
	"github.com/roach88/formkit/internal/model"
)

// FormSummary is one row of `forms list`.
type FormSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Fields    int       `json:"fields"`
	Responses int       `json:"responses"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewFormsCommand creates the forms command group.
func NewFormsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forms",
		Short: "List, show and create saved forms",
	}

	cmd.AddCommand(newFormsListCommand(rootOpts))
	cmd.AddCommand(newFormsShowCommand(rootOpts))
	cmd.AddCommand(newFormsCreateCommand(rootOpts))

	return cmd
}

func newFormsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List saved forms with response counts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, logger, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, logger)

			rows := summarize(a)
			return opts.formatter(cmd).Print(rows, func(w io.Writer) {
				if len(rows) == 0 {
					fmt.Fprintln(w, "No saved forms.")
					return
				}
				for _, r := range rows {
					fmt.Fprintf(w, "%s  %-30s  %d fields  %d responses\n", r.ID, r.Title, r.Fields, r.Responses)
				}
			})
		},
	}
}

func summarize(a *app.App) []FormSummary {
	forms := a.Builder().SavedForms()
	rows := make([]FormSummary, 0, len(forms))
	for _, f := range forms {
		rows = append(rows, FormSummary{
			ID:        f.ID,
			Title:     f.Title,
			Fields:    len(f.Fields),
			Responses: a.Responses().Count(f.ID),
			UpdatedAt: f.UpdatedAt,
		})
	}
	return rows
}

func newFormsShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <form-id>",
		Short:         "Show a saved form and its fields",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, logger, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, logger)

			form, ok := a.Builder().SavedForm(args[0])
			if !ok {
				return notFound(opts.formatter(cmd), args[0])
			}
			return opts.formatter(cmd).Print(form, func(w io.Writer) { printForm(w, form) })
		},
	}
}

func printForm(w io.Writer, form model.Form) {
	fmt.Fprintf(w, "%s  %s\n", form.ID, form.Title)
	if form.Description != "" {
		fmt.Fprintf(w, "  %s\n", form.Description)
	}
	for i, f := range form.Fields {
		req := ""
		if f.Required {
			req = " *"
		}
		fmt.Fprintf(w, "  %d. [%s] %s%s  (%s)\n", i+1, f.Type, f.Label, req, f.ID)
		if len(f.Options) > 0 {
			fmt.Fprintf(w, "     options: %s\n", strings.Join(f.Options, ", "))
		}
	}
}

// FormsCreateOptions holds flags for `forms create`.
type FormsCreateOptions struct {
	*RootOptions
	Description string
	Fields      []string // type[:label], "!" suffix on type marks required
}

func newFormsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FormsCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create and save a form",
		Long: `Create a form and save it immediately.

Fields are given as type[:label]. Append "!" to the type to make the
field required.

Example:
  formkit forms create "Contact us" --field text!:Name --field email:Email`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormsCreate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Description, "description", "", "form description")
	cmd.Flags().StringArrayVar(&opts.Fields, "field", nil, "field as type[:label] (repeatable)")

	return cmd
}

func runFormsCreate(opts *FormsCreateOptions, title string, cmd *cobra.Command) error {
	fields := make([]model.Field, 0, len(opts.Fields))
	for _, raw := range opts.Fields {
		f, err := parseFieldFlag(raw)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --field", err)
		}
		fields = append(fields, f)
	}

	a, logger, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	a.CreateForm(title)
	if opts.Description != "" {
		desc := opts.Description
		a.Builder().UpdateForm(model.FormPatch{Description: &desc})
	}
	for _, f := range fields {
		a.Builder().AddField(f)
	}
	form, err := a.SaveForm()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to save form", err)
	}
	return opts.formatter(cmd).Print(form, func(w io.Writer) {
		fmt.Fprintf(w, "Created %s\n", form.ID)
		printForm(w, form)
	})
}

// parseFieldFlag parses type[:label] with an optional "!" after the type.
func parseFieldFlag(flag string) (model.Field, error) {
	typ, label, _ := strings.Cut(flag, ":")
	required := strings.HasSuffix(typ, "!")
	typ = strings.TrimSuffix(typ, "!")

	ft, err := model.ParseFieldType(typ)
	if err != nil {
		return model.Field{}, err
	}
	f, err := model.NewField(ft)
	if err != nil {
		return model.Field{}, err
	}
	if label != "" {
		f.Label = label
	}
	f.Required = required
	return f, nil
}

// notFound reports an unknown form id.
func notFound(f *OutputFormatter, id string) error {
	msg := fmt.Sprintf("%s: %s", app.ErrFormNotFound, id)
	if err := f.Error(ErrCodeNotFound, msg, nil); err != nil {
		return err
	}
	return NewExitError(ExitCommandError, msg)
}
