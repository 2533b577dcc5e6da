package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/formkit/internal/model"
)

// execute runs the root command against a database in dir and returns
// stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{
		"--db", filepath.Join(dir, "formkit.db"),
		"--config", filepath.Join(dir, "missing.yaml"),
	}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

// decodeData unmarshals the data member of a JSON envelope into T.
func decodeData[T any](t *testing.T, out string) T {
	t.Helper()
	var env struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env), out)
	require.Equal(t, "ok", env.Status)
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func createContactForm(t *testing.T, dir string) model.Form {
	t.Helper()
	out, err := execute(t, dir, "--format", "json", "forms", "create", "Contact",
		"--description", "Say hello",
		"--field", "text!:Name",
		"--field", "email:Email",
		"--field", "checkbox:Subscribe",
	)
	require.NoError(t, err)
	return decodeData[model.Form](t, out)
}

func TestFormsCreateAndList(t *testing.T) {
	dir := t.TempDir()
	form := createContactForm(t, dir)

	assert.Equal(t, "Contact", form.Title)
	assert.Equal(t, "Say hello", form.Description)
	require.Len(t, form.Fields, 3)
	assert.True(t, form.Fields[0].Required)
	assert.Equal(t, model.FieldEmail, form.Fields[1].Type)

	out, err := execute(t, dir, "--format", "json", "forms", "list")
	require.NoError(t, err)
	rows := decodeData[[]FormSummary](t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, form.ID, rows[0].ID)
	assert.Equal(t, 3, rows[0].Fields)
	assert.Equal(t, 0, rows[0].Responses)

	out, err = execute(t, dir, "forms", "show", form.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "[text] Name *")
	assert.Contains(t, out, "Say hello")
}

func TestFormsListEmpty(t *testing.T) {
	out, err := execute(t, t.TempDir(), "forms", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved forms.")
}

func TestFormsShowUnknown(t *testing.T) {
	out, err := execute(t, t.TempDir(), "forms", "show", "form_nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestFormsCreateRejectsUnknownType(t *testing.T) {
	_, err := execute(t, t.TempDir(), "forms", "create", "Bad", "--field", "slider:Volume")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestParseFieldFlag(t *testing.T) {
	f, err := parseFieldFlag("textarea!:Bio")
	require.NoError(t, err)
	assert.Equal(t, model.FieldTextarea, f.Type)
	assert.Equal(t, "Bio", f.Label)
	assert.True(t, f.Required)

	f, err = parseFieldFlag("dropdown")
	require.NoError(t, err)
	assert.False(t, f.Required)
	assert.Equal(t, model.DefaultOptions, f.Options)
}

func TestSubmitAndResponses(t *testing.T) {
	dir := t.TempDir()
	form := createContactForm(t, dir)

	out, err := execute(t, dir, "--format", "json", "submit", form.ID,
		"--value", "Name=Ada",
		"--value", "email=ada@example.com",
		"--value", form.Fields[2].ID+"=true",
	)
	require.NoError(t, err)
	resp := decodeData[model.FormResponse](t, out)
	assert.Equal(t, form.ID, resp.FormID)
	assert.Equal(t, "Ada", resp.Responses[form.Fields[0].ID])
	assert.Equal(t, true, resp.Responses[form.Fields[2].ID])

	out, err = execute(t, dir, "--format", "json", "responses", form.ID)
	require.NoError(t, err)
	list := decodeData[[]model.FormResponse](t, out)
	require.Len(t, list, 1)
	assert.Equal(t, resp.ID, list[0].ID)

	out, err = execute(t, dir, "responses", form.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Ada")
}

func TestSubmitRejected(t *testing.T) {
	dir := t.TempDir()
	form := createContactForm(t, dir)

	out, err := execute(t, dir, "submit", form.ID, "--value", "Email=not-an-email")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeValidation)
	assert.Contains(t, out, "Name [V001]")
	assert.Contains(t, out, "Email [V004]")

	out, err = execute(t, dir, "responses", form.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "No responses")
}

func TestSubmitUnknownForm(t *testing.T) {
	_, err := execute(t, t.TempDir(), "submit", "form_missing", "--value", "a=b")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSubmitBadValues(t *testing.T) {
	dir := t.TempDir()
	form := createContactForm(t, dir)

	tests := []struct {
		name  string
		value string
	}{
		{"missing equals", "Name"},
		{"unknown field", "Phone=123"},
		{"bad checkbox", "Subscribe=maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, dir, "submit", form.ID, "--value", tt.value)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestTheme(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	_, err = execute(t, dir, "theme", "dark")
	require.NoError(t, err)

	out, err = execute(t, dir, "--format", "json", "theme")
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, decodeData[ThemeResult](t, out).Theme)

	_, err = execute(t, dir, "theme", "sepia")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "templates")
	require.NoError(t, os.Mkdir(tmpl, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpl, "forms.cue"), []byte(`package forms

form: rsvp: {
	title: "RSVP"
	fields: [
		{type: "text", label: "Name", required: true},
		{type: "dropdown", label: "Meal", options: ["Fish", "Veg"]},
	]
}
`), 0o644))

	out, err := execute(t, dir, "--format", "json", "import", tmpl)
	require.NoError(t, err)
	result := decodeData[ImportResult](t, out)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, "rsvp", result.Imported[0].Template)
	assert.Equal(t, 2, result.Imported[0].Fields)

	out, err = execute(t, dir, "forms", "show", result.Imported[0].FormID)
	require.NoError(t, err)
	assert.Contains(t, out, "options: Fish, Veg")
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cue"), []byte(`package forms

form: bad: {title: "Bad", fields: [{type: "slider"}]}
`), 0o644))

	out, err := execute(t, dir, "import", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeImport)

	// Nothing was saved.
	out, err = execute(t, dir, "forms", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved forms.")
}

func TestScenarioCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "--format", "json", "scenario", "../harness/testdata/scenarios")
	require.NoError(t, err)
	summary := decodeData[ScenarioSummary](t, out)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, len(summary.Scenarios), summary.Passed)
	assert.NotZero(t, summary.Passed)
}

func TestScenarioCommandFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fail.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: failing
steps:
  - op: create
    title: Empty
assertions:
  - type: saved_count
    count: 1
`), 0o644))

	out, err := execute(t, dir, "scenario", "--trace", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL  failing")
	assert.Contains(t, out, "scenario: failing")
}

func TestScenarioCommandMissingPath(t *testing.T) {
	_, err := execute(t, t.TempDir(), "scenario", "does-not-exist")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
