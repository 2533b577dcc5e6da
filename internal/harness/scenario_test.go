package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/contact_form.yaml")
	require.NoError(t, err)

	assert.Equal(t, "contact_form", s.Name)
	require.Len(t, s.Steps, 6)
	assert.Equal(t, OpCreate, s.Steps[0].Op)
	assert.Equal(t, "contact", s.Steps[0].As)
	assert.True(t, s.Steps[1].Required)
	assert.Equal(t, ExpectRejected, s.Steps[4].Expect)
	assert.Equal(t, "ada@example.com", s.Steps[5].Values["email"])
	require.Len(t, s.Assertions, 3)
	assert.Equal(t, []string{"Name", "Email"}, s.Assertions[0].Labels)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	content := `name: typo
description: "misspelled key"
steps:
  - op: create
assertion:
  - type: saved_count
    count: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadScenario(path)
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestParseScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nsteps: [{op: create}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nsteps: [{op: create}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: n\ndescription: d\n",
			wantErr: "steps list is required",
		},
		{
			name:    "unknown op",
			yaml:    "name: n\ndescription: d\nsteps: [{op: publish}]\n",
			wantErr: `unknown op "publish"`,
		},
		{
			name:    "add_field without type",
			yaml:    "name: n\ndescription: d\nsteps: [{op: add_field}]\n",
			wantErr: "type is required for add_field",
		},
		{
			name:    "reorder without to",
			yaml:    "name: n\ndescription: d\nsteps: [{op: reorder, from: 0}]\n",
			wantErr: "from and to are required",
		},
		{
			name:    "bad expectation",
			yaml:    "name: n\ndescription: d\nsteps: [{op: submit, form: f, expect: maybe}]\n",
			wantErr: "expect must be",
		},
		{
			name:    "history without len",
			yaml:    "name: n\ndescription: d\nsteps: [{op: create}]\nassertions: [{type: history, index: 0}]\n",
			wantErr: "index and len are required",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nsteps: [{op: create}]\nassertions: [{type: trace_order}]\n",
			wantErr: `unknown assertion type "trace_order"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStepPatchValidationReplacesRules(t *testing.T) {
	n := 3
	p := StepPatch{MinLength: &n}.fieldPatch()
	require.NotNil(t, p.Validation)
	assert.Equal(t, 3, *p.Validation.MinLength)
	assert.Nil(t, p.Validation.MaxLength)

	label := "x"
	assert.Nil(t, StepPatch{Label: &label}.fieldPatch().Validation)
}
