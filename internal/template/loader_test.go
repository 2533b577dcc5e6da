package template

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCUE(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "contact.cue", `package forms

form: contact: {
	title: "Contact us"
	fields: [{type: "text", label: "Name"}]
}
`)
	writeCUE(t, dir, "survey.cue", `package forms

form: agenda: {
	title: "Agenda"
	fields: [{type: "date", label: "Day"}, {type: "checkbox", label: "Attending"}]
}
`)

	defs, errs := LoadDir(dir, LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, defs, 2)
	assert.Equal(t, "agenda", defs[0].Name)
	assert.Equal(t, "contact", defs[1].Name)
	assert.Len(t, defs[0].Fields, 2)
}

func TestLoadDirCollectAll(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "forms.cue", `package forms

form: good: title: "Good"
form: bad1: fields: []
form: bad2: {title: "x", fields: [{type: "slider"}]}
`)

	defs, errs := LoadDir(dir, LoadModeCollectAll)
	require.Len(t, defs, 1)
	assert.Equal(t, "good", defs[0].Name)
	require.Len(t, errs, 2)

	codes := []string{}
	for _, err := range errs {
		var le *LoadError
		require.True(t, errors.As(err, &le))
		codes = append(codes, le.Code)
	}
	assert.ElementsMatch(t, []string{ErrCodeTitle, ErrCodeFieldType}, codes)
}

func TestLoadDirFailFast(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "forms.cue", `package forms

form: a: fields: []
form: b: fields: []
`)

	_, errs := LoadDir(dir, LoadModeFailFast)
	assert.Len(t, errs, 1)
}

func TestLoadDirErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, errs := LoadDir(filepath.Join(t.TempDir(), "nope"), LoadModeFailFast)
		require.Len(t, errs, 1)
		var le *LoadError
		require.True(t, errors.As(errs[0], &le))
		assert.Equal(t, ErrCodeNotFound, le.Code)
	})

	t.Run("no cue files", func(t *testing.T) {
		_, errs := LoadDir(t.TempDir(), LoadModeFailFast)
		require.Len(t, errs, 1)
		var le *LoadError
		require.True(t, errors.As(errs[0], &le))
		assert.Equal(t, ErrCodeNoFiles, le.Code)
	})

	t.Run("no forms", func(t *testing.T) {
		dir := t.TempDir()
		writeCUE(t, dir, "x.cue", "package forms\n\nother: 1\n")
		_, errs := LoadDir(dir, LoadModeFailFast)
		require.Len(t, errs, 1)
		var le *LoadError
		require.True(t, errors.As(errs[0], &le))
		assert.Equal(t, ErrCodeGeneric, le.Code)
	})
}
