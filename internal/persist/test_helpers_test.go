package persist

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/formkit/internal/model"
)

// createTestSQLite opens a fresh database in a temp dir.
func createTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

// sampleState builds a state with one form and one response.
func sampleState() State {
	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	form := model.NewForm("form_1", "Contact", ts)
	form.Fields = []model.Field{{ID: "field_1", Type: model.FieldEmail, Label: "Email", Required: true}}
	return State{
		Forms: []model.Form{form},
		Responses: []model.FormResponse{{
			ID:          "response_1",
			FormID:      "form_1",
			Responses:   map[string]any{"field_1": "ada@example.com"},
			SubmittedAt: ts.Add(time.Minute),
		}},
		Theme: model.ThemeDark,
	}
}

// schemaVersion reads PRAGMA user_version.
func (s *SQLite) schemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}
