package builder

import (
	"github.com/roach88/formkit/internal/model"
)

// maxIDAttempts bounds regeneration when a generator returns an id that is
// already present in the form.
const maxIDAttempts = 8

// CreateForm starts a new editing session on an empty form titled title.
// History is reset to a single entry. Always succeeds.
func (s *Store) CreateForm(title string) model.Form {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := model.NewForm(s.formIDs.Generate(), title, s.clock.Now())
	s.current = f
	s.hasCurrent = true
	s.hist.Reset(f)

	s.logger.Info("form created", "form_id", f.ID, "title", f.Title)
	return f.Clone()
}

// UpdateForm merges patch into the current form and commits a snapshot.
// It is a no-op returning false when there is no current form.
func (s *Store) UpdateForm(patch model.FormPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(formPatchKey(patch), patch)
}

// formPatchKey coalesces pure title or pure description edits.
func formPatchKey(p model.FormPatch) string {
	switch {
	case p.Fields != nil:
		return ""
	case p.Title != nil && p.Description == nil:
		return "form:title"
	case p.Description != nil && p.Title == nil:
		return "form:description"
	}
	return ""
}

// commit is the single choke point for history. A patch that leaves the
// content unchanged commits nothing and reports false. Must hold s.mu.
func (s *Store) commit(key string, patch model.FormPatch) bool {
	if !s.hasCurrent {
		return false
	}
	next := patch.Apply(s.current)
	if s.sameAsTip(next) {
		s.logger.Debug("commit skipped, content unchanged", "form_id", next.ID)
		return false
	}
	now := s.clock.Now()
	next.UpdatedAt = now

	s.current = next
	s.hist.CommitKeyed(key, next, now)

	s.logger.Debug("form committed",
		"form_id", next.ID,
		"fields", len(next.Fields),
		"history_index", s.hist.Index(),
		"history_len", s.hist.Len(),
	)
	return true
}

// sameAsTip compares content fingerprints of next and the snapshot under
// the history cursor. Timestamps are not part of the fingerprint.
func (s *Store) sameAsTip(next model.Form) bool {
	tip, ok := s.hist.Current()
	if !ok {
		return false
	}
	a, err := tip.Fingerprint()
	if err != nil {
		return false
	}
	b, err := next.Fingerprint()
	if err != nil {
		return false
	}
	return a == b
}

// AddField appends a copy of field to the current form under a freshly
// generated id, which it returns. Any id on the argument is ignored. It is
// a no-op when there is no current form or the field type is not in the
// palette.
func (s *Store) AddField(field model.Field) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasCurrent {
		return "", false
	}
	if !field.Type.Valid() {
		s.logger.Warn("add field rejected", "type", field.Type)
		return "", false
	}

	id := s.newFieldID()
	nf := field.Normalized()
	nf.ID = id

	fields := append(cloneFields(s.current.Fields), nf)
	s.commit("", model.FormPatch{Fields: &fields})
	s.logger.Debug("field added", "form_id", s.current.ID, "field_id", id, "type", nf.Type)
	return id, true
}

// newFieldID returns an id not used by any field in the current form.
// Must hold s.mu.
func (s *Store) newFieldID() string {
	id := s.fieldIDs.Generate()
	for i := 1; i < maxIDAttempts && s.current.FieldIndex(id) >= 0; i++ {
		id = s.fieldIDs.Generate()
	}
	return id
}

// UpdateField shallow-merges patch into the field with the given id.
// Unknown ids and empty patches change nothing and create no history entry.
func (s *Store) UpdateField(id string, patch model.FieldPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasCurrent || patch.Empty() {
		return false
	}
	i := s.current.FieldIndex(id)
	if i < 0 {
		return false
	}

	fields := cloneFields(s.current.Fields)
	fields[i] = patch.Apply(fields[i])
	return s.commit("field:"+id, model.FormPatch{Fields: &fields})
}

// RemoveField deletes the field with the given id. If it was selected, the
// selection is cleared outside history. Unknown ids change nothing.
func (s *Store) RemoveField(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasCurrent {
		return false
	}
	i := s.current.FieldIndex(id)
	if i < 0 {
		return false
	}

	fields := cloneFields(s.current.Fields)
	fields = append(fields[:i], fields[i+1:]...)
	s.commit("", model.FormPatch{Fields: &fields})

	if s.selected == id {
		s.selected = ""
	}
	s.logger.Debug("field removed", "form_id", s.current.ID, "field_id", id)
	return true
}

// ReorderFields removes the field at from and reinserts it at to in the
// shortened sequence (splice, not swap): on [A B C], (0, 2) yields [B C A]
// and (2, 0) yields [C A B]. Both indices must lie in [0, len) and differ;
// anything else is a no-op.
func (s *Store) ReorderFields(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasCurrent {
		return false
	}
	n := len(s.current.Fields)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}

	fields := cloneFields(s.current.Fields)
	moved := fields[from]
	fields = append(fields[:from], fields[from+1:]...)
	fields = append(fields[:to], append([]model.Field{moved}, fields[to:]...)...)
	return s.commit("", model.FormPatch{Fields: &fields})
}

// Undo moves one step back in history and makes that snapshot current.
// No-op at the first entry.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.current = f
	s.logger.Debug("undo", "form_id", f.ID, "history_index", s.hist.Index())
	return true
}

// Redo moves one step forward in history and makes that snapshot current.
// No-op at the last entry.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.current = f
	s.logger.Debug("redo", "form_id", f.ID, "history_index", s.hist.Index())
	return true
}

// SaveForm upserts the current form into the saved collection by id:
// an existing entry is replaced in place, a new one is appended.
func (s *Store) SaveForm() bool {
	s.mu.Lock()
	if !s.hasCurrent {
		s.mu.Unlock()
		return false
	}
	f := s.current.Clone()
	replaced := false
	for i := range s.saved {
		if s.saved[i].ID == f.ID {
			s.saved[i] = f
			replaced = true
			break
		}
	}
	if !replaced {
		s.saved = append(s.saved, f)
	}
	s.logger.Info("form saved", "form_id", f.ID, "replaced", replaced, "saved_count", len(s.saved))
	s.mu.Unlock()

	s.emit(ChangeSavedForms)
	return true
}

// LoadForm makes the saved form with the given id current. Any previous
// undo history is discarded: history covers one editing session of one
// form. Selection is cleared. Unknown ids are a no-op.
func (s *Store) LoadForm(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.saved {
		if f.ID != id {
			continue
		}
		s.current = f.Clone()
		s.hasCurrent = true
		s.hist.Reset(f)
		s.selected = ""
		s.clock.Observe(f.UpdatedAt)
		s.logger.Info("form loaded", "form_id", id)
		return true
	}
	return false
}

// SelectField sets the selected field id. An empty id clears the
// selection. Selection is not part of history.
func (s *Store) SelectField(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// SetPreviewMode sets the preview device width. Invalid modes are ignored.
func (s *Store) SetPreviewMode(m model.PreviewMode) bool {
	if !m.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = m
	return true
}

// SetTheme sets the color theme. Invalid themes are ignored.
func (s *Store) SetTheme(t model.Theme) bool {
	if !t.Valid() {
		return false
	}
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()

	s.emit(ChangeTheme)
	return true
}

func cloneFields(fields []model.Field) []model.Field {
	out := make([]model.Field, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	return out
}
