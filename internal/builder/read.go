package builder

import "github.com/roach88/formkit/internal/model"

// Snapshot is a consistent read of the editing session.
type Snapshot struct {
	CurrentForm     *model.Form       `json:"currentForm"`
	SelectedFieldID string            `json:"selectedFieldId,omitempty"`
	PreviewMode     model.PreviewMode `json:"previewMode"`
	Theme           model.Theme       `json:"theme"`
	HistoryIndex    int               `json:"historyIndex"`
	HistoryLen      int               `json:"historyLen"`
	CanUndo         bool              `json:"canUndo"`
	CanRedo         bool              `json:"canRedo"`
}

// Snapshot returns the session state under one lock acquisition.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SelectedFieldID: s.selected,
		PreviewMode:     s.preview,
		Theme:           s.theme,
		HistoryIndex:    s.hist.Index(),
		HistoryLen:      s.hist.Len(),
		CanUndo:         s.hist.CanUndo(),
		CanRedo:         s.hist.CanRedo(),
	}
	if s.hasCurrent {
		f := s.current.Clone()
		snap.CurrentForm = &f
	}
	return snap
}

// CurrentForm returns a copy of the form being edited.
func (s *Store) CurrentForm() (model.Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCurrent {
		return model.Form{}, false
	}
	return s.current.Clone(), true
}

// SavedForms returns copies of the saved collection in first-save order.
func (s *Store) SavedForms() []model.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Form, len(s.saved))
	for i, f := range s.saved {
		out[i] = f.Clone()
	}
	return out
}

// SavedForm returns the saved snapshot with the given id.
func (s *Store) SavedForm(id string) (model.Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.saved {
		if f.ID == id {
			return f.Clone(), true
		}
	}
	return model.Form{}, false
}

// SelectedFieldID returns the selected field id, or "".
func (s *Store) SelectedFieldID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// PreviewMode returns the preview device width.
func (s *Store) PreviewMode() model.PreviewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Theme returns the color theme.
func (s *Store) Theme() model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// CanUndo reports whether Undo would change the current form.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanUndo()
}

// CanRedo reports whether Redo would change the current form.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanRedo()
}

// HistoryLen returns the number of snapshots in the undo log.
func (s *Store) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Len()
}

// HistoryIndex returns the undo cursor, or -1 before any form exists.
func (s *Store) HistoryIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Index()
}
