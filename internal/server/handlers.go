package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/formkit/internal/app"
	"github.com/roach88/formkit/internal/builder"
	"github.com/roach88/formkit/internal/model"
)

const msgNoCurrentForm = "no form is being edited"

// formSummary is one dashboard row.
type formSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	FieldCount    int       `json:"fieldCount"`
	ResponseCount int       `json:"responseCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// mutationResult answers builder mutations that may be no-ops.
type mutationResult struct {
	Applied bool             `json:"applied"`
	Builder builder.Snapshot `json:"builder"`
}

// GET /api/forms
func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	forms := s.app.Builder().SavedForms()
	out := make([]formSummary, 0, len(forms))
	for _, f := range forms {
		out = append(out, formSummary{
			ID:            f.ID,
			Title:         f.Title,
			Description:   f.Description,
			FieldCount:    len(f.Fields),
			ResponseCount: s.app.Responses().Count(f.ID),
			UpdatedAt:     f.UpdatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// POST /api/forms
func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	title := s.sanitize.text(req.Title)
	if title == "" {
		title = "Untitled Form"
	}
	s.writeJSON(w, http.StatusCreated, s.app.CreateForm(title))
}

// GET /api/forms/{id}/responses
func (s *Server) handleListResponses(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	form, ok := s.app.Builder().SavedForm(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, app.ErrFormNotFound.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Form      model.Form           `json:"form"`
		Responses []model.FormResponse `json:"responses"`
	}{form, s.app.Responses().ForForm(id)})
}

// GET /api/builder
func (s *Server) handleGetBuilder(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.app.Builder().Snapshot())
}

// PATCH /api/builder
func (s *Server) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if !s.requireCurrent(w) {
		return
	}
	applied := s.app.Builder().UpdateForm(model.FormPatch{
		Title:       s.sanitize.ptr(req.Title),
		Description: s.sanitize.ptr(req.Description),
	})
	s.writeMutation(w, applied)
}

// POST /api/builder/fields
//
// The body is a field patch whose type is required; everything else
// overrides the palette defaults.
func (s *Server) handleAddField(w http.ResponseWriter, r *http.Request) {
	var patch model.FieldPatch
	if !s.decode(w, r, &patch) {
		return
	}
	if patch.Type == nil {
		s.writeError(w, http.StatusBadRequest, "field type is required")
		return
	}
	f, err := model.NewField(*patch.Type)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.requireCurrent(w) {
		return
	}

	id, ok := s.app.Builder().AddField(s.sanitize.fieldPatch(patch).Apply(f))
	if !ok {
		s.writeError(w, http.StatusConflict, msgNoCurrentForm)
		return
	}
	s.writeJSON(w, http.StatusCreated, struct {
		ID      string           `json:"id"`
		Builder builder.Snapshot `json:"builder"`
	}{id, s.app.Builder().Snapshot()})
}

// PATCH /api/builder/fields/{id}
func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	var patch model.FieldPatch
	if !s.decode(w, r, &patch) {
		return
	}
	if !s.requireField(w, chi.URLParam(r, "id")) {
		return
	}
	applied := s.app.Builder().UpdateField(chi.URLParam(r, "id"), s.sanitize.fieldPatch(patch))
	s.writeMutation(w, applied)
}

// DELETE /api/builder/fields/{id}
func (s *Server) handleRemoveField(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.requireField(w, id) {
		return
	}
	s.writeMutation(w, s.app.Builder().RemoveField(id))
}

// POST /api/builder/fields/reorder
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if !s.requireCurrent(w) {
		return
	}
	s.writeMutation(w, s.app.Builder().ReorderFields(req.From, req.To))
}

// POST /api/builder/undo
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.writeMutation(w, s.app.Builder().Undo())
}

// POST /api/builder/redo
func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.writeMutation(w, s.app.Builder().Redo())
}

// POST /api/builder/save
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	form, err := s.app.SaveForm()
	if err != nil {
		s.writeError(w, http.StatusConflict, msgNoCurrentForm)
		return
	}
	s.writeJSON(w, http.StatusOK, form)
}

// POST /api/builder/load/{id}
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if err := s.app.LoadForm(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusNotFound, app.ErrFormNotFound.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.app.Builder().Snapshot())
}

// PUT /api/builder/select
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FieldID string `json:"fieldId"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.app.Builder().SelectField(req.FieldID)
	s.writeJSON(w, http.StatusOK, s.app.Builder().Snapshot())
}

// PUT /api/builder/preview
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	mode, err := model.ParsePreviewMode(req.Mode)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.app.Builder().SetPreviewMode(mode)
	s.writeJSON(w, http.StatusOK, s.app.Builder().Snapshot())
}

// PUT /api/theme
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	theme, err := model.ParseTheme(req.Theme)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.app.Builder().SetTheme(theme)
	s.writeJSON(w, http.StatusOK, struct {
		Theme model.Theme `json:"theme"`
	}{theme})
}

// GET /form/{id}
func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, ok := s.app.Builder().SavedForm(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, app.ErrFormNotFound.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, form)
}

// POST /form/{id}/responses
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var values map[string]any
	if !s.decode(w, r, &values) {
		return
	}

	resp, err := s.app.Submit(chi.URLParam(r, "id"), s.sanitize.values(values))
	var subErr *app.SubmissionError
	switch {
	case errors.Is(err, app.ErrFormNotFound):
		s.writeError(w, http.StatusNotFound, app.ErrFormNotFound.Error())
	case errors.As(err, &subErr):
		s.writeJSON(w, http.StatusUnprocessableEntity, struct {
			Errors any `json:"errors"`
		}{subErr.Errors})
	case err != nil:
		s.logger.Error("submit failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	default:
		s.writeJSON(w, http.StatusCreated, resp)
	}
}

// requireCurrent answers 409 when no form is being edited.
func (s *Server) requireCurrent(w http.ResponseWriter) bool {
	if _, ok := s.app.Builder().CurrentForm(); !ok {
		s.writeError(w, http.StatusConflict, msgNoCurrentForm)
		return false
	}
	return true
}

// requireField answers 409 without a current form and 404 for unknown ids.
func (s *Server) requireField(w http.ResponseWriter, id string) bool {
	f, ok := s.app.Builder().CurrentForm()
	if !ok {
		s.writeError(w, http.StatusConflict, msgNoCurrentForm)
		return false
	}
	if f.FieldIndex(id) < 0 {
		s.writeError(w, http.StatusNotFound, "field not found")
		return false
	}
	return true
}

func (s *Server) writeMutation(w http.ResponseWriter, applied bool) {
	s.writeJSON(w, http.StatusOK, mutationResult{
		Applied: applied,
		Builder: s.app.Builder().Snapshot(),
	})
}
