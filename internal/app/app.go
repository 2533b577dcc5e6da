// Package app wires the form store, response store and persistence into
// one application context.
//
// New is the only constructor. It opens the storage backend, rehydrates
// saved forms, responses and theme before returning, and registers
// listeners so every change to persisted state is flushed. There is no
// package-level instance; callers pass the *App where it is needed.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/formkit/internal/builder"
	"github.com/roach88/formkit/internal/clock"
	"github.com/roach88/formkit/internal/config"
	"github.com/roach88/formkit/internal/history"
	"github.com/roach88/formkit/internal/idgen"
	"github.com/roach88/formkit/internal/model"
	"github.com/roach88/formkit/internal/persist"
	"github.com/roach88/formkit/internal/responses"
	"github.com/roach88/formkit/internal/template"
	"github.com/roach88/formkit/internal/validate"
)

// ErrFormNotFound is returned when a form id names no saved form.
var ErrFormNotFound = errors.New("form not found")

// SubmissionError carries the per-field failures of a rejected submission,
// in field order.
type SubmissionError struct {
	FormID string
	Errors []validate.Error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission to %s rejected: %d invalid field(s)", e.FormID, len(e.Errors))
}

// App is the application context.
type App struct {
	logger    *slog.Logger
	adapter   *persist.Adapter
	builder   *builder.Store
	responses *responses.Store

	// flushMu orders snapshot-then-write so a stale snapshot never lands
	// after a newer one.
	flushMu sync.Mutex
}

// Option configures New.
type Option func(*options)

type options struct {
	backend     persist.Backend
	logger      *slog.Logger
	clock       clock.Clock
	formIDs     idgen.Generator
	fieldIDs    idgen.Generator
	responseIDs idgen.Generator
}

// WithBackend uses b instead of opening cfg.Database.
func WithBackend(b persist.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithLogger sets the structured logger. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the time source for both stores.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIDs sets the id generators. Nil generators keep the defaults.
func WithIDs(forms, fields, responses idgen.Generator) Option {
	return func(o *options) {
		o.formIDs = forms
		o.fieldIDs = fields
		o.responseIDs = responses
	}
}

// New builds the application context from cfg and rehydrates it.
// Storage failures during rehydration are absorbed: the app starts empty
// and reports Degraded. Only a backend that cannot be opened at all is
// returned as an error.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	backend := o.backend
	if backend == nil {
		db, err := persist.OpenSQLite(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open storage %s: %w", cfg.Database, err)
		}
		backend = db
	}

	a := &App{
		logger:  o.logger,
		adapter: persist.NewAdapter(backend, o.logger.With("component", "persist")),
	}

	builderOpts := []builder.Option{
		builder.WithLogger(o.logger.With("component", "builder")),
		builder.WithIDs(o.formIDs, o.fieldIDs),
		builder.WithTheme(cfg.Theme),
		builder.WithHistory(
			history.WithCoalesceWindow(cfg.History.CoalesceWindow.Std()),
			history.WithLimit(cfg.History.Limit),
		),
	}
	responseOpts := []responses.Option{
		responses.WithLogger(o.logger.With("component", "responses")),
		responses.WithIDs(o.responseIDs),
	}
	if o.clock != nil {
		builderOpts = append(builderOpts, builder.WithClock(o.clock))
		responseOpts = append(responseOpts, responses.WithClock(o.clock))
	}
	a.builder = builder.New(builderOpts...)
	a.responses = responses.New(responseOpts...)

	state, found := a.adapter.Rehydrate(ctx)
	theme := state.Theme
	if !found {
		theme = cfg.Theme
	}
	a.builder.Restore(state.Forms, theme)
	a.responses.Restore(state.Responses)

	a.builder.OnChange(func(builder.Change) { a.flush() })
	a.responses.OnAppend(a.flush)

	return a, nil
}

// flush writes the persisted slices. Failures are recorded by the adapter.
func (a *App) flush() {
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	// Listeners carry no request context; a flush must finish even if the
	// triggering request was cancelled.
	a.adapter.Flush(context.Background(), persist.State{
		Forms:     a.builder.SavedForms(),
		Responses: a.responses.All(),
		Theme:     a.builder.Theme(),
	})
}

// Builder returns the form store.
func (a *App) Builder() *builder.Store { return a.builder }

// Responses returns the response store.
func (a *App) Responses() *responses.Store { return a.responses }

// Degraded reports whether the last storage operation failed.
func (a *App) Degraded() bool { return a.adapter.Degraded() }

// StorageStatus returns the number of storage failures this session and
// the error behind the current degraded state, if any.
func (a *App) StorageStatus() (failures int, lastErr error) {
	return a.adapter.Failures(), a.adapter.LastError()
}

// Close closes the storage backend.
func (a *App) Close() error { return a.adapter.Close() }

// CreateForm starts a new editing session.
func (a *App) CreateForm(title string) model.Form {
	return a.builder.CreateForm(title)
}

// LoadForm opens the saved form id for editing.
func (a *App) LoadForm(id string) error {
	if !a.builder.LoadForm(id) {
		return fmt.Errorf("load %s: %w", id, ErrFormNotFound)
	}
	return nil
}

// SaveForm upserts the form being edited into the saved collection and
// returns it.
func (a *App) SaveForm() (model.Form, error) {
	if !a.builder.SaveForm() {
		return model.Form{}, errors.New("save: no form is being edited")
	}
	f, _ := a.builder.CurrentForm()
	return f, nil
}

// Submit validates values against the saved form formID and records them.
// Invalid submissions are rejected with a *SubmissionError and nothing is
// stored.
func (a *App) Submit(formID string, values map[string]any) (model.FormResponse, error) {
	form, ok := a.builder.SavedForm(formID)
	if !ok {
		return model.FormResponse{}, fmt.Errorf("submit %s: %w", formID, ErrFormNotFound)
	}

	if errs := validate.Submission(form, values); len(errs) > 0 {
		a.logger.Info("submission rejected", "form_id", formID, "errors", len(errs))
		return model.FormResponse{}, &SubmissionError{
			FormID: formID,
			Errors: validate.Ordered(form, errs),
		}
	}

	return a.responses.AddFormResponse(formID, values), nil
}

// Import builds def into a new saved form and returns it. The import
// replaces the current editing session.
func (a *App) Import(def template.Definition) (model.Form, error) {
	a.builder.CreateForm(def.Title)
	if def.Description != "" {
		desc := def.Description
		a.builder.UpdateForm(model.FormPatch{Description: &desc})
	}
	for _, f := range def.Fields {
		if _, ok := a.builder.AddField(f); !ok {
			return model.Form{}, fmt.Errorf("import %s: %w: %q", def.Name, model.ErrUnknownFieldType, f.Type)
		}
	}
	form, err := a.SaveForm()
	if err != nil {
		return model.Form{}, fmt.Errorf("import %s: %w", def.Name, err)
	}
	a.logger.Info("form imported", "template", def.Name, "form_id", form.ID, "fields", len(form.Fields))
	return form, nil
}
