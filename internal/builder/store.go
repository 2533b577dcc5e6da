package builder

import (
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/formkit/internal/clock"
	"github.com/roach88/formkit/internal/history"
	"github.com/roach88/formkit/internal/idgen"
	"github.com/roach88/formkit/internal/model"
)

// Change names a slice of persisted state that a mutation touched.
type Change string

const (
	ChangeSavedForms Change = "saved_forms"
	ChangeTheme      Change = "theme"
)

// Listener is notified after a mutation changes persisted state.
type Listener func(Change)

// Store is the form store. The zero value is not usable; call New.
type Store struct {
	mu sync.Mutex

	clock    *clock.Monotonic
	formIDs  idgen.Generator
	fieldIDs idgen.Generator
	logger   *slog.Logger
	hist     *history.Log

	current    model.Form
	hasCurrent bool
	saved      []model.Form
	selected   string
	preview    model.PreviewMode
	theme      model.Theme

	listeners []Listener
}

// Option configures a Store.
type Option func(*config)

type config struct {
	clock       clock.Clock
	formIDs     idgen.Generator
	fieldIDs    idgen.Generator
	logger      *slog.Logger
	historyOpts []history.Option
	theme       model.Theme
}

// WithClock sets the time source. Readings are made strictly monotonic.
func WithClock(c clock.Clock) Option {
	return func(cfg *config) { cfg.clock = c }
}

// WithIDs sets the generators for form ids and field ids.
// Nil generators keep the UUIDv7 defaults.
func WithIDs(forms, fields idgen.Generator) Option {
	return func(cfg *config) {
		if forms != nil {
			cfg.formIDs = forms
		}
		if fields != nil {
			cfg.fieldIDs = fields
		}
	}
}

// WithLogger sets the structured logger. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// WithHistory passes options to the undo log.
func WithHistory(opts ...history.Option) Option {
	return func(cfg *config) { cfg.historyOpts = append(cfg.historyOpts, opts...) }
}

// WithTheme sets the initial theme. Invalid values are ignored.
func WithTheme(t model.Theme) Option {
	return func(cfg *config) {
		if t.Valid() {
			cfg.theme = t
		}
	}
}

// New creates an empty store: no current form, nothing saved, desktop
// preview, light theme.
func New(opts ...Option) *Store {
	cfg := &config{
		formIDs:  idgen.Prefixed{Kind: idgen.KindForm},
		fieldIDs: idgen.Prefixed{Kind: idgen.KindField},
		theme:    model.ThemeLight,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Store{
		clock:    clock.NewMonotonic(cfg.clock),
		formIDs:  cfg.formIDs,
		fieldIDs: cfg.fieldIDs,
		logger:   cfg.logger,
		hist:     history.New(cfg.historyOpts...),
		saved:    []model.Form{},
		preview:  model.PreviewDesktop,
		theme:    cfg.theme,
	}
}

// OnChange registers l for change notifications.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// emit runs listeners. Must be called without s.mu held.
func (s *Store) emit(c Change) {
	s.mu.Lock()
	ls := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	for _, l := range ls {
		l(c)
	}
}

// Restore installs rehydrated state. It replaces the saved collection and
// theme without notifying listeners and leaves the editing session alone.
func (s *Store) Restore(forms []model.Form, theme model.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved = make([]model.Form, 0, len(forms))
	for _, f := range forms {
		s.saved = append(s.saved, f.Clone())
		s.clock.Observe(f.UpdatedAt)
	}
	if theme.Valid() {
		s.theme = theme
	}
	s.logger.Debug("store restored", "forms", len(s.saved), "theme", s.theme)
}
