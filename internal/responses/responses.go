// Package responses implements the append-only store of submitted form
// responses.
//
// Submissions bypass undo history. A response is created once and never
// mutated or deleted, and its form id is not checked against the saved
// collection: responses to a form that no longer exists are kept.
package responses

import (
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/formkit/internal/clock"
	"github.com/roach88/formkit/internal/idgen"
	"github.com/roach88/formkit/internal/model"
)

// Store holds responses in submission order.
type Store struct {
	mu        sync.Mutex
	clock     clock.Clock
	ids       idgen.Generator
	logger    *slog.Logger
	list      []model.FormResponse
	listeners []func()
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the source of SubmittedAt.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDs sets the response id generator.
func WithIDs(g idgen.Generator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithLogger sets the structured logger. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		clock:  clock.System{},
		ids:    idgen.Prefixed{Kind: idgen.KindResponse},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		list:   []model.FormResponse{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddFormResponse records a submission for formID and returns it.
// It always succeeds: there is no form existence check and no
// deduplication, so two identical submissions yield two entries.
func (s *Store) AddFormResponse(formID string, values map[string]any) model.FormResponse {
	r := model.FormResponse{FormID: formID, Responses: values}.Clone()
	if r.Responses == nil {
		r.Responses = map[string]any{}
	}

	s.mu.Lock()
	r.ID = s.ids.Generate()
	r.SubmittedAt = s.clock.Now()
	s.list = append(s.list, r)
	ls := append([]func(){}, s.listeners...)
	total := len(s.list)
	s.mu.Unlock()

	s.logger.Info("response recorded", "response_id", r.ID, "form_id", formID, "total", total)
	for _, fn := range ls {
		fn()
	}
	return r.Clone()
}

// OnAppend registers fn to run after every append.
func (s *Store) OnAppend(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// All returns every response in submission order.
func (s *Store) All() []model.FormResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.FormResponse, len(s.list))
	for i, r := range s.list {
		out[i] = r.Clone()
	}
	return out
}

// ForForm returns the responses to formID in submission order.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ForForm(formID string) []model.FormResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.FormResponse{}
	for _, r := range s.list {
		if r.FormID == formID {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Count returns the number of responses to formID.
func (s *Store) Count(formID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.list {
		if r.FormID == formID {
			n++
		}
	}
	return n
}

// Restore replaces the collection with rehydrated responses without
// notifying listeners.
func (s *Store) Restore(list []model.FormResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = make([]model.FormResponse, 0, len(list))
	for _, r := range list {
		s.list = append(s.list, r.Clone())
	}
}
