package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/formkit/internal/model"
)

// RecordName names the single record holding builder state.
const RecordName = "form-builder-storage"

// BackupName receives the raw payload of a record that failed to decode,
// before anything can overwrite it.
const BackupName = RecordName + ".corrupt"

// State is the persisted slice of builder state.
type State struct {
	Forms     []model.Form         `json:"forms"`
	Responses []model.FormResponse `json:"responses"`
	Theme     model.Theme          `json:"theme"`
}

// EmptyState is what a fresh profile starts with.
func EmptyState() State {
	return State{
		Forms:     []model.Form{},
		Responses: []model.FormResponse{},
		Theme:     model.ThemeLight,
	}
}

// normalize replaces nil slices and unknown themes with defaults.
func (s State) normalize() State {
	if s.Forms == nil {
		s.Forms = []model.Form{}
	}
	if s.Responses == nil {
		s.Responses = []model.FormResponse{}
	}
	if !s.Theme.Valid() {
		s.Theme = model.ThemeLight
	}
	return s
}

// Encode serializes s to the record payload.
func Encode(s State) ([]byte, error) {
	data, err := json.Marshal(s.normalize())
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Decode parses a record payload.
func Decode(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	return s.normalize(), nil
}

// Adapter reads and writes State through a Backend, absorbing failures.
//
// Thread-safety: Adapter is safe for concurrent use. Flushes are
// serialized so a slow write can never overwrite a newer one out of order.
type Adapter struct {
	mu       sync.Mutex
	backend  Backend
	logger   *slog.Logger
	degraded bool
	lastErr  error
	failures int

	// sealed blocks flushes when the stored record could be neither read
	// nor backed up, so an empty session cannot overwrite it.
	sealed bool
}

// NewAdapter wraps backend. A nil logger discards.
func NewAdapter(backend Backend, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{backend: backend, logger: logger}
}

// Rehydrate loads the persisted state and reports whether a record was
// found. A missing record yields EmptyState. Unreadable or corrupt records
// are logged, mark the adapter degraded, and also yield EmptyState.
//
// A corrupt payload is copied to BackupName first. When the record cannot
// be loaded, or the backup fails, later flushes are refused for the rest
// of the session.
func (a *Adapter) Rehydrate(ctx context.Context) (State, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := a.backend.Load(ctx, RecordName)
	if errors.Is(err, ErrNotFound) {
		a.logger.Info("no persisted state, starting fresh", "record", RecordName)
		return EmptyState(), false
	}
	if err != nil {
		a.fail("rehydrate", err)
		a.sealed = true
		return EmptyState(), false
	}

	s, err := Decode(data)
	if err != nil {
		a.fail("rehydrate", err)
		if berr := a.backend.Save(ctx, BackupName, data); berr != nil {
			a.fail("backup", berr)
			a.sealed = true
		} else {
			a.logger.Warn("corrupt record preserved", "backup", BackupName, "bytes", len(data))
		}
		return EmptyState(), false
	}

	a.logger.Info("state rehydrated",
		"record", RecordName,
		"forms", len(s.Forms),
		"responses", len(s.Responses),
		"theme", s.Theme,
	)
	return s, true
}

// Flush writes s. It reports whether the write succeeded; failures are
// logged and mark the adapter degraded but are never returned.
func (a *Adapter) Flush(ctx context.Context, s State) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sealed {
		a.logger.Warn("flush skipped, stored record was unreadable", "record", RecordName)
		return false
	}

	data, err := Encode(s)
	if err != nil {
		a.fail("flush", err)
		return false
	}
	if err := a.backend.Save(ctx, RecordName, data); err != nil {
		a.fail("flush", err)
		return false
	}

	if a.degraded {
		a.logger.Info("persistence recovered", "record", RecordName)
	}
	a.degraded = false
	a.lastErr = nil
	a.logger.Debug("state flushed", "bytes", len(data))
	return true
}

// fail records a storage failure. Must hold a.mu.
func (a *Adapter) fail(op string, err error) {
	a.degraded = true
	a.lastErr = err
	a.failures++
	a.logger.Error("persistence failed, continuing in memory",
		"op", op,
		"record", RecordName,
		"error", err,
		"failures", a.failures,
	)
}

// Degraded reports whether the last storage operation failed.
func (a *Adapter) Degraded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.degraded
}

// LastError returns the error behind the degraded state, or nil.
func (a *Adapter) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Failures returns the number of storage failures this session.
func (a *Adapter) Failures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failures
}

// Close closes the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}
