// Package history implements the linear undo/redo log over form snapshots.
//
// The log is an ordered sequence of immutable snapshots plus a cursor.
// Whenever the log is non-empty, 0 <= Index() < Len() and Current() is the
// snapshot under the cursor. Committing truncates everything after the
// cursor before appending: a new edit discards the redo branch. There is no
// tree of alternative futures.
//
// Log is not safe for concurrent use; the form store serializes access.
package history

import (
	"time"

	"github.com/roach88/formkit/internal/model"
)

type entry struct {
	form model.Form
	key  string    // coalescing key of the commit that produced this entry
	at   time.Time // wall time of the last write to this entry
}

// Log is an undo/redo stack of form snapshots with a cursor.
type Log struct {
	entries []entry
	index   int
	window  time.Duration
	limit   int
}

// Option configures a Log.
type Option func(*Log)

// WithCoalesceWindow merges consecutive keyed commits that arrive within d
// of each other into one entry. Zero disables coalescing.
func WithCoalesceWindow(d time.Duration) Option {
	return func(l *Log) {
		if d > 0 {
			l.window = d
		}
	}
}

// WithLimit caps the number of retained snapshots. The oldest entries are
// dropped first. Zero or negative means unlimited.
func WithLimit(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.limit = n
		}
	}
}

// New returns an empty log.
func New(opts ...Option) *Log {
	l := &Log{index: -1}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reset replaces the whole log with a single snapshot at index 0.
func (l *Log) Reset(snapshot model.Form) {
	l.entries = []entry{{form: snapshot.Clone()}}
	l.index = 0
}

// CommitKeyed truncates entries after the cursor, appends snapshot and
// moves the cursor onto it. An empty key never coalesces. Otherwise, when
// the cursor is at the tip, the tip came from a commit with the same key
// and now is within the coalesce window of that commit, the tip is
// replaced instead.
func (l *Log) CommitKeyed(key string, snapshot model.Form, now time.Time) {
	if l.coalesces(key, now) {
		l.entries[l.index] = entry{form: snapshot.Clone(), key: key, at: now}
		return
	}

	l.entries = append(l.entries[:l.index+1], entry{form: snapshot.Clone(), key: key, at: now})
	l.index = len(l.entries) - 1

	if l.limit > 0 && len(l.entries) > l.limit {
		drop := len(l.entries) - l.limit
		l.entries = append([]entry(nil), l.entries[drop:]...)
		l.index -= drop
	}
}

func (l *Log) coalesces(key string, now time.Time) bool {
	if l.window <= 0 || key == "" || l.index < 0 {
		return false
	}
	// Only the tip merges; after an undo the next edit must branch.
	if l.index != len(l.entries)-1 {
		return false
	}
	tip := l.entries[l.index]
	if tip.key != key {
		return false
	}
	return !now.Before(tip.at) && now.Sub(tip.at) <= l.window
}

// Undo moves the cursor back one entry and returns the snapshot there.
// It reports false, leaving the log unchanged, at the first entry.
func (l *Log) Undo() (model.Form, bool) {
	if l.index <= 0 {
		return model.Form{}, false
	}
	l.index--
	l.breakCoalescing()
	return l.entries[l.index].form.Clone(), true
}

// Redo moves the cursor forward one entry and returns the snapshot there.
// It reports false, leaving the log unchanged, at the last entry.
func (l *Log) Redo() (model.Form, bool) {
	if l.index < 0 || l.index >= len(l.entries)-1 {
		return model.Form{}, false
	}
	l.index++
	l.breakCoalescing()
	return l.entries[l.index].form.Clone(), true
}

// breakCoalescing stops the entry under the cursor from absorbing the next
// keyed commit; an undone-then-redone edit is a finished edit.
func (l *Log) breakCoalescing() {
	l.entries[l.index].key = ""
}

// Current returns the snapshot under the cursor.
func (l *Log) Current() (model.Form, bool) {
	if l.index < 0 {
		return model.Form{}, false
	}
	return l.entries[l.index].form.Clone(), true
}

// CanUndo reports whether Undo would move the cursor.
func (l *Log) CanUndo() bool { return l.index > 0 }

// CanRedo reports whether Redo would move the cursor.
func (l *Log) CanRedo() bool { return l.index >= 0 && l.index < len(l.entries)-1 }

// Len returns the number of snapshots.
func (l *Log) Len() int { return len(l.entries) }

// Index returns the cursor position, or -1 for an empty log.
func (l *Log) Index() int { return l.index }
