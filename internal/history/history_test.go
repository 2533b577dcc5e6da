package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/formkit/internal/model"
)

func snap(title string) model.Form {
	return model.NewForm("form-1", title, time.Unix(0, 0))
}

func commit(l *Log, title string) {
	l.CommitKeyed("", snap(title), time.Time{})
}

func titles(l *Log) []string {
	var out []string
	for _, e := range l.entries {
		out = append(out, e.form.Title)
	}
	return out
}

func TestEmptyLog(t *testing.T) {
	l := New()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, -1, l.Index())
	assert.False(t, l.CanUndo())
	assert.False(t, l.CanRedo())

	_, ok := l.Current()
	assert.False(t, ok)
	_, ok = l.Undo()
	assert.False(t, ok)
	_, ok = l.Redo()
	assert.False(t, ok)
}

func TestResetProducesSingleEntry(t *testing.T) {
	l := New()
	l.Reset(snap("a"))
	commit(l, "b")
	l.Reset(snap("c"))

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 0, l.Index())
	cur, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, "c", cur.Title)
	assert.False(t, l.CanUndo())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	l := New()
	l.Reset(snap("0"))
	for _, s := range []string{"1", "2", "3"} {
		commit(l, s)
	}
	require.Equal(t, 3, l.Index())

	for i := 0; i < 3; i++ {
		_, ok := l.Undo()
		require.True(t, ok)
	}
	cur, _ := l.Current()
	assert.Equal(t, "0", cur.Title)

	_, ok := l.Undo()
	assert.False(t, ok, "undo at start is a no-op")
	assert.Equal(t, 0, l.Index())

	for i := 0; i < 3; i++ {
		_, ok := l.Redo()
		require.True(t, ok)
	}
	cur, _ = l.Current()
	assert.Equal(t, "3", cur.Title)

	_, ok = l.Redo()
	assert.False(t, ok, "redo at end is a no-op")
	assert.Equal(t, 3, l.Index())
}

func TestCommitAfterUndoDiscardsRedoBranch(t *testing.T) {
	l := New()
	l.Reset(snap("base"))
	commit(l, "A")
	commit(l, "B")
	l.Undo()
	commit(l, "C")

	assert.Equal(t, []string{"base", "A", "C"}, titles(l))
	assert.False(t, l.CanRedo())
	_, ok := l.Redo()
	assert.False(t, ok)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	l := New()
	f := snap("a")
	l.Reset(f)
	f.Title = "mutated"

	cur, _ := l.Current()
	assert.Equal(t, "a", cur.Title)

	cur.Fields = append(cur.Fields, model.Field{ID: "x"})
	again, _ := l.Current()
	assert.Empty(t, again.Fields)
}

func TestCoalesceWithinWindow(t *testing.T) {
	l := New(WithCoalesceWindow(time.Second))
	t0 := time.Unix(100, 0)
	l.Reset(snap("base"))

	l.CommitKeyed("field:f1", snap("h"), t0)
	l.CommitKeyed("field:f1", snap("he"), t0.Add(300*time.Millisecond))
	l.CommitKeyed("field:f1", snap("hel"), t0.Add(600*time.Millisecond))
	assert.Equal(t, []string{"base", "hel"}, titles(l))

	// Outside the window a new entry starts.
	l.CommitKeyed("field:f1", snap("hell"), t0.Add(3*time.Second))
	assert.Equal(t, []string{"base", "hel", "hell"}, titles(l))

	// A different key never merges.
	l.CommitKeyed("field:f2", snap("other"), t0.Add(3100*time.Millisecond))
	assert.Equal(t, 4, l.Len())
}

func TestCoalesceDisabledByDefault(t *testing.T) {
	l := New()
	t0 := time.Unix(100, 0)
	l.Reset(snap("base"))
	l.CommitKeyed("k", snap("a"), t0)
	l.CommitKeyed("k", snap("b"), t0)
	assert.Equal(t, 3, l.Len())
}

func TestCoalesceStopsAfterUndo(t *testing.T) {
	l := New(WithCoalesceWindow(time.Minute))
	t0 := time.Unix(100, 0)
	l.Reset(snap("base"))
	l.CommitKeyed("k", snap("a"), t0)
	l.CommitKeyed("k", snap("b"), t0.Add(time.Second))
	l.CommitKeyed("j", snap("c"), t0.Add(2*time.Second))

	l.Undo()
	l.Redo()
	l.CommitKeyed("j", snap("d"), t0.Add(3*time.Second))
	assert.Equal(t, []string{"base", "b", "c", "d"}, titles(l))
}

func TestLimitDropsOldest(t *testing.T) {
	l := New(WithLimit(3))
	l.Reset(snap("0"))
	for _, s := range []string{"1", "2", "3", "4"} {
		commit(l, s)
	}
	assert.Equal(t, []string{"2", "3", "4"}, titles(l))
	assert.Equal(t, 2, l.Index())

	l.Undo()
	l.Undo()
	_, ok := l.Undo()
	assert.False(t, ok)
	cur, _ := l.Current()
	assert.Equal(t, "2", cur.Title)
}
