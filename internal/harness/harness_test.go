package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestRunTracksEveryStep(t *testing.T) {
	s := &Scenario{
		Name:        "trace",
		Description: "each step yields one event",
		Steps: []Step{
			{Op: OpCreate, Title: "T"},
			{Op: OpAddField, Type: "text", Label: "Q1"},
			{Op: OpUndo},
			{Op: OpRedo},
		},
	}

	res, err := Run(s)
	require.NoError(t, err)
	assert.True(t, res.Pass)
	require.Len(t, res.Trace, 4)

	assert.Equal(t, "form_id-1", res.Trace[0].Outcome)
	assert.Equal(t, "field_id-1", res.Trace[1].Outcome)
	assert.Equal(t, []string{"Q1"}, res.Trace[1].Fields)
	assert.Equal(t, []string{}, res.Trace[2].Fields)
	assert.Equal(t, 0, res.Trace[2].HistoryIndex)
	assert.Equal(t, 2, res.Trace[3].HistoryLen)
}

func TestRunIsDeterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/undo_redo.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, RenderTrace(s.Name, first), RenderTrace(s.Name, second))
}

func TestRunReportsFailedExpectation(t *testing.T) {
	s := &Scenario{
		Name:        "expectation",
		Description: "required field left blank",
		Steps: []Step{
			{Op: OpCreate, Title: "T", As: "t"},
			{Op: OpAddField, Type: "text", Required: true, As: "q"},
			{Op: OpSave},
			{Op: OpSubmit, Form: "t", Values: map[string]any{"q": ""}, Expect: ExpectAccepted},
		},
	}

	res, err := Run(s)
	require.NoError(t, err)
	assert.False(t, res.Pass)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "submit expected accepted, got rejected V001@field_id-1")
}

func TestRunReportsFailedAssertions(t *testing.T) {
	s := &Scenario{
		Name:        "assertions",
		Description: "wrong expectations",
		Steps:       []Step{{Op: OpCreate, Title: "T"}},
		Assertions: []Assertion{
			{Type: AssertSavedCount, Count: intPtr(1)},
			{Type: AssertCanUndo, Value: boolPtr(false)},
		},
	}

	res, err := Run(s)
	require.NoError(t, err)
	assert.False(t, res.Pass)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "saved_count")
}

func TestRunUnknownFieldType(t *testing.T) {
	s := &Scenario{
		Name:        "bad_type",
		Description: "palette is closed",
		Steps: []Step{
			{Op: OpCreate, Title: "T"},
			{Op: OpAddField, Type: "slider"},
		},
	}

	_, err := Run(s)
	assert.ErrorContains(t, err, "step 1 (add_field)")
}

func TestAddFieldWithoutFormIsNoOp(t *testing.T) {
	s := &Scenario{
		Name:        "no_form",
		Description: "nothing to add to",
		Steps:       []Step{{Op: OpAddField, Type: "text"}},
	}

	res, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, "no-op", res.Trace[0].Outcome)
	assert.Equal(t, -1, res.Trace[0].HistoryIndex)
}

func TestRenderTrace(t *testing.T) {
	res := &Result{
		Trace: []TraceEvent{
			{Seq: 1, Op: OpCreate, Args: ` title="X"`, Outcome: "form_id-1", Fields: []string{}, HistoryIndex: 0, HistoryLen: 1},
		},
		SavedCount: 0,
	}
	want := "scenario: x\n" +
		"001 create title=\"X\" -> form_id-1 | fields=[] history=0/1\n" +
		"saved=0 responses=0\n"
	assert.Equal(t, want, string(RenderTrace("x", res)))
}
