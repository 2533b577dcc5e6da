package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/formkit/internal/app"
	"github.com/roach88/formkit/internal/config"
	"github.com/roach88/formkit/internal/idgen"
	"github.com/roach88/formkit/internal/model"
	"github.com/roach88/formkit/internal/persist"
	"github.com/roach88/formkit/internal/testutil"
)

// Harness executes one scenario against a private application context.
type Harness struct {
	app    *app.App
	forms  map[string]string // alias -> form id
	fields map[string]string // alias -> field id
	logger *slog.Logger
	seq    int
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory backend. Deterministic
// helpers ensure reproducible traces.
//
// Execution flow:
//  1. Build an application context with a deterministic clock and ids
//  2. Execute steps, checking submit expectations
//  3. Evaluate assertions against the final state
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with an explicit logger for the application context.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	a, err := app.New(context.Background(), config.Defaults(),
		app.WithBackend(persist.NewMemory()),
		app.WithLogger(logger),
		app.WithClock(testutil.NewDeterministicClock()),
		app.WithIDs(
			idgen.Prefixed{Kind: idgen.KindForm, Gen: testutil.NewSequentialIDs("")},
			idgen.Prefixed{Kind: idgen.KindField, Gen: testutil.NewSequentialIDs("")},
			idgen.Prefixed{Kind: idgen.KindResponse, Gen: testutil.NewSequentialIDs("")},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create application context: %w", err)
	}
	defer a.Close()

	h := &Harness{
		app:    a,
		forms:  map[string]string{},
		fields: map[string]string{},
		logger: logger,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.execute(i, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	actx := &AssertionContext{App: a, Forms: h.forms}
	for _, errMsg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	result.SavedCount = len(a.Builder().SavedForms())
	result.ResponseCount = len(a.Responses().All())
	return result, nil
}

// execute runs one step and appends its trace event.
func (h *Harness) execute(index int, step Step, result *Result) error {
	b := h.app.Builder()
	var args, outcome string

	switch step.Op {
	case OpCreate:
		f := h.app.CreateForm(step.Title)
		h.alias(h.forms, step.As, f.ID)
		args = fmt.Sprintf(" title=%q", step.Title)
		outcome = f.ID

	case OpAddField:
		ft, err := model.ParseFieldType(step.Type)
		if err != nil {
			return err
		}
		f, err := model.NewField(ft)
		if err != nil {
			return err
		}
		if step.Label != "" {
			f.Label = step.Label
		}
		if step.Placeholder != "" {
			f.Placeholder = step.Placeholder
		}
		if step.Options != nil {
			f.Options = step.Options
		}
		f.Required = step.Required

		args = " type=" + step.Type
		if step.Label != "" {
			args += fmt.Sprintf(" label=%q", step.Label)
		}
		if id, ok := b.AddField(f); ok {
			h.alias(h.fields, step.As, id)
			outcome = id
		} else {
			outcome = "no-op"
		}

	case OpUpdateField:
		id := h.resolve(h.fields, step.Field)
		args = " field=" + id
		outcome = applied(b.UpdateField(id, step.Patch.fieldPatch()))

	case OpRemoveField:
		id := h.resolve(h.fields, step.Field)
		args = " field=" + id
		outcome = applied(b.RemoveField(id))

	case OpReorder:
		args = fmt.Sprintf(" from=%d to=%d", *step.From, *step.To)
		outcome = applied(b.ReorderFields(*step.From, *step.To))

	case OpUndo:
		outcome = applied(b.Undo())

	case OpRedo:
		outcome = applied(b.Redo())

	case OpSave:
		_, err := h.app.SaveForm()
		outcome = applied(err == nil)

	case OpLoad:
		id := h.resolve(h.forms, step.Form)
		args = " form=" + id
		outcome = applied(h.app.LoadForm(id) == nil)

	case OpSelect:
		id := h.resolve(h.fields, step.Field)
		b.SelectField(id)
		args = " field=" + id
		outcome = "selected"

	case OpSubmit:
		id := h.resolve(h.forms, step.Form)
		args = " form=" + id
		outcome = h.submit(index, id, step, result)

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	h.record(step.Op, args, outcome, result)
	return nil
}

// submit fills formID with the step's values and checks its expectation.
func (h *Harness) submit(index int, formID string, step Step, result *Result) string {
	values := make(map[string]any, len(step.Values))
	for k, v := range step.Values {
		values[h.resolve(h.fields, k)] = v
	}

	resp, err := h.app.Submit(formID, values)
	var (
		outcome string
		got     string
		subErr  *app.SubmissionError
	)
	switch {
	case err == nil:
		outcome = "accepted " + resp.ID
		got = ExpectAccepted
	case errors.As(err, &subErr):
		parts := make([]string, len(subErr.Errors))
		for i, e := range subErr.Errors {
			parts[i] = e.Code + "@" + e.FieldID
		}
		outcome = "rejected " + strings.Join(parts, ",")
		got = ExpectRejected
	default:
		outcome = "not-found"
		got = ExpectRejected
	}

	if step.Expect != "" && step.Expect != got {
		result.AddError(fmt.Sprintf("steps[%d]: submit expected %s, got %s", index, step.Expect, outcome))
	}
	return outcome
}

// record appends a trace event with the current session state.
func (h *Harness) record(op, args, outcome string, result *Result) {
	h.seq++
	snap := h.app.Builder().Snapshot()
	labels := []string{}
	if snap.CurrentForm != nil {
		for _, f := range snap.CurrentForm.Fields {
			labels = append(labels, f.Label)
		}
	}
	result.Trace = append(result.Trace, TraceEvent{
		Seq:          h.seq,
		Op:           op,
		Args:         args,
		Outcome:      outcome,
		Fields:       labels,
		HistoryIndex: snap.HistoryIndex,
		HistoryLen:   snap.HistoryLen,
	})
	h.logger.Debug("step executed", "seq", h.seq, "op", op, "outcome", outcome)
}

func (h *Harness) alias(m map[string]string, name, id string) {
	if name != "" {
		m[name] = id
	}
}

// resolve maps an alias to its id; unknown names pass through.
func (h *Harness) resolve(m map[string]string, name string) string {
	if id, ok := m[name]; ok {
		return id
	}
	return name
}

func applied(ok bool) string {
	if ok {
		return "applied"
	}
	return "no-op"
}

// RenderTrace renders a trace as text, one line per step.
func RenderTrace(name string, result *Result) []byte {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scenario: %s\n", name)
	for _, e := range result.Trace {
		fmt.Fprintf(&buf, "%03d %s%s -> %s | fields=[%s] history=%d/%d\n",
			e.Seq, e.Op, e.Args, e.Outcome,
			strings.Join(e.Fields, ", "),
			e.HistoryIndex, e.HistoryLen,
		)
	}
	fmt.Fprintf(&buf, "saved=%d responses=%d\n", result.SavedCount, result.ResponseCount)
	return []byte(buf.String())
}
