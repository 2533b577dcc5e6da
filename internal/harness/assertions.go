package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/formkit/internal/app"
)

// AssertionContext gives assertions access to the final state.
type AssertionContext struct {
	App *app.App

	// Forms maps form aliases to ids.
	Forms map[string]string
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s\n  Expected: %s\n  Actual: %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions evaluates every assertion and returns the failure
// messages. An empty result means all assertions held.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(a, actx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(a Assertion, actx *AssertionContext) error {
	b := actx.App.Builder()

	switch a.Type {
	case AssertFieldLabels:
		got := []string{}
		if f, ok := b.CurrentForm(); ok {
			for _, fld := range f.Fields {
				got = append(got, fld.Label)
			}
		}
		if !equalStrings(got, a.Labels) {
			return &AssertionError{
				Type:     a.Type,
				Expected: "[" + strings.Join(a.Labels, ", ") + "]",
				Actual:   "[" + strings.Join(got, ", ") + "]",
			}
		}

	case AssertHistory:
		idx, n := b.HistoryIndex(), b.HistoryLen()
		if idx != *a.Index || n != *a.Len {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("index=%d len=%d", *a.Index, *a.Len),
				Actual:   fmt.Sprintf("index=%d len=%d", idx, n),
			}
		}

	case AssertSavedCount:
		if n := len(b.SavedForms()); n != *a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d saved forms", *a.Count),
				Actual:   fmt.Sprintf("%d saved forms", n),
			}
		}

	case AssertResponseCount:
		id := a.Form
		if resolved, ok := actx.Forms[a.Form]; ok {
			id = resolved
		}
		if n := actx.App.Responses().Count(id); n != *a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d responses to %s", *a.Count, id),
				Actual:   fmt.Sprintf("%d responses to %s", n, id),
			}
		}

	case AssertCanUndo, AssertCanRedo:
		got := b.CanUndo()
		if a.Type == AssertCanRedo {
			got = b.CanRedo()
		}
		if got != *a.Value {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%t", *a.Value),
				Actual:   fmt.Sprintf("%t", got),
			}
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
