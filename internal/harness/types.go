package harness

// TraceEvent records one executed step and the session state after it.
type TraceEvent struct {
	Seq          int      `json:"seq"`
	Op           string   `json:"op"`
	Args         string   `json:"args,omitempty"`
	Outcome      string   `json:"outcome"`
	Fields       []string `json:"fields"`
	HistoryIndex int      `json:"history_index"`
	HistoryLen   int      `json:"history_len"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every submit expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// SavedCount and ResponseCount summarize the final state.
	SavedCount    int `json:"saved_count"`
	ResponseCount int `json:"response_count"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
