package harness

// TraceEvent records one executed step.
type TraceEvent struct {
	Step   int            `json:"step"`
	Op     string         `json:"op"`
	Args   map[string]any `json:"args,omitempty"`
	Result map[string]any `json:"result,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions hold.
	Pass bool `json:"pass"`

	// Trace contains every executed step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an executed step. Empty maps are dropped so they are
// omitted from JSON.
func (r *Result) AddTrace(step int, op string, args, result map[string]any) {
	if len(args) == 0 {
		args = nil
	}
	if len(result) == 0 {
		result = nil
	}
	r.Trace = append(r.Trace, TraceEvent{
		Step:   step,
		Op:     op,
		Args:   args,
		Result: result,
	})
}
