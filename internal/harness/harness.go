package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/roach88/wordlist/internal/store"
)

// Harness is the test execution engine.
// It runs one scenario against one fresh store.
type Harness struct {
	store  *store.Store
	refs   map[string]int64
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh database file for isolation.
//
// Execution flow:
// 1. Create fresh database in a temp directory
// 2. Execute steps, checking expect clauses
// 3. Evaluate assertions against the final contents
// 4. Return result with pass/fail, trace, and errors
//
// An error is returned only when the scenario could not be executed.
// Failed expectations and assertions are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "wordlist-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario directory: %w", err)
	}
	defer os.RemoveAll(dir)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	opts := []store.Option{store.WithLogger(logger)}
	if scenario.SchemaVersion > 0 {
		opts = append(opts, store.WithVersion(scenario.SchemaVersion))
	}
	if scenario.Seed != nil {
		opts = append(opts, store.WithSeed(scenario.Seed))
	}
	st := store.New(filepath.Join(dir, "words.db"), opts...)
	defer st.Close()

	h := &Harness{
		store:  st,
		refs:   make(map[string]int64),
		logger: logger,
	}

	ctx := context.Background()
	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.execute(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("failed to execute step %d: %w", i, err)
		}
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// execute runs one step, records it in the trace and checks its expect clause.
func (h *Harness) execute(ctx context.Context, i int, step Step, result *Result) error {
	args := map[string]any{}
	res := map[string]any{}
	check := &expectChecker{step: i, op: step.Op, expect: step.Expect, result: result}

	switch step.Op {
	case OpInsert:
		args["text"] = step.Text
		id := h.store.Insert(ctx, step.Text)
		res["id"] = id
		if step.As != "" {
			h.refs[step.As] = id
		}
		check.number("id", id, func(e *Expect) *int64 { return e.ID })

	case OpUpdate:
		id := h.target(step)
		args["id"] = id
		args["text"] = step.Text
		n := h.store.Update(ctx, id, step.Text)
		res["rows"] = n
		check.number("rows", n, func(e *Expect) *int64 { return e.Rows })

	case OpDelete:
		id := h.target(step)
		args["id"] = id
		n := h.store.Delete(ctx, id)
		res["rows"] = n
		check.number("rows", n, func(e *Expect) *int64 { return e.Rows })

	case OpQuery:
		args["position"] = step.Position
		w, found := h.store.Query(ctx, step.Position)
		res["found"] = found
		if found {
			res["id"] = w.ID
			res["text"] = w.Text
			if step.As != "" {
				h.refs[step.As] = w.ID
			}
		}
		check.flag("found", found, func(e *Expect) *bool { return e.Found })
		check.text("text", w.Text, func(e *Expect) *string { return e.Text })

	case OpCount:
		n := h.store.Count(ctx)
		res["count"] = n
		check.number("count", n, func(e *Expect) *int64 { return e.Count })

	case OpSearch:
		args["text"] = step.Text
		texts := h.store.Search(ctx, step.Text)
		sorted := append([]string{}, texts...)
		slices.Sort(sorted) // Search is unordered; sort for a stable trace
		res["texts"] = sorted
		check.unorderedTexts(texts)

	case OpList:
		words := h.store.List(ctx)
		texts := make([]string, len(words))
		for j, w := range words {
			texts[j] = w.Text
		}
		res["texts"] = texts
		check.orderedTexts(texts)

	case OpReset:
		if err := h.store.Reset(ctx); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	result.AddTrace(i, step.Op, args, res)
	h.logger.Info("step completed", "step", i, "op", step.Op)
	return nil
}

// target resolves the id a step operates on.
func (h *Harness) target(step Step) int64 {
	if step.Ref != "" {
		return h.refs[step.Ref]
	}
	return step.ID
}

// expectChecker compares step results with an expect clause and records
// mismatches on the result.
type expectChecker struct {
	step   int
	op     string
	expect *Expect
	result *Result
}

func (c *expectChecker) fail(field string, want, got any) {
	c.result.AddError(fmt.Sprintf("steps[%d] %s: expected %s=%v, got %v", c.step, c.op, field, want, got))
}

func (c *expectChecker) number(field string, got int64, pick func(*Expect) *int64) {
	if c.expect == nil {
		return
	}
	if want := pick(c.expect); want != nil && *want != got {
		c.fail(field, *want, got)
	}
}

func (c *expectChecker) flag(field string, got bool, pick func(*Expect) *bool) {
	if c.expect == nil {
		return
	}
	if want := pick(c.expect); want != nil && *want != got {
		c.fail(field, *want, got)
	}
}

func (c *expectChecker) text(field string, got string, pick func(*Expect) *string) {
	if c.expect == nil {
		return
	}
	if want := pick(c.expect); want != nil && *want != got {
		c.fail(field, fmt.Sprintf("%q", *want), fmt.Sprintf("%q", got))
	}
}

func (c *expectChecker) orderedTexts(got []string) {
	if c.expect == nil || c.expect.Texts == nil {
		return
	}
	if !slices.Equal(c.expect.Texts, got) {
		c.fail("texts", c.expect.Texts, got)
	}
}

func (c *expectChecker) unorderedTexts(got []string) {
	if c.expect == nil || c.expect.Texts == nil {
		return
	}
	if !sameElements(c.expect.Texts, got) {
		c.fail("texts", c.expect.Texts, got)
	}
}

// sameElements reports whether a and b hold the same strings with the same
// multiplicity, ignoring order.
func sameElements(a, b []string) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
