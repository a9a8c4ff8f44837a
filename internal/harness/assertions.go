package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/wordlist/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v -> %v\n", event.Step, event.Op, event.Args, event.Result)
		}
	}

	return buf.String()
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// assertCount checks the final row count.
func assertCount(actx *AssertionContext, trace []TraceEvent, assertion Assertion) error {
	got := actx.Store.Count(actx.Ctx)
	if got == *assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertCount,
		Expected: fmt.Sprintf("%d words", *assertion.Count),
		Actual:   fmt.Sprintf("%d words", got),
		Trace:    trace,
	}
}

// assertOrdered walks every position and checks that the walk is sorted,
// complete, and ends exactly at Count.
func assertOrdered(actx *AssertionContext, trace []TraceEvent) error {
	count := actx.Store.Count(actx.Ctx)
	seen := make(map[int64]bool, count)
	prev := ""
	for pos := 0; pos < int(count); pos++ {
		w, ok := actx.Store.Query(actx.Ctx, pos)
		if !ok {
			return &AssertionError{
				Type:     AssertOrdered,
				Expected: fmt.Sprintf("a word at position %d of %d", pos, count),
				Actual:   "no word",
				Trace:    trace,
			}
		}
		if pos > 0 && w.Text < prev {
			return &AssertionError{
				Type:     AssertOrdered,
				Expected: fmt.Sprintf("position %d to sort at or after %q", pos, prev),
				Actual:   fmt.Sprintf("%q", w.Text),
				Trace:    trace,
			}
		}
		if seen[w.ID] {
			return &AssertionError{
				Type:     AssertOrdered,
				Expected: "each id once",
				Actual:   fmt.Sprintf("id %d repeated at position %d", w.ID, pos),
				Trace:    trace,
			}
		}
		seen[w.ID] = true
		prev = w.Text
	}

	if w, ok := actx.Store.Query(actx.Ctx, int(count)); ok {
		return &AssertionError{
			Type:     AssertOrdered,
			Expected: fmt.Sprintf("no word at position %d", count),
			Actual:   fmt.Sprintf("%q (id %d)", w.Text, w.ID),
			Trace:    trace,
		}
	}
	return nil
}

// assertPresence checks whether some word has exactly assertion.Text.
func assertPresence(actx *AssertionContext, trace []TraceEvent, assertion Assertion, want bool) error {
	found := false
	for _, w := range actx.Store.List(actx.Ctx) {
		if w.Text == assertion.Text {
			found = true
			break
		}
	}
	if found == want {
		return nil
	}

	expected, actual := "present", "absent"
	if !want {
		expected, actual = actual, expected
	}
	return &AssertionError{
		Type:     assertion.Type,
		Expected: fmt.Sprintf("%q %s", assertion.Text, expected),
		Actual:   actual,
		Trace:    trace,
	}
}

// assertSearch checks a search result, ignoring order.
func assertSearch(actx *AssertionContext, trace []TraceEvent, assertion Assertion) error {
	got := actx.Store.Search(actx.Ctx, assertion.Text)
	if sameElements(assertion.Texts, got) {
		return nil
	}
	sorted := append([]string{}, got...)
	slices.Sort(sorted)
	return &AssertionError{
		Type:     AssertSearch,
		Expected: fmt.Sprintf("search %q to return %v", assertion.Text, assertion.Texts),
		Actual:   fmt.Sprintf("%v", sorted),
		Trace:    trace,
	}
}

// EvaluateAssertions evaluates all assertions against the final store.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		if actx == nil || actx.Store == nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %s requires database context", i, assertion.Type))
			continue
		}

		var err error
		switch assertion.Type {
		case AssertCount:
			if assertion.Count == nil {
				err = fmt.Errorf("assertion[%d]: count requires count", i)
			} else {
				err = assertCount(actx, result.Trace, assertion)
			}
		case AssertOrdered:
			err = assertOrdered(actx, result.Trace)
		case AssertContains:
			err = assertPresence(actx, result.Trace, assertion, true)
		case AssertAbsent:
			err = assertPresence(actx, result.Trace, assertion, false)
		case AssertSearch:
			err = assertSearch(actx, result.Trace, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
