package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64    { return &v }
func boolPtr(v bool) *bool       { return &v }
func stringPtr(v string) *string { return &v }

func TestRun_InsertQueryDelete(t *testing.T) {
	scenario := &Scenario{
		Name:        "insert_query_delete",
		Description: "Insert a word and remove it again",
		Steps: []Step{
			{Op: OpInsert, Text: "Zebra", As: "z", Expect: &Expect{ID: int64Ptr(12)}},
			{Op: OpQuery, Position: 11, Expect: &Expect{Found: boolPtr(true), Text: stringPtr("Zebra")}},
			{Op: OpDelete, Ref: "z", Expect: &Expect{Rows: int64Ptr(1)}},
			{Op: OpCount, Expect: &Expect{Count: int64Ptr(11)}},
		},
		Assertions: []Assertion{
			{Type: AssertOrdered},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 4)

	assert.Equal(t, OpInsert, result.Trace[0].Op)
	assert.Equal(t, map[string]any{"text": "Zebra"}, result.Trace[0].Args)
	assert.Equal(t, map[string]any{"id": int64(12)}, result.Trace[0].Result)

	// Ref resolves to the captured id
	assert.Equal(t, map[string]any{"id": int64(12)}, result.Trace[2].Args)
}

func TestRun_StepsAreNumbered(t *testing.T) {
	scenario := &Scenario{
		Name:        "numbered",
		Description: "Trace steps carry their index",
		Steps:       []Step{{Op: OpCount}, {Op: OpCount}, {Op: OpList}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	for i, event := range result.Trace {
		assert.Equal(t, i, event.Step)
	}
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "Wrong expectations are reported",
		Steps: []Step{
			{Op: OpCount, Expect: &Expect{Count: int64Ptr(99)}},
			{Op: OpQuery, Position: 0, Expect: &Expect{Text: stringPtr("Zzz")}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "steps[0] count: expected count=99, got 11")
	assert.Contains(t, result.Errors[1], `expected text="Zzz", got "Adapter"`)

	// Trace is still recorded for failed expectations
	assert.Len(t, result.Trace, 2)
}

func TestRun_QueryOutOfRange(t *testing.T) {
	scenario := &Scenario{
		Name:        "out_of_range",
		Description: "Query past the end finds nothing",
		Steps: []Step{
			{Op: OpQuery, Position: 11, Expect: &Expect{Found: boolPtr(false)}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, map[string]any{"found": false}, result.Trace[0].Result)
}

func TestRun_QueryCapturesID(t *testing.T) {
	scenario := &Scenario{
		Name:        "query_capture",
		Description: "Query binds the id at a position",
		Steps: []Step{
			{Op: OpQuery, Position: 0, As: "first"},
			{Op: OpUpdate, Ref: "first", Text: "Renamed", Expect: &Expect{Rows: int64Ptr(1)}},
		},
		Assertions: []Assertion{
			{Type: AssertAbsent, Text: "Adapter"},
			{Type: AssertContains, Text: "Renamed"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, int64(2), result.Trace[1].Args["id"])
}

func TestRun_MissingIDAffectsNothing(t *testing.T) {
	scenario := &Scenario{
		Name:        "missing_id",
		Description: "Update and delete of unknown ids affect no rows",
		Steps: []Step{
			{Op: OpUpdate, ID: 9999, Text: "ghost", Expect: &Expect{Rows: int64Ptr(0)}},
			{Op: OpDelete, ID: 9999, Expect: &Expect{Rows: int64Ptr(0)}},
		},
		Assertions: []Assertion{
			{Type: AssertCount, Count: int64Ptr(11)},
			{Type: AssertAbsent, Text: "ghost"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_SearchIgnoresOrder(t *testing.T) {
	scenario := &Scenario{
		Name:        "search",
		Description: "Search expectations ignore order",
		Steps: []Step{
			{Op: OpSearch, Text: "android", Expect: &Expect{Texts: []string{"AndroidPerformance", "Android", "Android Studio"}}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	// Trace records search results sorted
	assert.Equal(t, []string{"Android", "Android Studio", "AndroidPerformance"}, result.Trace[0].Result["texts"])
}

func TestRun_ListIsOrdered(t *testing.T) {
	scenario := &Scenario{
		Name:        "list",
		Description: "List expectations are order sensitive",
		Seed:        []string{"b", "a"},
		Steps: []Step{
			{Op: OpList, Expect: &Expect{Texts: []string{"b", "a"}}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected texts=[b a], got [a b]")
}

func TestRun_CustomSeedAndReset(t *testing.T) {
	scenario := &Scenario{
		Name:          "seed_reset",
		Description:   "Reset restores the seed",
		SchemaVersion: 3,
		Seed:          []string{"one"},
		Steps: []Step{
			{Op: OpInsert, Text: "two", Expect: &Expect{ID: int64Ptr(2)}},
			{Op: OpReset},
			{Op: OpCount, Expect: &Expect{Count: int64Ptr(1)}},
		},
		Assertions: []Assertion{
			{Type: AssertCount, Count: int64Ptr(1)},
			{Type: AssertAbsent, Text: "two"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	// Reset records neither args nor result
	assert.Nil(t, result.Trace[1].Args)
	assert.Nil(t, result.Trace[1].Result)
}

func TestRun_EmptySeed(t *testing.T) {
	scenario := &Scenario{
		Name:        "empty",
		Description: "An empty seed leaves the store empty",
		Seed:        []string{},
		Assertions: []Assertion{
			{Type: AssertCount, Count: int64Ptr(0)},
			{Type: AssertOrdered},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Trace)
}

func TestRun_Isolation(t *testing.T) {
	scenario := &Scenario{
		Name:        "isolation",
		Description: "Each run starts from a fresh database",
		Steps: []Step{
			{Op: OpInsert, Text: "Zebra", Expect: &Expect{ID: int64Ptr(12)}},
		},
	}

	for i := 0; i < 2; i++ {
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "run %d errors: %v", i, result.Errors)
	}
}

func TestRun_UnknownOpErrors(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_op",
		Description: "Unvalidated scenarios with unknown ops fail to execute",
		Steps:       []Step{{Op: "upsert"}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown op "upsert"`)
}

func TestResult_AddError(t *testing.T) {
	result := NewResult()
	assert.True(t, result.Pass)

	result.AddError("boom")
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"boom"}, result.Errors)
}

func TestResult_AddTraceDropsEmptyMaps(t *testing.T) {
	result := NewResult()
	result.AddTrace(0, OpReset, map[string]any{}, map[string]any{})

	require.Len(t, result.Trace, 1)
	assert.Nil(t, result.Trace[0].Args)
	assert.Nil(t, result.Trace[0].Result)
}
