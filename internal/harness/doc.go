// Package harness provides conformance testing for the word store.
//
// A scenario runs a list of store operations against a fresh database,
// checks per-step expectations, and then evaluates assertions over the final
// contents. The recorded trace can be compared with a golden file.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	schema_version: 1          # optional
//	seed: [beta, alpha]        # optional, default seed list otherwise
//	steps:
//	  - op: insert
//	    text: Zebra
//	    as: zebra              # capture the new id
//	    expect: { id: 12 }
//	  - op: query
//	    position: 11
//	    expect: { found: true, text: Zebra }
//	  - op: delete
//	    ref: zebra
//	    expect: { rows: 1 }
//	assertions:
//	  - type: count
//	    count: 11
//	  - type: ordered
//
// # Operations
//
//   - insert: text; expect id
//   - update: id or ref, text; expect rows
//   - delete: id or ref; expect rows
//   - query: position; expect found, text; as captures the bound id
//   - count: expect count
//   - search: text; expect texts (order ignored)
//   - list: expect texts (in order)
//   - reset: drop, recreate and reseed
//
// # Assertion Types
//
//   - count: the store holds exactly count words
//   - ordered: the positional walk is sorted and yields every id once
//   - contains: some word has exactly text
//   - absent: no word has exactly text
//   - search: searching text returns exactly texts (order ignored)
//
// # Deterministic Testing
//
// Every scenario gets its own database file in a temp directory, so ids are
// assigned from 1 and traces are identical across runs.
package harness
