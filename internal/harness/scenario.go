package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario for the word store.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SchemaVersion is the declared version for the fresh store.
	// Zero uses the store default.
	SchemaVersion int `yaml:"schema_version,omitempty"`

	// Seed replaces the default seed list when set. An empty list seeds nothing.
	Seed []string `yaml:"seed,omitempty"`

	// Steps are executed in order against the store.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final store contents.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single store operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Text is the word for insert and update, the needle for search.
	Text string `yaml:"text,omitempty"`

	// ID targets update and delete.
	ID int64 `yaml:"id,omitempty"`

	// Ref targets update and delete by a name captured earlier with As.
	Ref string `yaml:"ref,omitempty"`

	// Position is the offset for query.
	Position int `yaml:"position,omitempty"`

	// As names the id returned by insert or bound by query.
	As string `yaml:"as,omitempty"`

	// Expect validates the step's result. Nil skips validation.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect holds the expected result of a step. Only non-nil fields are checked.
type Expect struct {
	ID    *int64   `yaml:"id,omitempty"`
	Rows  *int64   `yaml:"rows,omitempty"`
	Count *int64   `yaml:"count,omitempty"`
	Found *bool    `yaml:"found,omitempty"`
	Text  *string  `yaml:"text,omitempty"`
	Texts []string `yaml:"texts,omitempty"`
}

// Assertion validates the final store contents.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is the expected row count (count).
	Count *int64 `yaml:"count,omitempty"`

	// Text is the word to look for (contains, absent) or the needle (search).
	Text string `yaml:"text,omitempty"`

	// Texts is the expected search result (search).
	Texts []string `yaml:"texts,omitempty"`
}

// Step operation constants.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
	OpQuery  = "query"
	OpCount  = "count"
	OpSearch = "search"
	OpList   = "list"
	OpReset  = "reset"
)

// Assertion type constants.
const (
	AssertCount    = "count"
	AssertOrdered  = "ordered"
	AssertContains = "contains"
	AssertAbsent   = "absent"
	AssertSearch   = "search"
)

// expectFields lists the expect fields each op may use.
var expectFields = map[string][]string{
	OpInsert: {"id"},
	OpUpdate: {"rows"},
	OpDelete: {"rows"},
	OpQuery:  {"found", "text"},
	OpCount:  {"count"},
	OpSearch: {"texts"},
	OpList:   {"texts"},
	OpReset:  {},
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.SchemaVersion < 0 {
		return fmt.Errorf("schema_version must be >= 0, got %d", s.SchemaVersion)
	}
	if len(s.Steps) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("at least one step or assertion is required")
	}

	captured := make(map[string]bool)
	for i, step := range s.Steps {
		if err := validateStep(i, &step, captured); err != nil {
			return err
		}
		if step.As != "" {
			captured[step.As] = true
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateStep validates a single step based on its op.
// captured holds the names bound by earlier steps.
func validateStep(index int, step *Step, captured map[string]bool) error {
	allowed, ok := expectFields[step.Op]
	if !ok {
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}

	switch step.Op {
	case OpUpdate, OpDelete:
		if step.ID == 0 && step.Ref == "" {
			return fmt.Errorf("steps[%d]: %s requires id or ref", index, step.Op)
		}
		if step.ID != 0 && step.Ref != "" {
			return fmt.Errorf("steps[%d]: %s takes id or ref, not both", index, step.Op)
		}
	case OpQuery:
		if step.Position < 0 {
			return fmt.Errorf("steps[%d]: position must be >= 0, got %d", index, step.Position)
		}
	}

	if step.Ref != "" && !captured[step.Ref] {
		return fmt.Errorf("steps[%d]: ref %q is not captured by an earlier step", index, step.Ref)
	}
	if step.As != "" && step.Op != OpInsert && step.Op != OpQuery {
		return fmt.Errorf("steps[%d]: as is only valid for insert and query", index)
	}

	if step.Expect != nil {
		for _, field := range step.Expect.fields() {
			if !slices.Contains(allowed, field) {
				return fmt.Errorf("steps[%d].expect: field %q is not valid for %s", index, field, step.Op)
			}
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for count", index)
		}
	case AssertOrdered:
	case AssertContains, AssertAbsent:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertSearch:
		if a.Texts == nil {
			return fmt.Errorf("assertions[%d]: texts is required for search (use [] for no match)", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// fields returns the names of the set expect fields.
func (e *Expect) fields() []string {
	var out []string
	if e.ID != nil {
		out = append(out, "id")
	}
	if e.Rows != nil {
		out = append(out, "rows")
	}
	if e.Count != nil {
		out = append(out, "count")
	}
	if e.Found != nil {
		out = append(out, "found")
	}
	if e.Text != nil {
		out = append(out, "text")
	}
	if e.Texts != nil {
		out = append(out, "texts")
	}
	return out
}
