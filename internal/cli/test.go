package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/wordlist/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update   bool   // regenerate golden files
	Filter   string // scenario filter (glob pattern)
	Parallel int    // scenarios run concurrently
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance harness",
		Long: `Run conformance scenarios against fresh word stores.

Each scenario runs in its own temporary database. Step expectations and
final assertions are checked, and the trace is compared with
<scenarios-dir>/golden/<file>.golden when that file exists.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  wordlist test ./scenarios
  wordlist test ./scenarios --filter "zebra-*"
  wordlist test ./scenarios --update
  wordlist test ./scenarios --parallel 4
  wordlist test ./scenarios --format json`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 1, "number of scenarios to run concurrently")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}
	if opts.Parallel < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --parallel %d: must be at least 1", opts.Parallel))
	}

	// Find scenario files
	scenarioFiles, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if len(scenarioFiles) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, TestResult{
				Scenarios: []ScenarioResult{},
				Total:     0,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	// Run scenarios
	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}

	// Scenarios each own a temporary database, so they run independently.
	// Per-scenario output is buffered and flushed in file order.
	results := make([]ScenarioResult, len(scenarioFiles))
	outputs := make([]bytes.Buffer, len(scenarioFiles))
	var g errgroup.Group
	g.SetLimit(opts.Parallel)
	for i, scenarioFile := range scenarioFiles {
		g.Go(func() error {
			results[i] = runScenario(scenarioFile, opts, &outputs[i])
			return nil
		})
	}
	_ = g.Wait()

	w := cmd.OutOrStdout()
	for i, scenResult := range results {
		if _, err := w.Write(outputs[i].Bytes()); err != nil {
			return err
		}
		result.Scenarios = append(result.Scenarios, scenResult)

		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	// Output results
	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}

	return outputTestText(cmd, result)
}

// findScenarioFiles finds all YAML scenario files in a directory.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		// Only process .yaml and .yml files
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		// Apply filter if specified
		if filter != "" {
			base := filepath.Base(path)
			name := strings.TrimSuffix(base, ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// runScenario executes a single scenario and returns the result.
func runScenario(scenarioFile string, opts *TestOptions, w io.Writer) ScenarioResult {
	report := scenarioReport{w: w, text: opts.Format != "json", name: filepath.Base(scenarioFile)}

	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return report.fail([]string{fmt.Sprintf("failed to load scenario: %v", err)},
			fmt.Sprintf("Load error: %v", err))
	}
	report.name = scenario.Name

	result, err := harness.Run(scenario)
	if err != nil {
		return report.fail([]string{fmt.Sprintf("execution failed: %v", err)},
			fmt.Sprintf("Execution error: %v", err))
	}

	if opts.Update {
		if err := updateGoldenFile(scenario, result, scenarioFile); err != nil {
			return report.fail([]string{fmt.Sprintf("failed to update golden file: %v", err)},
				fmt.Sprintf("Golden update error: %v", err))
		}
		return report.pass("golden updated")
	}

	// Without a golden file only the assertions decide
	goldenPath := goldenFilePath(scenarioFile)
	if _, err := os.Stat(goldenPath); !os.IsNotExist(err) {
		match, err := compareWithGolden(scenario, result, goldenPath)
		if err != nil {
			return report.fail([]string{fmt.Sprintf("golden comparison failed: %v", err)},
				fmt.Sprintf("Golden comparison error: %v", err))
		}
		if !match {
			return report.fail([]string{"trace does not match golden file"},
				"Golden file mismatch (run with --update to regenerate)")
		}
	}

	if !result.Pass {
		return report.fail(result.Errors)
	}
	return report.pass("")
}

// scenarioReport writes one scenario's outcome in text mode and builds its
// ScenarioResult.
type scenarioReport struct {
	w    io.Writer
	text bool
	name string
}

func (r scenarioReport) pass(note string) ScenarioResult {
	if r.text {
		if note != "" {
			fmt.Fprintf(r.w, "✓ %s (%s)\n", r.name, note)
		} else {
			fmt.Fprintf(r.w, "✓ %s\n", r.name)
		}
	}
	return ScenarioResult{Name: r.name, Pass: true}
}

// fail records errs. Text mode prints lines under the name, or errs when no
// lines are given.
func (r scenarioReport) fail(errs []string, lines ...string) ScenarioResult {
	if r.text {
		fmt.Fprintf(r.w, "✗ %s\n", r.name)
		if len(lines) == 0 {
			lines = errs
		}
		for _, line := range lines {
			fmt.Fprintf(r.w, "  %s\n", line)
		}
	}
	return ScenarioResult{Name: r.name, Pass: false, Errors: errs}
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// updateGoldenFile writes the current trace as the golden file.
func updateGoldenFile(scenario *harness.Scenario, result *harness.Result, scenarioFile string) error {
	goldenPath := goldenFilePath(scenarioFile)

	// Ensure golden directory exists
	goldenDir := filepath.Dir(goldenPath)
	if err := os.MkdirAll(goldenDir, 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}

	data, err := harness.MarshalSnapshot(scenario.Name, result.Trace)
	if err != nil {
		return fmt.Errorf("failed to marshal trace: %w", err)
	}

	if err := os.WriteFile(goldenPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}

	return nil
}

// compareWithGolden compares the result trace against the golden file.
func compareWithGolden(scenario *harness.Scenario, result *harness.Result, goldenPath string) (bool, error) {
	goldenData, err := os.ReadFile(goldenPath)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}

	currentData, err := harness.MarshalSnapshot(scenario.Name, result.Trace)
	if err != nil {
		return false, fmt.Errorf("failed to marshal current trace: %w", err)
	}

	return bytes.Equal(goldenData, currentData), nil
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	status := "ok"
	if result.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}

	if result.Failed > 0 {
		response.Error = &CLIError{
			Code:    CodeTestFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test result as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
