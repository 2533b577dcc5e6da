package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/formkit/internal/harness"
)

// ScenarioOptions holds flags for the scenario command.
type ScenarioOptions struct {
	*RootOptions
	Trace bool
}

// ScenarioReport is the outcome of one scenario file.
type ScenarioReport struct {
	File   string   `json:"file"`
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Steps  int      `json:"steps"`
	Errors []string `json:"errors,omitempty"`
}

// ScenarioSummary is the JSON payload of the scenario command.
type ScenarioSummary struct {
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Scenarios []ScenarioReport `json:"scenarios"`
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scenario <file-or-dir>",
		Short: "Run YAML builder scenarios",
		Long: `Run scenario files against a fresh in-memory store.

A directory runs every .yaml file in it. Scenarios never touch the
configured database.

Exit codes:
  0 - all scenarios passed
  1 - at least one scenario failed
  2 - scenario file could not be loaded`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print the step trace of each scenario")

	return cmd
}

func runScenarios(opts *ScenarioOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	files, err := scenarioFiles(path)
	if err != nil {
		if e := out.Error(ErrCodeNotFound, err.Error(), nil); e != nil {
			return e
		}
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	summary := ScenarioSummary{Scenarios: make([]ScenarioReport, 0, len(files))}
	var traces []byte
	for _, file := range files {
		s, err := harness.LoadScenario(file)
		if err != nil {
			if e := out.Error(ErrCodeGeneric, err.Error(), nil); e != nil {
				return e
			}
			return WrapExitError(ExitCommandError, "failed to load scenario", err)
		}

		out.VerboseLog("running %s", file)
		result, err := harness.Run(s)
		if err != nil {
			return WrapExitError(ExitFailure, "scenario execution failed", err)
		}
		if opts.Trace {
			traces = append(traces, harness.RenderTrace(s.Name, result)...)
		}

		summary.Scenarios = append(summary.Scenarios, ScenarioReport{
			File:   file,
			Name:   s.Name,
			Pass:   result.Pass,
			Steps:  len(result.Trace),
			Errors: result.Errors,
		})
		if result.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if err := out.Print(summary, func(w io.Writer) {
		if len(traces) > 0 {
			w.Write(traces)
		}
		for _, r := range summary.Scenarios {
			status := "PASS"
			if !r.Pass {
				status = "FAIL"
			}
			fmt.Fprintf(w, "%s  %s (%d steps)\n", status, r.Name, r.Steps)
			for _, e := range r.Errors {
				fmt.Fprintf(w, "      %s\n", e)
			}
		}
		fmt.Fprintf(w, "%d passed, %d failed\n", summary.Passed, summary.Failed)
	}); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d scenario(s) failed", ErrCodeScenario, summary.Failed))
	}
	return nil
}

// scenarioFiles returns path itself, or the sorted .yaml/.yml files in it.
func scenarioFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", path)
	}
	sort.Strings(files)
	return files, nil
}
