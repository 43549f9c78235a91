package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rewind/internal/codec"
	"github.com/roach88/rewind/internal/schema"
)

// LintFinding describes one problem found in a stored cassette.
type LintFinding struct {
	Cassette string `json:"cassette"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// LintResult holds lint results.
type LintResult struct {
	Checked  int           `json:"checked"`
	Clean    bool          `json:"clean"`
	Findings []LintFinding `json:"findings,omitempty"`
}

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [cassette...]",
		Short: "Check stored cassettes against the storage schema",
		Long: `Check stored cassettes for decode failures and schema violations.

With no arguments every cassette in the library is checked. Findings
classify each problem: obsolete bare-sequence layout, undecodable
content, or a document that decodes but violates the storage schema.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runLint(opts *RootOptions, names []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	lib, lerr := OpenLibrary(opts.ConfigPath)
	if lerr != nil {
		return outputCommandError(formatter, lerr.Code, lerr.Message)
	}
	defer lib.Close()

	if len(names) == 0 {
		all, lerr := lib.ListNames()
		if lerr != nil {
			return outputCommandError(formatter, lerr.Code, lerr.Message)
		}
		names = all
	}

	var findings []LintFinding
	for _, name := range names {
		formatter.VerboseLog("Checking cassette: %s", name)

		raw, ok, err := lib.Store.Read(name)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStorage, fmt.Sprintf("reading cassette %q: %v", name, err))
		}
		if !ok {
			return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("cassette %q not found", name))
		}

		findings = append(findings, lintCassette(name, raw)...)
	}

	result := LintResult{Checked: len(names), Clean: len(findings) == 0, Findings: findings}
	if result.Clean {
		return outputLintSuccess(formatter, result)
	}
	return outputLintFindings(formatter, result)
}

// lintCassette runs the per-cassette checks. Decode classification runs
// first so a legacy or corrupt document gets its specific code instead
// of a generic schema violation.
func lintCassette(name string, raw []byte) []LintFinding {
	if _, err := codec.DecodeEnvelope(name, raw); err != nil {
		return []LintFinding{{Cassette: name, Code: classifyDecodeError(err), Message: err.Error()}}
	}

	if err := schema.Validate(name, raw); err != nil {
		return []LintFinding{{Cassette: name, Code: ErrCodeSchema, Message: err.Error()}}
	}

	return nil
}

func outputLintSuccess(formatter *OutputFormatter, result LintResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	mark := paint("✓", ansiGreen, shouldColorize(formatter.Writer))
	fmt.Fprintf(formatter.Writer, "%s %d cassette(s) clean\n", mark, result.Checked)
	return nil
}

func outputLintFindings(formatter *OutputFormatter, result LintResult) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    result.Findings[0].Code,
				Message: result.Findings[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Lint findings = exit code 1 (validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("lint failed with %d finding(s)", len(result.Findings)))
	}

	// Text format
	mark := paint("✗", ansiRed, shouldColorize(formatter.Writer))
	fmt.Fprintf(formatter.Writer, "%s Lint failed\n", mark)
	fmt.Fprintln(formatter.Writer)

	for _, finding := range result.Findings {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", finding.Cassette, finding.Code, finding.Message)
	}
	fmt.Fprintln(formatter.Writer)

	// Lint findings = exit code 1 (validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("lint failed with %d finding(s)", len(result.Findings)))
}
