package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratagem/techtree/internal/tech"
	"github.com/stratagem/techtree/internal/tree"
)

// ValidationIssue is one loader error in CLI output form.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool               `json:"valid"`
	Count    int                `json:"count"`
	Errors   []ValidationIssue  `json:"errors,omitempty"`
	Warnings []tree.LintWarning `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <tree-dir>",
		Short: "Validate a CUE technology tree",
		Long: `Validate the CUE technology definitions in a directory.

Checks schema conformance (ids, costs, prerequisite kinds) and cross-file
consistency (duplicate ids), then lints the assembled tree for dangling
prerequisite references and prerequisite cycles. Lint findings are
warnings: dangling references are legal at runtime.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, treeDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	techs, loadErrors := tree.Load(treeDir)

	// Directory-level failures (missing dir, no CUE files) are command
	// errors, not validation findings.
	if code, msg, ok := commandLevelLoadError(loadErrors); ok {
		_ = formatter.Error(code, msg, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, msg))
	}

	if len(loadErrors) > 0 {
		return outputValidationErrors(formatter, loadErrors)
	}

	formatter.VerboseLog("Loaded %d technology definition(s) from %s", len(techs), treeDir)

	reg := tech.NewRegistry()
	for _, t := range techs {
		reg.Add(t)
	}
	warnings := tree.Lint(reg)

	return outputValidateSuccess(formatter, len(techs), warnings)
}

// commandLevelLoadError picks out load errors that mean the command could
// not even start (bad directory, nothing to load).
func commandLevelLoadError(loadErrors []error) (code, msg string, ok bool) {
	if len(loadErrors) == 0 {
		return "", "", false
	}
	var loadErr *tree.LoadError
	if !errors.As(loadErrors[0], &loadErr) {
		return "", "", false
	}
	switch loadErr.Code {
	case tree.ErrCodeNotFound, tree.ErrCodeNoFiles, tree.ErrCodeScanError:
		return loadErr.Code, loadErr.Message, true
	}
	return "", "", false
}

func toIssues(loadErrors []error) []ValidationIssue {
	issues := make([]ValidationIssue, 0, len(loadErrors))
	for _, err := range loadErrors {
		var loadErr *tree.LoadError
		if errors.As(err, &loadErr) {
			issue := ValidationIssue{Code: loadErr.Code, Message: loadErr.Message}
			if loadErr.Pos.IsValid() {
				issue.Line = loadErr.Pos.Line()
			}
			issues = append(issues, issue)
			continue
		}
		issues = append(issues, ValidationIssue{Code: tree.ErrCodeMalformed, Message: err.Error()})
	}
	return issues
}

// outputValidateSuccess outputs successful validation results, including
// any lint warnings.
func outputValidateSuccess(formatter *OutputFormatter, count int, warnings []tree.LintWarning) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:    true,
			Count:    count,
			Warnings: warnings,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ %d technology definition(s) valid\n", count)
	for _, w := range warnings {
		fmt.Fprintf(formatter.Writer, "  warning %s (%s): %s\n", w.Code, w.TechID, w.Message)
	}
	return nil
}

// outputValidationErrors outputs loader errors and fails the command.
func outputValidationErrors(formatter *OutputFormatter, loadErrors []error) error {
	issues := toIssues(loadErrors)

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: issues,
			},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", issue.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}
