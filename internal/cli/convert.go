package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratagem/techtree/internal/store"
	"github.com/stratagem/techtree/internal/tree"
)

// ConvertResult holds the convert command's JSON payload.
type ConvertResult struct {
	Output string `json:"output"`
	Count  int    `json:"count"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "convert <tree-dir>",
		Short: "Convert CUE definitions to the wire tree format",
		Long: `Convert the CUE technology definitions in a directory into a single
wire-format tree file, sorted by id.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, args[0], outputPath, cmd)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output tree file path (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runConvert(opts *RootOptions, treeDir, outputPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reg, loadErrors := tree.Registry(treeDir)

	if code, msg, ok := commandLevelLoadError(loadErrors); ok {
		_ = formatter.Error(code, msg, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, msg))
	}
	if len(loadErrors) > 0 {
		return outputValidationErrors(formatter, loadErrors)
	}

	if err := store.SaveTreeFile(outputPath, reg); err != nil {
		_ = formatter.Error("WRITE_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write tree file", err)
	}

	formatter.VerboseLog("Wrote %d technology record(s) to %s", reg.Len(), outputPath)

	if formatter.Format == "json" {
		return formatter.Success(ConvertResult{Output: outputPath, Count: reg.Len()})
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %d technology record(s) to %s\n", reg.Len(), outputPath)
	return nil
}
