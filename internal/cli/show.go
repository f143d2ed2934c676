package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/stratagem/techtree/internal/display"
	"github.com/stratagem/techtree/internal/store"
	"github.com/stratagem/techtree/internal/tech"
)

// ShowResult holds the show command's JSON payload.
type ShowResult struct {
	Tree string `json:"tree"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var unlockedCSV string

	cmd := &cobra.Command{
		Use:   "show <tree-file>",
		Short: "Render a technology tree",
		Long: `Render a wire-format tree file as an indented technology tree.

Technologies already satisfied by the --unlocked set appear as roots;
each technology's dependents nest beneath it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], unlockedCSV, cmd)
		},
	}

	cmd.Flags().StringVar(&unlockedCSV, "unlocked", "", "comma-separated ids already unlocked")

	return cmd
}

func runShow(opts *RootOptions, treePath, unlockedCSV string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reg, err := store.LoadTreeFile(treePath, newLogger(opts))
	if err != nil {
		_ = formatter.Error("READ_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load tree file", err)
	}

	unlocked := parseIDSet(unlockedCSV)
	formatter.VerboseLog("Rendering %d technology record(s), %d unlocked", reg.Len(), len(unlocked))

	if formatter.Format == "json" {
		var sb strings.Builder
		if err := display.Render(&sb, reg, unlocked); err != nil {
			return WrapExitError(ExitCommandError, "failed to render tree", err)
		}
		return formatter.Success(ShowResult{Tree: sb.String()})
	}

	if err := display.Render(formatter.Writer, reg, unlocked); err != nil {
		return WrapExitError(ExitCommandError, "failed to render tree", err)
	}
	return nil
}

// parseIDSet splits a comma-separated id list into a Set. Empty segments
// are dropped, mirroring the wire codec's list handling.
func parseIDSet(csv string) tech.Set {
	s := tech.NewSet()
	for _, id := range strings.Split(csv, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			s.Add(id)
		}
	}
	return s
}
