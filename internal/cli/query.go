package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stratagem/techtree/internal/engine"
	"github.com/stratagem/techtree/internal/store"
)

// UnlockableResult holds the unlockable command's JSON payload.
type UnlockableResult struct {
	IDs []string `json:"ids"`
}

// PathResult holds the path command's JSON payload.
type PathResult struct {
	Target string   `json:"target"`
	Found  bool     `json:"found"`
	Path   []string `json:"path,omitempty"`
}

// NewUnlockableCommand creates the unlockable command.
func NewUnlockableCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		unlockedCSV string
		points      int
	)

	cmd := &cobra.Command{
		Use:   "unlockable <tree-file>",
		Short: "List technologies unlockable right now",
		Long: `List every technology whose prerequisite condition is satisfied by the
--unlocked set and whose cost fits the --points budget, sorted by id.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnlockable(rootOpts, args[0], unlockedCSV, points, cmd)
		},
	}

	cmd.Flags().StringVar(&unlockedCSV, "unlocked", "", "comma-separated ids already unlocked")
	cmd.Flags().IntVar(&points, "points", 0, "available science points")

	return cmd
}

func runUnlockable(opts *RootOptions, treePath, unlockedCSV string, points int, cmd *cobra.Command) error {
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
	ids := engine.ListUnlockable(reg, unlocked, points)
	if ids == nil {
		ids = []string{}
	}

	if formatter.Format == "json" {
		return formatter.Success(UnlockableResult{IDs: ids})
	}

	if len(ids) == 0 {
		fmt.Fprintln(formatter.Writer, "nothing unlockable")
		return nil
	}
	fmt.Fprintln(formatter.Writer, strings.Join(ids, "\n"))
	return nil
}

// NewPathCommand creates the path command.
func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		unlockedCSV string
		points      int
	)

	cmd := &cobra.Command{
		Use:   "path <tree-file> <target-id>",
		Short: "Find a route of reachable technologies to a target",
		Long: `Search for a route of currently-eligible technologies leading to the
target, starting from the --unlocked set. The route lists predecessors in
order and excludes the target itself.

An unreachable target is a normal outcome, not an error.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(rootOpts, args[0], args[1], unlockedCSV, points, cmd)
		},
	}

	cmd.Flags().StringVar(&unlockedCSV, "unlocked", "", "comma-separated ids already unlocked")
	cmd.Flags().IntVar(&points, "points", 0, "available science points")

	return cmd
}

func runPath(opts *RootOptions, treePath, target, unlockedCSV string, points int, cmd *cobra.Command) error {
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
	route, found := engine.FindPath(reg, target, unlocked, points)

	if formatter.Format == "json" {
		return formatter.Success(PathResult{Target: target, Found: found, Path: route})
	}

	if !found {
		fmt.Fprintf(formatter.Writer, "no path to %s\n", target)
		return nil
	}
	if len(route) == 0 {
		fmt.Fprintf(formatter.Writer, "%s is already unlocked\n", target)
		return nil
	}
	fmt.Fprintf(formatter.Writer, "%s -> %s\n", strings.Join(route, " -> "), target)
	return nil
}
