package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratagem/techtree/internal/engine"
	"github.com/stratagem/techtree/internal/store"
)

// UnlockResult holds the unlock command's JSON payload.
type UnlockResult struct {
	Profile         string   `json:"profile"`
	Tech            string   `json:"tech"`
	Cost            int      `json:"cost"`
	Remaining       int      `json:"remaining"`
	Unlocked        []string `json:"unlocked"`
	AlreadyUnlocked bool     `json:"already_unlocked,omitempty"`
}

// NewUnlockCommand creates the unlock command.
func NewUnlockCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		profileName string
		dbPath      string
		points      int
	)

	cmd := &cobra.Command{
		Use:   "unlock <tree-file> <tech-id>",
		Short: "Unlock a technology for a profile",
		Long: `Unlock a technology against a persistent profile.

The profile is created on first use with the --points balance. An unlock
succeeds when the technology's prerequisite condition is satisfied by the
profile's unlocked set and its cost fits the profile's point balance; the
cost is then deducted and the unlock recorded.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnlock(rootOpts, args[0], args[1], profileName, dbPath, points, cmd)
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "profile name (required)")
	cmd.Flags().StringVar(&dbPath, "db", "", "profile database path (required)")
	cmd.Flags().IntVar(&points, "points", 0, "starting point balance for a new profile")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runUnlock(opts *RootOptions, treePath, techID, profileName, dbPath string, points int, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	ctx := cmd.Context()

	reg, err := store.LoadTreeFile(treePath, newLogger(opts))
	if err != nil {
		_ = formatter.Error("READ_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load tree file", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error("DB_OPEN_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open profile database", err)
	}
	defer st.Close()

	profile, err := st.GetOrCreateProfile(ctx, profileName, points)
	if err != nil {
		_ = formatter.Error("PROFILE_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load profile", err)
	}

	unlocked, err := st.UnlockedSet(ctx, profile.ID)
	if err != nil {
		_ = formatter.Error("PROFILE_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load unlocked set", err)
	}

	formatter.VerboseLog("Profile %s has %d point(s) and %d unlock(s)", profile.Name, profile.Points, len(unlocked))

	// Re-unlocking is a no-op for the engine but must not charge the
	// profile again.
	if unlocked.Has(techID) {
		name := techID
		if t, ok := reg.Get(techID); ok {
			name = t.Name
		}
		if formatter.Format == "json" {
			return formatter.Success(UnlockResult{
				Profile:         profile.Name,
				Tech:            techID,
				Remaining:       profile.Points,
				Unlocked:        unlocked.IDs(),
				AlreadyUnlocked: true,
			})
		}
		fmt.Fprintf(formatter.Writer, "✓ %s already unlocked for %s (%d point(s) remaining)\n", name, profile.Name, profile.Points)
		return nil
	}

	if !engine.Unlock(reg, techID, unlocked, profile.Points) {
		msg := fmt.Sprintf("cannot unlock %s: prerequisites unmet, insufficient points, or unknown id", techID)
		_ = formatter.Error("UNLOCK_REFUSED", msg, nil)
		return NewExitError(ExitFailure, msg)
	}

	t, _ := reg.Get(techID)
	remaining := profile.Points - t.Cost

	if err := st.RecordUnlock(ctx, profile.ID, techID); err != nil {
		_ = formatter.Error("PROFILE_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to record unlock", err)
	}
	if err := st.SetPoints(ctx, profile.ID, remaining); err != nil {
		_ = formatter.Error("PROFILE_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to update point balance", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(UnlockResult{
			Profile:   profile.Name,
			Tech:      techID,
			Cost:      t.Cost,
			Remaining: remaining,
			Unlocked:  unlocked.IDs(),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Unlocked %s for %s (cost %d, %d point(s) remaining)\n", t.Name, profile.Name, t.Cost, remaining)
	return nil
}
