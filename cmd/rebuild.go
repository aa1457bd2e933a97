package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neetprep/neetprep/internal/mastery"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild mastery state by replaying the attempt log",
	Long:  "Drops the cached per-topic mastery rollups for the user and reconstructs them from the attempt log. Use after suspected cache corruption; the log itself is never touched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		userID := resolveUser(cmd)
		tracker := mastery.NewTracker(st.Attempts(), st.Masteries())
		if err := tracker.Rebuild(cmd.Context(), userID); err != nil {
			return fmt.Errorf("rebuild mastery for %s: %w", userID, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mastery state rebuilt for %s.\n", userID)
		return nil
	},
}
