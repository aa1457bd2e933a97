package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neetprep/neetprep/internal/mastery"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show mastery progress across subjects and topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		tracker := mastery.NewTracker(st.Attempts(), st.Masteries())
		p, err := tracker.Progress(cmd.Context(), resolveUser(cmd))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if p.Attempts == 0 {
			fmt.Fprintln(out, "No attempts yet. Run a practice session first.")
			return nil
		}

		fmt.Fprintf(out, "Progress for %s\n", p.UserID)
		fmt.Fprintf(out, "  Attempted: %d   Correct: %d (%.0f%%)   Last studied: %s\n",
			p.Attempts, p.Correct, p.Accuracy()*100, p.LastStudied.Local().Format("2006-01-02 15:04"))

		for _, s := range p.Subjects {
			acc := 0.0
			if s.Attempts > 0 {
				acc = float64(s.Correct) / float64(s.Attempts)
			}
			fmt.Fprintf(out, "  %-10s %3d attempts, %3.0f%%, %d topics\n",
				s.Subject, s.Attempts, acc*100, s.Topics)
		}

		if len(p.WeakTopics) > 0 {
			fmt.Fprintln(out, "\nWeak topics (focus here):")
			for _, tm := range p.WeakTopics {
				fmt.Fprintf(out, "  - %s / %s (%.0f%% recent)\n",
					tm.Subject, tm.Topic, tm.RecentAccuracy()*100)
			}
		}
		if len(p.StrongTopics) > 0 {
			fmt.Fprintln(out, "\nStrong topics:")
			for _, tm := range p.StrongTopics {
				fmt.Fprintf(out, "  - %s / %s (%.0f%% recent)\n",
					tm.Subject, tm.Topic, tm.RecentAccuracy()*100)
			}
		}
		return nil
	},
}
