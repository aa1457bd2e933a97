package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neetprep/neetprep/internal/quiz"
	"github.com/neetprep/neetprep/internal/syllabus"
)

var syllabusCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "List NEET syllabus topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		subjects := quiz.Subjects()
		if s, _ := cmd.Flags().GetString("subject"); s != "" {
			sub, err := quiz.ParseSubject(s)
			if err != nil {
				return err
			}
			subjects = []quiz.Subject{sub}
		}

		out := cmd.OutOrStdout()
		for _, sub := range subjects {
			fmt.Fprintf(out, "%s\n", sub)
			for _, u := range syllabus.UnitsBySubject(sub) {
				fmt.Fprintf(out, "  [%s] %s\n", u.Class, u.Topic)
			}
		}
		return nil
	},
}

func init() {
	syllabusCmd.Flags().StringP("subject", "s", "", "Limit to one subject")
}
