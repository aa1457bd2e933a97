package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neetprep/neetprep/internal/qgen"
	"github.com/neetprep/neetprep/internal/quiz"
	"github.com/neetprep/neetprep/internal/store"
	"github.com/neetprep/neetprep/internal/syllabus"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a practice question with AI",
	Long:  "Generates one question for a subject and topic. Generated questions are ephemeral unless --save persists them to the question bank.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		subjectFlag, _ := cmd.Flags().GetString("subject")
		topic, _ := cmd.Flags().GetString("topic")
		difficultyFlag, _ := cmd.Flags().GetString("difficulty")
		save, _ := cmd.Flags().GetBool("save")

		subject, err := quiz.ParseSubject(subjectFlag)
		if err != nil {
			return err
		}
		if topic == "" {
			return fmt.Errorf("--topic is required (see 'neetprep syllabus')")
		}
		if !syllabus.HasTopic(subject, topic) {
			return fmt.Errorf("topic %q is not in the %s syllabus", topic, subject)
		}
		difficulty, err := quiz.ParseDifficulty(difficultyFlag)
		if err != nil {
			return err
		}

		gen := buildGenerator(ctx)
		if gen == nil {
			return fmt.Errorf("no LLM provider configured")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		// Existing bank questions for the topic become the avoid list.
		var avoid []string
		if existing, err := st.Questions().Candidates(ctx, store.QuestionFilter{
			Subject: subject, Topic: topic,
		}); err == nil {
			for _, q := range existing {
				avoid = append(avoid, q.Text)
			}
		}

		q, err := gen.Generate(ctx, qgen.GenerateRequest{
			Subject:    subject,
			Topic:      topic,
			Difficulty: difficulty,
			Avoid:      avoid,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "[%s / %s, %s]\n%s\n", q.Subject, q.Topic, q.Difficulty, q.Text)
		for i, opt := range q.Options {
			marker := " "
			if i == q.CorrectOption {
				marker = "*"
			}
			fmt.Fprintf(out, " %s%d) %s\n", marker, i+1, opt)
		}
		if q.Explanation != "" {
			fmt.Fprintln(out, q.Explanation)
		}

		if save {
			err := st.Questions().Insert(ctx, q)
			if errors.Is(err, store.ErrDuplicateID) {
				return fmt.Errorf("question %s is already in the bank", q.ID)
			}
			if err != nil {
				return fmt.Errorf("save generated question: %w", err)
			}
			fmt.Fprintf(out, "Saved as %s\n", q.ID)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("subject", "s", "", "Subject (physics, chemistry, biology)")
	generateCmd.Flags().StringP("topic", "t", "", "Syllabus topic")
	generateCmd.Flags().StringP("difficulty", "d", "Medium", "Difficulty (easy, medium, hard)")
	generateCmd.Flags().Bool("save", false, "Persist the generated question to the question bank")
	generateCmd.MarkFlagRequired("subject")
}
