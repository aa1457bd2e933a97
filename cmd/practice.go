package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neetprep/neetprep/internal/mastery"
	"github.com/neetprep/neetprep/internal/quiz"
	"github.com/neetprep/neetprep/internal/selection"
	"github.com/neetprep/neetprep/internal/session"
)

// runPractice drives an interactive quiz session on stdin/stdout.
func runPractice(cmd *cobra.Command) error {
	ctx := cmd.Context()

	var subject quiz.Subject
	if s, _ := cmd.Flags().GetString("subject"); s != "" {
		var err error
		subject, err = quiz.ParseSubject(s)
		if err != nil {
			return err
		}
	}
	count, _ := cmd.Flags().GetInt("count")
	userID := resolveUser(cmd)

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	tracker := mastery.NewTracker(st.Attempts(), st.Masteries())
	engine := selection.NewEngine(st.Questions(), st.Attempts(), tracker,
		buildGenerator(ctx), selection.DefaultConfig(), logger)
	svc := session.NewService(engine, tracker, session.DefaultConfig(), logger)

	sessionID, err := svc.Start(ctx, userID, subject, count)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprintf(out, "Practice session: %d questions", count)
	if subject != "" {
		fmt.Fprintf(out, " (%s)", subject)
	}
	fmt.Fprintln(out, ". Answer 1-4, s to skip, q to quit.")

	for i := 1; ; i++ {
		pick, err := svc.Next(ctx, sessionID)
		if errors.Is(err, selection.ErrExhaustedPool) {
			fmt.Fprintln(out, "\nNo more questions available for this scope.")
			break
		}
		if errors.Is(err, session.ErrSessionOver) {
			break
		}
		if err != nil {
			return err
		}

		printQuestion(out, i, count, pick)

		chosen, quit := readAnswer(in, out)
		if quit {
			break
		}

		res, err := svc.Answer(ctx, sessionID, chosen)
		if err != nil {
			return err
		}
		printResult(out, pick.Question, res)
		if res.Done {
			break
		}
	}

	sum, err := svc.End(ctx, sessionID)
	if err != nil {
		return err
	}
	printSummary(out, sum)
	return nil
}

func printQuestion(out io.Writer, i, total int, pick session.Pick) {
	q := pick.Question
	tag := string(q.Subject) + " / " + q.Topic
	if q.IsPYQ && q.Year > 0 {
		tag += fmt.Sprintf(" (NEET %d)", q.Year)
	}
	if pick.Rule == selection.RuleGenerated {
		tag += " (AI generated)"
	}
	fmt.Fprintf(out, "\nQ%d/%d  [%s]\n%s\n", i, total, tag, q.Text)
	for j, opt := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", j+1, opt)
	}
}

// readAnswer reads one answer line. Returns nil for a skip and
// quit=true when the user bails out.
func readAnswer(in *bufio.Scanner, out io.Writer) (chosen *int, quit bool) {
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return nil, true
		}
		switch line := strings.ToLower(strings.TrimSpace(in.Text())); line {
		case "q", "quit":
			return nil, true
		case "s", "skip", "":
			return nil, false
		default:
			n, err := strconv.Atoi(line)
			if err != nil || n < 1 || n > quiz.NumOptions {
				fmt.Fprintf(out, "Enter 1-%d, s to skip, or q to quit.\n", quiz.NumOptions)
				continue
			}
			idx := n - 1
			return &idx, false
		}
	}
}

func printResult(out io.Writer, q quiz.QuestionView, res session.AnswerResult) {
	if res.Correct {
		fmt.Fprintln(out, "Correct!")
	} else {
		fmt.Fprintf(out, "Incorrect. Answer: %d) %s\n", res.CorrectOption+1, q.Options[res.CorrectOption])
	}
	if res.Explanation != "" {
		fmt.Fprintln(out, res.Explanation)
	}
	fmt.Fprintf(out, "Topic %s: %d/%d recent, classification %s\n",
		res.Mastery.Topic, correctIn(res.Mastery.LastK), len(res.Mastery.LastK),
		mastery.Classify(res.Mastery))
}

func printSummary(out io.Writer, sum session.Summary) {
	fmt.Fprintf(out, "\nSession %s: %d answered, %d correct (%.0f%%)\n",
		sum.Status, sum.Answered, sum.Correct, sum.Accuracy()*100)
	if len(sum.NewlyWeak) > 0 {
		fmt.Fprintln(out, "Needs work:")
		for _, k := range sum.NewlyWeak {
			fmt.Fprintf(out, "  - %s / %s\n", k.Subject, k.Topic)
		}
	}
	if len(sum.NewlyStrong) > 0 {
		fmt.Fprintln(out, "Newly strong:")
		for _, k := range sum.NewlyStrong {
			fmt.Fprintf(out, "  - %s / %s\n", k.Subject, k.Topic)
		}
	}
}

func correctIn(window []bool) int {
	n := 0
	for _, ok := range window {
		if ok {
			n++
		}
	}
	return n
}
