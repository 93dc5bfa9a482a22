package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizapp/internal/quiz"
	"github.com/abhisek/quizapp/internal/screens/result"
	"github.com/abhisek/quizapp/internal/store"
)

var (
	askCategory int
	askMemory   bool
)

// errAbandoned is returned when input ends before the last question.
var errAbandoned = errors.New("quiz abandoned")

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Play a quiz on plain stdin/stdout",
	Long: "Play a quiz without the TUI. Answer with 1-4 or a-d; each question " +
		"times out after the configured number of seconds.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkCategory(askCategory); err != nil {
			return err
		}
		ctx := cmd.Context()
		cat := catalogDefault()

		opts := askOptions{
			In:    cmd.InOrStdin(),
			Out:   cmd.OutOrStdout(),
			Label: cat.Label(askCategory),
		}

		if askMemory {
			settings, _, err := loadSettings(cmd)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.Config = settings.QuizConfig()
			_, err = runAsk(ctx, cat.Source(), askCategory, opts)
			return quietAbandon(err)
		}

		st, settings, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		opts.Config = settings.QuizConfig()
		played, err := runAsk(ctx, st.Questions(), askCategory, opts)
		if err != nil {
			return quietAbandon(err)
		}
		if _, err := st.Attempts().AppendAttempt(ctx, played); err != nil {
			slog.Warn("failed to record attempt", "category", askCategory, "error", err)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().IntVarP(&askCategory, "category", "c", 0, "Category ID (see `quizapp categories`)")
	askCmd.Flags().BoolVar(&askMemory, "memory", false, "Use the built-in questions and skip the database")
	askCmd.MarkFlagRequired("category")
}

// quietAbandon turns an abandoned or empty quiz into a clean exit; the
// message has already been printed.
func quietAbandon(err error) error {
	var empty *quiz.EmptyQuizError
	if errors.Is(err, errAbandoned) || errors.As(err, &empty) {
		return nil
	}
	return err
}

type askOptions struct {
	In     io.Reader
	Out    io.Writer
	Label  string
	Config quiz.Config
	Now    func() time.Time
}

func (o askOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// runAsk plays one quiz over line-oriented I/O. A reader goroutine feeds
// input lines while a fresh time.After per question acts as the deadline
// scheduler. Invalid input re-prompts without resetting the deadline.
func runAsk(ctx context.Context, src quiz.QuestionSource, category int, opts askOptions) (store.AttemptData, error) {
	out := opts.Out
	played := store.AttemptData{Category: category, CategoryLabel: opts.Label, StartedAt: opts.now()}

	sess, err := quiz.Start(ctx, src, category, opts.Config)
	if err != nil {
		var empty *quiz.EmptyQuizError
		if errors.As(err, &empty) {
			fmt.Fprintln(out, "No questions available for this category")
		}
		return played, err
	}

	done := make(chan struct{})
	defer close(done)
	lines := readLines(opts.In, done)

	fmt.Fprintf(out, "%s: %d questions, %ds each\n", opts.Label, sess.Total(), int(sess.TimeBudget()/time.Second))

	for sess.State() != quiz.StateCompleted {
		q, _ := sess.Current()
		fmt.Fprintf(out, "\nQuestion %d of %d\n%s\n", sess.CurrentIndex()+1, sess.Total(), q.Text)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}

		start := opts.now()
		deadline, err := sess.Arm(start)
		if err != nil {
			return played, err
		}
		timer := time.After(deadline.Sub(start))

		var outcome quiz.Outcome
	prompt:
		for {
			fmt.Fprint(out, "> ")
			select {
			case <-ctx.Done():
				return played, ctx.Err()
			case <-timer:
				outcome, err = sess.TimeExpired()
				if err != nil {
					return played, err
				}
				fmt.Fprintf(out, "\nTime's up! The answer was: %s\n", q.CorrectOption())
				break prompt
			case line, ok := <-lines:
				if !ok {
					fmt.Fprintln(out, "\nQuiz abandoned.")
					return played, errAbandoned
				}
				idx := parseChoice(line)
				if idx < 0 {
					fmt.Fprintln(out, "Enter 1-4 or a-d.")
					continue
				}
				outcome, err = sess.SubmitAnswer(idx)
				if err != nil {
					return played, err
				}
				if outcome.Correct {
					fmt.Fprintln(out, "Correct!")
				} else {
					fmt.Fprintf(out, "Wrong answer. The answer was: %s\n", q.CorrectOption())
				}
				break prompt
			}
		}

		played.Answers = append(played.Answers, store.AnswerData{
			Position:     outcome.Index,
			Question:     q.Text,
			Selected:     outcome.Selected,
			CorrectIndex: outcome.CorrectIndex,
			Correct:      outcome.Correct,
			TimedOut:     outcome.TimedOut,
			ElapsedMs:    opts.now().Sub(start).Milliseconds(),
		})

		if _, err := sess.Advance(); err != nil {
			return played, err
		}
	}

	res, err := sess.Result()
	if err != nil {
		return played, err
	}
	played.Score = res.Score
	played.Total = res.Total
	played.FinishedAt = opts.now()

	fmt.Fprintln(out, "\nQuiz Completed")
	fmt.Fprintln(out, result.ScoreLine(res))
	fmt.Fprintln(out, result.AccuracyLine(res))
	return played, nil
}

// readLines forwards input lines until EOF or done is closed.
func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

// parseChoice maps "1".."4" or "a".."d" to an option index, or -1.
func parseChoice(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 1 {
		return -1
	}
	switch c := s[0]; {
	case c >= '1' && c < '1'+quiz.OptionCount:
		return int(c - '1')
	case c >= 'a' && c < 'a'+quiz.OptionCount:
		return int(c - 'a')
	}
	return -1
}
