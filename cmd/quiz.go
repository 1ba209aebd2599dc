package cmd

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/alme-learn/alme/internal/app"
	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/store"
	"github.com/alme-learn/alme/internal/ui/quiztake"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "List quizzes and record attempts",
}

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		quizzes, err := a.Store.ListQuizzes(cmd.Context())
		if err != nil {
			return err
		}
		if len(quizzes) == 0 {
			fmt.Println("No quizzes found.")
			return nil
		}

		fmt.Printf("%-36s  %-28s  %-8s  %-20s  %s\n", "ID", "Title", "Level", "Skill", "Questions")
		fmt.Println(strings.Repeat("─", 110))
		for _, q := range quizzes {
			fmt.Printf("%-36s  %-28s  %-8s  %-20s  %d\n",
				q.ID, truncate(q.Title, 28), q.Difficulty, q.SkillID, len(q.Questions))
		}
		return nil
	},
}

var quizSubmitCmd = &cobra.Command{
	Use:   "submit <email> <quiz-id>",
	Short: "Record a quiz attempt for a learner",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, _ := cmd.Flags().GetFloat64("score")
		spent, _ := cmd.Flags().GetInt("time")

		a, _, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		ctx := cmd.Context()
		userID, err := learnerID(ctx, a, args[0])
		if err != nil {
			return err
		}
		return submitAndReport(ctx, a, quiz.Submission{
			UserID:    userID,
			QuizID:    args[1],
			Score:     &score,
			TimeSpent: spent,
		})
	},
}

var quizTakeCmd = &cobra.Command{
	Use:   "take <email> <quiz-id>",
	Short: "Take a quiz interactively as a learner",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		ctx := cmd.Context()
		userID, err := learnerID(ctx, a, args[0])
		if err != nil {
			return err
		}
		q, err := a.Store.GetQuiz(ctx, args[1])
		if err != nil {
			return err
		}
		if len(q.Questions) == 0 {
			return fmt.Errorf("quiz %q has no questions to take", q.Title)
		}

		final, err := tea.NewProgram(quiztake.New(q), tea.WithContext(ctx)).Run()
		if err != nil {
			return fmt.Errorf("run quiz: %w", err)
		}
		taken := final.(quiztake.Model)
		if !taken.Finished() {
			fmt.Println("Quiz abandoned, nothing was recorded.")
			return nil
		}

		correct, total, err := quiz.ScoreAnswers(q, taken.Answers())
		if err != nil {
			return err
		}
		fmt.Printf("%d of %d correct in %ds\n", correct, total, taken.TimeSpent())
		return submitAndReport(ctx, a, quiz.Submission{
			UserID:    userID,
			QuizID:    q.ID,
			Answers:   taken.Answers(),
			TimeSpent: taken.TimeSpent(),
		})
	},
}

// learnerID resolves email to a user ID. Students get any missing progress rows
// first so their submission can advance a skill.
func learnerID(ctx context.Context, a *app.App, email string) (string, error) {
	u, err := a.Store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("find learner %s: %w", email, err)
	}
	if u.Role == store.RoleStudent {
		if _, err := a.Progress.InitializeForUser(ctx, u.ID, nil); err != nil {
			return "", err
		}
	}
	return u.ID, nil
}

func submitAndReport(ctx context.Context, a *app.App, sub quiz.Submission) error {
	out, err := a.Quizzes.Submit(ctx, sub)
	if err != nil {
		return err
	}
	fmt.Printf("Score %.0f (%s): %s\n", out.Attempt.Score, out.Attempt.Tier, out.Attempt.Feedback)
	if out.Progress != nil {
		fmt.Printf("%s is now %s at %.0f%% mastery\n",
			out.Progress.SkillID, out.Progress.Status, out.Progress.MasteryPercentage)
	}
	return nil
}

func init() {
	quizSubmitCmd.Flags().Float64("score", 0, "Score from 0 to 100")
	quizSubmitCmd.Flags().Int("time", 0, "Time spent in seconds")
	_ = quizSubmitCmd.MarkFlagRequired("score")

	quizCmd.AddCommand(quizListCmd)
	quizCmd.AddCommand(quizSubmitCmd)
	quizCmd.AddCommand(quizTakeCmd)
}
