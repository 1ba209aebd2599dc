package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/skillgraph"
)

// QuizRepo looks up quizzes.
type QuizRepo interface {
	GetQuiz(ctx context.Context, id string) (Quiz, error)
}

// AttemptRepo appends attempts. Implementations set a.Seq and fail with
// ErrNotFound when the attempt's user does not exist.
type AttemptRepo interface {
	AppendAttempt(ctx context.Context, a *Attempt) error

	// AppendAttemptWithProgress appends a and upserts rec in one transaction.
	AppendAttemptWithProgress(ctx context.Context, a *Attempt, rec progress.Record) error
}

// ProgressUpdater validates a read-modify-write of one progress record and hands
// the result to commit. *progress.Store satisfies it.
type ProgressUpdater interface {
	Apply(ctx context.Context, userID string, skillID skillgraph.ID, fn progress.UpdateFunc,
		commit func(progress.Record) error) (progress.Record, error)
}

// Submission is a quiz submission. Exactly one scoring input is used, in order of
// precedence: Answers, then Score, then Correct/Total.
type Submission struct {
	UserID    string
	QuizID    string
	Answers   []int
	Score     *float64
	Correct   int
	Total     int
	TimeSpent int
}

// Outcome is the result of a submission. Progress is nil when the quiz has no
// related skill.
type Outcome struct {
	Attempt  Attempt
	Progress *progress.Record
}

// Service grades submissions, records attempts and advances progress.
type Service struct {
	quizzes  QuizRepo
	attempts AttemptRepo
	progress ProgressUpdater
	now      func() time.Time
}

// NewService creates a grading service.
func NewService(quizzes QuizRepo, attempts AttemptRepo, updater ProgressUpdater) *Service {
	return &Service{
		quizzes:  quizzes,
		attempts: attempts,
		progress: updater,
		now:      time.Now,
	}
}

// Submit grades sub and records the attempt. For a quiz with a related skill the
// attempt and the advanced progress record are written in one transaction, so a
// submission either changes both or neither: an unknown user, a missing progress
// record or a rejected transition leaves no attempt behind.
func (s *Service) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	if strings.TrimSpace(sub.UserID) == "" {
		return Outcome{}, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidInput)
	}
	q, err := s.quizzes.GetQuiz(ctx, sub.QuizID)
	if err != nil {
		return Outcome{}, fmt.Errorf("load quiz %q: %w", sub.QuizID, err)
	}

	res, err := grade(q, sub)
	if err != nil {
		return Outcome{}, err
	}

	att := Attempt{
		UserID:      sub.UserID,
		QuizID:      q.ID,
		Score:       res.Score,
		TimeSpent:   res.TimeSpent,
		Tier:        res.Tier,
		Feedback:    res.Feedback,
		AttemptedAt: s.now(),
	}

	if q.SkillID == "" {
		if err := s.attempts.AppendAttempt(ctx, &att); err != nil {
			return Outcome{}, fmt.Errorf("append attempt: %w", err)
		}
		return Outcome{Attempt: att}, nil
	}

	rec, err := s.progress.Apply(ctx, sub.UserID, q.SkillID, Advance(res.Score), func(next progress.Record) error {
		return s.attempts.AppendAttemptWithProgress(ctx, &att, next)
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("submit quiz %q for skill %q: %w", q.ID, q.SkillID, err)
	}
	return Outcome{Attempt: att, Progress: &rec}, nil
}

func grade(q Quiz, sub Submission) (Result, error) {
	switch {
	case sub.Answers != nil:
		correct, total, err := ScoreAnswers(q, sub.Answers)
		if err != nil {
			return Result{}, err
		}
		return Grade(correct, total, sub.TimeSpent)
	case sub.Score != nil:
		return GradeScore(*sub.Score, sub.TimeSpent)
	default:
		return Grade(sub.Correct, sub.Total, sub.TimeSpent)
	}
}

// Advance returns the progress policy for a graded score. Mastery becomes the
// score. A score at CompletionThreshold or above completes an unlocked skill; any
// other attempt on an unlocked but still locked skill starts it. Skills whose
// prerequisites are incomplete keep their status.
func Advance(score float64) progress.UpdateFunc {
	return func(cur progress.Record, unlocked bool) progress.Change {
		next := cur.Status
		switch {
		case !unlocked:
		case score >= CompletionThreshold:
			next = progress.StatusCompleted
		case cur.Status == progress.StatusLocked:
			next = progress.StatusInProgress
		}
		return progress.Change{
			MasteryDelta: score - cur.MasteryPercentage,
			Status:       next,
		}
	}
}
