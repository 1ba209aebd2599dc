package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/quiz"
)

type attemptRow struct {
	Seq         int64   `sql:"sequence"`
	UserID      string  `sql:"user_id"`
	QuizID      string  `sql:"quiz_id"`
	Score       float64 `sql:"score"`
	TimeSpent   int     `sql:"time_spent"`
	Tier        string  `sql:"tier"`
	Feedback    string  `sql:"feedback"`
	AttemptedAt string  `sql:"attempted_at"`
}

// AppendAttempt records an attempt and sets a.Seq from the global sequence. An
// unknown user is ErrNotFound.
func (s *Store) AppendAttempt(ctx context.Context, a *quiz.Attempt) error {
	return s.inTx(ctx, "append attempt", func(tx dialect.Tx) error {
		return s.insertAttempt(ctx, tx, a)
	})
}

// AppendAttemptWithProgress records an attempt and upserts the progress record
// it produced in one transaction.
func (s *Store) AppendAttemptWithProgress(ctx context.Context, a *quiz.Attempt, rec progress.Record) error {
	seq := a.Seq
	err := s.inTx(ctx, "append attempt with progress", func(tx dialect.Tx) error {
		if err := s.insertAttempt(ctx, tx, a); err != nil {
			return err
		}
		return upsertProgress(ctx, tx, rec)
	})
	if err != nil {
		a.Seq = seq
	}
	return err
}

func (s *Store) insertAttempt(ctx context.Context, tx dialect.Tx, a *quiz.Attempt) error {
	n, err := count(ctx, tx, UsersTable.Name, entsql.EQ("id", a.UserID))
	if err != nil {
		return wrap("check user", err)
	}
	if n == 0 {
		return fmt.Errorf("user %q: %w", a.UserID, apperr.ErrNotFound)
	}

	seq, err := s.seq.Next(ctx, tx)
	if err != nil {
		return err
	}
	_, err = exec(ctx, tx, builder.Insert(QuizAttemptsTable.Name).
		Columns("sequence", "user_id", "quiz_id", "score", "time_spent", "tier", "feedback", "attempted_at").
		Values(seq, a.UserID, a.QuizID, a.Score, a.TimeSpent, string(a.Tier), a.Feedback, formatTime(a.AttemptedAt)))
	if err != nil {
		return wrap("save quiz attempt", err)
	}
	a.Seq = seq
	return nil
}

// AttemptsForUser returns a user's attempts in append order.
func (s *Store) AttemptsForUser(ctx context.Context, userID string) ([]quiz.Attempt, error) {
	var rows []attemptRow
	err := selectAll(ctx, s.drv, builder.Select(
		"sequence", "user_id", "quiz_id", "score", "time_spent", "tier", "feedback", "attempted_at").
		From(builder.Table(QuizAttemptsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("sequence"), &rows)
	if err != nil {
		return nil, wrap("query attempts", err)
	}

	var out []quiz.Attempt
	for _, r := range rows {
		out = append(out, quiz.Attempt{
			Seq:         r.Seq,
			UserID:      r.UserID,
			QuizID:      r.QuizID,
			Score:       r.Score,
			TimeSpent:   r.TimeSpent,
			Tier:        quiz.Tier(r.Tier),
			Feedback:    r.Feedback,
			AttemptedAt: parseTime(r.AttemptedAt),
		})
	}
	return out, nil
}
