package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/skillgraph"
)

type mockQuizRepo map[string]Quiz

func (m mockQuizRepo) GetQuiz(_ context.Context, id string) (Quiz, error) {
	q, ok := m[id]
	if !ok {
		return Quiz{}, fmt.Errorf("%w: quiz %q", apperr.ErrNotFound, id)
	}
	return q, nil
}

type mockAttemptRepo struct {
	attempts []Attempt
	saved    []progress.Record
	err      error
}

func (m *mockAttemptRepo) AppendAttempt(_ context.Context, a *Attempt) error {
	if m.err != nil {
		return m.err
	}
	a.Seq = int64(len(m.attempts) + 1)
	m.attempts = append(m.attempts, *a)
	return nil
}

func (m *mockAttemptRepo) AppendAttemptWithProgress(ctx context.Context, a *Attempt, rec progress.Record) error {
	if err := m.AppendAttempt(ctx, a); err != nil {
		return err
	}
	m.saved = append(m.saved, rec)
	return nil
}

// mockUpdater applies UpdateFunc to a single in-memory record and keeps the
// result only when commit succeeds.
type mockUpdater struct {
	rec      progress.Record
	unlocked bool
	calls    int
	err      error
}

func (m *mockUpdater) Apply(_ context.Context, userID string, skillID skillgraph.ID, fn progress.UpdateFunc,
	commit func(progress.Record) error,
) (progress.Record, error) {
	m.calls++
	if m.err != nil {
		return progress.Record{}, m.err
	}
	ch := fn(m.rec, m.unlocked)
	next := m.rec
	next.UserID = userID
	next.SkillID = skillID
	next.Status = ch.Status
	next.MasteryPercentage += ch.MasteryDelta
	if err := commit(next); err != nil {
		return progress.Record{}, err
	}
	m.rec = next
	return next, nil
}

func newTestService(updater *mockUpdater) (*Service, *mockAttemptRepo) {
	attempts := &mockAttemptRepo{}
	noSkill := sampleQuiz()
	noSkill.ID = "general"
	noSkill.SkillID = ""
	svc := NewService(mockQuizRepo{"q1": sampleQuiz(), "general": noSkill}, attempts, updater)
	svc.now = func() time.Time { return time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC) }
	return svc, attempts
}

func TestSubmit_FastTrackCompletes(t *testing.T) {
	updater := &mockUpdater{rec: progress.Record{Status: progress.StatusLocked, MasteryPercentage: 20}, unlocked: true}
	svc, attempts := newTestService(updater)

	out, err := svc.Submit(context.Background(), Submission{UserID: "u1", QuizID: "q1", Answers: []int{1, 1, 0, 1}, TimeSpent: 90})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Attempt.Tier != TierFastTrack || out.Attempt.Score != 100 {
		t.Errorf("attempt = %+v, want fast-track at 100", out.Attempt)
	}
	if out.Attempt.Seq != 1 || len(attempts.attempts) != 1 {
		t.Errorf("attempt not appended: %+v", attempts.attempts)
	}
	if out.Progress == nil {
		t.Fatal("expected a progress update")
	}
	if out.Progress.Status != progress.StatusCompleted || out.Progress.MasteryPercentage != 100 {
		t.Errorf("progress = %+v, want completed at 100", *out.Progress)
	}
}

func TestSubmit_PrecomputedScore(t *testing.T) {
	updater := &mockUpdater{rec: progress.Record{Status: progress.StatusInProgress, MasteryPercentage: 70}, unlocked: true}
	svc, _ := newTestService(updater)

	score := 40.0
	out, err := svc.Submit(context.Background(), Submission{UserID: "u1", QuizID: "q1", Score: &score})
	if err != nil {
		t.Fatal(err)
	}
	if out.Attempt.Tier != TierRemedial {
		t.Errorf("tier = %s, want remedial", out.Attempt.Tier)
	}
	if out.Progress.MasteryPercentage != 40 || out.Progress.Status != progress.StatusInProgress {
		t.Errorf("progress = %+v, want in-progress at 40", *out.Progress)
	}
}

func TestSubmit_NoRelatedSkill(t *testing.T) {
	updater := &mockUpdater{}
	svc, attempts := newTestService(updater)

	out, err := svc.Submit(context.Background(), Submission{UserID: "u1", QuizID: "general", Correct: 3, Total: 4})
	if err != nil {
		t.Fatal(err)
	}
	if out.Progress != nil || updater.calls != 0 {
		t.Error("quiz without a skill must not touch progress")
	}
	if len(attempts.attempts) != 1 || attempts.attempts[0].Tier != TierSteady {
		t.Errorf("attempts = %+v", attempts.attempts)
	}
}

func TestSubmit_InvalidInputRecordsNothing(t *testing.T) {
	updater := &mockUpdater{}
	svc, attempts := newTestService(updater)

	_, err := svc.Submit(context.Background(), Submission{UserID: "u1", QuizID: "q1", Correct: 1, Total: 0})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(attempts.attempts) != 0 || updater.calls != 0 {
		t.Error("rejected submission left side effects")
	}

	if _, err := svc.Submit(context.Background(), Submission{QuizID: "q1", Correct: 1, Total: 2}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("missing user: expected invalid input, got %v", err)
	}
}

func TestSubmit_UnknownQuiz(t *testing.T) {
	svc, _ := newTestService(&mockUpdater{})
	_, err := svc.Submit(context.Background(), Submission{UserID: "u1", QuizID: "nope", Correct: 1, Total: 1})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmit_ProgressFailureRecordsNothing(t *testing.T) {
	updater := &mockUpdater{err: fmt.Errorf("%w: no progress for user", apperr.ErrNotFound)}
	svc, attempts := newTestService(updater)

	out, err := svc.Submit(context.Background(), Submission{UserID: "ghost", QuizID: "q1", Correct: 4, Total: 4})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(attempts.attempts) != 0 || out.Attempt.Seq != 0 {
		t.Errorf("attempt stored for a failed submission: %+v", attempts.attempts)
	}
}

func TestSubmit_AttemptFailureKeepsProgress(t *testing.T) {
	before := progress.Record{Status: progress.StatusInProgress, MasteryPercentage: 30}
	updater := &mockUpdater{rec: before, unlocked: true}
	svc, attempts := newTestService(updater)
	attempts.err = fmt.Errorf("%w: locked db", apperr.ErrStorage)

	_, err := svc.Submit(context.Background(), Submission{UserID: "u1", QuizID: "q1", Correct: 4, Total: 4})
	if !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if updater.rec != before {
		t.Errorf("progress changed although the attempt was not recorded: %+v", updater.rec)
	}
}

func TestSubmit_WritesAttemptAndProgressTogether(t *testing.T) {
	updater := &mockUpdater{rec: progress.Record{Status: progress.StatusInProgress}, unlocked: true}
	svc, attempts := newTestService(updater)

	out, err := svc.Submit(context.Background(), Submission{UserID: "u1", QuizID: "q1", Correct: 2, Total: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(attempts.saved) != 1 || attempts.saved[0] != *out.Progress {
		t.Errorf("progress saved with attempt = %+v, outcome %+v", attempts.saved, out.Progress)
	}
}

func TestSubmit_AnswersTakePrecedence(t *testing.T) {
	updater := &mockUpdater{rec: progress.Record{Status: progress.StatusInProgress}, unlocked: true}
	svc, _ := newTestService(updater)

	score := 10.0
	out, err := svc.Submit(context.Background(), Submission{
		UserID: "u1", QuizID: "q1", Answers: []int{1, 1, 0, 1}, Score: &score, Correct: 0, Total: 4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Attempt.Score != 100 {
		t.Errorf("score = %v, want 100 from answers", out.Attempt.Score)
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name       string
		cur        progress.Status
		unlocked   bool
		score      float64
		wantStatus progress.Status
	}{
		{"locked prerequisites keep status", progress.StatusLocked, false, 95, progress.StatusLocked},
		{"unlocked low score starts skill", progress.StatusLocked, true, 30, progress.StatusInProgress},
		{"unlocked high score completes", progress.StatusLocked, true, 80, progress.StatusCompleted},
		{"in progress steady stays", progress.StatusInProgress, true, 79, progress.StatusInProgress},
		{"in progress fast track completes", progress.StatusInProgress, true, 85, progress.StatusCompleted},
		{"completed never regresses", progress.StatusCompleted, true, 10, progress.StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := progress.Record{Status: tt.cur, MasteryPercentage: 50}
			ch := Advance(tt.score)(cur, tt.unlocked)
			if ch.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", ch.Status, tt.wantStatus)
			}
			if got := cur.MasteryPercentage + ch.MasteryDelta; got != tt.score {
				t.Errorf("resulting mastery = %v, want %v", got, tt.score)
			}
		})
	}
}
