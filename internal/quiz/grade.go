package quiz

import (
	"fmt"
	"math"

	"github.com/alme-learn/alme/internal/apperr"
)

// Tier classifies a score into a feedback band.
type Tier string

const (
	TierRemedial  Tier = "remedial"
	TierSteady    Tier = "steady"
	TierFastTrack Tier = "fast-track"
)

// Tier boundaries. A score below SteadyFrom is remedial; a score at or above
// FastTrackFrom is fast-track.
const (
	SteadyFrom    = 50.0
	FastTrackFrom = 80.0
)

// CompletionThreshold is the score at which a quiz completes its related skill.
const CompletionThreshold = FastTrackFrom

// Classify returns the tier for a percentage score.
func Classify(score float64) Tier {
	switch {
	case score < SteadyFrom:
		return TierRemedial
	case score < FastTrackFrom:
		return TierSteady
	default:
		return TierFastTrack
	}
}

// Feedback returns the message shown to the learner for the tier.
func (t Tier) Feedback() string {
	switch t {
	case TierRemedial:
		return "Our AI suggests revisiting the fundamentals of this topic. Remedial content unlocked."
	case TierFastTrack:
		return "Excellent! You've mastered this topic. Fast-tracking the next module."
	default:
		return "Good progress. Keep practicing."
	}
}

// Result is a graded score.
type Result struct {
	Score     float64
	Tier      Tier
	Feedback  string
	TimeSpent int
}

// Grade scores correct answers out of total as a percentage.
func Grade(correct, total, timeSpent int) (Result, error) {
	if total <= 0 {
		return Result{}, fmt.Errorf("%w: total questions must be positive, got %d", apperr.ErrInvalidInput, total)
	}
	if correct < 0 || correct > total {
		return Result{}, fmt.Errorf("%w: correct count %d outside [0, %d]", apperr.ErrInvalidInput, correct, total)
	}
	return GradeScore(100*float64(correct)/float64(total), timeSpent)
}

// GradeScore classifies an already computed percentage.
func GradeScore(score float64, timeSpent int) (Result, error) {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return Result{}, fmt.Errorf("%w: score %v outside [0, 100]", apperr.ErrInvalidInput, score)
	}
	if timeSpent < 0 {
		return Result{}, fmt.Errorf("%w: time spent must not be negative, got %d", apperr.ErrInvalidInput, timeSpent)
	}
	tier := Classify(score)
	return Result{
		Score:     score,
		Tier:      tier,
		Feedback:  tier.Feedback(),
		TimeSpent: timeSpent,
	}, nil
}

// ScoreAnswers counts answers matching each question's correct option. answers[i]
// is the chosen option index for question i; -1 marks a skipped question. Fewer
// answers than questions count the rest as skipped.
func ScoreAnswers(q Quiz, answers []int) (correct, total int, err error) {
	total = len(q.Questions)
	if total == 0 {
		return 0, 0, fmt.Errorf("%w: quiz %q has no questions", apperr.ErrInvalidInput, q.ID)
	}
	if len(answers) > total {
		return 0, 0, fmt.Errorf("%w: %d answers for %d questions", apperr.ErrInvalidInput, len(answers), total)
	}
	for i, a := range answers {
		if a < -1 || a >= len(q.Questions[i].Options) {
			return 0, 0, fmt.Errorf("%w: answer %d for question %d out of range", apperr.ErrInvalidInput, a, i+1)
		}
		if a == q.Questions[i].CorrectOption {
			correct++
		}
	}
	return correct, total, nil
}
