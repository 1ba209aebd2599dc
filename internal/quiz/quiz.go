// Package quiz grades quiz submissions and turns scores into progress updates.
package quiz

import (
	"fmt"
	"strings"
	"time"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/skillgraph"
)

// Level is a quiz difficulty.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelEasy, LevelMedium, LevelHard:
		return true
	}
	return false
}

// Points returns the points a quiz of this level is worth.
func (l Level) Points() int {
	switch l {
	case LevelMedium:
		return 200
	case LevelHard:
		return 400
	default:
		return 100
	}
}

// Question is a single multiple-choice question.
type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
	Difficulty    Level    `json:"difficulty,omitempty"`
}

// Quiz is a set of questions, optionally tied to one skill.
type Quiz struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Category   string        `json:"category"`
	Difficulty Level         `json:"difficulty"`
	SkillID    skillgraph.ID `json:"relatedSkill,omitempty"`
	Questions  []Question    `json:"questions"`
	Points     int           `json:"points"`
}

// Normalize fills defaults: difficulty falls back to easy and points follow the
// difficulty when unset.
func (q *Quiz) Normalize() {
	if q.Difficulty == "" {
		q.Difficulty = LevelEasy
	}
	if q.Points == 0 {
		q.Points = q.Difficulty.Points()
	}
}

// Validate checks the quiz is well formed.
func (q Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: quiz title is required", apperr.ErrInvalidInput)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", apperr.ErrInvalidInput, q.Difficulty)
	}
	for i, qu := range q.Questions {
		if strings.TrimSpace(qu.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", apperr.ErrInvalidInput, i+1)
		}
		if len(qu.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least two options", apperr.ErrInvalidInput, i+1)
		}
		if qu.CorrectOption < 0 || qu.CorrectOption >= len(qu.Options) {
			return fmt.Errorf("%w: question %d correct option %d out of range",
				apperr.ErrInvalidInput, i+1, qu.CorrectOption)
		}
		if qu.Difficulty != "" && !qu.Difficulty.Valid() {
			return fmt.Errorf("%w: question %d has unknown difficulty %q", apperr.ErrInvalidInput, i+1, qu.Difficulty)
		}
	}
	return nil
}

// Attempt is one graded submission. Attempts are append-only; Seq is assigned by
// the store.
type Attempt struct {
	Seq         int64     `json:"seq"`
	UserID      string    `json:"userId"`
	QuizID      string    `json:"quizId"`
	Score       float64   `json:"score"`
	TimeSpent   int       `json:"timeSpent"`
	Tier        Tier      `json:"tier"`
	Feedback    string    `json:"feedback"`
	AttemptedAt time.Time `json:"attemptedAt"`
}
