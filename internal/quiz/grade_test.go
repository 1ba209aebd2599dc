package quiz

import (
	"errors"
	"testing"

	"github.com/alme-learn/alme/internal/apperr"
)

func TestGrade_TierBoundaries(t *testing.T) {
	tests := []struct {
		correct, total int
		wantScore      float64
		wantTier       Tier
	}{
		{0, 100, 0, TierRemedial},
		{49, 100, 49, TierRemedial},
		{50, 100, 50, TierSteady},
		{79, 100, 79, TierSteady},
		{80, 100, 80, TierFastTrack},
		{100, 100, 100, TierFastTrack},
		{4, 5, 80, TierFastTrack},
		{1, 2, 50, TierSteady},
	}
	for _, tt := range tests {
		res, err := Grade(tt.correct, tt.total, 30)
		if err != nil {
			t.Fatalf("Grade(%d, %d): %v", tt.correct, tt.total, err)
		}
		if res.Score != tt.wantScore {
			t.Errorf("Grade(%d, %d) score = %v, want %v", tt.correct, tt.total, res.Score, tt.wantScore)
		}
		if res.Tier != tt.wantTier {
			t.Errorf("Grade(%d, %d) tier = %s, want %s", tt.correct, tt.total, res.Tier, tt.wantTier)
		}
		if res.Feedback != tt.wantTier.Feedback() {
			t.Errorf("feedback mismatch for tier %s: %q", res.Tier, res.Feedback)
		}
	}
}

func TestGrade_InvalidInput(t *testing.T) {
	tests := []struct {
		name                      string
		correct, total, timeSpent int
	}{
		{"zero total", 3, 0, 10},
		{"negative total", 0, -4, 10},
		{"negative correct", -1, 10, 10},
		{"correct above total", 11, 10, 10},
		{"negative time", 5, 10, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Grade(tt.correct, tt.total, tt.timeSpent); !errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestGradeScore_Range(t *testing.T) {
	for _, score := range []float64{-0.1, 100.5} {
		if _, err := GradeScore(score, 0); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("GradeScore(%v): expected invalid input, got %v", score, err)
		}
	}
	res, err := GradeScore(79.99, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Tier != TierSteady {
		t.Errorf("79.99 tier = %s, want steady", res.Tier)
	}
}

func TestFeedbackMessages(t *testing.T) {
	if got := TierRemedial.Feedback(); got != "Our AI suggests revisiting the fundamentals of this topic. Remedial content unlocked." {
		t.Errorf("remedial feedback = %q", got)
	}
	if got := TierSteady.Feedback(); got != "Good progress. Keep practicing." {
		t.Errorf("steady feedback = %q", got)
	}
	if got := TierFastTrack.Feedback(); got != "Excellent! You've mastered this topic. Fast-tracking the next module." {
		t.Errorf("fast-track feedback = %q", got)
	}
}

func sampleQuiz() Quiz {
	return Quiz{
		ID:         "q1",
		Title:      "JS Basics",
		Category:   "Programming",
		Difficulty: LevelMedium,
		SkillID:    "js",
		Questions: []Question{
			{Text: "typeof null?", Options: []string{"null", "object"}, CorrectOption: 1},
			{Text: "=== checks?", Options: []string{"value", "value and type"}, CorrectOption: 1},
			{Text: "let is?", Options: []string{"block scoped", "function scoped"}, CorrectOption: 0},
			{Text: "NaN === NaN?", Options: []string{"true", "false"}, CorrectOption: 1},
		},
	}
}

func TestScoreAnswers(t *testing.T) {
	q := sampleQuiz()
	tests := []struct {
		name        string
		answers     []int
		wantCorrect int
		wantErr     bool
	}{
		{"all right", []int{1, 1, 0, 1}, 4, false},
		{"half", []int{1, 0, 1, 1}, 2, false},
		{"skipped", []int{1, -1, -1}, 1, false},
		{"none", []int{}, 0, false},
		{"too many", []int{1, 1, 0, 1, 0}, 0, true},
		{"out of range", []int{2}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, total, err := ScoreAnswers(q, tt.answers)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrInvalidInput) {
					t.Fatalf("expected invalid input, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if correct != tt.wantCorrect || total != 4 {
				t.Errorf("got %d/%d, want %d/4", correct, total, tt.wantCorrect)
			}
		})
	}
}

func TestQuiz_NormalizeAndValidate(t *testing.T) {
	q := sampleQuiz()
	q.Difficulty = ""
	q.Normalize()
	if q.Difficulty != LevelEasy || q.Points != 100 {
		t.Errorf("normalized = %s/%d, want easy/100", q.Difficulty, q.Points)
	}
	if err := q.Validate(); err != nil {
		t.Fatalf("valid quiz rejected: %v", err)
	}

	hard := Quiz{Title: "Hard", Difficulty: LevelHard}
	hard.Normalize()
	if hard.Points != 400 {
		t.Errorf("hard points = %d, want 400", hard.Points)
	}

	bad := sampleQuiz()
	bad.Questions[0].CorrectOption = 5
	if err := bad.Validate(); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected invalid input for bad option, got %v", err)
	}
	if err := (Quiz{Difficulty: LevelEasy}).Validate(); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected invalid input for missing title, got %v", err)
	}
}
