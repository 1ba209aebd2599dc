// Package recommend derives dashboard recommendations from a user's progress and
// quiz history.
package recommend

import (
	"math"

	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/skillgraph"
)

// Sentinel labels for empty states.
const (
	MasteryAchieved     = "Mastery Achieved!"
	TakeAQuiz           = "Take a quiz!"
	GeneralFundamentals = "General Fundamentals"
)

// Forecast labels. The forecast is a fixed two-value rule on whether any skill is
// completed; it is not estimated from the learner's pace.
const (
	ForecastOnTrack    = "April 2026"
	ForecastNotStarted = "May 2026"
)

// Snapshot is the recommendation summary for one user.
type Snapshot struct {
	NextRecommendedSkill string        `json:"recommendation"`
	NextSkillID          skillgraph.ID `json:"recommendedSkillId,omitempty"`
	WeakestSkill         string        `json:"weakSpot"`
	OverallCompletion    int           `json:"overallCompletion"`
	Forecast             string        `json:"forecast"`
	Completed            int           `json:"completedSkills"`
	Total                int           `json:"totalSkills"`
}

// ScoredAttempt is an attempt reduced to what the weakest-skill rule needs.
// Skill is the name of the quiz's related skill, empty when it has none.
type ScoredAttempt struct {
	Skill string
	Score float64
}

// NextRecommended returns the first record in snapshot order that is still locked
// while all of its prerequisites are completed. ok is false when no record
// qualifies.
func NextRecommended(g *skillgraph.Graph, records []progress.Record) (skill skillgraph.Skill, ok bool) {
	completed := completedSet(records)
	for _, r := range records {
		if r.Status != progress.StatusLocked {
			continue
		}
		if !g.IsUnlocked(r.SkillID, completed) {
			continue
		}
		s, err := g.Skill(r.SkillID)
		if err != nil {
			continue
		}
		return s, true
	}
	return skillgraph.Skill{}, false
}

// WeakestSkill groups attempts by skill label and returns the label with the
// strictly lowest mean score. Ties go to the label seen first. With no attempts it
// returns TakeAQuiz.
func WeakestSkill(attempts []ScoredAttempt) string {
	if len(attempts) == 0 {
		return TakeAQuiz
	}

	type agg struct {
		total float64
		count int
	}
	var order []string
	groups := make(map[string]*agg)
	for _, a := range attempts {
		label := a.Skill
		if label == "" {
			label = GeneralFundamentals
		}
		g, ok := groups[label]
		if !ok {
			g = &agg{}
			groups[label] = g
			order = append(order, label)
		}
		g.total += a.Score
		g.count++
	}

	weakest := order[0]
	lowest := groups[weakest].total / float64(groups[weakest].count)
	for _, label := range order[1:] {
		g := groups[label]
		if mean := g.total / float64(g.count); mean < lowest {
			weakest, lowest = label, mean
		}
	}
	return weakest
}

// Completion returns round(100 * completed / total), or 0 when total is 0.
func Completion(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Forecast returns the forecast label for the number of completed skills.
func Forecast(completed int) string {
	if completed > 0 {
		return ForecastOnTrack
	}
	return ForecastNotStarted
}

// Compute builds the full snapshot.
func Compute(g *skillgraph.Graph, records []progress.Record, attempts []ScoredAttempt) Snapshot {
	done := 0
	for _, r := range records {
		if r.Status == progress.StatusCompleted {
			done++
		}
	}

	snap := Snapshot{
		NextRecommendedSkill: MasteryAchieved,
		WeakestSkill:         WeakestSkill(attempts),
		OverallCompletion:    Completion(done, len(records)),
		Forecast:             Forecast(done),
		Completed:            done,
		Total:                len(records),
	}
	if s, ok := NextRecommended(g, records); ok {
		snap.NextRecommendedSkill = s.Name
		snap.NextSkillID = s.ID
	}
	return snap
}

func completedSet(records []progress.Record) map[skillgraph.ID]bool {
	set := make(map[skillgraph.ID]bool, len(records))
	for _, r := range records {
		if r.Status == progress.StatusCompleted {
			set[r.SkillID] = true
		}
	}
	return set
}
