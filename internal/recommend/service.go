package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/skillgraph"
)

// ProgressSource reads a user's ordered progress records.
type ProgressSource interface {
	Snapshot(ctx context.Context, userID string) ([]progress.Record, error)
}

// AttemptSource reads a user's attempts in append order.
type AttemptSource interface {
	AttemptsForUser(ctx context.Context, userID string) ([]quiz.Attempt, error)
}

// QuizSource lists quizzes.
type QuizSource interface {
	ListQuizzes(ctx context.Context) ([]quiz.Quiz, error)
}

// SkillProgress is a progress record joined with its skill.
type SkillProgress struct {
	progress.Record
	SkillName  string              `json:"skillName"`
	Category   skillgraph.Category `json:"category"`
	Difficulty int                 `json:"difficulty"`
}

// AttemptView is an attempt joined with its quiz.
type AttemptView struct {
	quiz.Attempt
	QuizTitle  string     `json:"quizTitle"`
	Category   string     `json:"category"`
	Difficulty quiz.Level `json:"difficulty"`
	SkillName  string     `json:"skillName,omitempty"`
}

// Point is one sample of the progress-over-time series.
type Point struct {
	Date string `json:"date"`
	P    int    `json:"p"`
}

// Dashboard is everything the student dashboard shows.
type Dashboard struct {
	UserID           string          `json:"userId"`
	Snapshot         Snapshot        `json:"snapshot"`
	Progress         []SkillProgress `json:"progress"`
	Attempts         []AttemptView   `json:"attempts"`
	ProgressOverTime []Point         `json:"progressOverTime"`
}

// MaxSeriesPoints caps the progress-over-time series.
const MaxSeriesPoints = 7

// Service assembles dashboards.
type Service struct {
	graph    *skillgraph.Graph
	progress ProgressSource
	attempts AttemptSource
	quizzes  QuizSource
	now      func() time.Time
}

// NewService creates a dashboard service.
func NewService(g *skillgraph.Graph, p ProgressSource, a AttemptSource, q QuizSource) *Service {
	return &Service{graph: g, progress: p, attempts: a, quizzes: q, now: time.Now}
}

// Dashboard loads a user's progress and attempts and derives the recommendation
// snapshot. Attempts are returned newest first.
func (s *Service) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	records, err := s.progress.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	attempts, err := s.attempts.AttemptsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	quizzes, err := s.quizzes.ListQuizzes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load quizzes: %w", err)
	}

	byQuiz := make(map[string]quiz.Quiz, len(quizzes))
	for _, q := range quizzes {
		byQuiz[q.ID] = q
	}

	scored := make([]ScoredAttempt, 0, len(attempts))
	views := make([]AttemptView, 0, len(attempts))
	for _, a := range attempts {
		q := byQuiz[a.QuizID]
		name := s.skillName(q.SkillID)
		scored = append(scored, ScoredAttempt{Skill: name, Score: a.Score})
		views = append(views, AttemptView{
			Attempt:    a,
			QuizTitle:  q.Title,
			Category:   q.Category,
			Difficulty: q.Difficulty,
			SkillName:  name,
		})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Seq > views[j].Seq
	})

	items := make([]SkillProgress, 0, len(records))
	for _, r := range records {
		item := SkillProgress{Record: r}
		if sk, err := s.graph.Skill(r.SkillID); err == nil {
			item.SkillName = sk.Name
			item.Category = sk.Category
			item.Difficulty = sk.Difficulty
		}
		items = append(items, item)
	}

	snap := Compute(s.graph, records, scored)
	return &Dashboard{
		UserID:           userID,
		Snapshot:         snap,
		Progress:         items,
		Attempts:         views,
		ProgressOverTime: Series(attempts, snap.OverallCompletion, s.now()),
	}, nil
}

func (s *Service) skillName(id skillgraph.ID) string {
	if id == "" {
		return ""
	}
	sk, err := s.graph.Skill(id)
	if err != nil {
		return ""
	}
	return sk.Name
}

// Series builds the progress-over-time series: one point per day with attempts,
// valued at the running mean score up to that day, oldest first and capped at
// MaxSeriesPoints. The final point is today at the current completion.
func Series(attempts []quiz.Attempt, completion int, now time.Time) []Point {
	sorted := append([]quiz.Attempt(nil), attempts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AttemptedAt.Before(sorted[j].AttemptedAt)
	})

	var (
		points []Point
		total  float64
		count  int
	)
	today := dayKey(now)
	for i, a := range sorted {
		total += a.Score
		count++
		day := dayKey(a.AttemptedAt)
		if day == today {
			continue
		}
		if i+1 < len(sorted) && dayKey(sorted[i+1].AttemptedAt) == day {
			continue
		}
		points = append(points, Point{Date: a.AttemptedAt.Format(seriesLayout), P: int(math.Round(total / float64(count)))})
	}
	points = append(points, Point{Date: now.Format(seriesLayout), P: completion})

	if len(points) > MaxSeriesPoints {
		points = points[len(points)-MaxSeriesPoints:]
	}
	return points
}

const seriesLayout = "02 Jan"

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
