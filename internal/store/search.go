package store

import (
	"context"
	"math"
	"strings"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/alme-learn/alme/internal/progress"
)

// SearchLimit caps hits per entity type.
const SearchLimit = 5

type skillHit struct {
	ID       string `sql:"id"`
	Name     string `sql:"name"`
	Category string `sql:"category"`
}

type quizHit struct {
	ID    string `sql:"id"`
	Title string `sql:"title"`
}

// Search finds skills by name or category and quizzes by title, case-insensitively.
// Skills come first, then quizzes, at most SearchLimit of each. An empty query
// returns no results.
func (s *Store) Search(ctx context.Context, q string) ([]SearchResult, error) {
	q = strings.TrimSpace(q)
	out := []SearchResult{}
	if q == "" {
		return out, nil
	}

	var skills []skillHit
	err := selectAll(ctx, s.drv, builder.Select("id", "name", "category").
		From(builder.Table(SkillsTable.Name)).
		Where(entsql.Or(entsql.ContainsFold("name", q), entsql.ContainsFold("category", q))).
		OrderBy("position").
		Limit(SearchLimit), &skills)
	if err != nil {
		return nil, wrap("search skills", err)
	}
	for _, h := range skills {
		out = append(out, SearchResult{ID: h.ID, Title: h.Name, Type: "skill", Info: h.Category})
	}

	var quizzes []quizHit
	err = selectAll(ctx, s.drv, builder.Select("id", "title").
		From(builder.Table(QuizzesTable.Name)).
		Where(entsql.ContainsFold("title", q)).
		OrderBy("title").
		Limit(SearchLimit), &quizzes)
	if err != nil {
		return nil, wrap("search quizzes", err)
	}
	for _, h := range quizzes {
		out = append(out, SearchResult{ID: h.ID, Title: h.Title, Type: "quiz", Info: "Quiz"})
	}
	return out, nil
}

// Stats counts platform entities for the admin console.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	counts := []struct {
		table string
		where *entsql.Predicate
		dest  *int
	}{
		{UsersTable.Name, entsql.EQ("role", RoleStudent), &st.TotalStudents},
		{QuizzesTable.Name, nil, &st.TotalQuizzes},
		{QuizAttemptsTable.Name, nil, &st.TotalAttempts},
		{QuizAttemptsTable.Name, entsql.LT("score", 50), &st.AtRisk},
		{BooksTable.Name, nil, &st.TotalBooks},
		{CirclesTable.Name, nil, &st.TotalCircles},
		{PostsTable.Name, nil, &st.TotalPosts},
	}
	for _, c := range counts {
		n, err := count(ctx, s.drv, c.table, c.where)
		if err != nil {
			return nil, wrap("count "+c.table, err)
		}
		*c.dest = n
	}

	st.ActiveNow = st.TotalStudents * 15 / 100

	total, err := count(ctx, s.drv, ProgressTable.Name, nil)
	if err != nil {
		return nil, wrap("count progress", err)
	}
	done, err := count(ctx, s.drv, ProgressTable.Name, entsql.EQ("status", string(progress.StatusCompleted)))
	if err != nil {
		return nil, wrap("count completed progress", err)
	}
	if total > 0 {
		st.CompletionRate = math.Round(1000*float64(done)/float64(total)) / 10
	}
	return &st, nil
}
