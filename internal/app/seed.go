package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/alme-learn/alme/internal/account"
	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/skillgraph"
	"github.com/alme-learn/alme/internal/store"
)

// SeedOptions names the demo accounts Seed creates.
type SeedOptions struct {
	AdminEmail      string
	AdminPassword   string
	StudentEmail    string
	StudentPassword string
}

func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		AdminEmail:      "admin@alme.dev",
		AdminPassword:   "admin123",
		StudentEmail:    "aryan@example.com",
		StudentPassword: "password123",
	}
}

// SeedReport counts what Seed created.
type SeedReport struct {
	Skills   int
	Quizzes  int
	Circles  int
	Books    int
	Posts    int
	Accounts int
}

func (r SeedReport) String() string {
	return fmt.Sprintf("%d skills, %d quizzes, %d circles, %d books, %d posts, %d accounts",
		r.Skills, r.Quizzes, r.Circles, r.Books, r.Posts, r.Accounts)
}

// Seed fills every empty collection with the starter content. Collections
// that already hold data are left alone, so Seed can run on every start.
func (a *App) Seed(ctx context.Context, opts SeedOptions) (SeedReport, error) {
	var r SeedReport

	if len(a.Curriculum.Skills()) == 0 {
		for _, sk := range skillgraph.DefaultCurriculum() {
			if _, err := a.Curriculum.AddSkill(ctx, sk); err != nil {
				return r, fmt.Errorf("seed skills: %w", err)
			}
			r.Skills++
		}
	}

	quizzes, err := a.Store.ListQuizzes(ctx)
	if err != nil {
		return r, err
	}
	if len(quizzes) == 0 {
		for _, q := range seedQuizzes() {
			if q.SkillID != "" && !a.Graph.Has(q.SkillID) {
				q.SkillID = ""
			}
			q.Normalize()
			if err := a.Store.CreateQuiz(ctx, &q); err != nil {
				return r, fmt.Errorf("seed quiz %q: %w", q.Title, err)
			}
			r.Quizzes++
		}
	}

	circles, err := a.Feed.Circles(ctx)
	if err != nil {
		return r, err
	}
	if len(circles) == 0 {
		for _, c := range seedCircles {
			if _, err := a.Feed.CreateCircle(ctx, c); err != nil {
				return r, fmt.Errorf("seed circle %q: %w", c.Name, err)
			}
			r.Circles++
		}
	}

	books, err := a.Library.Books(ctx, "")
	if err != nil {
		return r, err
	}
	if len(books) == 0 {
		for _, b := range seedBooks {
			if _, err := a.Library.Create(ctx, b); err != nil {
				return r, fmt.Errorf("seed book %q: %w", b.Title, err)
			}
			r.Books++
		}
	}

	posts, err := a.Feed.Posts(ctx)
	if err != nil {
		return r, err
	}
	if len(posts) == 0 {
		for _, p := range seedPosts {
			if err := a.Store.CreatePost(ctx, &p); err != nil {
				return r, fmt.Errorf("seed post: %w", err)
			}
			r.Posts++
		}
	}

	n, err := a.seedAccounts(ctx, opts)
	r.Accounts = n
	if err != nil {
		return r, err
	}

	a.log.Info("Seed complete", "report", r.String())
	return r, nil
}

func (a *App) seedAccounts(ctx context.Context, opts SeedOptions) (int, error) {
	created := 0
	if opts.AdminEmail != "" {
		_, err := a.Accounts.Register(ctx, account.RegisterInput{
			Name: "Aesha Patel", Email: opts.AdminEmail, Password: opts.AdminPassword, Role: store.RoleAdmin,
		})
		switch {
		case err == nil:
			created++
		case !errors.Is(err, apperr.ErrConflict):
			return created, fmt.Errorf("seed admin: %w", err)
		}
	}

	if opts.StudentEmail == "" {
		return created, nil
	}
	sess, err := a.Accounts.Register(ctx, account.RegisterInput{
		Name: "Aryan Sharma", Email: opts.StudentEmail, Password: opts.StudentPassword,
	})
	if errors.Is(err, apperr.ErrConflict) {
		return created, nil
	}
	if err != nil {
		return created, fmt.Errorf("seed student: %w", err)
	}
	created++

	// The demo learner is part-way through the track.
	for _, step := range demoProgress {
		if !a.Graph.Has(step.skill) {
			continue
		}
		_, err := a.Progress.Update(ctx, sess.User.ID, step.skill, func(cur progress.Record, _ bool) progress.Change {
			return progress.Change{MasteryDelta: step.mastery - cur.MasteryPercentage, Status: step.status}
		})
		if err != nil {
			return created, fmt.Errorf("seed demo progress on %q: %w", step.skill, err)
		}
	}
	return created, nil
}

var demoProgress = []struct {
	skill   skillgraph.ID
	mastery float64
	status  progress.Status
}{
	{"html-basics", 100, progress.StatusCompleted},
	{"css-fundamentals", 85, progress.StatusCompleted},
	{"javascript-core", 45, progress.StatusInProgress},
}
