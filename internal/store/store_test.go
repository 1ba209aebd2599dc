package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/skillgraph"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(t.Name()))
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createUser(t *testing.T, s *Store, id string) {
	t.Helper()
	u := &User{ID: id, Name: id, Email: id + "@example.com", PasswordHash: "x"}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %q: %v", id, err)
	}
}

func seedSkills(t *testing.T, s *Store) {
	t.Helper()
	if err := s.SaveSkills(context.Background(), skillgraph.DefaultCurriculum()); err != nil {
		t.Fatalf("seed skills: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"skills", "progress", "quiz_attempts", "users", "llm_request_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx, s.drv)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestSkillGraphRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s)

	g, err := s.LoadSkillGraph(ctx)
	if err != nil {
		t.Fatalf("load graph: %v", err)
	}
	want := skillgraph.DefaultCurriculum()
	got := g.Skills()
	if len(got) != len(want) {
		t.Fatalf("got %d skills, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Name != want[i].Name || got[i].Category != want[i].Category {
			t.Errorf("skill %d = %+v, want %+v", i, got[i], want[i])
		}
		if fmt.Sprint(got[i].Prerequisites) != fmt.Sprint(want[i].Prerequisites) {
			t.Errorf("skill %s prerequisites = %v, want %v", got[i].ID, got[i].Prerequisites, want[i].Prerequisites)
		}
	}
}

func TestSaveSkill_UpdateKeepsPosition(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s)

	edited := skillgraph.DefaultCurriculum()[0]
	edited.Name = "HTML5"
	edited.Content = "Semantic markup"
	if err := s.SaveSkill(ctx, edited); err != nil {
		t.Fatalf("save: %v", err)
	}
	skills, err := s.ListSkills(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if skills[0].ID != "html-basics" || skills[0].Name != "HTML5" || skills[0].Content != "Semantic markup" {
		t.Errorf("first skill = %+v", skills[0])
	}
	if len(skills) != 5 {
		t.Errorf("update created a row: %d skills", len(skills))
	}
}

func TestDeleteSkill(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s)

	if err := s.DeleteSkill(ctx, "nodejs-backend"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteSkill(ctx, "nodejs-backend"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
	skills, _ := s.ListSkills(ctx)
	if len(skills) != 4 {
		t.Errorf("got %d skills, want 4", len(skills))
	}
}

func TestProgressRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 2, 12, 8, 0, 0, 0, time.UTC)

	recs := []progress.Record{
		{UserID: "u1", SkillID: "html", Status: progress.StatusInProgress, MasteryPercentage: 40, LastAccessed: now},
		{UserID: "u1", SkillID: "css", Status: progress.StatusLocked, LastAccessed: now},
		{UserID: "u2", SkillID: "html", Status: progress.StatusCompleted, MasteryPercentage: 100, LastAccessed: now},
	}
	if err := s.SaveProgress(ctx, recs); err != nil {
		t.Fatalf("save: %v", err)
	}

	recs[0].Status = progress.StatusCompleted
	recs[0].MasteryPercentage = 90
	if err := s.SaveProgress(ctx, recs[:1]); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.LoadProgress(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	for _, r := range got {
		if r.SkillID == "html" {
			if r.Status != progress.StatusCompleted || r.MasteryPercentage != 90 || !r.LastAccessed.Equal(now) {
				t.Errorf("html = %+v", r)
			}
		}
	}

	completion, err := s.CompletionByUser(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if completion["u1"] != (Completion{Completed: 1, Total: 2}) {
		t.Errorf("u1 completion = %+v", completion["u1"])
	}
}

func TestSaveProgress_AllOrNothing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	recs := []progress.Record{
		{UserID: "u1", SkillID: "html", Status: progress.StatusInProgress},
		{UserID: "u1", SkillID: "css", Status: progress.Status("bogus")},
	}
	err := s.SaveProgress(ctx, recs)
	if !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	got, _ := s.LoadProgress(ctx, "u1")
	if len(got) != 0 {
		t.Errorf("partial write: %+v", got)
	}
}

func TestProgressStoreOverSQLite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s)

	g, err := s.LoadSkillGraph(ctx)
	if err != nil {
		t.Fatal(err)
	}
	ps := progress.NewStore(s, g)
	if n, err := ps.InitializeForUser(ctx, "u1", g); err != nil || n != 5 {
		t.Fatalf("init = (%d, %v), want (5, nil)", n, err)
	}
	if n, _ := ps.InitializeForUser(ctx, "u1", g); n != 0 {
		t.Errorf("re-init created %d records", n)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ps.RecordAttempt(ctx, "u1", "html-basics", 5, progress.StatusInProgress); err != nil {
				t.Errorf("record: %v", err)
			}
		}()
	}
	wg.Wait()

	snap, err := ps.Snapshot(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if snap[0].SkillID != "html-basics" || snap[0].MasteryPercentage != 50 {
		t.Errorf("html = %+v, want mastery 50", snap[0])
	}
}

func TestAttempts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	createUser(t, s, "u1")
	createUser(t, s, "u2")

	at := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	for i, score := range []float64{45, 85} {
		a := &quiz.Attempt{UserID: "u1", QuizID: "q1", Score: score, TimeSpent: 60 * (i + 1),
			Tier: quiz.Classify(score), Feedback: quiz.Classify(score).Feedback(), AttemptedAt: at}
		if err := s.AppendAttempt(ctx, a); err != nil {
			t.Fatalf("append: %v", err)
		}
		if a.Seq != int64(i+1) {
			t.Errorf("seq = %d, want %d", a.Seq, i+1)
		}
	}
	_ = s.AppendAttempt(ctx, &quiz.Attempt{UserID: "u2", QuizID: "q1", Score: 10, Tier: quiz.TierRemedial, AttemptedAt: at})

	got, err := s.AttemptsForUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Score != 45 || got[1].Tier != quiz.TierFastTrack || !got[1].AttemptedAt.Equal(at) {
		t.Errorf("attempts = %+v", got)
	}
}

func TestAppendAttempt_UnknownUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := &quiz.Attempt{UserID: "ghost", QuizID: "q1", Score: 70, Tier: quiz.TierSteady}
	if err := s.AppendAttempt(ctx, a); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if a.Seq != 0 {
		t.Errorf("seq assigned to a rejected attempt: %d", a.Seq)
	}
	if n, _ := count(ctx, s.drv, QuizAttemptsTable.Name, nil); n != 0 {
		t.Errorf("%d attempts stored", n)
	}

	// The rejected insert does not burn a sequence number.
	createUser(t, s, "u1")
	a.UserID = "u1"
	if err := s.AppendAttempt(ctx, a); err != nil {
		t.Fatal(err)
	}
	if a.Seq != 1 {
		t.Errorf("seq = %d, want 1", a.Seq)
	}
}

func TestAppendAttemptWithProgress_AllOrNothing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	createUser(t, s, "u1")

	at := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	rec := progress.Record{UserID: "u1", SkillID: "html", Status: progress.StatusCompleted, MasteryPercentage: 90, LastAccessed: at}
	a := &quiz.Attempt{UserID: "u1", QuizID: "q1", Score: 90, Tier: quiz.TierFastTrack, AttemptedAt: at}
	if err := s.AppendAttemptWithProgress(ctx, a, rec); err != nil {
		t.Fatal(err)
	}
	recs, _ := s.LoadProgress(ctx, "u1")
	if len(recs) != 1 || recs[0].Status != progress.StatusCompleted || recs[0].MasteryPercentage != 90 {
		t.Errorf("progress = %+v", recs)
	}

	// A record the schema rejects rolls the attempt back too.
	bad := rec
	bad.MasteryPercentage = 150
	a2 := &quiz.Attempt{UserID: "u1", QuizID: "q1", Score: 95, Tier: quiz.TierFastTrack, AttemptedAt: at}
	if err := s.AppendAttemptWithProgress(ctx, a2, bad); !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	atts, _ := s.AttemptsForUser(ctx, "u1")
	if len(atts) != 1 || a2.Seq != 0 {
		t.Errorf("attempts = %+v, rejected seq = %d", atts, a2.Seq)
	}
}

func TestQuizCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s)

	q := &quiz.Quiz{
		Title:      "JS Loops",
		Category:   "Programming",
		Difficulty: quiz.LevelMedium,
		SkillID:    "javascript-core",
		Points:     200,
		Questions: []quiz.Question{
			{Text: "for...of iterates?", Options: []string{"keys", "values"}, CorrectOption: 1},
		},
	}
	if err := s.CreateQuiz(ctx, q); err != nil {
		t.Fatalf("create: %v", err)
	}
	if q.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := s.GetQuiz(ctx, q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.SkillID != "javascript-core" || len(got.Questions) != 1 || got.Questions[0].CorrectOption != 1 {
		t.Errorf("quiz = %+v", got)
	}

	got.SkillID = ""
	got.Title = "Loops"
	if err := s.UpdateQuiz(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, _ := s.ListQuizzes(ctx)
	if len(all) != 1 || all[0].SkillID != "" || all[0].Title != "Loops" {
		t.Errorf("after update = %+v", all)
	}

	if err := s.DeleteQuiz(ctx, q.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetQuiz(ctx, q.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := s.UpdateQuiz(ctx, got); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("update missing: expected not found, got %v", err)
	}
}

func TestUsers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := &User{Name: "Ada", Email: " Ada@Example.com ", PasswordHash: "x"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != RoleStudent || u.Status != StatusActive || u.Email != "ada@example.com" {
		t.Errorf("defaults not applied: %+v", u)
	}

	dup := &User{Name: "Other", Email: "ADA@example.com", PasswordHash: "y"}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate email: expected conflict, got %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "ada@EXAMPLE.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID || got.JoinedCircles == nil {
		t.Errorf("by email = %+v", got)
	}

	if err := s.SetUserStatus(ctx, u.ID, StatusBlocked); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetUser(ctx, u.ID)
	if got.Status != StatusBlocked {
		t.Errorf("status = %s, want blocked", got.Status)
	}
	if _, err := s.GetUser(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	admin := &User{Name: "Root", Email: "root@example.com", PasswordHash: "z", Role: RoleAdmin}
	_ = s.CreateUser(ctx, admin)
	students, err := s.ListUsers(ctx, RoleStudent)
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 || students[0].ID != u.ID {
		t.Errorf("students = %+v", students)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := &User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}
	_ = s.SaveProgress(ctx, []progress.Record{{UserID: u.ID, SkillID: "html", Status: progress.StatusInProgress}})
	_ = s.AppendAttempt(ctx, &quiz.Attempt{UserID: u.ID, QuizID: "q", Score: 50, Tier: quiz.TierSteady})

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if recs, _ := s.LoadProgress(ctx, u.ID); len(recs) != 0 {
		t.Errorf("progress left behind: %v", recs)
	}
	if atts, _ := s.AttemptsForUser(ctx, u.ID); len(atts) != 0 {
		t.Errorf("attempts left behind: %v", atts)
	}
	if err := s.DeleteUser(ctx, u.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestJoinCircle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := &User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"}
	_ = s.CreateUser(ctx, u)
	c := &Circle{Name: "Web Devs", Members: 10, Icon: "🌐"}
	if err := s.CreateCircle(ctx, c); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		joined, err := s.JoinCircle(ctx, u.ID, "Web Devs")
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		if fmt.Sprint(joined) != "[Web Devs]" {
			t.Errorf("joined = %v", joined)
		}
	}
	circles, _ := s.ListCircles(ctx)
	if len(circles) != 1 || circles[0].Members != 11 {
		t.Errorf("circles = %+v, want one with 11 members", circles)
	}

	if _, err := s.JoinCircle(ctx, "ghost", "Web Devs"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown user: expected not found, got %v", err)
	}
	if err := s.CreateCircle(ctx, &Circle{Name: "Web Devs"}); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate circle: expected conflict, got %v", err)
	}
}

func TestPostsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	for i, content := range []string{"first", "second", "third"} {
		p := &Post{Author: "Ada", Content: content, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := s.CreatePost(ctx, p); err != nil {
			t.Fatal(err)
		}
		if content == "second" {
			if err := s.SetPostReply(ctx, p.ID, "nice"); err != nil {
				t.Fatal(err)
			}
		}
	}
	posts, err := s.ListPosts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 3 || posts[0].Content != "third" || posts[1].AIReply != "nice" {
		t.Errorf("posts = %+v", posts)
	}
	if err := s.DeletePost(ctx, posts[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePost(ctx, posts[0].ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestBooks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	b := &Book{Title: "Eloquent JavaScript", Author: "Marijn Haverbeke", Category: "Programming", Rating: 4.7, Pages: 472}
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatal(err)
	}
	_ = s.CreateBook(ctx, &Book{Title: "Deep Work", Category: "Productivity"})

	prog, err := s.ListBooks(ctx, "Programming")
	if err != nil {
		t.Fatal(err)
	}
	if len(prog) != 1 || prog[0].ID != b.ID {
		t.Errorf("programming books = %+v", prog)
	}

	b.Rating = 4.9
	if err := s.UpdateBook(ctx, *b); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetBook(ctx, b.ID)
	if err != nil || got.Rating != 4.9 {
		t.Errorf("get = (%+v, %v)", got, err)
	}
	if err := s.DeleteBook(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetBook(ctx, b.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s)
	_ = s.CreateQuiz(ctx, &quiz.Quiz{Title: "JavaScript Basics", Difficulty: quiz.LevelEasy})
	_ = s.CreateQuiz(ctx, &quiz.Quiz{Title: "100% CSS", Difficulty: quiz.LevelEasy})

	hits, err := s.Search(ctx, "java")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %+v, want skill + quiz", hits)
	}
	if hits[0].Type != "skill" || hits[0].Title != "JavaScript Core" || hits[0].Info != "Language" {
		t.Errorf("skill hit = %+v", hits[0])
	}
	if hits[1].Type != "quiz" || hits[1].Info != "Quiz" {
		t.Errorf("quiz hit = %+v", hits[1])
	}

	hits, _ = s.Search(ctx, "frontend")
	if len(hits) != 2 {
		t.Errorf("category search hits = %+v, want html and css", hits)
	}

	hits, _ = s.Search(ctx, "100%")
	if len(hits) != 1 || hits[0].Title != "100% CSS" {
		t.Errorf("literal percent hits = %+v", hits)
	}

	hits, err = s.Search(ctx, "   ")
	if err != nil || hits == nil || len(hits) != 0 {
		t.Errorf("blank query = (%v, %v), want empty slice", hits, err)
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_ = s.CreateUser(ctx, &User{Name: "S", Email: fmt.Sprintf("s%d@example.com", i), PasswordHash: "x"})
	}
	_ = s.CreateUser(ctx, &User{ID: "u", Name: "Root", Email: "root@example.com", PasswordHash: "x", Role: RoleAdmin})
	_ = s.AppendAttempt(ctx, &quiz.Attempt{UserID: "u", QuizID: "q", Score: 30, Tier: quiz.TierRemedial})
	_ = s.AppendAttempt(ctx, &quiz.Attempt{UserID: "u", QuizID: "q", Score: 90, Tier: quiz.TierFastTrack})
	_ = s.SaveProgress(ctx, []progress.Record{
		{UserID: "u", SkillID: "a", Status: progress.StatusCompleted},
		{UserID: "u", SkillID: "b", Status: progress.StatusLocked},
		{UserID: "u", SkillID: "c", Status: progress.StatusLocked},
	})

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalStudents != 20 || st.ActiveNow != 3 || st.TotalAttempts != 2 || st.AtRisk != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.CompletionRate != 33.3 {
		t.Errorf("completion rate = %v, want 33.3", st.CompletionRate)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "post-reply", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "post-reply", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: false, ErrorMessage: "boom"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "other", Success: true, RequestBody: "[user]\nhi"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Model != "gpt-4o-mini" {
		t.Errorf("newest first, limited: %+v", got)
	}

	got, _ = repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "post-reply"})
	if len(got) != 2 {
		t.Errorf("purpose filter: %d events", len(got))
	}

	e, err := repo.GetLLMEvent(ctx, got[0].ID)
	if err != nil || e == nil || e.ErrorMessage != "boom" || e.Success {
		t.Errorf("get = (%+v, %v)", e, err)
	}
	if e, err := repo.GetLLMEvent(ctx, 999); e != nil || err != nil {
		t.Errorf("missing event = (%+v, %v), want (nil, nil)", e, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPurpose) != 2 || byPurpose[1].Purpose != "post-reply" || byPurpose[1].Calls != 2 ||
		byPurpose[1].Failures != 1 || byPurpose[0].Failures != 0 ||
		byPurpose[1].InputTokens != 40 || byPurpose[1].AvgLatencyMs != 200 {
		t.Errorf("usage by purpose = %+v", byPurpose)
	}
	byModel, _ := repo.LLMUsageByModel(ctx)
	if len(byModel) != 2 || byModel[0].Model != "gemini-2.0-flash" {
		t.Errorf("usage by model = %+v", byModel)
	}
}
