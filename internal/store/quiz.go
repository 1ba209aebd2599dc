package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/skillgraph"
)

var quizColumns = []string{"id", "title", "category", "difficulty", "skill_id", "questions", "points"}

type quizRow struct {
	ID         string         `sql:"id"`
	Title      string         `sql:"title"`
	Category   string         `sql:"category"`
	Difficulty string         `sql:"difficulty"`
	SkillID    sql.NullString `sql:"skill_id"`
	Questions  string         `sql:"questions"`
	Points     int            `sql:"points"`
}

func (r quizRow) quiz() (quiz.Quiz, error) {
	q := quiz.Quiz{
		ID:         r.ID,
		Title:      r.Title,
		Category:   r.Category,
		Difficulty: quiz.Level(r.Difficulty),
		SkillID:    skillgraph.ID(r.SkillID.String),
		Points:     r.Points,
	}
	if err := json.Unmarshal([]byte(r.Questions), &q.Questions); err != nil {
		return quiz.Quiz{}, fmt.Errorf("decode questions of quiz %q: %w", r.ID, err)
	}
	return q, nil
}

// CreateQuiz stores a new quiz, assigning an ID when q.ID is empty.
func (s *Store) CreateQuiz(ctx context.Context, q *quiz.Quiz) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = exec(ctx, s.drv, builder.Insert(QuizzesTable.Name).
		Columns(quizColumns...).
		Values(q.ID, q.Title, q.Category, string(q.Difficulty), nullSkill(q.SkillID), string(questions), q.Points))
	return wrap("create quiz", err)
}

// UpdateQuiz replaces a quiz.
func (s *Store) UpdateQuiz(ctx context.Context, q quiz.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	res, err := exec(ctx, s.drv, builder.Update(QuizzesTable.Name).
		Set("title", q.Title).
		Set("category", q.Category).
		Set("difficulty", string(q.Difficulty)).
		Set("skill_id", nullSkill(q.SkillID)).
		Set("questions", string(questions)).
		Set("points", q.Points).
		Where(entsql.EQ("id", q.ID)))
	if err != nil {
		return wrap("update quiz", err)
	}
	return expectRow(res, "quiz", q.ID)
}

// DeleteQuiz removes a quiz. Attempts referencing it are kept.
func (s *Store) DeleteQuiz(ctx context.Context, id string) error {
	res, err := exec(ctx, s.drv, builder.Delete(QuizzesTable.Name).Where(entsql.EQ("id", id)))
	if err != nil {
		return wrap("delete quiz", err)
	}
	return expectRow(res, "quiz", id)
}

// GetQuiz returns a quiz by ID.
func (s *Store) GetQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	qs, err := s.queryQuizzes(ctx, builder.Select(quizColumns...).
		From(builder.Table(QuizzesTable.Name)).
		Where(entsql.EQ("id", id)))
	if err != nil {
		return quiz.Quiz{}, wrap(fmt.Sprintf("get quiz %q", id), err)
	}
	if len(qs) == 0 {
		return quiz.Quiz{}, wrap(fmt.Sprintf("get quiz %q", id), sql.ErrNoRows)
	}
	return qs[0], nil
}

// ListQuizzes returns all quizzes ordered by title.
func (s *Store) ListQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	qs, err := s.queryQuizzes(ctx, builder.Select(quizColumns...).
		From(builder.Table(QuizzesTable.Name)).
		OrderBy("title", "id"))
	if err != nil {
		return nil, wrap("query quizzes", err)
	}
	return qs, nil
}

func (s *Store) queryQuizzes(ctx context.Context, sel *entsql.Selector) ([]quiz.Quiz, error) {
	var rows []quizRow
	if err := selectAll(ctx, s.drv, sel, &rows); err != nil {
		return nil, err
	}
	var out []quiz.Quiz
	for _, r := range rows {
		q, err := r.quiz()
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func nullSkill(id skillgraph.ID) sql.NullString {
	return sql.NullString{String: string(id), Valid: id != ""}
}
