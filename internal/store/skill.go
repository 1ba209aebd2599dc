package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/skillgraph"
)

type skillRow struct {
	ID         string `sql:"id"`
	Name       string `sql:"name"`
	Category   string `sql:"category"`
	Difficulty int    `sql:"difficulty"`
	Content    string `sql:"content"`
}

type prerequisiteRow struct {
	SkillID        string `sql:"skill_id"`
	PrerequisiteID string `sql:"prerequisite_id"`
}

// ListSkills returns all skills in insertion order with prerequisites in declared
// order.
func (s *Store) ListSkills(ctx context.Context) ([]skillgraph.Skill, error) {
	var rows []skillRow
	err := selectAll(ctx, s.drv, builder.Select("id", "name", "category", "difficulty", "content").
		From(builder.Table(SkillsTable.Name)).
		OrderBy("position"), &rows)
	if err != nil {
		return nil, wrap("query skills", err)
	}

	skills := make([]skillgraph.Skill, 0, len(rows))
	idx := make(map[skillgraph.ID]int, len(rows))
	for _, r := range rows {
		id := skillgraph.ID(r.ID)
		idx[id] = len(skills)
		skills = append(skills, skillgraph.Skill{
			ID:         id,
			Name:       r.Name,
			Category:   skillgraph.Category(r.Category),
			Difficulty: r.Difficulty,
			Content:    r.Content,
		})
	}

	var prereqs []prerequisiteRow
	err = selectAll(ctx, s.drv, builder.Select("skill_id", "prerequisite_id").
		From(builder.Table(SkillPrerequisitesTable.Name)).
		OrderBy("skill_id", "position"), &prereqs)
	if err != nil {
		return nil, wrap("query prerequisites", err)
	}
	for _, p := range prereqs {
		if i, ok := idx[skillgraph.ID(p.SkillID)]; ok {
			skills[i].Prerequisites = append(skills[i].Prerequisites, skillgraph.ID(p.PrerequisiteID))
		}
	}
	return skills, nil
}

// LoadSkillGraph builds and validates the skill graph from storage.
func (s *Store) LoadSkillGraph(ctx context.Context) (*skillgraph.Graph, error) {
	skills, err := s.ListSkills(ctx)
	if err != nil {
		return nil, err
	}
	g, err := skillgraph.New(skills...)
	if err != nil {
		return nil, fmt.Errorf("load skill graph: %w", err)
	}
	return g, nil
}

// SaveSkill inserts a new skill at the end of the insertion order, or replaces the
// fields and prerequisites of an existing one in place. Graph validation is the
// caller's job.
func (s *Store) SaveSkill(ctx context.Context, sk skillgraph.Skill) error {
	return s.inTx(ctx, "save skill", func(tx dialect.Tx) error {
		return saveSkill(ctx, tx, sk)
	})
}

// SaveSkills saves skills in order inside one transaction.
func (s *Store) SaveSkills(ctx context.Context, skills []skillgraph.Skill) error {
	return s.inTx(ctx, "save skills", func(tx dialect.Tx) error {
		for _, sk := range skills {
			if err := saveSkill(ctx, tx, sk); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveSkill(ctx context.Context, tx dialect.Tx, sk skillgraph.Skill) error {
	res, err := exec(ctx, tx, builder.Update(SkillsTable.Name).
		Set("name", sk.Name).
		Set("category", string(sk.Category)).
		Set("difficulty", sk.Difficulty).
		Set("content", sk.Content).
		Where(entsql.EQ("id", string(sk.ID))))
	if err != nil {
		return wrap("update skill", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		last, err := selectInt(ctx, tx, builder.Select("COALESCE(MAX(position), 0)").
			From(builder.Table(SkillsTable.Name)))
		if err != nil {
			return wrap("next skill position", err)
		}
		_, err = exec(ctx, tx, builder.Insert(SkillsTable.Name).
			Columns("id", "name", "category", "difficulty", "content", "position").
			Values(string(sk.ID), sk.Name, string(sk.Category), sk.Difficulty, sk.Content, last+1))
		if err != nil {
			return wrap("insert skill", err)
		}
	}

	_, err = exec(ctx, tx, builder.Delete(SkillPrerequisitesTable.Name).
		Where(entsql.EQ("skill_id", string(sk.ID))))
	if err != nil {
		return wrap("clear prerequisites", err)
	}
	if len(sk.Prerequisites) == 0 {
		return nil
	}
	ins := builder.Insert(SkillPrerequisitesTable.Name).Columns("skill_id", "prerequisite_id", "position")
	for i, p := range sk.Prerequisites {
		ins.Values(string(sk.ID), string(p), i)
	}
	if _, err := exec(ctx, tx, ins); err != nil {
		return wrap("insert prerequisites", err)
	}
	return nil
}

// DeleteSkill removes a skill along with every progress record for it. Quizzes
// that referenced it lose their related skill.
func (s *Store) DeleteSkill(ctx context.Context, id skillgraph.ID) error {
	return s.inTx(ctx, "delete skill", func(tx dialect.Tx) error {
		res, err := exec(ctx, tx, builder.Delete(SkillsTable.Name).Where(entsql.EQ("id", string(id))))
		if err != nil {
			return wrap("delete skill", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("skill %q: %w", id, apperr.ErrNotFound)
		}
		_, err = exec(ctx, tx, builder.Delete(ProgressTable.Name).Where(entsql.EQ("skill_id", string(id))))
		return wrap("delete skill progress", err)
	})
}
