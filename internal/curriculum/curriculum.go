// Package curriculum applies administrative edits to the skill graph. Every edit
// is checked against a scratch copy of the graph, persisted, and only then applied
// to the live graph that the progress and recommendation services read.
package curriculum

import (
	"context"
	"fmt"
	"sync"

	"github.com/alme-learn/alme/internal/skillgraph"
)

// Repository persists skills.
type Repository interface {
	SaveSkill(ctx context.Context, s skillgraph.Skill) error
	DeleteSkill(ctx context.Context, id skillgraph.ID) error
}

// Service serializes curriculum edits.
type Service struct {
	mu    sync.Mutex
	graph *skillgraph.Graph
	repo  Repository
}

func NewService(graph *skillgraph.Graph, repo Repository) *Service {
	return &Service{graph: graph, repo: repo}
}

// Skills returns the curriculum in insertion order.
func (s *Service) Skills() []skillgraph.Skill {
	return s.graph.Skills()
}

// Skill returns one skill.
func (s *Service) Skill(id skillgraph.ID) (skillgraph.Skill, error) {
	return s.graph.Skill(id)
}

// AddSkill appends a new skill.
func (s *Service) AddSkill(ctx context.Context, sk skillgraph.Skill) (skillgraph.Skill, error) {
	return s.apply(ctx, "add skill", sk,
		func(g *skillgraph.Graph) error { return g.AddSkill(sk) },
		func() error { return s.repo.SaveSkill(ctx, sk) })
}

// UpdateSkill replaces an existing skill's fields and prerequisites.
func (s *Service) UpdateSkill(ctx context.Context, sk skillgraph.Skill) (skillgraph.Skill, error) {
	return s.apply(ctx, "update skill", sk,
		func(g *skillgraph.Graph) error { return g.UpdateSkill(sk) },
		func() error { return s.repo.SaveSkill(ctx, sk) })
}

// RemoveSkill deletes a skill nothing depends on, along with its progress records.
func (s *Service) RemoveSkill(ctx context.Context, id skillgraph.ID) error {
	_, err := s.apply(ctx, "remove skill", skillgraph.Skill{ID: id},
		func(g *skillgraph.Graph) error { return g.RemoveSkill(id) },
		func() error { return s.repo.DeleteSkill(ctx, id) })
	return err
}

func (s *Service) apply(ctx context.Context, op string, sk skillgraph.Skill,
	edit func(*skillgraph.Graph) error, persist func() error,
) (skillgraph.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return skillgraph.Skill{}, err
	}

	scratch, err := skillgraph.New(s.graph.Skills()...)
	if err != nil {
		return skillgraph.Skill{}, fmt.Errorf("%s: copy graph: %w", op, err)
	}
	if err := edit(scratch); err != nil {
		return skillgraph.Skill{}, fmt.Errorf("%s %q: %w", op, sk.ID, err)
	}
	if err := persist(); err != nil {
		return skillgraph.Skill{}, fmt.Errorf("%s %q: %w", op, sk.ID, err)
	}
	// The scratch edit succeeded under the same lock, so this cannot fail.
	if err := edit(s.graph); err != nil {
		return skillgraph.Skill{}, fmt.Errorf("%s %q: %w", op, sk.ID, err)
	}
	if !s.graph.Has(sk.ID) {
		return skillgraph.Skill{}, nil
	}
	return s.graph.Skill(sk.ID)
}
