package skillgraph

import (
	"fmt"
	"slices"
	"sync"

	"github.com/alme-learn/alme/internal/apperr"
)

// Graph holds the skill DAG in insertion order with precomputed indices.
// Mutations are serialized and re-validate acyclicity; traversals take a read lock
// and return copies, so callers never observe a half-applied edit.
type Graph struct {
	mu         sync.RWMutex
	order      []ID
	byID       map[ID]*Skill
	dependents map[ID][]ID
}

// New builds a graph from skills in the given order. Skills may reference
// prerequisites that appear later in the slice; the whole set is validated at once.
func New(skills ...Skill) (*Graph, error) {
	if err := validateSkills(skills); err != nil {
		return nil, err
	}
	g := empty()
	for _, s := range skills {
		g.insert(s.Clone())
	}
	return g, nil
}

func empty() *Graph {
	return &Graph{
		byID:       make(map[ID]*Skill),
		dependents: make(map[ID][]ID),
	}
}

func (g *Graph) insert(s Skill) {
	g.order = append(g.order, s.ID)
	g.byID[s.ID] = &s
	for _, p := range s.Prerequisites {
		g.dependents[p] = append(g.dependents[p], s.ID)
	}
}

// AddSkill appends a skill. It fails with ErrInvalidInput for a malformed skill,
// *UnknownPrerequisiteError for a dangling edge, and *CycleError if the edges would
// close a cycle. The graph is unchanged on failure.
func (g *Graph) AddSkill(s Skill) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := checkSkill(s); err != nil {
		return err
	}
	if _, ok := g.byID[s.ID]; ok {
		return fmt.Errorf("%w: duplicate skill ID %q", apperr.ErrInvalidInput, s.ID)
	}
	for _, p := range s.Prerequisites {
		if p == s.ID {
			return &CycleError{Path: []ID{s.ID, s.ID}}
		}
		if _, ok := g.byID[p]; !ok {
			return &UnknownPrerequisiteError{Skill: s.ID, Prerequisite: p}
		}
	}

	next := g.cloneSkills()
	next = append(next, s.Clone())
	if path := findCycle(next); path != nil {
		return &CycleError{Path: path}
	}

	g.insert(s.Clone())
	return nil
}

// UpdateSkill replaces an existing skill (administrative edit). The edited edge
// set is re-validated for dangling references and cycles before anything changes.
func (g *Graph) UpdateSkill(s Skill) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := checkSkill(s); err != nil {
		return err
	}
	if _, ok := g.byID[s.ID]; !ok {
		return fmt.Errorf("%w: skill %q", apperr.ErrNotFound, s.ID)
	}
	for _, p := range s.Prerequisites {
		if _, ok := g.byID[p]; !ok {
			return &UnknownPrerequisiteError{Skill: s.ID, Prerequisite: p}
		}
	}

	next := g.cloneSkills()
	for i := range next {
		if next[i].ID == s.ID {
			next[i] = s.Clone()
		}
	}
	if path := findCycle(next); path != nil {
		return &CycleError{Path: path}
	}

	g.rebuild(next)
	return nil
}

// RemoveSkill deletes a skill that no other skill depends on.
func (g *Graph) RemoveSkill(id ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.byID[id]; !ok {
		return fmt.Errorf("%w: skill %q", apperr.ErrNotFound, id)
	}
	if deps := g.dependents[id]; len(deps) > 0 {
		return fmt.Errorf("%w: skill %q is a prerequisite of %v", apperr.ErrConflict, id, deps)
	}

	next := g.cloneSkills()
	next = slices.DeleteFunc(next, func(s Skill) bool { return s.ID == id })
	g.rebuild(next)
	return nil
}

func (g *Graph) rebuild(skills []Skill) {
	fresh := empty()
	for _, s := range skills {
		fresh.insert(s)
	}
	g.order, g.byID, g.dependents = fresh.order, fresh.byID, fresh.dependents
}

// cloneSkills returns a deep copy of all skills in insertion order. Caller holds mu.
func (g *Graph) cloneSkills() []Skill {
	out := make([]Skill, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.byID[id].Clone())
	}
	return out
}

// Skill returns a skill by ID.
func (g *Graph) Skill(id ID) (Skill, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, ok := g.byID[id]
	if !ok {
		return Skill{}, fmt.Errorf("%w: skill %q", apperr.ErrNotFound, id)
	}
	return s.Clone(), nil
}

// Has reports whether id is in the graph.
func (g *Graph) Has(id ID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.byID[id]
	return ok
}

// Skills returns all skills in insertion order.
func (g *Graph) Skills() []Skill {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cloneSkills()
}

// Len returns the number of skills.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// PrerequisitesOf returns the direct prerequisite IDs of a skill in declared order.
func (g *Graph) PrerequisitesOf(id ID) ([]ID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, ok := g.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: skill %q", apperr.ErrNotFound, id)
	}
	return slices.Clone(s.Prerequisites), nil
}

// Dependents returns the IDs of skills that directly depend on id.
func (g *Graph) Dependents(id ID) []ID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.dependents[id])
}

// RootSkills returns all skills with no prerequisites, in insertion order.
func (g *Graph) RootSkills() []Skill {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var roots []Skill
	for _, id := range g.order {
		if s := g.byID[id]; s.IsRoot() {
			roots = append(roots, s.Clone())
		}
	}
	return roots
}

// IsUnlocked reports whether every prerequisite of id is in the completed set.
// Unknown skills are never unlocked.
func (g *Graph) IsUnlocked(id ID, completed map[ID]bool) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, ok := g.byID[id]
	if !ok {
		return false
	}
	for _, p := range s.Prerequisites {
		if !completed[p] {
			return false
		}
	}
	return true
}
