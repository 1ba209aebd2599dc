package skillgraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alme-learn/alme/internal/apperr"
)

// CycleError reports a prerequisite cycle. Path lists the skills on the cycle,
// starting and ending with the same ID.
type CycleError struct {
	Path []ID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	return fmt.Sprintf("prerequisite cycle: %s", strings.Join(parts, " -> "))
}

func (e *CycleError) Unwrap() error { return apperr.ErrCycle }

// UnknownPrerequisiteError reports an edge to a skill that does not exist.
type UnknownPrerequisiteError struct {
	Skill        ID
	Prerequisite ID
}

func (e *UnknownPrerequisiteError) Error() string {
	return fmt.Sprintf("skill %q references unknown prerequisite %q", e.Skill, e.Prerequisite)
}

func (e *UnknownPrerequisiteError) Unwrap() error { return apperr.ErrNotFound }

// checkSkill validates the fields of a single skill.
func checkSkill(s Skill) error {
	if strings.TrimSpace(string(s.ID)) == "" {
		return fmt.Errorf("%w: skill ID is required", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: skill %q: name is required", apperr.ErrInvalidInput, s.ID)
	}
	if s.Difficulty < MinDifficulty || s.Difficulty > MaxDifficulty {
		return fmt.Errorf("%w: skill %q: difficulty must be in [%d, %d], got %d",
			apperr.ErrInvalidInput, s.ID, MinDifficulty, MaxDifficulty, s.Difficulty)
	}
	seen := make(map[ID]bool, len(s.Prerequisites))
	for _, p := range s.Prerequisites {
		if seen[p] {
			return fmt.Errorf("%w: skill %q lists prerequisite %q twice", apperr.ErrInvalidInput, s.ID, p)
		}
		seen[p] = true
	}
	return nil
}

// validateSkills performs all structural checks on a full skill set.
// Returns every problem found joined into one error, or nil if valid.
func validateSkills(skills []Skill) error {
	var errs []error

	ids := make(map[ID]bool, len(skills))
	for _, s := range skills {
		if err := checkSkill(s); err != nil {
			errs = append(errs, err)
		}
		if ids[s.ID] {
			errs = append(errs, fmt.Errorf("%w: duplicate skill ID %q", apperr.ErrInvalidInput, s.ID))
		}
		ids[s.ID] = true
	}

	for _, s := range skills {
		for _, p := range s.Prerequisites {
			if !ids[p] {
				errs = append(errs, &UnknownPrerequisiteError{Skill: s.ID, Prerequisite: p})
			}
		}
	}

	if path := findCycle(skills); path != nil {
		errs = append(errs, &CycleError{Path: path})
	}

	if len(errs) > 0 {
		return fmt.Errorf("skill graph validation failed: %w", errors.Join(errs...))
	}
	return nil
}

type color uint8

const (
	white color = iota // unvisited
	gray               // on the current DFS stack
	black              // fully explored
)

// findCycle runs a three-color DFS over prerequisite edges and returns the first
// cycle found, or nil. Edges to unknown IDs are ignored; those are reported separately.
func findCycle(skills []Skill) []ID {
	edges := make(map[ID][]ID, len(skills))
	for _, s := range skills {
		edges[s.ID] = s.Prerequisites
	}

	colors := make(map[ID]color, len(skills))
	var stack []ID

	var visit func(id ID) []ID
	visit = func(id ID) []ID {
		colors[id] = gray
		stack = append(stack, id)
		for _, next := range edges[id] {
			if _, known := edges[next]; !known {
				continue
			}
			switch colors[next] {
			case gray:
				// Back-edge: the cycle is the stack suffix starting at next.
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						path := append([]ID(nil), stack[i:]...)
						return append(path, next)
					}
				}
			case white:
				if path := visit(next); path != nil {
					return path
				}
			}
		}
		stack = stack[:len(stack)-1]
		colors[id] = black
		return nil
	}

	for _, s := range skills {
		if colors[s.ID] == white {
			if path := visit(s.ID); path != nil {
				return path
			}
		}
	}
	return nil
}
