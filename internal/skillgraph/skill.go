package skillgraph

import "slices"

// ID identifies a skill node.
type ID string

// Difficulty bounds, inclusive.
const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// Category groups skills for display and search.
type Category string

const (
	CategoryFrontend  Category = "Frontend"
	CategoryLanguage  Category = "Language"
	CategoryFramework Category = "Framework"
	CategoryBackend   Category = "Backend"
)

// Skill represents a single curriculum node in the graph.
type Skill struct {
	ID            ID       `json:"id"`
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	Difficulty    int      `json:"difficulty"`
	Content       string   `json:"content,omitempty"`
	Prerequisites []ID     `json:"dependencies"`
}

// Clone returns a deep copy of s.
func (s Skill) Clone() Skill {
	s.Prerequisites = slices.Clone(s.Prerequisites)
	return s
}

// IsRoot reports whether the skill has no prerequisites.
func (s Skill) IsRoot() bool {
	return len(s.Prerequisites) == 0
}

// DependsOn reports whether id is a direct prerequisite of s.
func (s Skill) DependsOn(id ID) bool {
	return slices.Contains(s.Prerequisites, id)
}
