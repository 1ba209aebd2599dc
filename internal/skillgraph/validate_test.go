package skillgraph

import (
	"errors"
	"strings"
	"testing"

	"github.com/alme-learn/alme/internal/apperr"
)

func TestValidateSkills_DetectsCycle(t *testing.T) {
	skills := []Skill{
		{ID: "a", Name: "A", Difficulty: 1, Prerequisites: []ID{"b"}},
		{ID: "b", Name: "B", Difficulty: 1, Prerequisites: []ID{"a"}},
	}
	err := validateSkills(skills)
	if err == nil {
		t.Fatal("expected error for cycle, got nil")
	}
	if !errors.Is(err, apperr.ErrCycle) {
		t.Errorf("error should classify as cycle, got: %v", err)
	}
}

func TestValidateSkills_DetectsLongCycle(t *testing.T) {
	skills := []Skill{
		{ID: "root", Name: "Root", Difficulty: 1},
		{ID: "a", Name: "A", Difficulty: 1, Prerequisites: []ID{"root", "c"}},
		{ID: "b", Name: "B", Difficulty: 1, Prerequisites: []ID{"a"}},
		{ID: "c", Name: "C", Difficulty: 1, Prerequisites: []ID{"b"}},
	}
	var cyc *CycleError
	if err := validateSkills(skills); !errors.As(err, &cyc) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	for _, id := range []ID{"a", "b", "c"} {
		if !strings.Contains(cyc.Error(), string(id)) {
			t.Errorf("cycle %v should mention %q", cyc.Path, id)
		}
	}
	if strings.Contains(cyc.Error(), "root") {
		t.Errorf("cycle %v should not include root", cyc.Path)
	}
}

func TestValidateSkills_DiamondIsNotACycle(t *testing.T) {
	skills := []Skill{
		{ID: "top", Name: "Top", Difficulty: 1},
		{ID: "left", Name: "Left", Difficulty: 2, Prerequisites: []ID{"top"}},
		{ID: "right", Name: "Right", Difficulty: 2, Prerequisites: []ID{"top"}},
		{ID: "bottom", Name: "Bottom", Difficulty: 3, Prerequisites: []ID{"left", "right"}},
	}
	if err := validateSkills(skills); err != nil {
		t.Fatalf("diamond should be valid: %v", err)
	}
}

func TestValidateSkills_DetectsDanglingPrereq(t *testing.T) {
	skills := []Skill{
		{ID: "a", Name: "A", Difficulty: 1},
		{ID: "b", Name: "B", Difficulty: 1, Prerequisites: []ID{"nonexistent"}},
	}
	err := validateSkills(skills)
	if err == nil {
		t.Fatal("expected error for dangling prerequisite, got nil")
	}
	if !strings.Contains(err.Error(), "nonexistent") {
		t.Errorf("error should mention the missing ID, got: %v", err)
	}
}

func TestValidateSkills_DetectsDuplicateID(t *testing.T) {
	skills := []Skill{
		{ID: "a", Name: "A", Difficulty: 1},
		{ID: "a", Name: "A again", Difficulty: 1},
	}
	err := validateSkills(skills)
	if err == nil {
		t.Fatal("expected error for duplicate ID, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error should mention duplicate, got: %v", err)
	}
}

func TestValidateSkills_ReportsAllProblems(t *testing.T) {
	skills := []Skill{
		{ID: "a", Name: "A", Difficulty: 42},
		{ID: "b", Name: "B", Difficulty: 1, Prerequisites: []ID{"ghost"}},
	}
	err := validateSkills(skills)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "difficulty") || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("both problems should be reported, got: %v", err)
	}
}

func TestNew_RejectsInvalidSet(t *testing.T) {
	_, err := New(
		Skill{ID: "a", Name: "A", Difficulty: 1, Prerequisites: []ID{"b"}},
		Skill{ID: "b", Name: "B", Difficulty: 1, Prerequisites: []ID{"a"}},
	)
	if !errors.Is(err, apperr.ErrCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestNew_Empty(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("empty graph should be valid: %v", err)
	}
	if g.Len() != 0 || len(g.RootSkills()) != 0 {
		t.Error("empty graph should have no skills")
	}
}
