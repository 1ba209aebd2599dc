package progress

import (
	"time"

	"github.com/alme-learn/alme/internal/skillgraph"
)

// Status is a progress record's position in the unlock lifecycle.
// Transitions are monotonic: locked → in-progress → completed.
type Status string

const (
	StatusLocked     Status = "locked"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func (s Status) rank() int {
	switch s {
	case StatusLocked:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	default:
		return -1
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s.rank() >= 0
}

// CanBecome reports whether moving from s to next respects the monotonic order.
// Staying in the same status is allowed.
func (s Status) CanBecome(next Status) bool {
	return s.Valid() && next.Valid() && next.rank() >= s.rank()
}

// Label returns the display label for a status.
func (s Status) Label() string {
	switch s {
	case StatusLocked:
		return "Locked"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Mastery bounds, inclusive.
const (
	MinMastery = 0.0
	MaxMastery = 100.0
)

// Record is one user's progress on one skill.
type Record struct {
	UserID            string        `json:"userId"`
	SkillID           skillgraph.ID `json:"skillId"`
	Status            Status        `json:"status"`
	MasteryPercentage float64       `json:"masteryPercentage"`
	LastAccessed      time.Time     `json:"lastAccessed"`
}

// Change describes a mutation to apply to a record.
type Change struct {
	MasteryDelta float64
	Status       Status
}

// UpdateFunc computes a change from the current record. unlocked reports whether
// every prerequisite of the skill is completed for the same user.
type UpdateFunc func(cur Record, unlocked bool) Change

func clampMastery(v float64) float64 {
	switch {
	case v < MinMastery:
		return MinMastery
	case v > MaxMastery:
		return MaxMastery
	default:
		return v
	}
}
