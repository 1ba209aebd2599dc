package progress

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/skillgraph"
)

// Repository persists progress records.
type Repository interface {
	// LoadProgress returns every record for a user, in any order.
	LoadProgress(ctx context.Context, userID string) ([]Record, error)

	// SaveProgress upserts records keyed by (user, skill). It must apply all
	// records or none.
	SaveProgress(ctx context.Context, records []Record) error

	// DeleteProgress removes every record for a user.
	DeleteProgress(ctx context.Context, userID string) error
}

// Store is the per-user progress engine. All reads and writes for one user are
// serialized; different users proceed independently.
type Store struct {
	repo  Repository
	graph *skillgraph.Graph
	locks *userLocks
	now   func() time.Time
}

// NewStore creates a progress store over repo. graph supplies prerequisite edges
// and the canonical record order.
func NewStore(repo Repository, graph *skillgraph.Graph) *Store {
	return &Store{
		repo:  repo,
		graph: graph,
		locks: newUserLocks(),
		now:   time.Now,
	}
}

// InitializeForUser creates one record per skill in g: root skills start
// in-progress, all others locked. Existing records are never modified; calling it
// again only back-fills skills added to the graph since. Returns the number of
// records created.
func (s *Store) InitializeForUser(ctx context.Context, userID string, g *skillgraph.Graph) (int, error) {
	if err := checkUserID(userID); err != nil {
		return 0, err
	}
	if g == nil {
		g = s.graph
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	existing, err := s.repo.LoadProgress(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load progress for %q: %w", userID, err)
	}
	have := make(map[skillgraph.ID]bool, len(existing))
	for _, r := range existing {
		have[r.SkillID] = true
	}

	now := s.now()
	var fresh []Record
	for _, sk := range g.Skills() {
		if have[sk.ID] {
			continue
		}
		status := StatusLocked
		if sk.IsRoot() {
			status = StatusInProgress
		}
		fresh = append(fresh, Record{
			UserID:       userID,
			SkillID:      sk.ID,
			Status:       status,
			LastAccessed: now,
		})
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	if err := s.repo.SaveProgress(ctx, fresh); err != nil {
		return 0, fmt.Errorf("save initial progress for %q: %w", userID, err)
	}
	return len(fresh), nil
}

// RecordAttempt applies masteryDelta to the record's mastery (clamped to 0..100),
// moves it to newStatus and stamps lastAccessed. It fails with ErrNotFound when the
// user has no record for the skill, ErrInvalidInput for an unknown status, an
// out-of-range delta or a backwards transition, and ErrLocked when newStatus moves
// the record past locked while a prerequisite is not completed.
func (s *Store) RecordAttempt(ctx context.Context, userID string, skillID skillgraph.ID, masteryDelta float64, newStatus Status) (Record, error) {
	if math.IsNaN(masteryDelta) || masteryDelta < -MaxMastery || masteryDelta > MaxMastery {
		return Record{}, fmt.Errorf("%w: mastery delta %v out of range", apperr.ErrInvalidInput, masteryDelta)
	}
	if !newStatus.Valid() {
		return Record{}, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, newStatus)
	}
	return s.Update(ctx, userID, skillID, func(Record, bool) Change {
		return Change{MasteryDelta: masteryDelta, Status: newStatus}
	})
}

// MarkComplete is the explicit completion path: mastery goes to 100 and the
// status to completed.
func (s *Store) MarkComplete(ctx context.Context, userID string, skillID skillgraph.ID) (Record, error) {
	return s.Update(ctx, userID, skillID, func(cur Record, _ bool) Change {
		return Change{MasteryDelta: MaxMastery - cur.MasteryPercentage, Status: StatusCompleted}
	})
}

// Update reads the current record under the user's lock, asks fn for a change and
// persists it. The same validation as RecordAttempt applies to the result.
func (s *Store) Update(ctx context.Context, userID string, skillID skillgraph.ID, fn UpdateFunc) (Record, error) {
	return s.Apply(ctx, userID, skillID, fn, func(next Record) error {
		return s.repo.SaveProgress(ctx, []Record{next})
	})
}

// Apply is Update with the write delegated to commit, which runs under the
// user's lock. Callers use it to persist the record together with other rows in
// one transaction. Nothing is committed when validation fails.
//
// A skill that is not unlocked may keep its current status: a prerequisite added
// after the student started it does not freeze the record, it only blocks
// completion.
func (s *Store) Apply(ctx context.Context, userID string, skillID skillgraph.ID, fn UpdateFunc, commit func(Record) error) (Record, error) {
	if err := checkUserID(userID); err != nil {
		return Record{}, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	records, err := s.repo.LoadProgress(ctx, userID)
	if err != nil {
		return Record{}, fmt.Errorf("load progress for %q: %w", userID, err)
	}

	completed := make(map[skillgraph.ID]bool, len(records))
	idx := -1
	for i, r := range records {
		if r.Status == StatusCompleted {
			completed[r.SkillID] = true
		}
		if r.SkillID == skillID {
			idx = i
		}
	}
	if idx < 0 {
		return Record{}, fmt.Errorf("%w: no progress for user %q on skill %q", apperr.ErrNotFound, userID, skillID)
	}
	if !s.graph.Has(skillID) {
		return Record{}, fmt.Errorf("%w: skill %q", apperr.ErrNotFound, skillID)
	}

	cur := records[idx]
	unlocked := s.graph.IsUnlocked(skillID, completed)
	ch := fn(cur, unlocked)

	if !cur.Status.CanBecome(ch.Status) {
		return Record{}, fmt.Errorf("%w: cannot move skill %q from %s to %s",
			apperr.ErrInvalidInput, skillID, cur.Status, ch.Status)
	}
	if ch.Status != cur.Status && ch.Status != StatusLocked && !unlocked {
		return Record{}, fmt.Errorf("%w: %q has prerequisites that are not completed", apperr.ErrLocked, skillID)
	}

	next := cur
	next.Status = ch.Status
	next.MasteryPercentage = clampMastery(cur.MasteryPercentage + ch.MasteryDelta)
	next.LastAccessed = s.now()

	if err := commit(next); err != nil {
		return Record{}, fmt.Errorf("save progress for %q/%q: %w", userID, skillID, err)
	}
	return next, nil
}

// IsCompleted reports whether the user has completed the skill. A missing record
// means "not started" and yields false without error.
func (s *Store) IsCompleted(ctx context.Context, userID string, skillID skillgraph.ID) (bool, error) {
	records, err := s.Snapshot(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.SkillID == skillID {
			return r.Status == StatusCompleted, nil
		}
	}
	return false, nil
}

// Snapshot returns all of a user's records ordered by skill insertion order.
// Records for skills no longer in the graph sort last, by skill ID.
func (s *Store) Snapshot(ctx context.Context, userID string) ([]Record, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	records, err := s.repo.LoadProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress for %q: %w", userID, err)
	}
	s.sortByGraph(records)
	return records, nil
}

// DeleteUser removes every record owned by the user.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	if err := checkUserID(userID); err != nil {
		return err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.repo.DeleteProgress(ctx, userID); err != nil {
		return fmt.Errorf("delete progress for %q: %w", userID, err)
	}
	return nil
}

// Graph returns the skill graph the store orders and validates against.
func (s *Store) Graph() *skillgraph.Graph {
	return s.graph
}

func (s *Store) sortByGraph(records []Record) {
	pos := make(map[skillgraph.ID]int)
	for i, sk := range s.graph.Skills() {
		pos[sk.ID] = i
	}
	sort.SliceStable(records, func(i, j int) bool {
		pi, iok := pos[records[i].SkillID]
		pj, jok := pos[records[j].SkillID]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return records[i].SkillID < records[j].SkillID
		}
	})
}

func checkUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user ID is required", apperr.ErrInvalidInput)
	}
	return nil
}
