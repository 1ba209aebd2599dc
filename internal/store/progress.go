package store

import (
	"context"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/skillgraph"
)

type progressRow struct {
	UserID       string  `sql:"user_id"`
	SkillID      string  `sql:"skill_id"`
	Status       string  `sql:"status"`
	Mastery      float64 `sql:"mastery"`
	LastAccessed string  `sql:"last_accessed"`
}

// LoadProgress returns every progress record for a user.
func (s *Store) LoadProgress(ctx context.Context, userID string) ([]progress.Record, error) {
	var rows []progressRow
	err := selectAll(ctx, s.drv, builder.Select("user_id", "skill_id", "status", "mastery", "last_accessed").
		From(builder.Table(ProgressTable.Name)).
		Where(entsql.EQ("user_id", userID)), &rows)
	if err != nil {
		return nil, wrap("query progress", err)
	}

	var out []progress.Record
	for _, r := range rows {
		out = append(out, progress.Record{
			UserID:            r.UserID,
			SkillID:           skillgraph.ID(r.SkillID),
			Status:            progress.Status(r.Status),
			MasteryPercentage: r.Mastery,
			LastAccessed:      parseTime(r.LastAccessed),
		})
	}
	return out, nil
}

// SaveProgress upserts records in one transaction.
func (s *Store) SaveProgress(ctx context.Context, records []progress.Record) error {
	return s.inTx(ctx, "save progress", func(tx dialect.Tx) error {
		for _, r := range records {
			if err := upsertProgress(ctx, tx, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertProgress(ctx context.Context, conn dialect.ExecQuerier, r progress.Record) error {
	_, err := exec(ctx, conn, builder.Insert(ProgressTable.Name).
		Columns("user_id", "skill_id", "status", "mastery", "last_accessed").
		Values(r.UserID, string(r.SkillID), string(r.Status), r.MasteryPercentage, formatTime(r.LastAccessed)).
		OnConflict(
			entsql.ConflictColumns("user_id", "skill_id"),
			entsql.ResolveWithNewValues(),
		))
	return wrap("upsert progress", err)
}

// DeleteProgress removes every record for a user.
func (s *Store) DeleteProgress(ctx context.Context, userID string) error {
	_, err := exec(ctx, s.drv, builder.Delete(ProgressTable.Name).Where(entsql.EQ("user_id", userID)))
	return wrap("delete progress", err)
}

// Completion counts a user's completed and total progress records.
type Completion struct {
	Completed int
	Total     int
}

type userCount struct {
	UserID string `sql:"user_id"`
	N      int    `sql:"n"`
}

// CompletionByUser returns completion counts keyed by user ID.
func (s *Store) CompletionByUser(ctx context.Context) (map[string]Completion, error) {
	countBy := func(p *entsql.Predicate) ([]userCount, error) {
		sel := builder.Select("user_id", entsql.As(entsql.Count("*"), "n")).
			From(builder.Table(ProgressTable.Name)).
			GroupBy("user_id")
		if p != nil {
			sel.Where(p)
		}
		var rows []userCount
		err := selectAll(ctx, s.drv, sel, &rows)
		return rows, err
	}

	totals, err := countBy(nil)
	if err != nil {
		return nil, wrap("query completion", err)
	}
	done, err := countBy(entsql.EQ("status", string(progress.StatusCompleted)))
	if err != nil {
		return nil, wrap("query completion", err)
	}

	out := make(map[string]Completion, len(totals))
	for _, t := range totals {
		out[t.UserID] = Completion{Total: t.N}
	}
	for _, d := range done {
		c := out[d.UserID]
		c.Completed = d.N
		out[d.UserID] = c
	}
	return out, nil
}
