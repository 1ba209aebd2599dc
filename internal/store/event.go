package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out one monotonic sequence shared by every append-only
// table (quiz attempts and LLM request events), so rows from both can be ordered
// against each other. The increment is a single UPDATE ... RETURNING, so calling
// Next inside a transaction gives the sequence number back when it rolls back.
type sequenceCounter struct{}

// init seeds the counter row.
func (sequenceCounter) init(ctx context.Context, conn dialect.ExecQuerier) error {
	_, err := exec(ctx, conn, builder.Insert(GlobalSequenceTable.Name).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()))
	if err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sequenceCounter) Next(ctx context.Context, conn dialect.ExecQuerier) (int64, error) {
	query, args := builder.Update(GlobalSequenceTable.Name).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Returning("next_val").
		Query()
	var rows entsql.Rows
	if err := conn.Query(ctx, query, args, &rows); err != nil {
		return 0, wrap("next sequence", err)
	}
	defer rows.Close()
	next, err := entsql.ScanInt64(rows)
	if err != nil {
		return 0, wrap("next sequence", err)
	}
	return next - 1, nil
}
