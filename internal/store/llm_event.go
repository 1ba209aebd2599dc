package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var llmEventColumns = []string{"sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body"}

type llmEventRow struct {
	Seq          int64  `sql:"sequence"`
	Timestamp    string `sql:"timestamp"`
	Provider     string `sql:"provider"`
	Model        string `sql:"model"`
	Purpose      string `sql:"purpose"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
	LatencyMs    int64  `sql:"latency_ms"`
	Success      bool   `sql:"success"`
	ErrorMessage string `sql:"error_message"`
	RequestBody  string `sql:"request_body"`
	ResponseBody string `sql:"response_body"`
}

func (r llmEventRow) event() LLMRequestEvent {
	return LLMRequestEvent{
		ID:        r.Seq,
		Timestamp: parseTime(r.Timestamp),
		LLMRequestEventData: LLMRequestEventData{
			Provider:     r.Provider,
			Model:        r.Model,
			Purpose:      r.Purpose,
			InputTokens:  r.InputTokens,
			OutputTokens: r.OutputTokens,
			LatencyMs:    r.LatencyMs,
			Success:      r.Success,
			ErrorMessage: r.ErrorMessage,
			RequestBody:  r.RequestBody,
			ResponseBody: r.ResponseBody,
		},
	}
}

func (s *Store) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return s.inTx(ctx, "save LLM request event", func(tx dialect.Tx) error {
		seqNum, err := s.seq.Next(ctx, tx)
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		_, err = exec(ctx, tx, builder.Insert(LLMRequestEventsTable.Name).
			Columns(llmEventColumns...).
			Values(seqNum, formatTime(s.now()), data.Provider, data.Model, data.Purpose,
				data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
				data.ErrorMessage, data.RequestBody, data.ResponseBody))
		return wrap("save LLM request event", err)
	})
}

func (s *Store) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := builder.Select(llmEventColumns...).
		From(builder.Table(LLMRequestEventsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", formatTime(opts.To)))
	}
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var rows []llmEventRow
	if err := selectAll(ctx, s.drv, sel, &rows); err != nil {
		return nil, wrap("query LLM events", err)
	}
	var out []LLMRequestEvent
	for _, r := range rows {
		out = append(out, r.event())
	}
	return out, nil
}

// GetLLMEvent returns nil without error when the event does not exist.
func (s *Store) GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error) {
	var rows []llmEventRow
	err := selectAll(ctx, s.drv, builder.Select(llmEventColumns...).
		From(builder.Table(LLMRequestEventsTable.Name)).
		Where(entsql.EQ("sequence", id)), &rows)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && len(rows) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(fmt.Sprintf("get LLM event %d", id), err)
	}
	e := rows[0].event()
	return &e, nil
}

func (s *Store) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return s.llmUsage(ctx, "purpose")
}

func (s *Store) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return s.llmUsage(ctx, "model")
}

type llmUsageRow struct {
	Key          string  `sql:"key"`
	Calls        int     `sql:"calls"`
	Failures     int     `sql:"failures"`
	InputTokens  int     `sql:"input_tokens"`
	OutputTokens int     `sql:"output_tokens"`
	AvgLatency   float64 `sql:"avg_latency"`
}

// llmUsage aggregates successful and failed calls grouped by column, which is
// always one of the fixed names above.
func (s *Store) llmUsage(ctx context.Context, column string) ([]LLMUsage, error) {
	var rows []llmUsageRow
	err := selectAll(ctx, s.drv, builder.Select(
		entsql.As(column, "key"),
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As("SUM(CASE WHEN success THEN 0 ELSE 1 END)", "failures"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(builder.Table(LLMRequestEventsTable.Name)).
		GroupBy(column).
		OrderBy(column), &rows)
	if err != nil {
		return nil, wrap("query LLM usage", err)
	}

	var out []LLMUsage
	for _, r := range rows {
		u := LLMUsage{
			Calls:        r.Calls,
			Failures:     r.Failures,
			InputTokens:  r.InputTokens,
			OutputTokens: r.OutputTokens,
			AvgLatencyMs: int64(math.Trunc(r.AvgLatency)),
		}
		if column == "model" {
			u.Model = r.Key
		} else {
			u.Purpose = r.Key
		}
		out = append(out, u)
	}
	return out, nil
}
