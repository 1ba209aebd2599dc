package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/alme-learn/alme/internal/llm"
	"github.com/alme-learn/alme/internal/store"
	"github.com/alme-learn/alme/internal/ui/theme"
)

var purposeLabels = map[string]string{
	llm.PurposePostReply: "Mentor replies",
	llm.PurposeCLI:       "CLI prompts",
}

// PurposeLabel names what an LLM purpose is used for on the platform.
func PurposeLabel(purpose string) string {
	if l, ok := purposeLabels[purpose]; ok {
		return l
	}
	return purpose
}

func outcome(ok bool) string {
	if ok {
		return lipgloss.NewStyle().Foreground(theme.Success).Render("ok")
	}
	return lipgloss.NewStyle().Foreground(theme.Error).Render("failed")
}

// LLMEvents renders recent LLM calls, newest first.
func LLMEvents(events []store.LLMRequestEvent) string {
	t := newTable("#", "When", "Used for", "Model", "Tokens", "Latency", "Result")
	failed := 0
	for _, e := range events {
		if !e.Success {
			failed++
		}
		t.Row(fmt.Sprintf("%d", e.ID),
			e.Timestamp.Local().Format("Jan 02 15:04"),
			PurposeLabel(e.Purpose),
			truncate(e.Model, 24),
			fmt.Sprintf("%d → %d", e.InputTokens, e.OutputTokens),
			fmt.Sprintf("%dms", e.LatencyMs),
			outcome(e.Success))
	}
	summary := fmt.Sprintf("%d calls", len(events))
	if failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	return t.Render() + "\n" + theme.Hint.Render(summary)
}

// LLMEvent renders one call with its captured prompt and reply. JSON replies
// are pretty-printed.
func LLMEvent(e *store.LLMRequestEvent) string {
	lines := []string{
		theme.Title.Render(fmt.Sprintf("Call #%d  %s", e.ID, PurposeLabel(e.Purpose))),
		field("When", e.Timestamp.Local().Format("2006-01-02 15:04:05")),
		field("Model", e.Provider+" / "+e.Model),
		field("Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)),
		field("Latency", fmt.Sprintf("%dms", e.LatencyMs)),
		field("Result", outcome(e.Success)),
	}
	if e.ErrorMessage != "" {
		lines = append(lines, field("Error", e.ErrorMessage))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Card.Render(strings.Join(lines, "\n")),
		section("Prompt", e.RequestBody),
		section("Reply", e.ResponseBody),
	)
}

func section(title, body string) string {
	switch {
	case body == "":
		body = theme.Hint.Render("(not captured)")
	case gjson.Valid(body):
		body = strings.TrimRight(string(pretty.Pretty([]byte(body))), "\n")
	}
	return "\n" + theme.Header.Render(title) + "\n" + body
}

// LLMUsage renders token usage per purpose with each purpose's share of all
// tokens, then estimated cost per model. Models without known pricing are
// listed and leave the total partial.
func LLMUsage(byPurpose, byModel []store.LLMUsage) string {
	var allTokens, calls, failures int
	for _, u := range byPurpose {
		allTokens += u.InputTokens + u.OutputTokens
		calls += u.Calls
		failures += u.Failures
	}

	pt := newTable("Used for", "Calls", "Failed", "Tokens in", "Tokens out", "Avg latency", "Share")
	for _, u := range byPurpose {
		share := 0.0
		if allTokens > 0 {
			share = 100 * float64(u.InputTokens+u.OutputTokens) / float64(allTokens)
		}
		pt.Row(PurposeLabel(u.Purpose),
			fmt.Sprintf("%d", u.Calls),
			fmt.Sprintf("%d", u.Failures),
			fmt.Sprintf("%d", u.InputTokens),
			fmt.Sprintf("%d", u.OutputTokens),
			fmt.Sprintf("%dms", u.AvgLatencyMs),
			Bar(share, 12, true))
	}

	mt := newTable("Model", "Calls", "Tokens in", "Tokens out", "Cost")
	var total float64
	var unpriced []string
	for _, u := range byModel {
		cost := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			cost = FormatCost(usd)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		mt.Row(truncate(u.Model, 32), fmt.Sprintf("%d", u.Calls),
			fmt.Sprintf("%d", u.InputTokens), fmt.Sprintf("%d", u.OutputTokens), cost)
	}

	totalLabel := "Estimated total"
	if len(unpriced) > 0 {
		totalLabel += " (partial)"
	}
	out := []string{
		theme.Title.Render("LLM usage"),
		field("Calls", fmt.Sprintf("%d (%d failed)", calls, failures)),
		field("Tokens", fmt.Sprintf("%d", allTokens)),
		pt.Render(),
		mt.Render(),
		field(totalLabel, FormatCost(total)),
	}
	if len(unpriced) > 0 {
		out = append(out, theme.Hint.Render("No pricing for "+strings.Join(unpriced, ", ")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

// FormatCost formats a USD amount, keeping four decimals below one cent.
func FormatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
