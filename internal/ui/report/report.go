// Package report renders dashboards and curriculum listings for the terminal.
package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/alme-learn/alme/internal/recommend"
	"github.com/alme-learn/alme/internal/skillgraph"
	"github.com/alme-learn/alme/internal/ui/theme"
)

const barWidth = 20

// Dashboard renders a learner dashboard: the snapshot card, per-skill
// progress and the most recent attempts.
func Dashboard(name string, d *recommend.Dashboard) string {
	snap := d.Snapshot
	summary := strings.Join([]string{
		theme.Title.Render(name),
		field("Completion", Bar(float64(snap.OverallCompletion), barWidth, true)),
		field("Next up", snap.NextRecommendedSkill),
		field("Weak spot", snap.WeakestSkill),
		field("Forecast", snap.Forecast),
	}, "\n")

	sections := []string{theme.Card.Render(summary), skillProgress(d.Progress)}
	if len(d.Attempts) > 0 {
		sections = append(sections, attempts(d.Attempts))
	} else {
		sections = append(sections, theme.Hint.Render("No quiz attempts yet."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func field(label, value string) string {
	return theme.Label.Render(fmt.Sprintf("%-11s", label)) + theme.Value.Render(value)
}

func skillProgress(rows []recommend.SkillProgress) string {
	t := newTable("Skill", "Status", "Mastery")
	for _, p := range rows {
		t.Row(p.SkillName, theme.Status(p.Status).Render(string(p.Status)),
			Bar(p.MasteryPercentage, barWidth, true))
	}
	return t.Render()
}

func attempts(rows []recommend.AttemptView) string {
	t := newTable("Quiz", "Score", "Tier", "When")
	for _, a := range rows {
		t.Row(a.QuizTitle, theme.Score(a.Score).Render(fmt.Sprintf("%.0f", a.Score)),
			string(a.Tier), a.AttemptedAt.Local().Format("2006-01-02 15:04"))
	}
	return t.Render()
}

// Skills renders the curriculum in order with prerequisites.
func Skills(skills []skillgraph.Skill) string {
	t := newTable("ID", "Name", "Category", "Difficulty", "Requires")
	for _, s := range skills {
		req := make([]string, len(s.Prerequisites))
		for i, p := range s.Prerequisites {
			req[i] = string(p)
		}
		t.Row(string(s.ID), s.Name, string(s.Category), fmt.Sprintf("%d", s.Difficulty), strings.Join(req, ", "))
	}
	return t.Render() + "\n" + theme.Hint.Render(fmt.Sprintf("%d skills", len(skills)))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Header
			}
			return theme.Cell
		})
}
