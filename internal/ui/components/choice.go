// Package components holds small terminal widgets shared by interactive commands.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/ui/theme"
)

// Choice is a single-answer selector for one quiz question. Once an answer is
// locked in it reveals the correct option.
type Choice struct {
	Question string
	Options  []string
	Correct  int
	Cursor   int
	Chosen   int
	Answered bool
}

// NewChoice creates a selector for q with the cursor on the first option.
func NewChoice(q quiz.Question) Choice {
	return Choice{
		Question: q.Text,
		Options:  q.Options,
		Correct:  q.CorrectOption,
		Chosen:   -1,
	}
}

// Move shifts the cursor by delta, staying on the option list.
func (c Choice) Move(delta int) Choice {
	if c.Answered {
		return c
	}
	c.Cursor = min(max(c.Cursor+delta, 0), len(c.Options)-1)
	return c
}

// Point puts the cursor on option i when it exists.
func (c Choice) Point(i int) Choice {
	if c.Answered || i < 0 || i >= len(c.Options) {
		return c
	}
	c.Cursor = i
	return c
}

// Lock answers with the option under the cursor.
func (c Choice) Lock() Choice {
	if c.Answered {
		return c
	}
	c.Answered = true
	c.Chosen = c.Cursor
	return c
}

// IsCorrect reports whether the locked answer is the correct option.
func (c Choice) IsCorrect() bool {
	return c.Answered && c.Chosen == c.Correct
}

// Label is the letter shown beside option i.
func Label(i int) string {
	return string(rune('A' + i))
}

func (c Choice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Question))
	b.WriteString("\n\n")

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor && !c.Answered {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, Label(i), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.Answered && i == c.Correct:
			style = style.Foreground(theme.Success).Bold(true)
		case c.Answered && i == c.Chosen:
			style = style.Foreground(theme.Error).Bold(true)
		case c.Answered:
			style = style.Foreground(theme.TextDim)
		case i == c.Cursor:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
