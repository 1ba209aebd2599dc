// Package quiztake is the interactive terminal screen for taking a quiz one
// question at a time.
package quiztake

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/ui/components"
	"github.com/alme-learn/alme/internal/ui/report"
	"github.com/alme-learn/alme/internal/ui/theme"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Pick   key.Binding
	Answer key.Binding
	Skip   key.Binding
	Next   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Pick:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump")),
	Answer: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "answer")),
	Skip:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
	Next:   key.NewBinding(key.WithKeys("enter", "space", "n"), key.WithHelp("enter", "next")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("q", "quit")),
}

// Model walks through a quiz's questions and collects one answer per question.
// Skipped questions are recorded as -1, the convention quiz.ScoreAnswers uses.
type Model struct {
	quiz    quiz.Quiz
	index   int
	choice  components.Choice
	answers []int
	help    help.Model
	now     func() time.Time
	started time.Time
	spent   time.Duration
	done    bool
	aborted bool
}

// New creates a screen for q, which must have at least one question.
func New(q quiz.Quiz) Model {
	return newModel(q, time.Now)
}

func newModel(q quiz.Quiz, now func() time.Time) Model {
	m := Model{
		quiz:    q,
		answers: make([]int, 0, len(q.Questions)),
		help:    help.New(),
		now:     now,
		started: now(),
	}
	if len(q.Questions) > 0 {
		m.choice = components.NewChoice(q.Questions[0])
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.SetWidth(msg.Width)
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}
	if key.Matches(msg, keys.Quit) {
		m.aborted = true
		m.done = true
		return m, tea.Quit
	}

	if m.choice.Answered {
		if key.Matches(msg, keys.Next) {
			return m.advance(m.choice.Chosen)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		m.choice = m.choice.Move(-1)
	case key.Matches(msg, keys.Down):
		m.choice = m.choice.Move(1)
	case key.Matches(msg, keys.Pick):
		n, _ := strconv.Atoi(msg.String())
		m.choice = m.choice.Point(n - 1)
	case key.Matches(msg, keys.Answer):
		m.choice = m.choice.Lock()
	case key.Matches(msg, keys.Skip):
		return m.advance(-1)
	}
	return m, nil
}

func (m Model) advance(answer int) (tea.Model, tea.Cmd) {
	m.answers = append(m.answers, answer)
	m.index++
	if m.index >= len(m.quiz.Questions) {
		m.done = true
		m.spent = m.now().Sub(m.started)
		return m, tea.Quit
	}
	m.choice = components.NewChoice(m.quiz.Questions[m.index])
	return m, nil
}

// Answers returns the chosen option per answered question.
func (m Model) Answers() []int {
	return append([]int(nil), m.answers...)
}

// Finished reports whether every question was answered or skipped.
func (m Model) Finished() bool {
	return m.done && !m.aborted
}

// Aborted reports whether the learner quit before the last question.
func (m Model) Aborted() bool {
	return m.aborted
}

// TimeSpent is the whole seconds from start to the last answer.
func (m Model) TimeSpent() int {
	return int(m.spent / time.Second)
}

func (m Model) hints() []key.Binding {
	if m.choice.Answered {
		return []key.Binding{keys.Next, keys.Quit}
	}
	return []key.Binding{keys.Up, keys.Down, keys.Pick, keys.Answer, keys.Skip, keys.Quit}
}

func (m Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m Model) render() string {
	if m.done || len(m.quiz.Questions) == 0 {
		return ""
	}

	var b strings.Builder
	total := len(m.quiz.Questions)
	b.WriteString(theme.Title.Render(m.quiz.Title))
	b.WriteString(theme.Label.Render(fmt.Sprintf("  question %d of %d", m.index+1, total)))
	b.WriteString("\n")
	b.WriteString(report.Bar(100*float64(m.index)/float64(total), 30, false))
	b.WriteString("\n\n")
	b.WriteString(m.choice.View())

	if m.choice.Answered {
		b.WriteString("\n")
		if m.choice.IsCorrect() {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("Correct!"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).
				Render("Not quite. The answer is " + components.Label(m.choice.Correct) + "."))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.hints()))
	return b.String()
}
