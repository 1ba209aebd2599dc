package report

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/alme-learn/alme/internal/llm"
	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/recommend"
	"github.com/alme-learn/alme/internal/skillgraph"
	"github.com/alme-learn/alme/internal/store"
)

func TestBar(t *testing.T) {
	assert.Equal(t, 10, len(ansi.Strip(Bar(50, 10, false))))
	assert.True(t, strings.HasSuffix(ansi.Strip(Bar(45, 10, true)), "45%"))
	assert.Equal(t, 4, len(ansi.Strip(Bar(150, 1, false))))
}

func TestDashboard(t *testing.T) {
	d := &recommend.Dashboard{
		UserID: "u1",
		Snapshot: recommend.Snapshot{
			NextRecommendedSkill: "JavaScript Core",
			WeakestSkill:         "CSS Fundamentals",
			OverallCompletion:    40,
			Forecast:             recommend.ForecastOnTrack,
		},
		Progress: []recommend.SkillProgress{
			{Record: progress.Record{SkillID: "html-basics", Status: progress.StatusCompleted, MasteryPercentage: 100}, SkillName: "HTML Basics"},
			{Record: progress.Record{SkillID: "css-fundamentals", Status: progress.StatusInProgress, MasteryPercentage: 40}, SkillName: "CSS Fundamentals"},
		},
		Attempts: []recommend.AttemptView{
			{Attempt: quiz.Attempt{Score: 40, Tier: quiz.TierRemedial, AttemptedAt: time.Now()}, QuizTitle: "CSS Grid"},
		},
	}

	out := ansi.Strip(Dashboard("Aryan Sharma", d))
	for _, want := range []string{"Aryan Sharma", "40%", "JavaScript Core", "April 2026", "HTML Basics", "completed", "CSS Grid", "remedial"} {
		assert.Contains(t, out, want)
	}
}

func TestDashboard_NoAttempts(t *testing.T) {
	out := ansi.Strip(Dashboard("New", &recommend.Dashboard{Snapshot: recommend.Snapshot{WeakestSkill: recommend.TakeAQuiz}}))
	assert.Contains(t, out, "No quiz attempts yet.")
	assert.Contains(t, out, recommend.TakeAQuiz)
}

func TestSkills(t *testing.T) {
	out := ansi.Strip(Skills(skillgraph.DefaultCurriculum()))
	assert.Contains(t, out, "react-development")
	assert.Contains(t, out, "javascript-core")
	assert.Contains(t, out, "5 skills")
}

func TestLLMEvents(t *testing.T) {
	events := []store.LLMRequestEvent{
		{ID: 2, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Model: "gemini-2.0-flash", Purpose: llm.PurposePostReply, InputTokens: 120, OutputTokens: 80, LatencyMs: 450, Success: true}},
		{ID: 1, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Model: "gpt-4o-mini", Purpose: "triage", Success: false}},
	}
	out := ansi.Strip(LLMEvents(events))
	for _, want := range []string{"Mentor replies", "triage", "120 → 80", "450ms", "failed", "2 calls, 1 failed"} {
		assert.Contains(t, out, want)
	}
}

func TestLLMEvent_PrettyPrintsJSONReply(t *testing.T) {
	e := &store.LLMRequestEvent{ID: 7, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.0-flash", Purpose: llm.PurposePostReply, Success: true,
		RequestBody:  "[user]\nHow do I center a div?",
		ResponseBody: `{"reply":"Use flexbox.","topic":"css"}`,
	}}
	out := ansi.Strip(LLMEvent(e))
	assert.Contains(t, out, "Call #7  Mentor replies")
	assert.Contains(t, out, "gemini / gemini-2.0-flash")
	assert.Contains(t, out, "How do I center a div?")
	assert.Contains(t, out, "\n  \"reply\": \"Use flexbox.\",")

	e.ResponseBody = ""
	assert.Contains(t, ansi.Strip(LLMEvent(e)), "(not captured)")
}

func TestLLMUsage(t *testing.T) {
	byPurpose := []store.LLMUsage{
		{Purpose: llm.PurposeCLI, Calls: 1, InputTokens: 100, OutputTokens: 100},
		{Purpose: llm.PurposePostReply, Calls: 3, Failures: 1, InputTokens: 500, OutputTokens: 300, AvgLatencyMs: 220},
	}
	byModel := []store.LLMUsage{
		{Model: "gpt-4o-mini", Calls: 3, InputTokens: 1_000_000, OutputTokens: 0},
		{Model: "homegrown-7b", Calls: 1, InputTokens: 100, OutputTokens: 100},
	}
	out := ansi.Strip(LLMUsage(byPurpose, byModel))
	for _, want := range []string{"4 (1 failed)", "1000", "CLI prompts", "Mentor replies", "80%", "20%", "220ms",
		"$0.15", "(partial)", "No pricing for homegrown-7b"} {
		assert.Contains(t, out, want)
	}
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0042", FormatCost(0.0042))
	assert.Equal(t, "$1.50", FormatCost(1.5))
}
