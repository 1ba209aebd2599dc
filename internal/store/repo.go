package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
}

// Roles and account statuses.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"

	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// User is a platform account.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	SkillLevel    string    `json:"skillLevel"`
	Avatar        string    `json:"avatar,omitempty"`
	JoinedCircles []string  `json:"joinedCircles"`
	JoinedAt      time.Time `json:"joinedAt"`
}

// Post is a network feed entry.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"user"`
	Role      string    `json:"role,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Topic     string    `json:"topic,omitempty"`
	Color     string    `json:"color,omitempty"`
	AIReply   string    `json:"aiReply"`
	CreatedAt time.Time `json:"createdAt"`
}

// Circle is a study group.
type Circle struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Members     int    `json:"members"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	Suggested   bool   `json:"suggested"`
}

// Book is a library entry.
type Book struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author,omitempty"`
	Category    string  `json:"category,omitempty"`
	Rating      float64 `json:"rating"`
	Pages       int     `json:"pages,omitempty"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Content     string  `json:"content,omitempty"`
}

// SearchResult is one hit of the unified skill and quiz search.
type SearchResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Info  string `json:"info"`
}

// Stats aggregates platform counters for the admin console.
type Stats struct {
	TotalStudents int `json:"totalStudents"`
	TotalQuizzes  int `json:"totalQuizzes"`
	TotalAttempts int `json:"totalAttempts"`
	TotalBooks    int `json:"totalBooks"`
	TotalCircles  int `json:"totalCircles"`
	TotalPosts    int `json:"totalPosts"`
	// ActiveNow estimates concurrently active students as 15% of all students.
	ActiveNow int `json:"activeNow"`
	// AtRisk counts attempts scoring below 50.
	AtRisk int `json:"atRisk"`
	// CompletionRate is the share of completed progress records across all
	// users, as a percentage.
	CompletionRate float64 `json:"completionRate"`
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string `json:"purpose,omitempty"`
	Model        string `json:"model,omitempty"`
	Calls        int    `json:"calls"`
	Failures     int    `json:"failures"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
	AvgLatencyMs int64  `json:"avgLatencyMs"`
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
