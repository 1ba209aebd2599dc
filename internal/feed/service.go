// Package feed runs the learner network: posts with assistant replies and
// study circles.
package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/llm"
	"github.com/alme-learn/alme/internal/logger"
	"github.com/alme-learn/alme/internal/store"
)

// MaxPostLen caps post content, in bytes.
const MaxPostLen = 4000

// Repository stores posts and circles.
type Repository interface {
	CreatePost(ctx context.Context, p *store.Post) error
	SetPostReply(ctx context.Context, id, reply string) error
	ListPosts(ctx context.Context) ([]store.Post, error)
	DeletePost(ctx context.Context, id string) error

	CreateCircle(ctx context.Context, c *store.Circle) error
	UpdateCircle(ctx context.Context, c store.Circle) error
	DeleteCircle(ctx context.Context, id string) error
	ListCircles(ctx context.Context) ([]store.Circle, error)
	JoinCircle(ctx context.Context, userID, circleName string) ([]string, error)
}

// Config tunes assistant replies.
type Config struct {
	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{MaxTokens: 400, Temperature: 0.7}
}

// PostInput is the payload of a new post. Author fields come from the
// signed-in user.
type PostInput struct {
	Author  string `json:"-"`
	Role    string `json:"role"`
	Avatar  string `json:"avatar"`
	Content string `json:"content"`
	Topic   string `json:"topic"`
	Color   string `json:"color"`
}

type Service struct {
	repo     Repository
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
}

// NewService creates a feed service. provider may be nil, in which case every
// post gets a canned reply.
func NewService(repo Repository, provider llm.Provider, cfg Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{repo: repo, provider: provider, cfg: cfg, log: log.With("service", "FeedService")}
}

// CreatePost stores a post and attaches an assistant reply. A failing model
// never fails the post; the canned reply is used instead.
func (s *Service) CreatePost(ctx context.Context, in PostInput) (*store.Post, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, fmt.Errorf("%w: post content is required", apperr.ErrInvalidInput)
	}
	if len(in.Content) > MaxPostLen {
		return nil, fmt.Errorf("%w: post exceeds %d bytes", apperr.ErrInvalidInput, MaxPostLen)
	}
	if in.Author == "" {
		in.Author = "Anonymous"
	}

	p := &store.Post{
		Author:  in.Author,
		Role:    in.Role,
		Avatar:  in.Avatar,
		Content: in.Content,
		Topic:   in.Topic,
		Color:   in.Color,
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}

	p.AIReply = s.reply(ctx, p.Content)
	if err := s.repo.SetPostReply(ctx, p.ID, p.AIReply); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) reply(ctx context.Context, content string) string {
	if s.provider == nil {
		return FallbackReply(content)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposePostReply)
	req := llm.Prompt(replySystemPrompt, buildReplyUserMessage(content), replySchema, s.cfg.MaxTokens)
	req.Temperature = s.cfg.Temperature

	var out replyOutput
	if _, err := llm.GenerateInto(ctx, s.provider, req, &out); err != nil {
		s.log.Warn("AI reply failed, using fallback", "error", err)
		return FallbackReply(content)
	}
	reply := strings.TrimSpace(out.Reply)
	if reply == "" {
		s.log.Warn("AI reply was empty, using fallback")
		return FallbackReply(content)
	}
	return reply
}

// Posts lists posts newest first.
func (s *Service) Posts(ctx context.Context) ([]store.Post, error) {
	posts, err := s.repo.ListPosts(ctx)
	if posts == nil && err == nil {
		posts = []store.Post{}
	}
	return posts, err
}

func (s *Service) DeletePost(ctx context.Context, id string) error {
	return s.repo.DeletePost(ctx, id)
}

// Circles lists study circles.
func (s *Service) Circles(ctx context.Context) ([]store.Circle, error) {
	circles, err := s.repo.ListCircles(ctx)
	if circles == nil && err == nil {
		circles = []store.Circle{}
	}
	return circles, err
}

func (s *Service) CreateCircle(ctx context.Context, c store.Circle) (*store.Circle, error) {
	if err := validateCircle(&c); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCircle(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) UpdateCircle(ctx context.Context, c store.Circle) (*store.Circle, error) {
	if err := validateCircle(&c); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCircle(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) DeleteCircle(ctx context.Context, id string) error {
	return s.repo.DeleteCircle(ctx, id)
}

func validateCircle(c *store.Circle) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: circle name is required", apperr.ErrInvalidInput)
	}
	if c.Members < 0 {
		return fmt.Errorf("%w: member count cannot be negative", apperr.ErrInvalidInput)
	}
	return nil
}

// JoinCircle adds the user to a circle by name and returns the user's circles.
// Joining a circle twice is a no-op.
func (s *Service) JoinCircle(ctx context.Context, userID, circleName string) ([]string, error) {
	circleName = strings.TrimSpace(circleName)
	if circleName == "" {
		return nil, fmt.Errorf("%w: circle name is required", apperr.ErrInvalidInput)
	}
	circles, err := s.repo.ListCircles(ctx)
	if err != nil {
		return nil, err
	}
	if !hasCircle(circles, circleName) {
		return nil, fmt.Errorf("circle %q: %w", circleName, apperr.ErrNotFound)
	}

	joined, err := s.repo.JoinCircle(ctx, userID, circleName)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: user session invalid, please log in again", err)
		}
		return nil, err
	}
	s.log.Debug("Joined circle", "user_id", userID, "circle", circleName)
	return joined, nil
}

func hasCircle(circles []store.Circle, name string) bool {
	for _, c := range circles {
		if c.Name == name {
			return true
		}
	}
	return false
}
