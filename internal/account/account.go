// Package account registers users, authenticates them with bcrypt password
// hashes and issues HS256 JWT access tokens.
package account

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/logger"
	"github.com/alme-learn/alme/internal/skillgraph"
	"github.com/alme-learn/alme/internal/store"
)

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 6

// Repository stores user accounts.
type Repository interface {
	CreateUser(ctx context.Context, u *store.User) error
	GetUser(ctx context.Context, id string) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	ListUsers(ctx context.Context, role string) ([]store.User, error)
	SetUserStatus(ctx context.Context, id, status string) error
	DeleteUser(ctx context.Context, id string) error
	CompletionByUser(ctx context.Context) (map[string]store.Completion, error)
}

// ProgressSeeder creates and removes a learner's progress records.
type ProgressSeeder interface {
	InitializeForUser(ctx context.Context, userID string, g *skillgraph.Graph) (int, error)
	DeleteUser(ctx context.Context, userID string) error
}

// RegisterInput is the payload of a registration. Role is never read from
// request bodies; only trusted callers such as seeding set it.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"-"`
}

// Session is returned by Register and Login.
type Session struct {
	Token string     `json:"token"`
	User  store.User `json:"user"`
}

// StudentSummary is a student row of the admin console.
type StudentSummary struct {
	store.User
	// Progress is the completed share of the student's skills, 0-100.
	Progress int `json:"progress"`
}

type Service struct {
	repo     Repository
	progress ProgressSeeder
	tokens   *Tokens
	log      *logger.Logger
}

func NewService(repo Repository, progress ProgressSeeder, tokens *Tokens, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     repo,
		progress: progress,
		tokens:   tokens,
		log:      log.With("service", "AccountService"),
	}
}

// Register creates an account and signs the user in. Students get their
// progress records seeded from the current curriculum.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = store.RoleStudent
	}
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &store.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("%w: user already exists", apperr.ErrConflict)
		}
		return nil, err
	}

	if u.Role == store.RoleStudent {
		n, err := s.progress.InitializeForUser(ctx, u.ID, nil)
		if err != nil {
			return nil, fmt.Errorf("seed progress for %q: %w", u.ID, err)
		}
		s.log.Debug("Seeded progress", "user_id", u.ID, "records", n)
	}
	s.log.Info("Registered user", "user_id", u.ID, "role", u.Role)
	return s.session(u)
}

func validateRegistration(in RegisterInput) error {
	switch {
	case in.Name == "":
		return fmt.Errorf("%w: a name is required to register", apperr.ErrInvalidInput)
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		return fmt.Errorf("%w: a valid email is required to register", apperr.ErrInvalidInput)
	case len(in.Password) < MinPasswordLen:
		return fmt.Errorf("%w: password must be at least %d characters", apperr.ErrInvalidInput, MinPasswordLen)
	case in.Role != store.RoleStudent && in.Role != store.RoleAdmin:
		return fmt.Errorf("%w: unknown role %q", apperr.ErrInvalidInput, in.Role)
	}
	return nil
}

// Login checks credentials and issues a token. An unknown email and a wrong
// password are indistinguishable to the caller; a blocked account is
// ErrForbidden. Students get progress back-filled for skills added since
// their last visit.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperr.ErrInvalidInput)
	}
	u, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Debug("Password mismatch", "user_id", u.ID)
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	if u.Status == store.StatusBlocked {
		return nil, fmt.Errorf("%w: your account has been blocked by the administrator", apperr.ErrForbidden)
	}

	if u.Role == store.RoleStudent {
		if n, err := s.progress.InitializeForUser(ctx, u.ID, nil); err != nil {
			return nil, fmt.Errorf("back-fill progress for %q: %w", u.ID, err)
		} else if n > 0 {
			s.log.Info("Back-filled progress", "user_id", u.ID, "records", n)
		}
	}
	return s.session(u)
}

func (s *Service) session(u *store.User) (*Session, error) {
	tok, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, User: *u}, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *Service) Authenticate(ctx context.Context, token string) (*store.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetUser(ctx, claims.Subject)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%w: user session invalid, please log in again", apperr.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if u.Status == store.StatusBlocked {
		return nil, fmt.Errorf("%w: account blocked", apperr.ErrForbidden)
	}
	return u, nil
}

// User returns one account.
func (s *Service) User(ctx context.Context, id string) (*store.User, error) {
	return s.repo.GetUser(ctx, id)
}

// Students lists students with their completion percentage.
func (s *Service) Students(ctx context.Context) ([]StudentSummary, error) {
	users, err := s.repo.ListUsers(ctx, store.RoleStudent)
	if err != nil {
		return nil, err
	}
	completion, err := s.repo.CompletionByUser(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StudentSummary, 0, len(users))
	for _, u := range users {
		row := StudentSummary{User: u}
		if c := completion[u.ID]; c.Total > 0 {
			row.Progress = int(math.Round(100 * float64(c.Completed) / float64(c.Total)))
		}
		out = append(out, row)
	}
	return out, nil
}

// SetStatus activates or blocks an account and returns it.
func (s *Service) SetStatus(ctx context.Context, id, status string) (*store.User, error) {
	if status != store.StatusActive && status != store.StatusBlocked {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, status)
	}
	if err := s.repo.SetUserStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.log.Info("Changed user status", "user_id", id, "status", status)
	return s.repo.GetUser(ctx, id)
}

// Delete removes an account and everything it owns.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.progress.DeleteUser(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.Info("Deleted user", "user_id", id)
	return nil
}
