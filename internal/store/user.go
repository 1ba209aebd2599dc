package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/alme-learn/alme/internal/apperr"
)

var userColumns = []string{"id", "name", "email", "password_hash", "role", "status", "skill_level", "avatar", "joined_at"}

type userRow struct {
	ID           string `sql:"id"`
	Name         string `sql:"name"`
	Email        string `sql:"email"`
	PasswordHash string `sql:"password_hash"`
	Role         string `sql:"role"`
	Status       string `sql:"status"`
	SkillLevel   string `sql:"skill_level"`
	Avatar       string `sql:"avatar"`
	JoinedAt     string `sql:"joined_at"`
}

func (r userRow) user() User {
	return User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		Status:       r.Status,
		SkillLevel:   r.SkillLevel,
		Avatar:       r.Avatar,
		JoinedAt:     parseTime(r.JoinedAt),
	}
}

// CreateUser stores a new user. It assigns an ID and join time when unset and
// fills role, status and skill level defaults. A taken email is ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.JoinedAt.IsZero() {
		u.JoinedAt = s.now()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	if u.SkillLevel == "" {
		u.SkillLevel = "Beginner"
	}
	u.Email = normalizeEmail(u.Email)

	_, err := exec(ctx, s.drv, builder.Insert(UsersTable.Name).
		Columns(userColumns...).
		Values(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Status, u.SkillLevel, u.Avatar, formatTime(u.JoinedAt)))
	return wrap(fmt.Sprintf("create user %q", u.Email), err)
}

// GetUser returns a user by ID, including joined circles.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	return s.getUser(ctx, fmt.Sprintf("get user %q", id), entsql.EQ("id", id))
}

// GetUserByEmail returns a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUser(ctx, "get user by email", entsql.EQ("email", normalizeEmail(email)))
}

func (s *Store) getUser(ctx context.Context, op string, p *entsql.Predicate) (*User, error) {
	var rows []userRow
	err := selectAll(ctx, s.drv, builder.Select(userColumns...).
		From(builder.Table(UsersTable.Name)).
		Where(p), &rows)
	if err != nil {
		return nil, wrap(op, err)
	}
	if len(rows) == 0 {
		return nil, wrap(op, sql.ErrNoRows)
	}
	u := rows[0].user()
	if u.JoinedCircles, err = s.joinedCircles(ctx, u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns users with the given role (all users when role is empty),
// oldest first.
func (s *Store) ListUsers(ctx context.Context, role string) ([]User, error) {
	sel := builder.Select(userColumns...).
		From(builder.Table(UsersTable.Name)).
		OrderBy("joined_at", "id")
	if role != "" {
		sel.Where(entsql.EQ("role", role))
	}
	var rows []userRow
	if err := selectAll(ctx, s.drv, sel, &rows); err != nil {
		return nil, wrap("query users", err)
	}

	out := make([]User, 0, len(rows))
	for _, r := range rows {
		u := r.user()
		var err error
		if u.JoinedCircles, err = s.joinedCircles(ctx, u.ID); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// SetUserStatus updates a user's account status.
func (s *Store) SetUserStatus(ctx context.Context, id, status string) error {
	res, err := exec(ctx, s.drv, builder.Update(UsersTable.Name).
		Set("status", status).
		Where(entsql.EQ("id", id)))
	if err != nil {
		return wrap("update user status", err)
	}
	return expectRow(res, "user", id)
}

// DeleteUser removes a user together with their progress, attempts and circle
// memberships.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.inTx(ctx, "delete user", func(tx dialect.Tx) error {
		for _, table := range []string{ProgressTable.Name, QuizAttemptsTable.Name, UserCirclesTable.Name} {
			if _, err := exec(ctx, tx, builder.Delete(table).Where(entsql.EQ("user_id", id))); err != nil {
				return wrap("delete user data", err)
			}
		}
		res, err := exec(ctx, tx, builder.Delete(UsersTable.Name).Where(entsql.EQ("id", id)))
		if err != nil {
			return wrap("delete user", err)
		}
		return expectRow(res, "user", id)
	})
}

// JoinCircle adds circleName to the user's circles and bumps the circle's member
// count. Joining twice is a no-op. Returns the user's circles after the join.
func (s *Store) JoinCircle(ctx context.Context, userID, circleName string) ([]string, error) {
	err := s.inTx(ctx, "join circle", func(tx dialect.Tx) error {
		n, err := count(ctx, tx, UsersTable.Name, entsql.EQ("id", userID))
		if err != nil {
			return wrap("check user", err)
		}
		if n == 0 {
			return fmt.Errorf("user %q: %w", userID, apperr.ErrNotFound)
		}

		last, err := selectInt(ctx, tx, builder.Select("COALESCE(MAX(position), 0)").
			From(builder.Table(UserCirclesTable.Name)).
			Where(entsql.EQ("user_id", userID)))
		if err != nil {
			return wrap("next membership position", err)
		}
		res, err := exec(ctx, tx, builder.Insert(UserCirclesTable.Name).
			Columns("user_id", "circle_name", "position").
			Values(userID, circleName, last+1).
			OnConflict(entsql.ConflictColumns("user_id", "circle_name"), entsql.DoNothing()))
		if err != nil {
			return wrap("insert membership", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		_, err = exec(ctx, tx, builder.Update(CirclesTable.Name).
			Add("members", 1).
			Where(entsql.EQ("name", circleName)))
		return wrap("bump circle members", err)
	})
	if err != nil {
		return nil, err
	}
	return s.joinedCircles(ctx, userID)
}

type membershipRow struct {
	CircleName string `sql:"circle_name"`
}

func (s *Store) joinedCircles(ctx context.Context, userID string) ([]string, error) {
	var rows []membershipRow
	err := selectAll(ctx, s.drv, builder.Select("circle_name").
		From(builder.Table(UserCirclesTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("position"), &rows)
	if err != nil {
		return nil, wrap("query joined circles", err)
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.CircleName)
	}
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
