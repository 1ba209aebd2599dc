package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var (
	postColumns   = []string{"id", "author", "role", "avatar", "content", "likes", "comments", "topic", "color", "ai_reply", "created_at"}
	circleColumns = []string{"id", "name", "members", "icon", "description", "suggested"}
)

type postRow struct {
	ID        string `sql:"id"`
	Author    string `sql:"author"`
	Role      string `sql:"role"`
	Avatar    string `sql:"avatar"`
	Content   string `sql:"content"`
	Likes     int    `sql:"likes"`
	Comments  int    `sql:"comments"`
	Topic     string `sql:"topic"`
	Color     string `sql:"color"`
	AIReply   string `sql:"ai_reply"`
	CreatedAt string `sql:"created_at"`
}

// CreatePost stores a new post, assigning an ID and creation time when unset.
func (s *Store) CreatePost(ctx context.Context, p *Post) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	_, err := exec(ctx, s.drv, builder.Insert(PostsTable.Name).
		Columns(postColumns...).
		Values(p.ID, p.Author, p.Role, p.Avatar, p.Content, p.Likes, p.Comments, p.Topic, p.Color, p.AIReply,
			formatTime(p.CreatedAt)))
	return wrap("create post", err)
}

// SetPostReply stores the AI reply of a post.
func (s *Store) SetPostReply(ctx context.Context, id, reply string) error {
	res, err := exec(ctx, s.drv, builder.Update(PostsTable.Name).
		Set("ai_reply", reply).
		Where(entsql.EQ("id", id)))
	if err != nil {
		return wrap("update post reply", err)
	}
	return expectRow(res, "post", id)
}

// ListPosts returns posts newest first.
func (s *Store) ListPosts(ctx context.Context) ([]Post, error) {
	var rows []postRow
	err := selectAll(ctx, s.drv, builder.Select(postColumns...).
		From(builder.Table(PostsTable.Name)).
		OrderBy(entsql.Desc("created_at"), "id"), &rows)
	if err != nil {
		return nil, wrap("query posts", err)
	}
	var out []Post
	for _, r := range rows {
		out = append(out, Post{
			ID:        r.ID,
			Author:    r.Author,
			Role:      r.Role,
			Avatar:    r.Avatar,
			Content:   r.Content,
			Likes:     r.Likes,
			Comments:  r.Comments,
			Topic:     r.Topic,
			Color:     r.Color,
			AIReply:   r.AIReply,
			CreatedAt: parseTime(r.CreatedAt),
		})
	}
	return out, nil
}

// DeletePost removes a post.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	res, err := exec(ctx, s.drv, builder.Delete(PostsTable.Name).Where(entsql.EQ("id", id)))
	if err != nil {
		return wrap("delete post", err)
	}
	return expectRow(res, "post", id)
}

// CreateCircle stores a new circle. Circle names are unique.
func (s *Store) CreateCircle(ctx context.Context, c *Circle) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := exec(ctx, s.drv, builder.Insert(CirclesTable.Name).
		Columns(circleColumns...).
		Values(c.ID, c.Name, c.Members, c.Icon, c.Description, c.Suggested))
	return wrap(fmt.Sprintf("create circle %q", c.Name), err)
}

// UpdateCircle replaces a circle.
func (s *Store) UpdateCircle(ctx context.Context, c Circle) error {
	res, err := exec(ctx, s.drv, builder.Update(CirclesTable.Name).
		Set("name", c.Name).
		Set("members", c.Members).
		Set("icon", c.Icon).
		Set("description", c.Description).
		Set("suggested", c.Suggested).
		Where(entsql.EQ("id", c.ID)))
	if err != nil {
		return wrap("update circle", err)
	}
	return expectRow(res, "circle", c.ID)
}

// DeleteCircle removes a circle. Memberships naming it are kept.
func (s *Store) DeleteCircle(ctx context.Context, id string) error {
	res, err := exec(ctx, s.drv, builder.Delete(CirclesTable.Name).Where(entsql.EQ("id", id)))
	if err != nil {
		return wrap("delete circle", err)
	}
	return expectRow(res, "circle", id)
}

// ListCircles returns all circles, suggested ones first.
func (s *Store) ListCircles(ctx context.Context) ([]Circle, error) {
	var out []Circle
	err := selectAll(ctx, s.drv, builder.Select(circleColumns...).
		From(builder.Table(CirclesTable.Name)).
		OrderBy(entsql.Desc("suggested"), "name"), &out)
	if err != nil {
		return nil, wrap("query circles", err)
	}
	return out, nil
}
