package account

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/skillgraph"
	"github.com/alme-learn/alme/internal/store"
)

type fixture struct {
	svc      *Service
	store    *store.Store
	progress *progress.Store
	graph    *skillgraph.Graph
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(t.Name()))
	st, err := store.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	require.NoError(t, st.SaveSkills(ctx, skillgraph.DefaultCurriculum()))
	g, err := st.LoadSkillGraph(ctx)
	require.NoError(t, err)

	tokens, err := NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	ps := progress.NewStore(st, g)
	return &fixture{
		svc:      NewService(st, ps, tokens, nil),
		store:    st,
		progress: ps,
		graph:    g,
	}
}

func (f *fixture) register(t *testing.T, name, email, role string) *Session {
	t.Helper()
	sess, err := f.svc.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "secret123", Role: role,
	})
	require.NoError(t, err)
	return sess
}

func TestRegister_SeedsStudentProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess := f.register(t, "Ada", "Ada@Example.com", "")
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, store.RoleStudent, sess.User.Role)
	assert.Equal(t, "ada@example.com", sess.User.Email)

	records, err := f.progress.Snapshot(ctx, sess.User.ID)
	require.NoError(t, err)
	require.Len(t, records, len(f.graph.Skills()))
	for _, r := range records {
		sk, err := f.graph.Skill(r.SkillID)
		require.NoError(t, err)
		want := progress.StatusLocked
		if sk.IsRoot() {
			want = progress.StatusInProgress
		}
		assert.Equal(t, want, r.Status, "skill %s", r.SkillID)
	}
}

func TestRegister_AdminGetsNoProgress(t *testing.T) {
	f := newFixture(t)
	sess := f.register(t, "Root", "root@alme.dev", store.RoleAdmin)

	records, err := f.progress.Snapshot(context.Background(), sess.User.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRegister_Rejects(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ada", "ada@example.com", "")

	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"duplicate email", RegisterInput{Name: "Other", Email: "ADA@example.com", Password: "secret123"}, apperr.ErrConflict},
		{"missing name", RegisterInput{Email: "x@example.com", Password: "secret123"}, apperr.ErrInvalidInput},
		{"bad email", RegisterInput{Name: "X", Email: "nope", Password: "secret123"}, apperr.ErrInvalidInput},
		{"short password", RegisterInput{Name: "X", Email: "x@example.com", Password: "123"}, apperr.ErrInvalidInput},
		{"unknown role", RegisterInput{Name: "X", Email: "x@example.com", Password: "secret123", Role: "mentor"}, apperr.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "Ada", "ada@example.com", "")

	sess, err := f.svc.Login(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, sess.User.ID)

	u, err := f.svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)

	_, err = f.svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = f.svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = f.svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestLogin_BlockedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "Ada", "ada@example.com", "")

	u, err := f.svc.SetStatus(ctx, reg.User.ID, store.StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, store.StatusBlocked, u.Status)

	_, err = f.svc.Login(ctx, "ada@example.com", "secret123")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Authenticate(ctx, reg.Token)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.SetStatus(ctx, reg.User.ID, "suspended")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestLogin_BackfillsNewSkills(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "Ada", "ada@example.com", "")

	sk := skillgraph.Skill{
		ID: "typescript", Name: "TypeScript", Category: skillgraph.CategoryLanguage,
		Difficulty: 6, Prerequisites: []skillgraph.ID{"javascript-core"},
	}
	require.NoError(t, f.graph.AddSkill(sk))
	require.NoError(t, f.store.SaveSkill(ctx, sk))

	_, err := f.svc.Login(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)

	records, err := f.progress.Snapshot(ctx, reg.User.ID)
	require.NoError(t, err)
	require.Len(t, records, len(f.graph.Skills()))
	assert.Equal(t, skillgraph.ID("typescript"), records[len(records)-1].SkillID)
	assert.Equal(t, progress.StatusLocked, records[len(records)-1].Status)
}

func TestStudents_Completion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "Ada", "ada@example.com", "")
	f.register(t, "Bob", "bob@example.com", "")
	f.register(t, "Root", "root@example.com", store.RoleAdmin)

	_, err := f.progress.MarkComplete(ctx, a.User.ID, "html-basics")
	require.NoError(t, err)

	rows, err := f.svc.Students(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", rows[0].Name)
	assert.Equal(t, 20, rows[0].Progress)
	assert.Equal(t, 0, rows[1].Progress)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "Ada", "ada@example.com", "")

	require.NoError(t, f.svc.Delete(ctx, reg.User.ID))

	_, err := f.svc.User(ctx, reg.User.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	records, err := f.progress.Snapshot(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.ErrorIs(t, f.svc.Delete(ctx, reg.User.ID), apperr.ErrNotFound)

	_, err = f.svc.Authenticate(ctx, reg.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
