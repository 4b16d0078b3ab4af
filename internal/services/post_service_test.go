package services

import (
	"context"
	"testing"

	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/isdelr/devconnector-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_CreateListGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "Ada", "ada@example.com")

	first, err := env.posts.Create(ctx, u1, "first")
	require.NoError(t, err)
	second, err := env.posts.Create(ctx, u1, "second")
	require.NoError(t, err)

	assert.Equal(t, "Ada", first.Name)
	assert.Equal(t, u1.String(), first.UserID)
	assert.Empty(t, first.Likes)
	assert.Empty(t, first.Comments)

	posts, err := env.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	got, err := env.posts.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Text)

	_, err = env.posts.Get(ctx, "not-a-post")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.Equal(t, []string{ActionPostCreated, ActionPostCreated}, env.feed.actions())
}

func TestPost_CreateForMissingUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.posts.Create(context.Background(), "ghost", "hello")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPost_DeleteOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "Ada", "ada@example.com")
	u2 := env.register(t, "Bob", "bob@example.com")

	p, err := env.posts.Create(ctx, u1, "hello")
	require.NoError(t, err)

	err = env.posts.Delete(ctx, u2, p.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	still, err := env.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Text, still.Text)

	require.NoError(t, env.posts.Delete(ctx, u1, p.ID))
	_, err = env.posts.Get(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = env.posts.Delete(ctx, u1, p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPost_LikeUnlike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "Ada", "ada@example.com")
	u2 := env.register(t, "Bob", "bob@example.com")
	p, err := env.posts.Create(ctx, u1, "hello")
	require.NoError(t, err)

	likes, err := env.posts.Like(ctx, u2, p.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, u2.String(), likes[0].UserID)

	_, err = env.posts.Like(ctx, u2, p.ID)
	assert.ErrorIs(t, err, common.ErrConflict)
	got, err := env.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 1)

	likes, err = env.posts.Like(ctx, u1, p.ID)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, u1.String(), likes[0].UserID, "newest like first")

	likes, err = env.posts.Unlike(ctx, u2, p.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, u1.String(), likes[0].UserID)

	_, err = env.posts.Unlike(ctx, u2, p.ID)
	assert.ErrorIs(t, err, common.ErrConflict)

	_, err = env.posts.Like(ctx, u1, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPost_UnlikeNeverLiked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "Ada", "ada@example.com")
	p, err := env.posts.Create(ctx, u1, "hello")
	require.NoError(t, err)

	_, err = env.posts.Unlike(ctx, u1, p.ID)
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, "Post has not yet been liked", common.Message(err))
}

func TestPost_Comments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Ada", "ada@example.com")
	bob := env.register(t, "Bob", "bob@example.com")
	p, err := env.posts.Create(ctx, owner, "hello")
	require.NoError(t, err)

	_, err = env.posts.AddComment(ctx, bob, p.ID, "c1")
	require.NoError(t, err)
	_, err = env.posts.AddComment(ctx, owner, p.ID, "c2")
	require.NoError(t, err)
	comments, err := env.posts.AddComment(ctx, bob, p.ID, "c3")
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []string{"c3", "c2", "c1"}, texts(comments))
	assert.Equal(t, "Bob", comments[0].Name)

	// the post owner cannot remove someone else's comment
	_, err = env.posts.DeleteComment(ctx, owner, p.ID, comments[0].ID)
	assert.ErrorIs(t, err, common.ErrForbidden)
	got, err := env.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Comments, 3)

	remaining, err := env.posts.DeleteComment(ctx, owner, p.ID, comments[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c3", "c1"}, texts(remaining))

	_, err = env.posts.DeleteComment(ctx, bob, p.ID, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = env.posts.DeleteComment(ctx, bob, "missing", comments[0].ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = env.posts.AddComment(ctx, bob, "missing", "x")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPost_EventsRecorded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "Ada", "ada@example.com")
	p, err := env.posts.Create(ctx, u1, "hello")
	require.NoError(t, err)
	require.NoError(t, env.posts.Delete(ctx, u1, p.ID))

	events, err := env.events.GetRecentEvents(ctx, u1.String(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "post.delete", events[0].Type)
	assert.Equal(t, "post.create", events[1].Type)
}

func texts(cs []models.Comment) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Text)
	}
	return out
}

func TestPost_BlankTextRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "Ada", "ada@example.com")

	_, err := env.posts.Create(ctx, u1, "   \t")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 0, env.count(t, "SELECT COUNT(*) FROM posts"))

	p, err := env.posts.Create(ctx, u1, "hello")
	require.NoError(t, err)
	_, err = env.posts.AddComment(ctx, u1, p.ID, "  ")
	assert.ErrorIs(t, err, common.ErrValidation)

	got, err := env.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)
}
