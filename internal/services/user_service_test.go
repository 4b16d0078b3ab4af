package services

import (
	"context"
	"strings"
	"testing"

	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.Register(ctx, " Ada ", "Ada@Example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Empty(t, u.PasswordHash)
	assert.True(t, strings.HasPrefix(u.Avatar, "https://www.gravatar.com/avatar/"))

	got, err := env.users.Authenticate(ctx, "ADA@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Empty(t, got.PasswordHash)

	_, err = env.users.Authenticate(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = env.users.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ada", "ada@example.com")

	_, err := env.users.Register(context.Background(), "Other", "ada@example.com", "secret123")
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, "User already exists", common.Message(err))
}

func TestGetUserByID(t *testing.T) {
	env := newTestEnv(t)
	id := env.register(t, "Ada", "ada@example.com")

	u, err := env.users.GetUserByID(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Empty(t, u.PasswordHash)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = env.users.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
