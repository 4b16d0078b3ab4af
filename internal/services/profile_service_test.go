package services

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/isdelr/devconnector-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_GetMineWithoutProfile(t *testing.T) {
	env := newTestEnv(t)
	u1 := env.register(t, "Ada", "ada@example.com")

	_, err := env.profiles.GetMine(context.Background(), u1)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, common.Message(err), "no profile for this user")
}

func TestProfile_Upsert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "Ada", "ada@example.com")

	p, err := env.profiles.Upsert(ctx, u1, ProfileInput{
		Company: "Analytical Engines",
		Status:  "Developer",
		Skills:  " go, sql ,, html ",
		Twitter: "https://twitter.com/ada",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql", "html"}, p.Skills)
	assert.Equal(t, "Analytical Engines", p.Company)
	assert.Equal(t, "https://twitter.com/ada", p.Social.Twitter)
	require.NotNil(t, p.User)
	assert.Equal(t, "Ada", p.User.Name)
	assert.Empty(t, p.Experience)

	updated, err := env.profiles.Upsert(ctx, u1, ProfileInput{Status: "Senior Developer", Skills: "go"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "Senior Developer", updated.Status)
	assert.Equal(t, "Analytical Engines", updated.Company, "absent fields keep their value")
	assert.Equal(t, []string{"go"}, updated.Skills)
	assert.Empty(t, updated.Social.Twitter, "social links are replaced")

	assert.Equal(t, 1, env.count(t, "SELECT COUNT(*) FROM profiles"))
}

func TestProfile_ListAndGetByUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "Ada", "ada@example.com")
	u2 := env.register(t, "Bob", "bob@example.com")

	_, err := env.profiles.Upsert(ctx, u1, ProfileInput{Status: "Dev", Skills: "go"})
	require.NoError(t, err)
	_, err = env.profiles.Upsert(ctx, u2, ProfileInput{Status: "Ops", Skills: "k8s"})
	require.NoError(t, err)

	all, err := env.profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	p, err := env.profiles.GetByUserID(ctx, u2.String())
	require.NoError(t, err)
	assert.Equal(t, "Ops", p.Status)
	assert.Equal(t, "Bob", p.User.Name)

	_, err = env.profiles.GetByUserID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Profile not found", common.Message(err))
}

func TestProfile_ExperienceAndEducation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "Ada", "ada@example.com")

	_, err := env.profiles.AddExperience(ctx, u1, models.Experience{Title: "Dev", Company: "X", From: "2020-01-01"})
	assert.ErrorIs(t, err, common.ErrNotFound, "no profile yet")

	_, err = env.profiles.Upsert(ctx, u1, ProfileInput{Status: "Dev", Skills: "go"})
	require.NoError(t, err)

	_, err = env.profiles.AddExperience(ctx, u1, models.Experience{Title: "Junior", Company: "A", From: "2018-01-01"})
	require.NoError(t, err)
	p, err := env.profiles.AddExperience(ctx, u1, models.Experience{Title: "Senior", Company: "B", From: "2021-01-01", Current: true})
	require.NoError(t, err)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "Senior", p.Experience[0].Title, "newest first")
	assert.NotEmpty(t, p.Experience[0].ID)

	p, err = env.profiles.DeleteExperience(ctx, u1, p.Experience[1].ID)
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Senior", p.Experience[0].Title)

	_, err = env.profiles.DeleteExperience(ctx, u1, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	p, err = env.profiles.AddEducation(ctx, u1, models.Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01"})
	require.NoError(t, err)
	require.Len(t, p.Education, 1)

	p, err = env.profiles.DeleteEducation(ctx, u1, p.Education[0].ID)
	require.NoError(t, err)
	assert.Empty(t, p.Education)

	_, err = env.profiles.DeleteEducation(ctx, u1, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	mine, err := env.profiles.GetMine(ctx, u1)
	require.NoError(t, err)
	assert.Len(t, mine.Experience, 1)
	assert.Empty(t, mine.Education)
}

func TestProfile_DeleteAccountCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "Ada", "ada@example.com")
	u2 := env.register(t, "Bob", "bob@example.com")

	_, err := env.profiles.Upsert(ctx, u1, ProfileInput{Status: "Dev", Skills: "go"})
	require.NoError(t, err)
	for _, text := range []string{"a", "b"} {
		_, err = env.posts.Create(ctx, u1, text)
		require.NoError(t, err)
	}
	other, err := env.posts.Create(ctx, u2, "bob's")
	require.NoError(t, err)

	require.NoError(t, env.profiles.DeleteAccount(ctx, u1))

	assert.Equal(t, 0, env.count(t, "SELECT COUNT(*) FROM posts WHERE user_id = ?", u1.String()))
	assert.Equal(t, 0, env.count(t, "SELECT COUNT(*) FROM profiles WHERE user_id = ?", u1.String()))
	assert.Equal(t, 0, env.count(t, "SELECT COUNT(*) FROM users WHERE id = ?", u1.String()))

	_, err = env.posts.Get(ctx, other.ID)
	assert.NoError(t, err)

	err = env.profiles.DeleteAccount(ctx, u1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProfile_DeleteAccountRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "Ada", "ada@example.com")
	_, err := env.profiles.Upsert(ctx, u1, ProfileInput{Status: "Dev", Skills: "go"})
	require.NoError(t, err)
	_, err = env.posts.Create(ctx, u1, "a")
	require.NoError(t, err)

	// make the last step of the cascade fail
	_, err = env.db.Exec(`CREATE TRIGGER block_user_delete BEFORE DELETE ON users
		BEGIN SELECT RAISE(ABORT, 'user delete blocked'); END;`)
	require.NoError(t, err)

	err = env.profiles.DeleteAccount(ctx, u1)
	require.Error(t, err)

	assert.Equal(t, 1, env.count(t, "SELECT COUNT(*) FROM posts WHERE user_id = ?", u1.String()))
	assert.Equal(t, 1, env.count(t, "SELECT COUNT(*) FROM profiles WHERE user_id = ?", u1.String()))
	assert.Equal(t, 1, env.count(t, "SELECT COUNT(*) FROM users WHERE id = ?", u1.String()))
}

func TestEvents_RecentAndPrune(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := "u1"

	require.NoError(t, env.events.CreateEvent(ctx, "a", "info", "first", &uid))
	require.NoError(t, env.events.CreateEvent(ctx, "b", "info", "second", &uid))
	require.NoError(t, env.events.CreateEvent(ctx, "c", "info", "system", nil))

	events, err := env.events.GetRecentEvents(ctx, uid, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "b", events[0].Type)

	n, err := env.events.PruneBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = env.events.PruneBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestProfile_UpsertForDeletedUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.profiles.Upsert(context.Background(), "ghost", ProfileInput{Status: "Dev", Skills: "go"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "User not found", common.Message(err))
	assert.Equal(t, 0, env.count(t, "SELECT COUNT(*) FROM profiles"))
}
