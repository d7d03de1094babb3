package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindred/internal/config"
	"kindred/internal/models"
	"kindred/internal/service"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRuntime(client, &config.Config{
		RedisURL:           mr.Addr(),
		Env:                "development",
		TransactMaxRetries: 16,
		InboxMaxEntries:    100,
		NotifyTimeoutMS:    2000,
	})
}

// Exercises the full register -> post -> react flow through the wired
// runtime, the way an embedding application drives it.
func TestRuntime_EndToEndFlow(t *testing.T) {
	t.Parallel()
	rt := newTestRuntime(t)
	ctx := context.Background()

	author, err := rt.ProfilesSvc.RegisterProfile(ctx, service.RegisterProfileInput{
		UserID:   "author",
		Username: "ada",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PointsRegistration, author.Points)

	_, err = rt.ProfilesSvc.RegisterProfile(ctx, service.RegisterProfileInput{
		UserID:   "reader",
		Username: "bob",
	})
	require.NoError(t, err)

	post, err := rt.PostsService.CreatePost(ctx, service.CreatePostInput{
		AuthorID: "author",
		Title:    "hello",
		Content:  "first post",
	})
	require.NoError(t, err)

	res, err := rt.Reactions.ApplyReaction(ctx, service.ApplyReactionInput{
		PostID:    post.ID,
		ActorID:   "reader",
		Kind:      models.ReactionLike,
		ActorName: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeAdded, res.Outcome)

	stored, err := rt.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ReactionSummary[models.ReactionLike])

	profile, err := rt.Profiles.GetByID(ctx, "author")
	require.NoError(t, err)
	assert.Equal(t, models.PointsRegistration+models.PointsPostAuthored+5, profile.Points)
	assert.Equal(t, 1, profile.ReactionsReceived)
	assert.Contains(t, profile.Badges, service.FirstPostBadge)

	// Reaction notification reaches the author's inbox.
	assert.Eventually(t, func() bool {
		inbox, err := rt.Inboxes.Get(ctx, "author")
		return err == nil && inbox.UnreadCount == 1
	}, time.Second, 10*time.Millisecond)
}

func TestRuntime_CloseWithoutOwnedClient(t *testing.T) {
	t.Parallel()
	rt := newTestRuntime(t)
	assert.NoError(t, rt.Close())
}
