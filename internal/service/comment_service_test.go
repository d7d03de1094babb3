package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindred/internal/models"
)

func TestAddComment_Validation(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	e.seedProfile(t, "bob")

	t.Run("missing content", func(t *testing.T) {
		_, err := e.comments.AddComment(ctx, AddCommentInput{PostID: "p1", AuthorID: "bob"})
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})

	t.Run("content too long", func(t *testing.T) {
		_, err := e.comments.AddComment(ctx, AddCommentInput{
			PostID:   "p1",
			AuthorID: "bob",
			Content:  strings.Repeat("x", maxCommentLen+1),
		})
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})
}

func TestAddComment_AppendsAndRewardsCommenter(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	e.seedProfile(t, "ada")
	e.seedProfile(t, "bob")
	e.seedPost(t, "p1", "ada")

	comment, err := e.comments.AddComment(ctx, AddCommentInput{
		PostID:    "p1",
		AuthorID:  "bob",
		Content:   "nice post",
		ActorName: "bob",
	})
	require.NoError(t, err)
	require.NotEmpty(t, comment.ID)

	post := e.getPost(t, "p1")
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "bob", post.Comments[0].AuthorID)
	assert.Equal(t, "nice post", post.Comments[0].Content)
	assert.Equal(t, 1, post.CommentCount)

	commenter := e.getProfile(t, "bob")
	assert.Equal(t, 1, commenter.CommentsAuthored)
	assert.Equal(t, models.PointsCommentAuthored, commenter.Points)

	assert.Eventually(t, func() bool {
		return e.getInbox(t, "ada").UnreadCount == 1
	}, time.Second, 10*time.Millisecond)

	inbox := e.getInbox(t, "ada")
	require.Len(t, inbox.Notifications, 1)
	n := inbox.Notifications[0]
	assert.Equal(t, models.NotificationReplyToPost, n.Kind)
	assert.Equal(t, "bob", n.ActorID)
	assert.Equal(t, "p1", n.RelatedID)
}

func TestAddComment_SelfCommentDoesNotNotify(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	e.seedProfile(t, "ada")
	e.seedPost(t, "p1", "ada")

	_, err := e.comments.AddComment(ctx, AddCommentInput{
		PostID:   "p1",
		AuthorID: "ada",
		Content:  "replying to myself",
	})
	require.NoError(t, err)

	assert.Never(t, func() bool {
		return e.getInbox(t, "ada").UnreadCount > 0
	}, 200*time.Millisecond, 20*time.Millisecond)
}

func TestAddComment_MissingPost(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	e.seedProfile(t, "bob")

	_, err := e.comments.AddComment(ctx, AddCommentInput{
		PostID:   "ghost",
		AuthorID: "bob",
		Content:  "hello",
	})
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	assert.Zero(t, e.getProfile(t, "bob").CommentsAuthored)
}

func TestAddComment_BannedCommenterRejected(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	e.seedProfile(t, "ada")
	p := e.seedProfile(t, "mallory")
	e.seedPost(t, "p1", "ada")

	require.NoError(t, e.profiles.Update(ctx, p.ID, func(profile *models.UserProfile) error {
		profile.IsBanned = true
		return nil
	}))

	_, err := e.comments.AddComment(ctx, AddCommentInput{
		PostID:   "p1",
		AuthorID: "mallory",
		Content:  "hi",
	})
	assert.True(t, models.IsCode(err, models.CodePermissionDenied))
	assert.Zero(t, e.getPost(t, "p1").CommentCount)
}
