package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindred/internal/models"
)

func TestCreatePost_Validation(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	e.seedProfile(t, "ada")

	t.Run("missing title", func(t *testing.T) {
		_, err := e.postSvc.CreatePost(ctx, CreatePostInput{AuthorID: "ada", Content: "hi"})
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})

	t.Run("title too long", func(t *testing.T) {
		_, err := e.postSvc.CreatePost(ctx, CreatePostInput{
			AuthorID: "ada",
			Title:    strings.Repeat("x", maxTitleLen+1),
			Content:  "hi",
		})
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})

	t.Run("missing content", func(t *testing.T) {
		_, err := e.postSvc.CreatePost(ctx, CreatePostInput{AuthorID: "ada", Title: "hello"})
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})
}

func TestCreatePost_Success(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	e.seedProfile(t, "ada")

	post, err := e.postSvc.CreatePost(ctx, CreatePostInput{
		AuthorID: "ada",
		Title:    "hello",
		Content:  "first post",
	})
	require.NoError(t, err)
	require.NotEmpty(t, post.ID)

	stored := e.getPost(t, post.ID)
	assert.Equal(t, "ada", stored.AuthorID)
	assert.Equal(t, "hello", stored.Title)

	profile := e.getProfile(t, "ada")
	assert.Equal(t, 1, profile.PostsAuthored)
	assert.Equal(t, models.PointsPostAuthored, profile.Points)
	assert.Contains(t, profile.Badges, FirstPostBadge)
}

func TestCreatePost_FirstPostBadgeOnlyOnce(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	e.seedProfile(t, "ada")
	for i := 0; i < 3; i++ {
		_, err := e.postSvc.CreatePost(ctx, CreatePostInput{
			AuthorID: "ada",
			Title:    "post",
			Content:  "body",
		})
		require.NoError(t, err)
	}

	profile := e.getProfile(t, "ada")
	assert.Equal(t, 3, profile.PostsAuthored)

	count := 0
	for _, b := range profile.Badges {
		if b == FirstPostBadge {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCreatePost_BannedAuthorRejected(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	p := e.seedProfile(t, "mallory")
	require.NoError(t, e.profiles.Update(ctx, p.ID, func(profile *models.UserProfile) error {
		profile.IsBanned = true
		return nil
	}))

	_, err := e.postSvc.CreatePost(ctx, CreatePostInput{
		AuthorID: "mallory",
		Title:    "hello",
		Content:  "body",
	})
	assert.True(t, models.IsCode(err, models.CodePermissionDenied))
	assert.Zero(t, e.getProfile(t, "mallory").PostsAuthored)
}

func TestCreatePost_DuplicateIDRejected(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	e.seedProfile(t, "ada")
	e.seedPost(t, "p1", "ada")

	_, err := e.postSvc.CreatePost(ctx, CreatePostInput{
		PostID:   "p1",
		AuthorID: "ada",
		Title:    "hello",
		Content:  "body",
	})
	assert.True(t, models.IsCode(err, models.CodeValidation))
}
