package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"kindred/internal/models"
	"kindred/internal/repository"
	"kindred/internal/store"
)

// testEngine wires every service over a miniredis-backed store so the
// optimistic transaction semantics under test are the real ones.
type testEngine struct {
	store    store.Store
	posts    repository.PostRepository
	profiles repository.ProfileRepository
	inboxes  repository.InboxRepository

	bans       *BanService
	points     *PointsService
	milestones *MilestoneService
	notifier   *NotificationService
	reactions  *ReactionService
	postSvc    *PostService
	comments   *CommentService
	chat       *ChatActivityService
	profileSvc *ProfileService
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := store.NewRedisStore(client, 64)
	posts := repository.NewPostRepository(s)
	profiles := repository.NewProfileRepository(s)
	inboxes := repository.NewInboxRepository(s)

	bans := NewBanService(profiles)
	points := NewPointsService(profiles)
	milestones := NewMilestoneService(profiles)
	notifier := NewNotificationService(inboxes, 100, time.Second)

	return &testEngine{
		store:      s,
		posts:      posts,
		profiles:   profiles,
		inboxes:    inboxes,
		bans:       bans,
		points:     points,
		milestones: milestones,
		notifier:   notifier,
		reactions:  NewReactionService(posts, profiles, bans, points, milestones, notifier),
		postSvc:    NewPostService(posts, profiles, bans, points, milestones),
		comments:   NewCommentService(posts, profiles, bans, points, milestones, notifier),
		chat:       NewChatActivityService(profiles, bans, points, milestones),
		profileSvc: NewProfileService(profiles, points, milestones),
	}
}

func (e *testEngine) seedProfile(t *testing.T, id string) *models.UserProfile {
	t.Helper()
	profile := models.NewUserProfile(id, gofakeit.Username(), time.Now())
	require.NoError(t, e.profiles.Create(context.Background(), profile))
	return profile
}

func (e *testEngine) seedPost(t *testing.T, id, authorID string) *models.Post {
	t.Helper()
	now := time.Now()
	post := &models.Post{
		ID:        id,
		AuthorID:  authorID,
		Title:     gofakeit.Sentence(4),
		Content:   gofakeit.Paragraph(1, 2, 8, " "),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.posts.Create(context.Background(), post))
	return post
}

func (e *testEngine) getProfile(t *testing.T, id string) *models.UserProfile {
	t.Helper()
	profile, err := e.profiles.GetByID(context.Background(), id)
	require.NoError(t, err)
	return profile
}

func (e *testEngine) getPost(t *testing.T, id string) *models.Post {
	t.Helper()
	post, err := e.posts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return post
}

func (e *testEngine) getInbox(t *testing.T, userID string) *models.Inbox {
	t.Helper()
	inbox, err := e.inboxes.Get(context.Background(), userID)
	require.NoError(t, err)
	return inbox
}

// requireSummaryInvariant recounts the reaction map and asserts the
// denormalized summary agrees with it, with every counter non-negative.
func requireSummaryInvariant(t *testing.T, post *models.Post) {
	t.Helper()
	counts := make(map[models.ReactionKind]int)
	for _, kind := range post.Reactions {
		counts[kind]++
	}
	for kind, n := range post.ReactionSummary {
		require.GreaterOrEqual(t, n, 0, "summary %s negative", kind)
		require.Equal(t, counts[kind], n, "summary %s disagrees with reaction map", kind)
	}
	for kind, n := range counts {
		require.Equal(t, n, post.ReactionSummary[kind], "summary %s missing entries", kind)
	}
}
