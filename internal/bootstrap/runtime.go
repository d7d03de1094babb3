// Package bootstrap wires the engine for an embedding application.
package bootstrap

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kindred/internal/config"
	"kindred/internal/repository"
	"kindred/internal/service"
	"kindred/internal/store"
)

// Runtime holds the wired engine services. The embedding UI layer calls
// these directly; there is no network surface here.
type Runtime struct {
	Store    store.Store
	Posts    repository.PostRepository
	Profiles repository.ProfileRepository
	Inboxes  repository.InboxRepository

	Bans          *service.BanService
	Points        *service.PointsService
	Milestones    *service.MilestoneService
	Notifications *service.NotificationService
	Reactions     *service.ReactionService
	PostsService  *service.PostService
	Comments      *service.CommentService
	ChatActivity  *service.ChatActivityService
	ProfilesSvc   *service.ProfileService

	client *redis.Client
}

// InitRuntime connects to Redis and wires every service.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	client, err := store.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	rt := NewRuntime(client, cfg)
	rt.client = client
	return rt, nil
}

// NewRuntime wires the engine over an existing Redis client. Tests use
// this with a miniredis-backed client.
func NewRuntime(client *redis.Client, cfg *config.Config) *Runtime {
	s := store.NewRedisStore(client, cfg.TransactMaxRetries)

	posts := repository.NewPostRepository(s)
	profiles := repository.NewProfileRepository(s)
	inboxes := repository.NewInboxRepository(s)

	bans := service.NewBanService(profiles)
	points := service.NewPointsService(profiles)
	milestones := service.NewMilestoneService(profiles)
	notifications := service.NewNotificationService(
		inboxes,
		cfg.InboxMaxEntries,
		time.Duration(cfg.NotifyTimeoutMS)*time.Millisecond,
	)

	return &Runtime{
		Store:         s,
		Posts:         posts,
		Profiles:      profiles,
		Inboxes:       inboxes,
		Bans:          bans,
		Points:        points,
		Milestones:    milestones,
		Notifications: notifications,
		Reactions:     service.NewReactionService(posts, profiles, bans, points, milestones, notifications),
		PostsService:  service.NewPostService(posts, profiles, bans, points, milestones),
		Comments:      service.NewCommentService(posts, profiles, bans, points, milestones, notifications),
		ChatActivity:  service.NewChatActivityService(profiles, bans, points, milestones),
		ProfilesSvc:   service.NewProfileService(profiles, points, milestones),
	}
}

// Close releases the Redis connection when the runtime owns it.
func (r *Runtime) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
