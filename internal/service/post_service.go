package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kindred/internal/models"
	"kindred/internal/observability"
	"kindred/internal/repository"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

// FirstPostBadge is awarded once, on a user's first authored post.
const FirstPostBadge = "first-post"

// CreatePostInput carries a post-create gesture.
type CreatePostInput struct {
	PostID   string // optional; generated when empty
	AuthorID string
	Title    string
	Content  string
}

// PostService creates post documents and runs the author-side engagement
// effects.
type PostService struct {
	posts      repository.PostRepository
	profiles   repository.ProfileRepository
	bans       *BanService
	points     *PointsService
	milestones *MilestoneService
	effects    *observability.SideEffectLogger
	now        func() time.Time
}

// NewPostService returns a new PostService.
func NewPostService(
	posts repository.PostRepository,
	profiles repository.ProfileRepository,
	bans *BanService,
	points *PointsService,
	milestones *MilestoneService,
) *PostService {
	return &PostService{
		posts:      posts,
		profiles:   profiles,
		bans:       bans,
		points:     points,
		milestones: milestones,
		effects:    observability.NewSideEffectLogger("post_create"),
		now:        time.Now,
	}
}

// CreatePost commits the post document, then — as independent
// transactions — bumps the author's counters, awards authorship points,
// and evaluates milestones. Side-effect failures are logged and absorbed.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	if err := s.bans.CheckCanAct(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	now := s.now()
	post := &models.Post{
		ID:        in.PostID,
		AuthorID:  in.AuthorID,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, wrapStoreErr("post create", err)
	}

	firstPost := false
	if err := s.profiles.Update(ctx, in.AuthorID, func(profile *models.UserProfile) error {
		profile.PostsAuthored++
		firstPost = profile.PostsAuthored == 1
		return nil
	}); err != nil {
		s.effects.LogStepFailure(ctx, "posts_authored", err, map[string]interface{}{
			"author_id": in.AuthorID,
		})
		return post, nil
	}

	if firstPost {
		if err := s.milestones.EnsureBadgeAwarded(ctx, in.AuthorID, FirstPostBadge); err != nil {
			s.effects.LogStepFailure(ctx, "first_post_badge", err, map[string]interface{}{
				"author_id": in.AuthorID,
			})
		}
	}

	if err := s.points.Award(ctx, in.AuthorID, models.PointsPostAuthored); err != nil {
		s.effects.LogStepFailure(ctx, "points", err, map[string]interface{}{
			"author_id": in.AuthorID,
			"delta":     models.PointsPostAuthored,
		})
	} else if err := s.milestones.EvaluateThresholds(ctx, in.AuthorID); err != nil {
		s.effects.LogStepFailure(ctx, "milestones", err, map[string]interface{}{
			"author_id": in.AuthorID,
		})
	}

	return post, nil
}
