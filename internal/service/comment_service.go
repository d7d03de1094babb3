package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kindred/internal/models"
	"kindred/internal/observability"
	"kindred/internal/repository"
)

const maxCommentLen = 10000

// AddCommentInput carries a comment gesture.
type AddCommentInput struct {
	PostID      string
	AuthorID    string
	Content     string
	ActorName   string
	ActorAvatar string
}

// CommentService appends comments to posts and runs the commenter- and
// post-author-facing engagement effects.
type CommentService struct {
	posts      repository.PostRepository
	profiles   repository.ProfileRepository
	bans       *BanService
	points     *PointsService
	milestones *MilestoneService
	notifier   *NotificationService
	effects    *observability.SideEffectLogger
	now        func() time.Time
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	posts repository.PostRepository,
	profiles repository.ProfileRepository,
	bans *BanService,
	points *PointsService,
	milestones *MilestoneService,
	notifier *NotificationService,
) *CommentService {
	return &CommentService{
		posts:      posts,
		profiles:   profiles,
		bans:       bans,
		points:     points,
		milestones: milestones,
		notifier:   notifier,
		effects:    observability.NewSideEffectLogger("comment"),
		now:        time.Now,
	}
}

// AddComment appends the comment and bumps the comment counter in one
// transaction on the post, then — independently — updates the commenter's
// counters and points and notifies the post author (advisory,
// fire-and-forget, skipped for self-comments inside the dispatcher).
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	if err := s.bans.CheckCanAct(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		AuthorID:  in.AuthorID,
		Content:   in.Content,
		CreatedAt: s.now(),
	}

	var postAuthorID string
	err := s.posts.Update(ctx, in.PostID, func(post *models.Post) error {
		postAuthorID = post.AuthorID
		post.Comments = append(post.Comments, comment)
		post.CommentCount++
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("comment append", err)
	}

	if err := s.profiles.Update(ctx, in.AuthorID, func(profile *models.UserProfile) error {
		profile.CommentsAuthored++
		return nil
	}); err != nil {
		s.effects.LogStepFailure(ctx, "comments_authored", err, map[string]interface{}{
			"author_id": in.AuthorID,
		})
	}

	if err := s.points.Award(ctx, in.AuthorID, models.PointsCommentAuthored); err != nil {
		s.effects.LogStepFailure(ctx, "points", err, map[string]interface{}{
			"author_id": in.AuthorID,
			"delta":     models.PointsCommentAuthored,
		})
	} else if err := s.milestones.EvaluateThresholds(ctx, in.AuthorID); err != nil {
		s.effects.LogStepFailure(ctx, "milestones", err, map[string]interface{}{
			"author_id": in.AuthorID,
		})
	}

	s.notifier.Dispatch(NotifyInput{
		RecipientID: postAuthorID,
		Kind:        models.NotificationReplyToPost,
		ActorID:     in.AuthorID,
		ActorName:   in.ActorName,
		ActorAvatar: in.ActorAvatar,
		RelatedID:   in.PostID,
		Message:     fmt.Sprintf("%s commented on your post", in.ActorName),
		Link:        "/posts/" + in.PostID,
	})

	return &comment, nil
}
