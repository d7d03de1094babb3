package service

import (
	"context"
	"fmt"

	"kindred/internal/models"
	"kindred/internal/observability"
	"kindred/internal/repository"
	"kindred/internal/store"
)

// ReactionOutcome describes what a reaction edit did.
type ReactionOutcome string

const (
	// OutcomeAdded: the actor had no reaction and now has one.
	OutcomeAdded ReactionOutcome = "added"
	// OutcomeSwitched: the actor replaced an existing reaction with a
	// different kind.
	OutcomeSwitched ReactionOutcome = "switched"
	// OutcomeRemoved: the actor re-submitted their current kind, toggling
	// it off.
	OutcomeRemoved ReactionOutcome = "removed"
)

// ApplyReactionInput carries a reaction gesture.
type ApplyReactionInput struct {
	PostID      string
	ActorID     string
	Kind        models.ReactionKind
	ActorName   string
	ActorAvatar string
}

// ApplyReactionResult reports the committed edit.
type ApplyReactionResult struct {
	Outcome  ReactionOutcome
	Previous models.ReactionKind // empty when the actor had no reaction
}

// ReactionService toggles a user's reaction on a post and keeps the
// per-kind summary consistent with the reaction map.
type ReactionService struct {
	posts      repository.PostRepository
	profiles   repository.ProfileRepository
	bans       *BanService
	points     *PointsService
	milestones *MilestoneService
	notifier   *NotificationService
	effects    *observability.SideEffectLogger
}

// NewReactionService returns a new ReactionService.
func NewReactionService(
	posts repository.PostRepository,
	profiles repository.ProfileRepository,
	bans *BanService,
	points *PointsService,
	milestones *MilestoneService,
	notifier *NotificationService,
) *ReactionService {
	return &ReactionService{
		posts:      posts,
		profiles:   profiles,
		bans:       bans,
		points:     points,
		milestones: milestones,
		notifier:   notifier,
		effects:    observability.NewSideEffectLogger("reaction"),
	}
}

// ApplyReaction commits the reaction edit in a single optimistic
// transaction on the post, then runs the author-facing side effects as
// independent transactions. Only the post edit is atomic; a failure in a
// later step is logged and leaves earlier commits in place.
func (s *ReactionService) ApplyReaction(ctx context.Context, in ApplyReactionInput) (*ApplyReactionResult, error) {
	ctx, span := observability.GetTraceLayer().TraceServiceCall(ctx, "ReactionService", "ApplyReaction")
	defer span.End()

	if !in.Kind.Valid() {
		return nil, models.NewValidationError("Unknown reaction kind")
	}
	if err := s.bans.CheckCanAct(ctx, in.ActorID); err != nil {
		observability.RecordErrorInContext(ctx, err)
		return nil, err
	}

	var (
		authorID string
		previous models.ReactionKind
		hadPrev  bool
		outcome  ReactionOutcome
	)
	err := s.posts.Update(ctx, in.PostID, func(post *models.Post) error {
		authorID = post.AuthorID
		if post.Reactions == nil {
			post.Reactions = make(map[string]models.ReactionKind)
		}
		if post.ReactionSummary == nil {
			post.ReactionSummary = make(map[models.ReactionKind]int)
		}

		previous, hadPrev = post.Reactions[in.ActorID]
		if hadPrev && previous == in.Kind {
			delete(post.Reactions, in.ActorID)
			post.ReactionSummary[in.Kind]--
			outcome = OutcomeRemoved
		} else {
			if hadPrev {
				post.ReactionSummary[previous]--
				outcome = OutcomeSwitched
			} else {
				outcome = OutcomeAdded
			}
			post.Reactions[in.ActorID] = in.Kind
			post.ReactionSummary[in.Kind]++
		}
		post.ClampSummary()
		return nil
	})
	if err != nil {
		err = wrapStoreErr("reaction edit", err)
		observability.RecordErrorInContext(ctx, err)
		return nil, err
	}

	result := &ApplyReactionResult{Outcome: outcome}
	if hadPrev {
		result.Previous = previous
	}

	if in.ActorID != authorID {
		s.applyAuthorEffects(ctx, in, authorID, previous, hadPrev, outcome)
	} else {
		s.effects.LogStepSkipped(ctx, "author_effects", "self reaction")
	}

	return result, nil
}

// applyAuthorEffects runs the post-commit saga steps: point delta,
// received-reaction counter, and the advisory notification. Each step
// commits independently; failures are logged, never propagated.
func (s *ReactionService) applyAuthorEffects(ctx context.Context, in ApplyReactionInput, authorID string, previous models.ReactionKind, hadPrev bool, outcome ReactionOutcome) {
	delta := 0
	if outcome != OutcomeRemoved {
		delta += in.Kind.PointValue()
	}
	if hadPrev && (outcome == OutcomeRemoved || previous != in.Kind) {
		delta -= previous.PointValue()
	}

	if delta != 0 {
		if err := s.points.Award(ctx, authorID, delta); err != nil {
			s.effects.LogStepFailure(ctx, "points", err, map[string]interface{}{
				"author_id": authorID,
				"delta":     delta,
			})
		} else if err := s.milestones.EvaluateThresholds(ctx, authorID); err != nil {
			s.effects.LogStepFailure(ctx, "milestones", err, map[string]interface{}{
				"author_id": authorID,
			})
		}
	}

	switch outcome {
	case OutcomeAdded, OutcomeRemoved:
		if err := s.updateReceivedCount(ctx, authorID, outcome); err != nil {
			s.effects.LogStepFailure(ctx, "reactions_received", err, map[string]interface{}{
				"author_id": authorID,
			})
		}
	case OutcomeSwitched:
		// A switch neither adds nor removes a reactor.
	}

	if outcome != OutcomeRemoved {
		s.notifier.Dispatch(NotifyInput{
			RecipientID: authorID,
			Kind:        models.NotificationReactionOnPost,
			ActorID:     in.ActorID,
			ActorName:   in.ActorName,
			ActorAvatar: in.ActorAvatar,
			RelatedID:   in.PostID,
			Message:     fmt.Sprintf("%s reacted to your post", in.ActorName),
			Link:        "/posts/" + in.PostID,
		})
	}
}

func (s *ReactionService) updateReceivedCount(ctx context.Context, authorID string, outcome ReactionOutcome) error {
	return s.profiles.Update(ctx, authorID, func(profile *models.UserProfile) error {
		switch outcome {
		case OutcomeAdded:
			profile.ReactionsReceived++
		case OutcomeRemoved:
			if profile.ReactionsReceived == 0 {
				return store.ErrNoChange
			}
			profile.ReactionsReceived--
		}
		return nil
	})
}
