package service

import (
	"context"
	"time"

	"kindred/internal/models"
	"kindred/internal/observability"
	"kindred/internal/repository"
)

// RegisterProfileInput carries a new user registration.
type RegisterProfileInput struct {
	UserID   string
	Username string
	Avatar   string
}

// ProfileService creates user profiles and applies the registration bonus.
type ProfileService struct {
	profiles   repository.ProfileRepository
	points     *PointsService
	milestones *MilestoneService
	effects    *observability.SideEffectLogger
	now        func() time.Time
}

// NewProfileService returns a new ProfileService.
func NewProfileService(
	profiles repository.ProfileRepository,
	points *PointsService,
	milestones *MilestoneService,
) *ProfileService {
	return &ProfileService{
		profiles:   profiles,
		points:     points,
		milestones: milestones,
		effects:    observability.NewSideEffectLogger("register"),
		now:        time.Now,
	}
}

// RegisterProfile creates the profile document with its "none" unlock
// sentinels, then grants the registration bonus through the ledger and
// evaluates initial milestones. The bonus goes through Award rather than
// being baked into the document so registration composes with the same
// ledger semantics as every other point source.
func (s *ProfileService) RegisterProfile(ctx context.Context, in RegisterProfileInput) (*models.UserProfile, error) {
	if in.UserID == "" {
		return nil, models.NewValidationError("User ID is required")
	}
	if in.Username == "" {
		return nil, models.NewValidationError("Username is required")
	}

	profile := models.NewUserProfile(in.UserID, in.Username, s.now())
	profile.Avatar = in.Avatar

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, wrapStoreErr("profile create", err)
	}

	if err := s.points.Award(ctx, in.UserID, models.PointsRegistration); err != nil {
		s.effects.LogStepFailure(ctx, "registration_bonus", err, map[string]interface{}{
			"user_id": in.UserID,
		})
	} else if err := s.milestones.EvaluateThresholds(ctx, in.UserID); err != nil {
		s.effects.LogStepFailure(ctx, "milestones", err, map[string]interface{}{
			"user_id": in.UserID,
		})
	}

	return s.profiles.GetByID(ctx, in.UserID)
}
