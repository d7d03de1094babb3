package service

import (
	"context"

	"kindred/internal/models"
	"kindred/internal/repository"
)

// PointsService is the per-user reputation ledger.
type PointsService struct {
	profiles repository.ProfileRepository
}

// NewPointsService returns a new PointsService.
func NewPointsService(profiles repository.ProfileRepository) *PointsService {
	return &PointsService{profiles: profiles}
}

// Award adds delta (any integer, including negative) to the user's point
// total in a single-key transaction. The operation is intentionally not
// idempotent: the caller invokes it exactly once per qualifying event,
// and a duplicate call double-applies. Award never chains milestone
// evaluation itself, so callers awarding points outside the engagement
// flows (registration bonuses, manual adjustments) can compose it freely;
// callers that want unlocks must trigger the milestone evaluator after a
// successful award.
func (s *PointsService) Award(ctx context.Context, userID string, delta int) error {
	if delta == 0 {
		return nil
	}
	err := s.profiles.Update(ctx, userID, func(profile *models.UserProfile) error {
		profile.Points += delta
		return nil
	})
	return wrapStoreErr("points award", err)
}
