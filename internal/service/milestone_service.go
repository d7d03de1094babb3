package service

import (
	"context"
	"slices"

	"kindred/internal/models"
	"kindred/internal/observability"
	"kindred/internal/repository"
	"kindred/internal/store"
)

// MilestoneService derives which threshold-gated unlocks a user qualifies
// for and awards badges exactly once. Every operation is idempotent:
// re-running after no state change commits nothing.
type MilestoneService struct {
	profiles repository.ProfileRepository
}

// NewMilestoneService returns a new MilestoneService.
func NewMilestoneService(profiles repository.ProfileRepository) *MilestoneService {
	return &MilestoneService{profiles: profiles}
}

// CheckAndUnlockThresholdItems unions into the category's unlock set every
// item whose threshold the user's current points meet, in a single-key
// transaction. Returns the newly unlocked item ids; an empty result means
// the evaluation was a no-op and nothing was written.
func (s *MilestoneService) CheckAndUnlockThresholdItems(ctx context.Context, userID string, category models.UnlockCategory) ([]string, error) {
	table, ok := models.ThresholdTables[category]
	if !ok {
		return nil, models.NewValidationError("Unknown unlock category")
	}

	var added []string
	err := s.profiles.Update(ctx, userID, func(profile *models.UserProfile) error {
		set := profile.UnlockSet(category)
		if set == nil {
			return models.NewValidationError("Unknown unlock category")
		}
		added = added[:0]
		for _, row := range table {
			if profile.Points >= row.Threshold && !slices.Contains(*set, row.ItemID) {
				*set = append(*set, row.ItemID)
				added = append(added, row.ItemID)
			}
		}
		if len(added) == 0 {
			return store.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("threshold unlock", err)
	}
	for range added {
		observability.MilestonesAwarded.WithLabelValues(string(category)).Inc()
	}
	return added, nil
}

// EvaluateThresholds re-runs the threshold evaluation for every category.
// Called after any successful point award; safe to re-run at any time.
func (s *MilestoneService) EvaluateThresholds(ctx context.Context, userID string) error {
	for _, category := range []models.UnlockCategory{
		models.UnlockAvatarFrames,
		models.UnlockAvatarFlairs,
		models.UnlockPostFlairs,
	} {
		if _, err := s.CheckAndUnlockThresholdItems(ctx, userID, category); err != nil {
			return err
		}
	}
	return nil
}

// EnsureBadgeAwarded adds the badge to the user's badge set only if
// absent. Any number of concurrent callers for the same (user, badge)
// observe the badge present exactly once afterward; correctness rests on
// the store's per-key all-or-nothing retry, not on any external lock.
func (s *MilestoneService) EnsureBadgeAwarded(ctx context.Context, userID, badgeID string) error {
	awarded := false
	err := s.profiles.Update(ctx, userID, func(profile *models.UserProfile) error {
		if profile.HasBadge(badgeID) {
			awarded = false
			return store.ErrNoChange
		}
		profile.Badges = append(profile.Badges, badgeID)
		awarded = true
		return nil
	})
	if err != nil {
		return wrapStoreErr("badge award", err)
	}
	if awarded {
		observability.MilestonesAwarded.WithLabelValues("badge").Inc()
	}
	return nil
}
