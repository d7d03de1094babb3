package service

import (
	"context"
	"time"

	"kindred/internal/models"
	"kindred/internal/observability"
	"kindred/internal/repository"
)

// ChatActivityResult reports the user's counters after a recorded message.
type ChatActivityResult struct {
	DailyMessageCount int
	StreakDays        int
	NewMilestones     []models.DailyMessageMilestone
}

// ChatActivityService tracks per-day message counts and chat streaks and
// flags day-keyed milestones exactly once.
type ChatActivityService struct {
	profiles   repository.ProfileRepository
	bans       *BanService
	points     *PointsService
	milestones *MilestoneService
	effects    *observability.SideEffectLogger
	now        func() time.Time
}

// NewChatActivityService returns a new ChatActivityService.
func NewChatActivityService(
	profiles repository.ProfileRepository,
	bans *BanService,
	points *PointsService,
	milestones *MilestoneService,
) *ChatActivityService {
	return &ChatActivityService{
		profiles:   profiles,
		bans:       bans,
		points:     points,
		milestones: milestones,
		effects:    observability.NewSideEffectLogger("chat_activity"),
		now:        time.Now,
	}
}

// RecordMessage advances the user's daily message count and chat streak in
// a single profile transaction. On a day rollover the new day's flag map
// is lazily initialized and past days are left untouched. Milestones
// crossed by this message are flagged inside the same transaction, so
// concurrent messages award each milestone once; badge and point grants
// run afterward as independent steps.
func (s *ChatActivityService) RecordMessage(ctx context.Context, userID string) (*ChatActivityResult, error) {
	if err := s.bans.CheckCanAct(ctx, userID); err != nil {
		return nil, err
	}

	today := models.DayKey(s.now())
	yesterday := models.DayKey(s.now().AddDate(0, 0, -1))

	var result ChatActivityResult
	err := s.profiles.Update(ctx, userID, func(profile *models.UserProfile) error {
		if profile.DailyMessageDate != today {
			profile.DailyMessageDate = today
			profile.DailyMessageCount = 0
		}
		profile.DailyMessageCount++

		switch profile.LastChatDate {
		case today:
			// streak already counted today
		case yesterday:
			profile.ChatStreakDays++
		default:
			profile.ChatStreakDays = 1
		}
		profile.LastChatDate = today
		if profile.ChatStreakDays > profile.BestChatStreak {
			profile.BestChatStreak = profile.ChatStreakDays
		}

		if profile.DailyMilestones == nil {
			profile.DailyMilestones = make(map[string]map[string]bool)
		}
		if profile.DailyMilestones[today] == nil {
			flags := make(map[string]bool, len(models.DailyMessageMilestones))
			for _, m := range models.DailyMessageMilestones {
				flags[m.ID] = false
			}
			profile.DailyMilestones[today] = flags
		}

		result = ChatActivityResult{
			DailyMessageCount: profile.DailyMessageCount,
			StreakDays:        profile.ChatStreakDays,
		}
		for _, m := range models.DailyMessageMilestones {
			if profile.DailyMessageCount >= m.Count && !profile.DailyMilestones[today][m.ID] {
				profile.DailyMilestones[today][m.ID] = true
				result.NewMilestones = append(result.NewMilestones, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("chat activity", err)
	}

	for _, m := range result.NewMilestones {
		if err := s.milestones.EnsureBadgeAwarded(ctx, userID, m.Badge); err != nil {
			s.effects.LogStepFailure(ctx, "daily_badge", err, map[string]interface{}{
				"user_id":   userID,
				"milestone": m.ID,
			})
		}
		if err := s.points.Award(ctx, userID, m.Points); err != nil {
			s.effects.LogStepFailure(ctx, "daily_points", err, map[string]interface{}{
				"user_id":   userID,
				"milestone": m.ID,
			})
		} else if err := s.milestones.EvaluateThresholds(ctx, userID); err != nil {
			s.effects.LogStepFailure(ctx, "milestones", err, map[string]interface{}{
				"user_id": userID,
			})
		}
	}

	for _, m := range models.StreakMilestones {
		if result.StreakDays >= m.Days {
			if err := s.milestones.EnsureBadgeAwarded(ctx, userID, m.Badge); err != nil {
				s.effects.LogStepFailure(ctx, "streak_badge", err, map[string]interface{}{
					"user_id": userID,
					"days":    m.Days,
				})
			}
		}
	}

	return &result, nil
}
