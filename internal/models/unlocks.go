package models

// UnlockCategory names one of the cosmetic unlock sets on a profile.
type UnlockCategory string

const (
	UnlockAvatarFrames UnlockCategory = "avatar_frames"
	UnlockAvatarFlairs UnlockCategory = "avatar_flairs"
	UnlockPostFlairs   UnlockCategory = "post_flairs"
)

// ThresholdUnlock gates an item behind a minimum point total.
type ThresholdUnlock struct {
	Threshold int
	ItemID    string
}

// ThresholdTables lists, per category in ascending threshold order, the
// items a user unlocks as their points grow. New tiers are rows here,
// not code.
var ThresholdTables = map[UnlockCategory][]ThresholdUnlock{
	UnlockAvatarFrames: {
		{Threshold: 50, ItemID: "bronze-ring"},
		{Threshold: 200, ItemID: "silver-ring"},
		{Threshold: 500, ItemID: "gold-ring"},
		{Threshold: 1500, ItemID: "ember-crown"},
	},
	UnlockAvatarFlairs: {
		{Threshold: 100, ItemID: "spark"},
		{Threshold: 400, ItemID: "comet"},
		{Threshold: 1000, ItemID: "aurora"},
	},
	UnlockPostFlairs: {
		{Threshold: 150, ItemID: "ribbon"},
		{Threshold: 600, ItemID: "laurel"},
	},
}

// UnlockSet returns a pointer to the profile field backing the category,
// or nil for an unknown category.
func (p *UserProfile) UnlockSet(category UnlockCategory) *[]string {
	switch category {
	case UnlockAvatarFrames:
		return &p.AvatarFrames
	case UnlockAvatarFlairs:
		return &p.AvatarFlairs
	case UnlockPostFlairs:
		return &p.PostFlairs
	}
	return nil
}

// DailyMessageMilestone awards a badge and points when a user's message
// count for a single UTC day crosses Count.
type DailyMessageMilestone struct {
	ID     string
	Count  int
	Points int
	Badge  string
}

// DailyMessageMilestones in ascending count order.
var DailyMessageMilestones = []DailyMessageMilestone{
	{ID: "daily-5", Count: 5, Points: 5, Badge: "chatty"},
	{ID: "daily-15", Count: 15, Points: 10, Badge: "talkative"},
	{ID: "daily-30", Count: 30, Points: 20, Badge: "chatterbox"},
}

// StreakMilestone awards a badge for consecutive days with chat activity.
type StreakMilestone struct {
	Days  int
	Badge string
}

// StreakMilestones in ascending day order.
var StreakMilestones = []StreakMilestone{
	{Days: 3, Badge: "streak-3"},
	{Days: 7, Badge: "streak-7"},
	{Days: 30, Badge: "streak-30"},
}

// Point awards for engagement events outside the reaction tables.
const (
	PointsPostAuthored    = 10
	PointsCommentAuthored = 2
	PointsRegistration    = 25
)
