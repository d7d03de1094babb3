package models

import "time"

// NoneUnlock is the sentinel present in every unlock set so a user can
// always select "no cosmetic".
const NoneUnlock = "none"

// UserProfile is the document stored at key "profile:<id>". Badge and
// unlock sets are append-only; milestone flags never revert to false.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`

	Points int `json:"points"`

	Badges       []string `json:"badges,omitempty"`
	AvatarFrames []string `json:"avatar_frames"`
	AvatarFlairs []string `json:"avatar_flairs"`
	PostFlairs   []string `json:"post_flairs"`

	ReactionsReceived int `json:"reactions_received"`
	PostsAuthored     int `json:"posts_authored"`
	CommentsAuthored  int `json:"comments_authored"`

	ChatStreakDays int    `json:"chat_streak_days"`
	BestChatStreak int    `json:"best_chat_streak"`
	LastChatDate   string `json:"last_chat_date,omitempty"`

	DailyMessageCount int    `json:"daily_message_count"`
	DailyMessageDate  string `json:"daily_message_date,omitempty"`

	// DailyMilestones maps a UTC day key to the milestones awarded that
	// day. Past days are kept for audit and never reset.
	DailyMilestones map[string]map[string]bool `json:"daily_milestones,omitempty"`

	IsBanned      bool   `json:"is_banned"`
	TempBanUntil  int64  `json:"temp_ban_until,omitempty"`
	TempBanReason string `json:"temp_ban_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserProfile returns a profile with every unlock set seeded with the
// "none" sentinel.
func NewUserProfile(id, username string, now time.Time) *UserProfile {
	return &UserProfile{
		ID:           id,
		Username:     username,
		AvatarFrames: []string{NoneUnlock},
		AvatarFlairs: []string{NoneUnlock},
		PostFlairs:   []string{NoneUnlock},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasBadge reports whether the badge id has been awarded.
func (p *UserProfile) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// TempBanActive reports whether a temporary ban is set and still in the
// future at now. A TempBanUntil in the past means the ban is logically
// expired even before it is cleared.
func (p *UserProfile) TempBanActive(now time.Time) bool {
	return p.TempBanUntil > 0 && p.TempBanUntil > now.UnixMilli()
}

// TempBanExpired reports whether a temporary ban is set but already over.
func (p *UserProfile) TempBanExpired(now time.Time) bool {
	return p.TempBanUntil > 0 && p.TempBanUntil <= now.UnixMilli()
}

// DayKey returns the canonical UTC date string used to key daily counters
// and milestone flags.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
