package models

import "time"

// NotificationKind enumerates the inbox entry types.
type NotificationKind string

const (
	NotificationReactionOnPost NotificationKind = "reaction_on_post"
	NotificationReplyToPost    NotificationKind = "reply_to_post"
	NotificationReplyToComment NotificationKind = "reply_to_comment"
	NotificationFriendRequest  NotificationKind = "friend_request"
)

// Notification is a single inbox entry. Created only by the dispatcher;
// the recipient flips Read.
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	Kind        NotificationKind `json:"kind"`
	ActorID     string           `json:"actor_id"`
	ActorName   string           `json:"actor_name"`
	ActorAvatar string           `json:"actor_avatar,omitempty"`
	RelatedID   string           `json:"related_id,omitempty"`
	Message     string           `json:"message"`
	Link        string           `json:"link,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	Read        bool             `json:"read"`
}

// Inbox is the document stored at key "inbox:<user id>". The unread
// counter lives here rather than on the profile so an append and its
// counter increment commit in one per-key transaction.
type Inbox struct {
	UnreadCount   int            `json:"unread_count"`
	Notifications []Notification `json:"notifications,omitempty"`
}
