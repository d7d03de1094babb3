// Package repository provides typed access to the engine's documents on
// top of the entity store.
package repository

import "fmt"

const (
	PostKeyPrefix    = "post:%s"
	ProfileKeyPrefix = "profile:%s"
	InboxKeyPrefix   = "inbox:%s"
)

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func ProfileKey(userID string) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func InboxKey(userID string) string {
	return fmt.Sprintf(InboxKeyPrefix, userID)
}
