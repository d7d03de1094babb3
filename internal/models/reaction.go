package models

// ReactionKind enumerates the reactions a user can place on a post.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
	ReactionLaugh   ReactionKind = "laugh"
	ReactionFire    ReactionKind = "fire"
	ReactionHeart   ReactionKind = "heart"
)

// reactionPointValues maps each kind to the points it grants the post
// author. Kinds absent here are worth nothing.
var reactionPointValues = map[ReactionKind]int{
	ReactionLike:    5,
	ReactionDislike: -5,
}

// Valid reports whether k is a known reaction kind.
func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionLike, ReactionDislike, ReactionLaugh, ReactionFire, ReactionHeart:
		return true
	}
	return false
}

// PointValue returns the author point value of placing this reaction.
func (k ReactionKind) PointValue() int {
	return reactionPointValues[k]
}
