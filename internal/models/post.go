// Package models contains the document types and lookup tables for the
// engagement engine's domain.
package models

import "time"

// Post is the document stored at key "post:<id>". Reactions holds at most
// one entry per user; ReactionSummary is denormalized from it for fast
// display and must always agree with it.
type Post struct {
	ID              string                  `json:"id"`
	AuthorID        string                  `json:"author_id"`
	Title           string                  `json:"title"`
	Content         string                  `json:"content"`
	Reactions       map[string]ReactionKind `json:"reactions,omitempty"`
	ReactionSummary map[ReactionKind]int    `json:"reaction_summary,omitempty"`
	CommentCount    int                     `json:"comment_count"`
	Comments        []Comment               `json:"comments,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// Comment is an entry in a post's comment collection.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ClampSummary floors every summary counter at zero and drops empty
// entries. Concurrent retries may transiently drive a counter negative;
// the clamp keeps the invariant observable at every commit.
func (p *Post) ClampSummary() {
	for kind, n := range p.ReactionSummary {
		if n <= 0 {
			delete(p.ReactionSummary, kind)
		}
	}
}

// SummaryCount returns the current summary counter for kind.
func (p *Post) SummaryCount(kind ReactionKind) int {
	return p.ReactionSummary[kind]
}
