package repository

import (
	"context"
	"errors"
	"time"

	"kindred/internal/models"
	"kindred/internal/store"
)

// PostRepository defines post document access for the services.
type PostRepository interface {
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, postID string, fn func(post *models.Post) error) error
}

type postRepository struct {
	store store.Store
	now   func() time.Time
}

// NewPostRepository creates a new post repository over the store.
func NewPostRepository(s store.Store) PostRepository {
	return &postRepository{store: s, now: time.Now}
}

func (r *postRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	post, err := store.GetDoc[models.Post](ctx, r.store, PostKey(postID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, err
}

// Create commits the post document, failing if the key is already taken.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return store.UpdateDoc(ctx, r.store, PostKey(post.ID), func(doc *models.Post, exists bool) error {
		if exists {
			return models.NewValidationError("Post ID already in use")
		}
		*doc = *post
		return nil
	})
}

// Update runs fn against the freshest post document inside an optimistic
// transaction. fn may return store.ErrNoChange to leave the post alone.
func (r *postRepository) Update(ctx context.Context, postID string, fn func(post *models.Post) error) error {
	return store.UpdateDoc(ctx, r.store, PostKey(postID), func(doc *models.Post, exists bool) error {
		if !exists {
			return models.NewNotFoundError("Post", postID)
		}
		if err := fn(doc); err != nil {
			return err
		}
		doc.UpdatedAt = r.now()
		return nil
	})
}
