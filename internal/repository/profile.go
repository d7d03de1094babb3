package repository

import (
	"context"
	"errors"
	"time"

	"kindred/internal/models"
	"kindred/internal/store"
)

// ProfileRepository defines profile document access for the services.
type ProfileRepository interface {
	GetByID(ctx context.Context, userID string) (*models.UserProfile, error)
	Create(ctx context.Context, profile *models.UserProfile) error
	Update(ctx context.Context, userID string, fn func(profile *models.UserProfile) error) error
}

type profileRepository struct {
	store store.Store
	now   func() time.Time
}

// NewProfileRepository creates a new profile repository over the store.
func NewProfileRepository(s store.Store) ProfileRepository {
	return &profileRepository{store: s, now: time.Now}
}

func (r *profileRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := store.GetDoc[models.UserProfile](ctx, r.store, ProfileKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.NewNotFoundError("UserProfile", userID)
	}
	return profile, err
}

func (r *profileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	return store.UpdateDoc(ctx, r.store, ProfileKey(profile.ID), func(doc *models.UserProfile, exists bool) error {
		if exists {
			return models.NewValidationError("Profile ID already in use")
		}
		*doc = *profile
		return nil
	})
}

// Update runs fn against the freshest profile document inside an
// optimistic transaction. fn may return store.ErrNoChange to leave the
// profile alone.
func (r *profileRepository) Update(ctx context.Context, userID string, fn func(profile *models.UserProfile) error) error {
	return store.UpdateDoc(ctx, r.store, ProfileKey(userID), func(doc *models.UserProfile, exists bool) error {
		if !exists {
			return models.NewNotFoundError("UserProfile", userID)
		}
		if err := fn(doc); err != nil {
			return err
		}
		doc.UpdatedAt = r.now()
		return nil
	})
}
