package repository

import (
	"context"
	"errors"

	"kindred/internal/models"
	"kindred/internal/store"
)

// InboxRepository defines inbox document access for the dispatcher.
type InboxRepository interface {
	Get(ctx context.Context, userID string) (*models.Inbox, error)
	// Append adds the notification at the head of the recipient's inbox
	// and increments the unread counter in the same transaction, trimming
	// the list to maxEntries.
	Append(ctx context.Context, n models.Notification, maxEntries int) error
}

type inboxRepository struct {
	store store.Store
}

// NewInboxRepository creates a new inbox repository over the store.
func NewInboxRepository(s store.Store) InboxRepository {
	return &inboxRepository{store: s}
}

func (r *inboxRepository) Get(ctx context.Context, userID string) (*models.Inbox, error) {
	inbox, err := store.GetDoc[models.Inbox](ctx, r.store, InboxKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return &models.Inbox{}, nil
	}
	return inbox, err
}

func (r *inboxRepository) Append(ctx context.Context, n models.Notification, maxEntries int) error {
	return store.UpdateDoc(ctx, r.store, InboxKey(n.RecipientID), func(doc *models.Inbox, _ bool) error {
		doc.Notifications = append([]models.Notification{n}, doc.Notifications...)
		if maxEntries > 0 && len(doc.Notifications) > maxEntries {
			doc.Notifications = doc.Notifications[:maxEntries]
		}
		doc.UnreadCount++
		return nil
	})
}
