package service

import (
	"context"
	"log"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"kindred/internal/models"
	"kindred/internal/observability"
	"kindred/internal/repository"
)

// NotifyInput is the payload for a single inbox notification.
type NotifyInput struct {
	RecipientID string
	Kind        models.NotificationKind
	ActorID     string
	ActorName   string
	ActorAvatar string
	RelatedID   string
	Message     string
	Link        string
}

// NotificationService creates inbox entries. Delivery is advisory: the
// engagement flows dispatch fire-and-forget and a failed notification is
// simply lost — there is no retry queue.
type NotificationService struct {
	inboxes    repository.InboxRepository
	maxEntries int
	timeout    time.Duration
	newID      func() string
	now        func() time.Time
}

// NewNotificationService returns a new NotificationService. maxEntries
// caps the retained inbox length; timeout bounds dispatched deliveries.
func NewNotificationService(inboxes repository.InboxRepository, maxEntries int, timeout time.Duration) *NotificationService {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &NotificationService{
		inboxes:    inboxes,
		maxEntries: maxEntries,
		timeout:    timeout,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// Notify appends a notification to the recipient's inbox and increments
// their unread counter in one transaction. Self-notifications are a no-op.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) error {
	if in.RecipientID == "" || in.RecipientID == in.ActorID {
		return nil
	}

	n := models.Notification{
		ID:          s.newID(),
		RecipientID: in.RecipientID,
		Kind:        in.Kind,
		ActorID:     in.ActorID,
		ActorName:   in.ActorName,
		ActorAvatar: in.ActorAvatar,
		RelatedID:   in.RelatedID,
		Message:     in.Message,
		Link:        in.Link,
		CreatedAt:   s.now(),
	}

	if err := s.inboxes.Append(ctx, n, s.maxEntries); err != nil {
		return wrapStoreErr("notification append", err)
	}
	observability.NotificationsDelivered.WithLabelValues(string(in.Kind)).Inc()
	return nil
}

// Dispatch delivers the notification without blocking the caller and
// absorbs every failure. The primary action has already committed when
// this runs; a lost notification never rolls it back.
func (s *NotificationService) Dispatch(in NotifyInput) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in notification dispatch: %v\n%s", r, debug.Stack())
				observability.NotificationsDropped.WithLabelValues("panic").Inc()
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.Notify(ctx, in); err != nil {
			observability.NotificationsDropped.WithLabelValues("delivery_error").Inc()
			observability.GlobalLogger.WarnContext(ctx, "notification dropped",
				"recipient_id", in.RecipientID,
				"kind", string(in.Kind),
				"err", err,
			)
		}
	}()
}
