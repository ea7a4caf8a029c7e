package notification

import (
	"context"
	"time"
)

// Repository defines data access for notification rows.
type Repository interface {
	// Create inserts a single notification
	Create(ctx context.Context, n *Notification) error

	// CreateBatch inserts one chunk of notifications in a single statement
	CreateBatch(ctx context.Context, notifications []*Notification) error

	// ExistsRecent reports whether a notification with the same
	// (userID, type, relatedID) was created at or after since.
	ExistsRecent(ctx context.Context, userID string, t Type, relatedID *string, since time.Time) (bool, error)

	// GetByUserID retrieves paginated notifications for a user
	GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*Notification, int64, error)

	// GetUnreadCount returns the unread count for a user
	GetUnreadCount(ctx context.Context, userID string) (int, error)

	// MarkAsRead marks one notification as read, scoped to the owner
	MarkAsRead(ctx context.Context, id string, userID string) error

	// MarkAllAsRead marks all of a user's notifications as read
	MarkAllAsRead(ctx context.Context, userID string) error

	// Delete removes a notification, scoped to the owner
	Delete(ctx context.Context, id string, userID string) error

	// DeleteExpired removes rows whose expires_at is before cutoff
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
