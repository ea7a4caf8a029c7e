package notification

import (
	"context"
	"time"
)

// DefaultDedupWindow is the trailing interval within which a repeat
// notification of the same (user, type, related id) is suppressed.
const DefaultDedupWindow = 5 * time.Minute

// BatchChunkSize is the number of rows inserted per statement by SendBatch.
const BatchChunkSize = 50

// Dispatcher creates notification rows, suppresses duplicates within a time
// window, and batch-inserts. Creation also pushes to live subscribers.
type Dispatcher interface {
	// Create validates the type against the allow-list (unknown types fall
	// back to TypeGeneral), stamps expires_at and persists the row.
	Create(ctx context.Context, req CreateRequest) (*Notification, error)

	// CheckConflict reports whether a duplicate exists within the trailing
	// window. A store read failure fails open (false, so the send proceeds).
	CheckConflict(ctx context.Context, userID string, t Type, relatedID *string, window time.Duration) (bool, error)

	// CreateSafe is Create with duplicate suppression. Returns (nil, nil)
	// when the notification was skipped as a duplicate.
	CreateSafe(ctx context.Context, req CreateRequest, preventDuplicates bool, window time.Duration) (*Notification, error)

	// SendBatch inserts requests in chunks of BatchChunkSize. A chunk
	// failure aborts the batch with a BatchChunkError; earlier chunks stay.
	// Returns the number of rows inserted.
	SendBatch(ctx context.Context, reqs []CreateRequest) (int, error)

	List(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*ListResponse, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID string, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, notificationID string) error

	// DeleteExpired removes rows past their expiry; best-effort cleanup.
	DeleteExpired(ctx context.Context) (int64, error)

	// Subscribe attaches a live feed for a user's new notifications.
	Subscribe(ctx context.Context, userID string) (<-chan NotificationResponse, func())
}
