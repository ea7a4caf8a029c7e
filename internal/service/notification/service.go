package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/notification"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/clock"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/sse"
)

type DispatcherImpl struct {
	repo  notification.Repository
	hub   *sse.Hub
	clock clock.Clock
}

// Create implements notification.Dispatcher.
func (d *DispatcherImpl) Create(ctx context.Context, req notification.CreateRequest) (*notification.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	n := d.buildNotification(req)
	if err := d.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	d.publish(n)
	return n, nil
}

func (d *DispatcherImpl) buildNotification(req notification.CreateRequest) *notification.Notification {
	t := req.Type
	if !t.IsValid() {
		slog.Warn("Unknown notification type, falling back to general", "type", string(t))
		t = notification.TypeGeneral
	}

	now := d.clock.Now().UTC()
	return &notification.Notification{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Type:      t,
		Title:     req.Title,
		Message:   req.Message,
		RelatedID: req.RelatedID,
		ActionURL: req.ActionURL,
		CreatedAt: now,
		ExpiresAt: now.Add(notification.ExpiryWindow),
	}
}

func (d *DispatcherImpl) publish(n *notification.Notification) {
	d.hub.Publish(n.UserID, sse.Event{
		UserID: n.UserID,
		Event:  "notification",
		Data:   mapToResponse(n),
	})
}

// CheckConflict implements notification.Dispatcher.
func (d *DispatcherImpl) CheckConflict(ctx context.Context, userID string, t notification.Type, relatedID *string, window time.Duration) (bool, error) {
	since := d.clock.Now().UTC().Add(-window)
	exists, err := d.repo.ExistsRecent(ctx, userID, t, relatedID, since)
	if err != nil {
		// Fail open: a broken dedup check must not block the notification.
		slog.Warn("Duplicate check failed, proceeding with send", "user_id", userID, "error", err)
		return false, nil
	}
	return exists, nil
}

// CreateSafe implements notification.Dispatcher.
func (d *DispatcherImpl) CreateSafe(ctx context.Context, req notification.CreateRequest, preventDuplicates bool, window time.Duration) (*notification.Notification, error) {
	if preventDuplicates {
		if window <= 0 {
			window = notification.DefaultDedupWindow
		}
		duplicate, _ := d.CheckConflict(ctx, req.UserID, req.Type, req.RelatedID, window)
		if duplicate {
			slog.Debug("Skipping duplicate notification",
				"user_id", req.UserID, "type", string(req.Type))
			return nil, nil
		}
	}
	return d.Create(ctx, req)
}

// SendBatch implements notification.Dispatcher.
func (d *DispatcherImpl) SendBatch(ctx context.Context, reqs []notification.CreateRequest) (int, error) {
	if len(reqs) == 0 {
		return 0, notification.ErrEmptyBatch
	}

	rows := make([]*notification.Notification, 0, len(reqs))
	for _, req := range reqs {
		if err := req.Validate(); err != nil {
			return 0, err
		}
		rows = append(rows, d.buildNotification(req))
	}

	inserted := 0
	for chunkIndex := 0; chunkIndex*notification.BatchChunkSize < len(rows); chunkIndex++ {
		start := chunkIndex * notification.BatchChunkSize
		end := min(start+notification.BatchChunkSize, len(rows))
		chunk := rows[start:end]

		if err := d.repo.CreateBatch(ctx, chunk); err != nil {
			return inserted, &notification.BatchChunkError{ChunkIndex: chunkIndex, Err: err}
		}
		inserted += len(chunk)

		for _, n := range chunk {
			d.publish(n)
		}
	}

	return inserted, nil
}

// List implements notification.Dispatcher.
func (d *DispatcherImpl) List(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	rows, total, err := d.repo.GetByUserID(ctx, userID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := d.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]notification.NotificationResponse, 0, len(rows))
	for _, n := range rows {
		responses = append(responses, mapToResponse(n))
	}

	return &notification.ListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// UnreadCount implements notification.Dispatcher.
func (d *DispatcherImpl) UnreadCount(ctx context.Context, userID string) (int, error) {
	return d.repo.GetUnreadCount(ctx, userID)
}

// MarkRead implements notification.Dispatcher.
func (d *DispatcherImpl) MarkRead(ctx context.Context, userID string, notificationID string) error {
	return d.repo.MarkAsRead(ctx, notificationID, userID)
}

// MarkAllRead implements notification.Dispatcher.
func (d *DispatcherImpl) MarkAllRead(ctx context.Context, userID string) error {
	return d.repo.MarkAllAsRead(ctx, userID)
}

// Delete implements notification.Dispatcher.
func (d *DispatcherImpl) Delete(ctx context.Context, userID string, notificationID string) error {
	return d.repo.Delete(ctx, notificationID, userID)
}

// DeleteExpired implements notification.Dispatcher.
func (d *DispatcherImpl) DeleteExpired(ctx context.Context) (int64, error) {
	return d.repo.DeleteExpired(ctx, d.clock.Now().UTC())
}

// Subscribe implements notification.Dispatcher.
func (d *DispatcherImpl) Subscribe(ctx context.Context, userID string) (<-chan notification.NotificationResponse, func()) {
	events, cleanup := d.hub.Subscribe(userID)

	out := make(chan notification.NotificationResponse, 10)
	done := make(chan struct{})

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				resp, ok := ev.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- resp:
				default:
				}
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			cleanup()
		})
	}

	return out, unsubscribe
}

func mapToResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		ActionURL: n.ActionURL,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
		ExpiresAt: n.ExpiresAt,
	}
}

func NewDispatcher(repo notification.Repository, hub *sse.Hub, clk clock.Clock) notification.Dispatcher {
	return &DispatcherImpl{
		repo:  repo,
		hub:   hub,
		clock: clk,
	}
}
