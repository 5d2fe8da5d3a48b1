package store

import (
	"context"

	"github.com/otwartedane/mcod/pkg/model"
)

// WatchersStore abstracts watcher, subscription and notification storage
type WatchersStore interface {
	// FindWatcher returns the watcher of an object, or ErrNotFound
	FindWatcher(ctx context.Context, objectName, objectIdent string) (*model.Watcher, error)
	CreateWatcher(ctx context.Context, w *model.Watcher) error
	UpdateWatcher(ctx context.Context, w *model.Watcher) error
	ListQueryWatchers(ctx context.Context) ([]model.Watcher, error)

	// FindSubscription returns the subscription of a user to a watcher, or ErrNotFound
	FindSubscription(ctx context.Context, userID, watcherID uint) (*model.Subscription, error)
	// FetchSubscription returns a subscription with its watcher, or ErrNotFound
	FetchSubscription(ctx context.Context, id uint) (*model.Subscription, error)
	CreateSubscription(ctx context.Context, s *model.Subscription) error
	DeleteSubscription(ctx context.Context, id uint) error
	ListSubscriptions(ctx context.Context, userID uint, offset, limit int) ([]model.Subscription, int64, error)
	SubscriptionsForWatcher(ctx context.Context, watcherID uint) ([]model.Subscription, error)

	CreateNotifications(ctx context.Context, ns []model.Notification) error
	// ListNotifications returns a page of a user's notifications, newest
	// first, optionally restricted to one status
	ListNotifications(ctx context.Context, userID uint, status *model.NotificationStatus, offset, limit int) ([]model.Notification, int64, error)
	// MarkNotificationsRead marks the user's notifications read. A nil ids
	// slice marks all of them.
	MarkNotificationsRead(ctx context.Context, userID uint, ids []uint) (int64, error)
	CountNotifications(ctx context.Context, userID uint, status model.NotificationStatus) (int64, error)
}
