package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

var _ store.WatchersStore = (*WatchersStore)(nil)

// WatchersStore provides watcher, subscription and notification storage using GORM
type WatchersStore struct {
	db *gorm.DB
}

// NewWatchersStore creates a new WatchersStore
func NewWatchersStore(db *gorm.DB) *WatchersStore {
	return &WatchersStore{db: db}
}

// FindWatcher returns the watcher of an object
func (s *WatchersStore) FindWatcher(ctx context.Context, objectName, objectIdent string) (*model.Watcher, error) {
	var w model.Watcher
	tx := s.db.WithContext(ctx).
		Where("object_name = ? AND object_ident = ?", objectName, objectIdent).
		First(&w)
	if tx.Error != nil {
		return nil, notFound(tx.Error)
	}
	return &w, nil
}

// CreateWatcher inserts a watcher
func (s *WatchersStore) CreateWatcher(ctx context.Context, w *model.Watcher) error {
	return conflict(s.db.WithContext(ctx).Create(w).Error)
}

// UpdateWatcher saves the reference fields of a watcher
func (s *WatchersStore) UpdateWatcher(ctx context.Context, w *model.Watcher) error {
	return s.db.WithContext(ctx).
		Model(w).
		Select("ref_field", "ref_value", "last_ref_change").
		Updates(w).Error
}

// ListQueryWatchers returns all watchers of saved searches
func (s *WatchersStore) ListQueryWatchers(ctx context.Context) ([]model.Watcher, error) {
	var watchers []model.Watcher
	tx := s.db.WithContext(ctx).
		Where("watcher_type = ?", model.WatcherTypeQuery).
		Order("id").
		Find(&watchers)
	return watchers, tx.Error
}

// FindSubscription returns the subscription of a user to a watcher
func (s *WatchersStore) FindSubscription(ctx context.Context, userID, watcherID uint) (*model.Subscription, error) {
	var sub model.Subscription
	tx := s.db.WithContext(ctx).
		Where("user_id = ? AND watcher_id = ?", userID, watcherID).
		First(&sub)
	if tx.Error != nil {
		return nil, notFound(tx.Error)
	}
	return &sub, nil
}

// FetchSubscription returns a subscription with its watcher
func (s *WatchersStore) FetchSubscription(ctx context.Context, id uint) (*model.Subscription, error) {
	var sub model.Subscription
	if err := s.db.WithContext(ctx).Preload("Watcher").Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

// CreateSubscription inserts a subscription
func (s *WatchersStore) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	return conflict(s.db.WithContext(ctx).Omit("Watcher").Create(sub).Error)
}

// DeleteSubscription removes a subscription and its notifications
func (s *WatchersStore) DeleteSubscription(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subscription_id = ?", id).Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// ListSubscriptions returns a page of a user's subscriptions, newest first
func (s *WatchersStore) ListSubscriptions(ctx context.Context, userID uint, offset, limit int) ([]model.Subscription, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Subscription{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var subs []model.Subscription
	tx := s.db.WithContext(ctx).
		Preload("Watcher").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&subs)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return subs, count, nil
}

// SubscriptionsForWatcher returns every subscription of a watcher
func (s *WatchersStore) SubscriptionsForWatcher(ctx context.Context, watcherID uint) ([]model.Subscription, error) {
	var subs []model.Subscription
	tx := s.db.WithContext(ctx).Where("watcher_id = ?", watcherID).Order("id").Find(&subs)
	return subs, tx.Error
}

// CreateNotifications inserts notifications in one batch
func (s *WatchersStore) CreateNotifications(ctx context.Context, ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Omit("Subscription").Create(&ns).Error
}

func (s *WatchersStore) userNotifications(ctx context.Context, userID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notifications.subscription_id IN (SELECT id FROM subscriptions WHERE user_id = ?)", userID)
}

// ListNotifications returns a page of a user's notifications, newest first
func (s *WatchersStore) ListNotifications(ctx context.Context, userID uint, status *model.NotificationStatus, offset, limit int) ([]model.Notification, int64, error) {
	scope := func() *gorm.DB {
		q := s.userNotifications(ctx, userID)
		if status != nil {
			q = q.Where("notifications.status = ?", *status)
		}
		return q
	}

	var count int64
	if err := scope().Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var ns []model.Notification
	tx := scope().
		Preload("Subscription.Watcher").
		Order("notifications.created_at DESC, notifications.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&ns)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return ns, count, nil
}

// MarkNotificationsRead marks new notifications of a user read
func (s *WatchersStore) MarkNotificationsRead(ctx context.Context, userID uint, ids []uint) (int64, error) {
	q := s.userNotifications(ctx, userID).Where("notifications.status = ?", model.NotificationStatusNew)
	if ids != nil {
		if len(ids) == 0 {
			return 0, nil
		}
		q = q.Where("notifications.id IN ?", ids)
	}
	tx := q.UpdateColumn("status", model.NotificationStatusRead)
	return tx.RowsAffected, tx.Error
}

// CountNotifications counts a user's notifications in one status
func (s *WatchersStore) CountNotifications(ctx context.Context, userID uint, status model.NotificationStatus) (int64, error) {
	var count int64
	tx := s.userNotifications(ctx, userID).Where("notifications.status = ?", status).Count(&count)
	return count, tx.Error
}
