package watchers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/logging"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// Watched object names
const (
	ObjectDataset      = "dataset"
	ObjectResource     = "resource"
	ObjectOrganization = "organization"
	ObjectQuery        = "query"
)

// ErrAlreadySubscribed is returned when the user already follows the object
var ErrAlreadySubscribed = errors.New("already subscribed")

// Counter counts the results of a saved search
type Counter interface {
	Count(ctx context.Context, query string) (int64, error)
}

// SubscribeInput describes a new subscription
type SubscribeInput struct {
	ObjectName     string `json:"object_name"`
	ObjectIdent    string `json:"object_ident"`
	Name           string `json:"name"`
	CustomizedLink string `json:"customized_link"`
}

// Service manages watchers, subscriptions and notifications
type Service struct {
	watchers      store.WatchersStore
	datasets      store.DatasetsStore
	resources     store.ResourcesStore
	organizations store.OrganizationsStore
	counter       Counter
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates a Service
func NewService(
	watchers store.WatchersStore,
	datasets store.DatasetsStore,
	resources store.ResourcesStore,
	organizations store.OrganizationsStore,
	counter Counter,
	logger *zap.Logger,
) *Service {
	return &Service{
		watchers:      watchers,
		datasets:      datasets,
		resources:     resources,
		organizations: organizations,
		counter:       counter,
		logger:        logging.OrNop(logger),
		now:           time.Now,
	}
}

// Subscribe makes userID follow an object. Model objects must exist and
// be published. The watcher of the object is created on first use.
func (s *Service) Subscribe(ctx context.Context, userID uint, in SubscribeInput) (*model.Subscription, error) {
	verr := jsonapi.NewValidationError()
	if in.ObjectIdent == "" {
		verr.Add("object_ident", "This field is required.")
	}
	var watcherType model.WatcherType
	switch in.ObjectName {
	case ObjectDataset, ObjectResource, ObjectOrganization:
		watcherType = model.WatcherTypeModel
	case ObjectQuery:
		watcherType = model.WatcherTypeQuery
	default:
		verr.Add("object_name", "Unsupported object name.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	ident, refField, refValue, err := s.resolve(ctx, in.ObjectName, in.ObjectIdent)
	if err != nil {
		return nil, err
	}

	w, err := s.watchers.FindWatcher(ctx, in.ObjectName, ident)
	switch {
	case errors.Is(err, store.ErrNotFound):
		now := s.now()
		w = &model.Watcher{
			WatcherType:   watcherType,
			ObjectName:    in.ObjectName,
			ObjectIdent:   ident,
			RefField:      refField,
			RefValue:      refValue,
			LastRefChange: &now,
		}
		if err := s.watchers.CreateWatcher(ctx, w); err != nil {
			return nil, fmt.Errorf("creating watcher: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("finding watcher: %w", err)
	default:
		if _, err := s.watchers.FindSubscription(ctx, userID, w.ID); err == nil {
			return nil, ErrAlreadySubscribed
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("finding subscription: %w", err)
		}
	}

	sub := &model.Subscription{
		UserID:         userID,
		WatcherID:      w.ID,
		Watcher:        w,
		Name:           in.Name,
		CustomizedLink: in.CustomizedLink,
	}
	if err := s.watchers.CreateSubscription(ctx, sub); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("creating subscription: %w", err)
	}
	return sub, nil
}

// resolve normalizes the object ident and returns the watcher reference
// field and its current value
func (s *Service) resolve(ctx context.Context, objectName, ident string) (string, string, string, error) {
	if objectName == ObjectQuery {
		if !strings.HasPrefix(ident, "/") {
			return "", "", "", invalid("object_ident", "Query must be an API path.")
		}
		count, err := s.counter.Count(ctx, ident)
		if err != nil {
			var reqErr *jsonapi.RequestError
			if errors.As(err, &reqErr) {
				return "", "", "", invalid("object_ident", reqErr.Detail)
			}
			return "", "", "", fmt.Errorf("counting query results: %w", err)
		}
		return ident, "count", strconv.FormatInt(count, 10), nil
	}

	id, ok := model.ParseIdent(ident)
	if !ok {
		return "", "", "", invalid("object_ident", "Invalid object identifier.")
	}
	var modified time.Time
	var err error
	switch objectName {
	case ObjectDataset:
		var d *model.Dataset
		if d, err = s.datasets.FetchDataset(ctx, id); err == nil {
			modified = d.ModifiedAt
		}
	case ObjectResource:
		var r *model.Resource
		if r, err = s.resources.FetchResource(ctx, id); err == nil {
			modified = r.ModifiedAt
		}
	case ObjectOrganization:
		var o *model.Organization
		if o, err = s.organizations.FetchOrganization(ctx, id); err == nil {
			modified = o.ModifiedAt
		}
	}
	if errors.Is(err, store.ErrNotFound) {
		return "", "", "", invalid("object_ident", "Object does not exist.")
	}
	if err != nil {
		return "", "", "", fmt.Errorf("fetching %s %d: %w", objectName, id, err)
	}
	return strconv.FormatUint(uint64(id), 10), "modified_at", RefTime(modified), nil
}

// RefTime formats a modification time as a watcher reference value
func RefTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func invalid(field, msg string) error {
	verr := jsonapi.NewValidationError()
	verr.Add(field, msg)
	return verr
}

// GetSubscription returns a subscription owned by userID
func (s *Service) GetSubscription(ctx context.Context, userID, id uint) (*model.Subscription, error) {
	sub, err := s.watchers.FetchSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, store.ErrNotFound
	}
	return sub, nil
}

// Unsubscribe removes a subscription owned by userID
func (s *Service) Unsubscribe(ctx context.Context, userID, id uint) (*model.Subscription, error) {
	sub, err := s.GetSubscription(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.watchers.DeleteSubscription(ctx, id); err != nil {
		return nil, fmt.Errorf("deleting subscription: %w", err)
	}
	return sub, nil
}

// ListSubscriptions returns a page of the user's subscriptions
func (s *Service) ListSubscriptions(ctx context.Context, userID uint, p jsonapi.ListParams) ([]model.Subscription, int64, error) {
	return s.watchers.ListSubscriptions(ctx, userID, p.Offset(), p.PerPage)
}

// ObjectChanged records a change of a watched object and notifies its
// subscribers. Objects nobody watches are ignored.
func (s *Service) ObjectChanged(ctx context.Context, objectName, ident string, nt model.NotificationType, refValue string) error {
	w, err := s.watchers.FindWatcher(ctx, objectName, ident)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("finding watcher: %w", err)
	}
	return s.notify(ctx, w, nt, refValue)
}

func (s *Service) notify(ctx context.Context, w *model.Watcher, nt model.NotificationType, refValue string) error {
	now := s.now()
	w.RefValue = refValue
	w.LastRefChange = &now
	if err := s.watchers.UpdateWatcher(ctx, w); err != nil {
		return fmt.Errorf("updating watcher %d: %w", w.ID, err)
	}

	subs, err := s.watchers.SubscriptionsForWatcher(ctx, w.ID)
	if err != nil {
		return fmt.Errorf("listing subscriptions of watcher %d: %w", w.ID, err)
	}
	if len(subs) == 0 {
		return nil
	}
	notifications := make([]model.Notification, 0, len(subs))
	for _, sub := range subs {
		notifications = append(notifications, model.Notification{
			SubscriptionID:   sub.ID,
			NotificationType: nt,
			Status:           model.NotificationStatusNew,
			RefValue:         refValue,
		})
	}
	if err := s.watchers.CreateNotifications(ctx, notifications); err != nil {
		return fmt.Errorf("creating notifications: %w", err)
	}
	s.logger.Debug("notified subscribers",
		zap.String("object", w.ObjectName),
		zap.String("ident", w.ObjectIdent),
		zap.Stringer("type", nt),
		zap.Int("subscriptions", len(subs)))
	return nil
}

// RefreshQueryWatchers recounts every saved search and notifies
// subscribers when the count went up or down. It returns the number of
// changed watchers.
func (s *Service) RefreshQueryWatchers(ctx context.Context) (int, error) {
	ws, err := s.watchers.ListQueryWatchers(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing query watchers: %w", err)
	}

	changed := 0
	for i := range ws {
		w := &ws[i]
		count, err := s.counter.Count(ctx, w.ObjectIdent)
		if err != nil {
			s.logger.Warn("counting query failed", zap.String("query", w.ObjectIdent), zap.Error(err))
			continue
		}
		prev, _ := strconv.ParseInt(w.RefValue, 10, 64)
		if count == prev {
			continue
		}
		nt := model.NotificationTypeResultCountIncresed
		if count < prev {
			nt = model.NotificationTypeResultCountDecreased
		}
		if err := s.notify(ctx, w, nt, strconv.FormatInt(count, 10)); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// Notifications returns a page of the user's notifications
func (s *Service) Notifications(ctx context.Context, userID uint, status *model.NotificationStatus, p jsonapi.ListParams) ([]model.Notification, int64, error) {
	return s.watchers.ListNotifications(ctx, userID, status, p.Offset(), p.PerPage)
}

// MarkRead marks the given notifications of the user as read
func (s *Service) MarkRead(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.watchers.MarkNotificationsRead(ctx, userID, ids)
}

// MarkAllRead marks every notification of the user as read
func (s *Service) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.watchers.MarkNotificationsRead(ctx, userID, nil)
}

// UnreadCount returns the number of new notifications of the user
func (s *Service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.watchers.CountNotifications(ctx, userID, model.NotificationStatusNew)
}
