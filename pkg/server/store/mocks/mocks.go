package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

var (
	_ store.HealthStore        = (*HealthStore)(nil)
	_ store.DatasetsStore      = (*DatasetsStore)(nil)
	_ store.ResourcesStore     = (*ResourcesStore)(nil)
	_ store.OrganizationsStore = (*OrganizationsStore)(nil)
	_ store.UsersStore         = (*UsersStore)(nil)
	_ store.WatchersStore      = (*WatchersStore)(nil)
	_ store.SchedulesStore     = (*SchedulesStore)(nil)
	_ store.DataSourcesStore   = (*DataSourcesStore)(nil)
	_ store.HarvestStore       = (*HarvestStore)(nil)
)

// HealthStore mocks store.HealthStore
type HealthStore struct {
	mock.Mock
}

func (m *HealthStore) CheckConnectivity(ctx context.Context) error {
	return m.Called().Error(0)
}

// DatasetsStore mocks store.DatasetsStore
type DatasetsStore struct {
	mock.Mock
}

func (m *DatasetsStore) ListDatasets(ctx context.Context, p jsonapi.ListParams) ([]model.Dataset, int64, error) {
	args := m.Called(p)
	return datasets(args.Get(0)), int64(args.Int(1)), args.Error(2)
}

func (m *DatasetsStore) CountDatasets(ctx context.Context, p jsonapi.ListParams) (int64, error) {
	args := m.Called(p)
	return int64(args.Int(0)), args.Error(1)
}

func (m *DatasetsStore) DatasetAggregations(ctx context.Context, p jsonapi.ListParams) (store.Aggregations, error) {
	args := m.Called(p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Aggregations), args.Error(1)
}

func (m *DatasetsStore) FetchDataset(ctx context.Context, id uint) (*model.Dataset, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dataset), args.Error(1)
}

func (m *DatasetsStore) ListDatasetResources(ctx context.Context, datasetID uint, p jsonapi.ListParams) ([]model.Resource, int64, error) {
	args := m.Called(datasetID, p)
	return resources(args.Get(0)), int64(args.Int(1)), args.Error(2)
}

func (m *DatasetsStore) ListCatalogDatasets(ctx context.Context, offset, limit int) ([]model.Dataset, int64, error) {
	args := m.Called(offset, limit)
	return datasets(args.Get(0)), int64(args.Int(1)), args.Error(2)
}

// ResourcesStore mocks store.ResourcesStore
type ResourcesStore struct {
	mock.Mock
}

func (m *ResourcesStore) ListResources(ctx context.Context, p jsonapi.ListParams) ([]model.Resource, int64, error) {
	args := m.Called(p)
	return resources(args.Get(0)), int64(args.Int(1)), args.Error(2)
}

func (m *ResourcesStore) FetchResource(ctx context.Context, id uint) (*model.Resource, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *ResourcesStore) ResourcesToCheck(ctx context.Context, datasetID *uint) ([]model.Resource, error) {
	args := m.Called(datasetID)
	return resources(args.Get(0)), args.Error(1)
}

func (m *ResourcesStore) UpdateLinkStatus(ctx context.Context, id uint, status model.LinkStatus, checkedAt time.Time) error {
	return m.Called(id, status, checkedAt).Error(0)
}

func (m *ResourcesStore) UpdateFormat(ctx context.Context, id uint, format, mediaType string, opennessScore int) error {
	return m.Called(id, format, mediaType, opennessScore).Error(0)
}

// OrganizationsStore mocks store.OrganizationsStore
type OrganizationsStore struct {
	mock.Mock
}

func (m *OrganizationsStore) ListOrganizations(ctx context.Context, p jsonapi.ListParams) ([]model.Organization, int64, error) {
	args := m.Called(p)
	var orgs []model.Organization
	if v := args.Get(0); v != nil {
		orgs = v.([]model.Organization)
	}
	return orgs, int64(args.Int(1)), args.Error(2)
}

func (m *OrganizationsStore) FetchOrganization(ctx context.Context, id uint) (*model.Organization, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

// UsersStore mocks store.UsersStore
type UsersStore struct {
	mock.Mock
}

func (m *UsersStore) FetchUser(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UsersStore) FetchUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UsersStore) CreateUser(ctx context.Context, u *model.User) error {
	return m.Called(u).Error(0)
}

// WatchersStore mocks store.WatchersStore
type WatchersStore struct {
	mock.Mock
}

func (m *WatchersStore) FindWatcher(ctx context.Context, objectName, objectIdent string) (*model.Watcher, error) {
	args := m.Called(objectName, objectIdent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Watcher), args.Error(1)
}

func (m *WatchersStore) CreateWatcher(ctx context.Context, w *model.Watcher) error {
	return m.Called(w).Error(0)
}

func (m *WatchersStore) UpdateWatcher(ctx context.Context, w *model.Watcher) error {
	return m.Called(w).Error(0)
}

func (m *WatchersStore) ListQueryWatchers(ctx context.Context) ([]model.Watcher, error) {
	args := m.Called()
	var ws []model.Watcher
	if v := args.Get(0); v != nil {
		ws = v.([]model.Watcher)
	}
	return ws, args.Error(1)
}

func (m *WatchersStore) FindSubscription(ctx context.Context, userID, watcherID uint) (*model.Subscription, error) {
	args := m.Called(userID, watcherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *WatchersStore) FetchSubscription(ctx context.Context, id uint) (*model.Subscription, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *WatchersStore) CreateSubscription(ctx context.Context, s *model.Subscription) error {
	return m.Called(s).Error(0)
}

func (m *WatchersStore) DeleteSubscription(ctx context.Context, id uint) error {
	return m.Called(id).Error(0)
}

func (m *WatchersStore) ListSubscriptions(ctx context.Context, userID uint, offset, limit int) ([]model.Subscription, int64, error) {
	args := m.Called(userID, offset, limit)
	return subscriptions(args.Get(0)), int64(args.Int(1)), args.Error(2)
}

func (m *WatchersStore) SubscriptionsForWatcher(ctx context.Context, watcherID uint) ([]model.Subscription, error) {
	args := m.Called(watcherID)
	return subscriptions(args.Get(0)), args.Error(1)
}

func (m *WatchersStore) CreateNotifications(ctx context.Context, ns []model.Notification) error {
	return m.Called(ns).Error(0)
}

func (m *WatchersStore) ListNotifications(ctx context.Context, userID uint, status *model.NotificationStatus, offset, limit int) ([]model.Notification, int64, error) {
	args := m.Called(userID, status, offset, limit)
	var ns []model.Notification
	if v := args.Get(0); v != nil {
		ns = v.([]model.Notification)
	}
	return ns, int64(args.Int(1)), args.Error(2)
}

func (m *WatchersStore) MarkNotificationsRead(ctx context.Context, userID uint, ids []uint) (int64, error) {
	args := m.Called(userID, ids)
	return int64(args.Int(0)), args.Error(1)
}

func (m *WatchersStore) CountNotifications(ctx context.Context, userID uint, status model.NotificationStatus) (int64, error) {
	args := m.Called(userID, status)
	return int64(args.Int(0)), args.Error(1)
}

// SchedulesStore mocks store.SchedulesStore
type SchedulesStore struct {
	mock.Mock
}

func (m *SchedulesStore) PlannedSchedule(ctx context.Context) (*model.Schedule, error) {
	args := m.Called()
	return schedule(args.Get(0)), args.Error(1)
}

func (m *SchedulesStore) LatestSchedule(ctx context.Context) (*model.Schedule, error) {
	args := m.Called()
	return schedule(args.Get(0)), args.Error(1)
}

func (m *SchedulesStore) FetchSchedule(ctx context.Context, id uint) (*model.Schedule, error) {
	args := m.Called(id)
	return schedule(args.Get(0)), args.Error(1)
}

func (m *SchedulesStore) ListSchedules(ctx context.Context) ([]model.Schedule, error) {
	args := m.Called()
	var ss []model.Schedule
	if v := args.Get(0); v != nil {
		ss = v.([]model.Schedule)
	}
	return ss, args.Error(1)
}

func (m *SchedulesStore) CreateSchedule(ctx context.Context, s *model.Schedule) error {
	return m.Called(s).Error(0)
}

func (m *SchedulesStore) UpdateSchedule(ctx context.Context, s *model.Schedule) error {
	return m.Called(s).Error(0)
}

func (m *SchedulesStore) FindUserSchedule(ctx context.Context, scheduleID, userID uint) (*model.UserSchedule, error) {
	args := m.Called(scheduleID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSchedule), args.Error(1)
}

func (m *SchedulesStore) CreateUserSchedule(ctx context.Context, us *model.UserSchedule) error {
	return m.Called(us).Error(0)
}

func (m *SchedulesStore) UpdateUserSchedule(ctx context.Context, us *model.UserSchedule) error {
	return m.Called(us).Error(0)
}

func (m *SchedulesStore) ListItems(ctx context.Context, scheduleID uint, userID *uint) ([]model.UserScheduleItem, error) {
	args := m.Called(scheduleID, userID)
	var items []model.UserScheduleItem
	if v := args.Get(0); v != nil {
		items = v.([]model.UserScheduleItem)
	}
	return items, args.Error(1)
}

func (m *SchedulesStore) FetchItem(ctx context.Context, id uint) (*model.UserScheduleItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserScheduleItem), args.Error(1)
}

func (m *SchedulesStore) CreateItem(ctx context.Context, item *model.UserScheduleItem) error {
	return m.Called(item).Error(0)
}

func (m *SchedulesStore) UpdateItem(ctx context.Context, item *model.UserScheduleItem) error {
	return m.Called(item).Error(0)
}

func (m *SchedulesStore) CountItems(ctx context.Context, userScheduleID uint) (int64, error) {
	args := m.Called(userScheduleID)
	return int64(args.Int(0)), args.Error(1)
}

// DataSourcesStore mocks store.DataSourcesStore
type DataSourcesStore struct {
	mock.Mock
}

func (m *DataSourcesStore) ListDataSources(ctx context.Context, activeOnly bool) ([]model.DataSource, error) {
	args := m.Called(activeOnly)
	var ss []model.DataSource
	if v := args.Get(0); v != nil {
		ss = v.([]model.DataSource)
	}
	return ss, args.Error(1)
}

func (m *DataSourcesStore) FetchDataSource(ctx context.Context, id uint) (*model.DataSource, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DataSource), args.Error(1)
}

func (m *DataSourcesStore) SaveDataSource(ctx context.Context, s *model.DataSource) error {
	return m.Called(s).Error(0)
}

func (m *DataSourcesStore) ListImports(ctx context.Context, sourceID uint, offset, limit int) ([]model.DataSourceImport, int64, error) {
	args := m.Called(sourceID, offset, limit)
	var imps []model.DataSourceImport
	if v := args.Get(0); v != nil {
		imps = v.([]model.DataSourceImport)
	}
	return imps, int64(args.Int(1)), args.Error(2)
}

// HarvestStore mocks store.HarvestStore
type HarvestStore struct {
	mock.Mock
}

func (m *HarvestStore) SourceDatasets(ctx context.Context, sourceID uint) ([]model.Dataset, error) {
	args := m.Called(sourceID)
	return datasets(args.Get(0)), args.Error(1)
}

func (m *HarvestStore) ForeignExtIdents(ctx context.Context, sourceID uint, idents []string) (map[string]bool, error) {
	args := m.Called(sourceID, idents)
	var out map[string]bool
	if v := args.Get(0); v != nil {
		out = v.(map[string]bool)
	}
	return out, args.Error(1)
}

func (m *HarvestStore) OrganizationIDs(ctx context.Context, slugs []string) (map[string]uint, error) {
	args := m.Called(slugs)
	var out map[string]uint
	if v := args.Get(0); v != nil {
		out = v.(map[string]uint)
	}
	return out, args.Error(1)
}

func (m *HarvestStore) SaveDataset(ctx context.Context, ds *model.Dataset) (store.DatasetChanges, error) {
	args := m.Called(ds)
	return args.Get(0).(store.DatasetChanges), args.Error(1)
}

func (m *HarvestStore) DeleteDatasets(ctx context.Context, ids []uint) (int, error) {
	args := m.Called(ids)
	return args.Int(0), args.Error(1)
}

func (m *HarvestStore) FinishImport(ctx context.Context, source *model.DataSource, imp *model.DataSourceImport) error {
	return m.Called(source, imp).Error(0)
}

func datasets(v interface{}) []model.Dataset {
	if v == nil {
		return nil
	}
	return v.([]model.Dataset)
}

func resources(v interface{}) []model.Resource {
	if v == nil {
		return nil
	}
	return v.([]model.Resource)
}

func subscriptions(v interface{}) []model.Subscription {
	if v == nil {
		return nil
	}
	return v.([]model.Subscription)
}

func schedule(v interface{}) *model.Schedule {
	if v == nil {
		return nil
	}
	return v.(*model.Schedule)
}
