package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

var _ store.SchedulesStore = (*SchedulesStore)(nil)

// SchedulesStore provides agent schedule storage using GORM
type SchedulesStore struct {
	db *gorm.DB
}

// NewSchedulesStore creates a new SchedulesStore
func NewSchedulesStore(db *gorm.DB) *SchedulesStore {
	return &SchedulesStore{db: db}
}

// PlannedSchedule returns the schedule in state planned
func (s *SchedulesStore) PlannedSchedule(ctx context.Context) (*model.Schedule, error) {
	var sch model.Schedule
	if err := s.db.WithContext(ctx).Where("state = ?", model.ScheduleStatePlanned).First(&sch).Error; err != nil {
		return nil, notFound(err)
	}
	return &sch, nil
}

// LatestSchedule returns the schedule with the latest start date
func (s *SchedulesStore) LatestSchedule(ctx context.Context) (*model.Schedule, error) {
	var sch model.Schedule
	if err := s.db.WithContext(ctx).Order("start_date DESC, id DESC").First(&sch).Error; err != nil {
		return nil, notFound(err)
	}
	return &sch, nil
}

func (s *SchedulesStore) FetchSchedule(ctx context.Context, id uint) (*model.Schedule, error) {
	var sch model.Schedule
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sch).Error; err != nil {
		return nil, notFound(err)
	}
	return &sch, nil
}

func (s *SchedulesStore) ListSchedules(ctx context.Context) ([]model.Schedule, error) {
	var schedules []model.Schedule
	tx := s.db.WithContext(ctx).Order("start_date DESC, id DESC").Find(&schedules)
	return schedules, tx.Error
}

// CreateSchedule inserts a schedule. The partial unique index on planned
// schedules turns a second planned schedule into ErrConflict.
func (s *SchedulesStore) CreateSchedule(ctx context.Context, sch *model.Schedule) error {
	return conflict(s.db.WithContext(ctx).Create(sch).Error)
}

func (s *SchedulesStore) UpdateSchedule(ctx context.Context, sch *model.Schedule) error {
	return conflict(s.db.WithContext(ctx).Save(sch).Error)
}

func (s *SchedulesStore) FindUserSchedule(ctx context.Context, scheduleID, userID uint) (*model.UserSchedule, error) {
	var us model.UserSchedule
	tx := s.db.WithContext(ctx).Where("schedule_id = ? AND user_id = ?", scheduleID, userID).First(&us)
	if tx.Error != nil {
		return nil, notFound(tx.Error)
	}
	return &us, nil
}

func (s *SchedulesStore) CreateUserSchedule(ctx context.Context, us *model.UserSchedule) error {
	return conflict(s.db.WithContext(ctx).Create(us).Error)
}

func (s *SchedulesStore) UpdateUserSchedule(ctx context.Context, us *model.UserSchedule) error {
	return s.db.WithContext(ctx).Save(us).Error
}

// ListItems returns the items of a schedule ordered by id
func (s *SchedulesStore) ListItems(ctx context.Context, scheduleID uint, userID *uint) ([]model.UserScheduleItem, error) {
	q := s.db.WithContext(ctx).
		Preload("UserSchedule").
		Joins("JOIN user_schedules us ON us.id = user_schedule_items.user_schedule_id").
		Where("us.schedule_id = ?", scheduleID)
	if userID != nil {
		q = q.Where("us.user_id = ?", *userID)
	}
	var items []model.UserScheduleItem
	tx := q.Order("user_schedule_items.id").Find(&items)
	return items, tx.Error
}

// FetchItem returns an item with its user schedule
func (s *SchedulesStore) FetchItem(ctx context.Context, id uint) (*model.UserScheduleItem, error) {
	var item model.UserScheduleItem
	tx := s.db.WithContext(ctx).Preload("UserSchedule").Where("user_schedule_items.id = ?", id).First(&item)
	if tx.Error != nil {
		return nil, notFound(tx.Error)
	}
	return &item, nil
}

func (s *SchedulesStore) CreateItem(ctx context.Context, item *model.UserScheduleItem) error {
	return s.db.WithContext(ctx).Omit("UserSchedule").Create(item).Error
}

func (s *SchedulesStore) UpdateItem(ctx context.Context, item *model.UserScheduleItem) error {
	return s.db.WithContext(ctx).Omit("UserSchedule").Save(item).Error
}

func (s *SchedulesStore) CountItems(ctx context.Context, userScheduleID uint) (int64, error) {
	var count int64
	tx := s.db.WithContext(ctx).Model(&model.UserScheduleItem{}).Where("user_schedule_id = ?", userScheduleID).Count(&count)
	return count, tx.Error
}
