package store

import (
	"context"

	"github.com/otwartedane/mcod/pkg/model"
)

// SchedulesStore abstracts agent schedule storage
type SchedulesStore interface {
	// PlannedSchedule returns the schedule in state planned, or ErrNotFound
	PlannedSchedule(ctx context.Context) (*model.Schedule, error)
	// LatestSchedule returns the most recently started schedule, or ErrNotFound
	LatestSchedule(ctx context.Context) (*model.Schedule, error)
	FetchSchedule(ctx context.Context, id uint) (*model.Schedule, error)
	ListSchedules(ctx context.Context) ([]model.Schedule, error)
	CreateSchedule(ctx context.Context, s *model.Schedule) error
	UpdateSchedule(ctx context.Context, s *model.Schedule) error

	FindUserSchedule(ctx context.Context, scheduleID, userID uint) (*model.UserSchedule, error)
	CreateUserSchedule(ctx context.Context, us *model.UserSchedule) error
	UpdateUserSchedule(ctx context.Context, us *model.UserSchedule) error

	// ListItems returns the items of a schedule, optionally of one user
	ListItems(ctx context.Context, scheduleID uint, userID *uint) ([]model.UserScheduleItem, error)
	// FetchItem returns an item with its user schedule, or ErrNotFound
	FetchItem(ctx context.Context, id uint) (*model.UserScheduleItem, error)
	CreateItem(ctx context.Context, item *model.UserScheduleItem) error
	UpdateItem(ctx context.Context, item *model.UserScheduleItem) error
	CountItems(ctx context.Context, userScheduleID uint) (int64, error)
}
