package schedules

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/otwartedane/mcod/pkg/audit"
	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/logging"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// ErrNotAllowed is returned when the user may not perform an operation in
// the current state of the schedule
var ErrNotAllowed = errors.New("operation not allowed")

// ScheduleInput describes a new schedule
type ScheduleInput struct {
	PeriodName string    `json:"period_name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Link       string    `json:"link"`
}

// ScheduleUpdate holds the changed attributes of a schedule
type ScheduleUpdate struct {
	State      *string    `json:"state"`
	IsBlocked  *bool      `json:"is_blocked"`
	NewEndDate *time.Time `json:"new_end_date"`
	Link       *string    `json:"link"`
}

// ItemInput describes a planned dataset publication
type ItemInput struct {
	OrganizationName         string `json:"organization_name"`
	DatasetTitle             string `json:"dataset_title"`
	Format                   string `json:"format"`
	IsNew                    bool   `json:"is_new"`
	IsOpennessScoreIncreased bool   `json:"is_openness_score_increased"`
	IsQualityImproved        bool   `json:"is_quality_improved"`
	Description              string `json:"description"`
}

// ItemUpdate holds the changed attributes of an item
type ItemUpdate struct {
	OrganizationName         *string `json:"organization_name"`
	DatasetTitle             *string `json:"dataset_title"`
	Format                   *string `json:"format"`
	IsNew                    *bool   `json:"is_new"`
	IsOpennessScoreIncreased *bool   `json:"is_openness_score_increased"`
	IsQualityImproved        *bool   `json:"is_quality_improved"`
	Description              *string `json:"description"`
	RecommendationState      *string `json:"recommendation_state"`
	RecommendationNotes      *string `json:"recommendation_notes"`
	IsResourceAdded          *bool   `json:"is_resource_added"`
	ResourceLink             *string `json:"resource_link"`
}

func (u ItemUpdate) changesPlan() bool {
	return u.OrganizationName != nil || u.DatasetTitle != nil || u.Format != nil ||
		u.IsNew != nil || u.IsOpennessScoreIncreased != nil || u.IsQualityImproved != nil ||
		u.Description != nil
}

func (u ItemUpdate) changesRecommendation() bool {
	return u.RecommendationState != nil || u.RecommendationNotes != nil
}

func (u ItemUpdate) changesImplementation() bool {
	return u.IsResourceAdded != nil || u.ResourceLink != nil
}

// Service implements the schedule workflow
type Service struct {
	store  store.SchedulesStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a Service
func NewService(s store.SchedulesStore, logger *zap.Logger) *Service {
	return &Service{store: s, logger: logging.OrNop(logger), now: time.Now}
}

// CreateSchedule opens a new planned schedule. Only one planned schedule
// may exist at a time.
func (s *Service) CreateSchedule(ctx context.Context, user *model.User, in ScheduleInput) (*model.Schedule, error) {
	if !user.HasRole(model.UserRoleAdmin) {
		return nil, ErrNotAllowed
	}
	verr := jsonapi.NewValidationError()
	if strings.TrimSpace(in.PeriodName) == "" {
		verr.Add("period_name", "This field is required.")
	}
	if in.StartDate.IsZero() {
		verr.Add("start_date", "This field is required.")
	}
	if in.EndDate.IsZero() {
		verr.Add("end_date", "This field is required.")
	} else if in.EndDate.Before(in.StartDate) {
		verr.Add("end_date", "End date must not be before start date.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.store.PlannedSchedule(ctx); err == nil {
		return nil, fmt.Errorf("%w: a planned schedule already exists", store.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	sch := &model.Schedule{
		PeriodName: strings.TrimSpace(in.PeriodName),
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Link:       in.Link,
		State:      model.ScheduleStatePlanned,
	}
	if err := s.store.CreateSchedule(ctx, sch); err != nil {
		return nil, fmt.Errorf("creating schedule: %w", err)
	}
	audit.Log(audit.ScheduleEvent{UserID: user.ID, ScheduleID: sch.ID, Operation: "create", Detail: sch.PeriodName})
	return sch, nil
}

// UpdateSchedule applies an administrator's change: a state transition,
// blocking, a new end date or link
func (s *Service) UpdateSchedule(ctx context.Context, user *model.User, id uint, in ScheduleUpdate) (*model.Schedule, error) {
	if !user.HasRole(model.UserRoleAdmin) {
		return nil, ErrNotAllowed
	}
	sch, err := s.store.FetchSchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.State != nil {
		next, err := model.ScheduleStateString(*in.State)
		if err != nil {
			return nil, invalid("state", "Unknown state.")
		}
		if next != sch.State {
			if !canTransition(sch.State, next) {
				return nil, invalid("state", fmt.Sprintf("Cannot change state from %s to %s.", sch.State, next))
			}
			s.logger.Info("schedule state changed", zap.Uint("schedule", sch.ID), zap.Stringer("from", sch.State), zap.Stringer("to", next))
			sch.State = next
			audit.Log(audit.ScheduleEvent{UserID: user.ID, ScheduleID: sch.ID, Operation: "state", Detail: next.String()})
		}
	}
	if in.IsBlocked != nil && *in.IsBlocked != sch.IsBlocked {
		sch.IsBlocked = *in.IsBlocked
		op := "unblock"
		if sch.IsBlocked {
			op = "block"
		}
		audit.Log(audit.ScheduleEvent{UserID: user.ID, ScheduleID: sch.ID, Operation: op})
	}
	if in.NewEndDate != nil {
		if in.NewEndDate.Before(sch.StartDate) {
			return nil, invalid("new_end_date", "End date must not be before start date.")
		}
		sch.NewEndDate = in.NewEndDate
	}
	if in.Link != nil {
		sch.Link = *in.Link
	}

	if err := s.store.UpdateSchedule(ctx, sch); err != nil {
		return nil, fmt.Errorf("updating schedule: %w", err)
	}
	return sch, nil
}

// ChangeState moves a schedule to state
func (s *Service) ChangeState(ctx context.Context, user *model.User, id uint, state model.ScheduleState) (*model.Schedule, error) {
	name := state.String()
	return s.UpdateSchedule(ctx, user, id, ScheduleUpdate{State: &name})
}

// SetBlocked blocks or unblocks a schedule
func (s *Service) SetBlocked(ctx context.Context, user *model.User, id uint, blocked bool) (*model.Schedule, error) {
	return s.UpdateSchedule(ctx, user, id, ScheduleUpdate{IsBlocked: &blocked})
}

func canTransition(from, to model.ScheduleState) bool {
	switch from {
	case model.ScheduleStatePlanned:
		return to == model.ScheduleStateImplemented
	case model.ScheduleStateImplemented:
		return to == model.ScheduleStateArchived
	}
	return false
}

// CurrentSchedule returns the planned schedule, or the latest one when
// none is planned
func (s *Service) CurrentSchedule(ctx context.Context) (*model.Schedule, error) {
	sch, err := s.store.PlannedSchedule(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return s.store.LatestSchedule(ctx)
	}
	return sch, err
}

// Schedules lists all schedules
func (s *Service) Schedules(ctx context.Context) ([]model.Schedule, error) {
	return s.store.ListSchedules(ctx)
}

// Schedule returns one schedule
func (s *Service) Schedule(ctx context.Context, id uint) (*model.Schedule, error) {
	return s.store.FetchSchedule(ctx, id)
}

// UserSchedule returns the user's part of a schedule, creating it on
// first use
func (s *Service) UserSchedule(ctx context.Context, scheduleID uint, user *model.User) (*model.UserSchedule, error) {
	if !user.HasRole(model.UserRoleAgent) {
		return nil, ErrNotAllowed
	}
	us, err := s.store.FindUserSchedule(ctx, scheduleID, user.ID)
	if err == nil {
		return us, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	us = &model.UserSchedule{ScheduleID: scheduleID, UserID: user.ID}
	if err := s.store.CreateUserSchedule(ctx, us); err != nil {
		return nil, fmt.Errorf("creating user schedule: %w", err)
	}
	return us, nil
}

// AddItem adds an item to the user's part of the planned schedule
func (s *Service) AddItem(ctx context.Context, user *model.User, in ItemInput) (*model.UserScheduleItem, error) {
	if !user.HasRole(model.UserRoleAgent) {
		return nil, ErrNotAllowed
	}
	sch, err := s.store.PlannedSchedule(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: no planned schedule", ErrNotAllowed)
	}
	if err != nil {
		return nil, err
	}
	if sch.IsBlocked {
		return nil, fmt.Errorf("%w: schedule is blocked", ErrNotAllowed)
	}

	verr := jsonapi.NewValidationError()
	required(verr, "organization_name", in.OrganizationName)
	required(verr, "dataset_title", in.DatasetTitle)
	required(verr, "format", in.Format)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	us, err := s.UserSchedule(ctx, sch.ID, user)
	if err != nil {
		return nil, err
	}
	if us.IsReady {
		return nil, fmt.Errorf("%w: schedule already marked ready", ErrNotAllowed)
	}

	item := &model.UserScheduleItem{
		UserScheduleID:           us.ID,
		UserSchedule:             us,
		OrganizationName:         strings.TrimSpace(in.OrganizationName),
		DatasetTitle:             strings.TrimSpace(in.DatasetTitle),
		Format:                   strings.ToLower(strings.TrimSpace(in.Format)),
		IsNew:                    in.IsNew,
		IsOpennessScoreIncreased: in.IsOpennessScoreIncreased,
		IsQualityImproved:        in.IsQualityImproved,
		Description:              in.Description,
		RecommendationState:      model.RecommendationStateAwaits,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return item, nil
}

// UpdateItem changes an item. Owners change planning fields while the
// schedule is open and implementation fields once it is implemented.
// Recommendation fields are reserved for administrators.
func (s *Service) UpdateItem(ctx context.Context, user *model.User, id uint, in ItemUpdate) (*model.UserScheduleItem, error) {
	item, err := s.store.FetchItem(ctx, id)
	if err != nil {
		return nil, err
	}
	isAdmin := user.HasRole(model.UserRoleAdmin)
	if item.UserSchedule == nil || (item.UserSchedule.UserID != user.ID && !isAdmin) {
		return nil, store.ErrNotFound
	}
	sch, err := s.store.FetchSchedule(ctx, item.UserSchedule.ScheduleID)
	if err != nil {
		return nil, err
	}

	if in.changesPlan() {
		if sch.State != model.ScheduleStatePlanned || sch.IsBlocked {
			return nil, fmt.Errorf("%w: schedule is not open for planning", ErrNotAllowed)
		}
		if item.UserSchedule.IsReady && !isAdmin {
			return nil, fmt.Errorf("%w: schedule already marked ready", ErrNotAllowed)
		}
	}
	if in.changesRecommendation() && !isAdmin {
		return nil, fmt.Errorf("%w: only administrators give recommendations", ErrNotAllowed)
	}

	verr := jsonapi.NewValidationError()
	if in.changesImplementation() && sch.State != model.ScheduleStateImplemented {
		verr.Add("is_resource_added", "Implementation can be reported only for implemented schedules.")
	}
	setString(verr, "organization_name", in.OrganizationName, &item.OrganizationName, true)
	setString(verr, "dataset_title", in.DatasetTitle, &item.DatasetTitle, true)
	setString(verr, "format", in.Format, &item.Format, true)
	setString(verr, "description", in.Description, &item.Description, false)
	setBool(in.IsNew, &item.IsNew)
	setBool(in.IsOpennessScoreIncreased, &item.IsOpennessScoreIncreased)
	setBool(in.IsQualityImproved, &item.IsQualityImproved)
	setString(verr, "recommendation_notes", in.RecommendationNotes, &item.RecommendationNotes, false)
	if in.RecommendationState != nil {
		state, err := model.RecommendationStateString(*in.RecommendationState)
		if err != nil {
			verr.Add("recommendation_state", "Unknown recommendation state.")
		} else {
			item.RecommendationState = state
		}
	}
	if item.RecommendationState == model.RecommendationStateRejected && strings.TrimSpace(item.RecommendationNotes) == "" {
		verr.Add("recommendation_notes", "Notes are required when rejecting an item.")
	}
	setBool(in.IsResourceAdded, &item.IsResourceAdded)
	setString(verr, "resource_link", in.ResourceLink, &item.ResourceLink, false)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	item.Format = strings.ToLower(item.Format)

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return item, nil
}

// MarkReady marks the user's part of the planned schedule as complete
func (s *Service) MarkReady(ctx context.Context, user *model.User) (*model.UserSchedule, error) {
	if !user.HasRole(model.UserRoleAgent) {
		return nil, ErrNotAllowed
	}
	sch, err := s.store.PlannedSchedule(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: no planned schedule", ErrNotAllowed)
	}
	if err != nil {
		return nil, err
	}
	us, err := s.store.FindUserSchedule(ctx, sch.ID, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalid("is_ready", "Add at least one item first.")
	}
	if err != nil {
		return nil, err
	}
	if us.IsReady {
		return us, nil
	}
	n, err := s.store.CountItems(ctx, us.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, invalid("is_ready", "Add at least one item first.")
	}
	us.IsReady = true
	if err := s.store.UpdateUserSchedule(ctx, us); err != nil {
		return nil, fmt.Errorf("updating user schedule: %w", err)
	}
	audit.Log(audit.ScheduleEvent{UserID: user.ID, ScheduleID: sch.ID, Operation: "ready"})
	return us, nil
}

// Items returns the items of a schedule visible to user: all of them for
// administrators, the user's own otherwise
func (s *Service) Items(ctx context.Context, user *model.User, scheduleID uint) ([]model.UserScheduleItem, error) {
	if !user.HasRole(model.UserRoleAgent) {
		return nil, ErrNotAllowed
	}
	if _, err := s.store.FetchSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	var owner *uint
	if !user.HasRole(model.UserRoleAdmin) {
		owner = &user.ID
	}
	return s.store.ListItems(ctx, scheduleID, owner)
}

func required(verr *jsonapi.ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		verr.Add(field, "This field is required.")
	}
}

func setString(verr *jsonapi.ValidationError, field string, in *string, dst *string, req bool) {
	if in == nil {
		return
	}
	if req {
		required(verr, field, *in)
	}
	*dst = strings.TrimSpace(*in)
}

func setBool(in *bool, dst *bool) {
	if in != nil {
		*dst = *in
	}
}

func invalid(field, msg string) error {
	verr := jsonapi.NewValidationError()
	verr.Add(field, msg)
	return verr
}
