package model

import "time"

// Schedule is a publication planning period for agents
type Schedule struct {
	ID         uint   `gorm:"primaryKey"`
	PeriodName string `gorm:"not null"`
	StartDate  time.Time
	EndDate    time.Time
	NewEndDate *time.Time
	Link       string
	State      ScheduleState `gorm:"type:text;not null"`
	IsBlocked  bool
	CreatedAt  time.Time
}

func (Schedule) TableName() string {
	return "schedules"
}

// UserSchedule is one agent's part of a schedule
type UserSchedule struct {
	ID         uint `gorm:"primaryKey"`
	ScheduleID uint `gorm:"not null"`
	UserID     uint `gorm:"not null"`
	IsReady    bool
	CreatedAt  time.Time
}

func (UserSchedule) TableName() string {
	return "user_schedules"
}

// UserScheduleItem is one planned dataset publication
type UserScheduleItem struct {
	ID                       uint `gorm:"primaryKey"`
	UserScheduleID           uint `gorm:"not null;index"`
	UserSchedule             *UserSchedule
	OrganizationName         string
	DatasetTitle             string
	Format                   string
	IsNew                    bool
	IsOpennessScoreIncreased bool
	IsQualityImproved        bool
	Description              string
	RecommendationState      RecommendationState `gorm:"type:text;not null"`
	RecommendationNotes      string
	IsResourceAdded          bool
	ResourceLink             string
	CreatedAt                time.Time
	ModifiedAt               time.Time `gorm:"autoUpdateTime"`
}

func (UserScheduleItem) TableName() string {
	return "user_schedule_items"
}
