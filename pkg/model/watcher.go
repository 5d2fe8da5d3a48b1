package model

import "time"

// Watcher tracks the reference value of a watched object or search query
type Watcher struct {
	ID            uint        `gorm:"primaryKey"`
	WatcherType   WatcherType `gorm:"type:text;not null"`
	ObjectName    string      `gorm:"not null"`
	ObjectIdent   string      `gorm:"not null"`
	RefField      string
	RefValue      string
	LastRefChange *time.Time
	CreatedAt     time.Time
}

func (Watcher) TableName() string {
	return "watchers"
}

// Subscription links a user to a watcher
type Subscription struct {
	ID             uint `gorm:"primaryKey"`
	UserID         uint `gorm:"not null"`
	WatcherID      uint `gorm:"not null"`
	Watcher        *Watcher
	Name           string
	CustomizedLink string
	CreatedAt      time.Time
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Notification is a change event delivered to a subscription
type Notification struct {
	ID               uint `gorm:"primaryKey"`
	SubscriptionID   uint `gorm:"not null;index"`
	Subscription     *Subscription
	NotificationType NotificationType   `gorm:"type:text;not null"`
	Status           NotificationStatus `gorm:"type:text;not null"`
	RefValue         string
	CreatedAt        time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
