package model

import (
	"time"

	"gorm.io/gorm"
)

// Organization is an institution publishing datasets on the portal
type Organization struct {
	ID              uint   `gorm:"primaryKey"`
	Slug            string `gorm:"uniqueIndex;not null"`
	Title           string `gorm:"not null"`
	Description     string
	InstitutionType InstitutionType `gorm:"type:text;not null"`
	Email           string
	Website         string
	Status          PublicationStatus `gorm:"type:text;not null"`
	CreatedAt       time.Time
	ModifiedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`

	// DatasetsCount is read from a computed column of list queries
	DatasetsCount int `gorm:"->"`
}

func (Organization) TableName() string {
	return "organizations"
}

// IsPublished reports whether the organization is publicly visible
func (o *Organization) IsPublished() bool {
	return o.Status == PublicationStatusPublished && !o.DeletedAt.Valid
}
