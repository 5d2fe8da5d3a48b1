package model

import (
	"time"

	"gorm.io/gorm"
)

// Resource is a single distribution of a dataset
type Resource struct {
	ID                    uint `gorm:"primaryKey"`
	DatasetID             uint `gorm:"not null;index"`
	Dataset               *Dataset
	Title                 string `gorm:"not null"`
	Description           string
	Link                  string
	Format                string
	MediaType             string
	FileSize              int64
	Type                  ResourceType      `gorm:"type:text;not null"`
	Status                PublicationStatus `gorm:"type:text;not null"`
	OpennessScore         int
	ContainsProtectedData bool
	IsHighValue           bool
	LinkStatus            LinkStatus `gorm:"type:text;not null"`
	LinkCheckedAt         *time.Time
	ExtIdent              string
	DataDate              *time.Time
	CreatedAt             time.Time
	ModifiedAt            time.Time      `gorm:"autoUpdateTime"`
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

func (Resource) TableName() string {
	return "resources"
}

// IsPublished reports whether the resource is publicly visible
func (r *Resource) IsPublished() bool {
	return r.Status == PublicationStatusPublished && !r.DeletedAt.Valid
}

// SameContent reports whether r and o carry the same harvested content.
// Ids, timestamps and link check results are ignored.
func (r *Resource) SameContent(o *Resource) bool {
	return r.ExtIdent == o.ExtIdent &&
		r.Title == o.Title &&
		r.Description == o.Description &&
		r.Link == o.Link &&
		r.Format == o.Format &&
		r.MediaType == o.MediaType &&
		r.OpennessScore == o.OpennessScore &&
		r.Type == o.Type &&
		r.Status == o.Status &&
		r.ContainsProtectedData == o.ContainsProtectedData &&
		r.IsHighValue == o.IsHighValue &&
		sameTime(r.DataDate, o.DataDate)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
