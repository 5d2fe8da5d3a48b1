package model

import (
	"time"
)

// DataSource is an external catalog harvested into the portal
type DataSource struct {
	ID                              uint   `gorm:"primaryKey"`
	Name                            string `gorm:"uniqueIndex;not null"`
	Description                     string
	SourceType                      SourceType `gorm:"type:text;not null"`
	APIURL                          string     `gorm:"column:api_url"`
	XMLURL                          string     `gorm:"column:xml_url"`
	DCATURL                         string     `gorm:"column:dcat_url"`
	OrganizationID                  *uint
	Organization                    *Organization
	FrequencyInDays                 int
	Active                          bool
	LicenseConditionDBOrCopyrighted string `gorm:"column:license_condition_db_or_copyrighted"`
	Emails                          string
	LastImportAt                    *time.Time
	LastImportStatus                string
	CreatedAt                       time.Time
	ModifiedAt                      time.Time `gorm:"autoUpdateTime"`
}

func (DataSource) TableName() string {
	return "data_sources"
}

// SourceURL returns the URL used by the source's adapter
func (s *DataSource) SourceURL() string {
	switch s.SourceType {
	case SourceTypeXml:
		return s.XMLURL
	case SourceTypeDcat:
		return s.DCATURL
	default:
		return s.APIURL
	}
}

// Frequency returns the harvesting interval
func (s *DataSource) Frequency() time.Duration {
	days := s.FrequencyInDays
	if days <= 0 {
		days = 1
	}
	return time.Duration(days) * 24 * time.Hour
}

// DataSourceImport records one harvest run
type DataSourceImport struct {
	ID               uint   `gorm:"primaryKey"`
	RunID            string `gorm:"uniqueIndex;not null"`
	DataSourceID     uint   `gorm:"not null;index"`
	Start            time.Time
	End              *time.Time
	Status           ImportStatus `gorm:"type:text;not null"`
	ErrorDesc        string
	DatasetsCount    int
	DatasetsCreated  int
	DatasetsUpdated  int
	DatasetsDeleted  int
	ResourcesCount   int
	ResourcesCreated int
	ResourcesUpdated int
	ResourcesDeleted int
	InvalidCount     int
	ErrorDetails     string `gorm:"type:text"`
}

func (DataSourceImport) TableName() string {
	return "data_source_imports"
}
