package model

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// HighValueCategories are the EU high-value dataset categories
var HighValueCategories = []string{
	"meteorological",
	"companies-and-company-ownership",
	"geospatial",
	"mobility",
	"earth-observation-and-environment",
	"statistics",
}

// IsHighValueCategory reports whether code is a known high-value category
func IsHighValueCategory(code string) bool {
	for _, c := range HighValueCategories {
		if c == code {
			return true
		}
	}
	return false
}

// Category is a thematic dataset category
type Category struct {
	ID    uint   `gorm:"primaryKey"`
	Code  string `gorm:"uniqueIndex;not null"`
	Title string `gorm:"not null"`
}

func (Category) TableName() string {
	return "categories"
}

// Tag is a keyword in a given language
type Tag struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	Language string `gorm:"not null;default:pl"`
}

func (Tag) TableName() string {
	return "tags"
}

// Dataset is a described collection of resources
type Dataset struct {
	ID              uint   `gorm:"primaryKey"`
	Slug            string `gorm:"not null"`
	Title           string `gorm:"not null"`
	Notes           string
	OrganizationID  uint
	Organization    *Organization
	Categories      []Category `gorm:"many2many:dataset_categories;"`
	Tags            []Tag      `gorm:"many2many:dataset_tags;"`
	Resources       []Resource
	LicenseCode     string
	URL             string `gorm:"column:url"`
	UpdateFrequency string
	Status          PublicationStatus `gorm:"type:text;not null"`
	IsHighValue     bool
	HVDCategories   pq.StringArray `gorm:"column:hvd_categories;type:text[]"`
	HasDynamicData  bool
	HasResearchData bool
	SourceID        *uint
	Source          *DataSource
	ExtIdent        string
	ViewsCount      int
	DownloadsCount  int
	VerifiedAt      *time.Time
	CreatedAt       time.Time
	ModifiedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Dataset) TableName() string {
	return "datasets"
}

// IsPublished reports whether the dataset is publicly visible
func (d *Dataset) IsPublished() bool {
	return d.Status == PublicationStatusPublished && !d.DeletedAt.Valid
}

// IdentSlug returns the "id,slug" form used in public URLs
func (d *Dataset) IdentSlug() string {
	return strconv.FormatUint(uint64(d.ID), 10) + "," + d.Slug
}

// Formats returns the distinct formats of the dataset's loaded resources
func (d *Dataset) Formats() []string {
	seen := map[string]bool{}
	var formats []string
	for _, r := range d.Resources {
		f := strings.ToLower(r.Format)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// TagNames returns tag names, optionally restricted to one language
func (d *Dataset) TagNames(language string) []string {
	names := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		if language == "" || t.Language == language {
			names = append(names, t.Name)
		}
	}
	return names
}

// SameContent reports whether d and o describe the same dataset. Ids,
// timestamps and counters are ignored and resources are matched by
// ExtIdent.
func (d *Dataset) SameContent(o *Dataset) bool {
	if d.Slug != o.Slug ||
		d.Title != o.Title ||
		d.Notes != o.Notes ||
		d.OrganizationID != o.OrganizationID ||
		d.LicenseCode != o.LicenseCode ||
		d.URL != o.URL ||
		d.UpdateFrequency != o.UpdateFrequency ||
		d.Status != o.Status ||
		d.IsHighValue != o.IsHighValue ||
		d.HasDynamicData != o.HasDynamicData ||
		d.HasResearchData != o.HasResearchData ||
		d.ExtIdent != o.ExtIdent ||
		!slices.Equal(d.HVDCategories, o.HVDCategories) {
		return false
	}
	if !slices.Equal(d.categoryCodes(), o.categoryCodes()) || !slices.Equal(d.tagKeys(), o.tagKeys()) {
		return false
	}

	if len(d.Resources) != len(o.Resources) {
		return false
	}
	other := make(map[string]*Resource, len(o.Resources))
	for i := range o.Resources {
		other[o.Resources[i].ExtIdent] = &o.Resources[i]
	}
	for i := range d.Resources {
		r, ok := other[d.Resources[i].ExtIdent]
		if !ok || !d.Resources[i].SameContent(r) {
			return false
		}
	}
	return true
}

func (d *Dataset) categoryCodes() []string {
	codes := make([]string, 0, len(d.Categories))
	for _, c := range d.Categories {
		codes = append(codes, c.Code)
	}
	sort.Strings(codes)
	return slices.Compact(codes)
}

func (d *Dataset) tagKeys() []string {
	keys := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		lang := t.Language
		if lang == "" {
			lang = "pl"
		}
		keys = append(keys, lang+":"+t.Name)
	}
	sort.Strings(keys)
	return slices.Compact(keys)
}

// ParseIdent extracts the numeric id from "123" or "123,slug"
func ParseIdent(ident string) (uint, bool) {
	if i := strings.IndexByte(ident, ','); i >= 0 {
		ident = ident[:i]
	}
	id, err := strconv.ParseUint(ident, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// HVDCategoryBase is the EU vocabulary of high-value dataset categories
const HVDCategoryBase = "http://data.europa.eu/bna/"

var hvdCategoryIDs = map[string]string{
	"meteorological":                    "c_164e0bf5",
	"companies-and-company-ownership":   "c_a9135398",
	"geospatial":                        "c_ac64a52d",
	"mobility":                          "c_b79e35eb",
	"earth-observation-and-environment": "c_dd313021",
	"statistics":                        "c_e1da4e07",
}

// HVDCategoryURI returns the vocabulary IRI of a high-value category code
func HVDCategoryURI(code string) (string, bool) {
	id, ok := hvdCategoryIDs[code]
	if !ok {
		return "", false
	}
	return HVDCategoryBase + id, true
}

// HVDCategoryFromURI returns the category code of a vocabulary IRI. Plain
// codes are accepted as well.
func HVDCategoryFromURI(uri string) (string, bool) {
	if IsHighValueCategory(uri) {
		return uri, true
	}
	id := strings.TrimPrefix(strings.TrimRight(uri, "/"), HVDCategoryBase)
	for code, v := range hvdCategoryIDs {
		if v == id {
			return code, true
		}
	}
	return "", false
}
