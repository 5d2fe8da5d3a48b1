package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

var _ store.DatasetsStore = (*DatasetsStore)(nil)

var datasetSorts = map[string]string{
	"id":          "datasets.id",
	"title":       "datasets.title",
	"created":     "datasets.created_at",
	"modified":    "datasets.modified_at",
	"views_count": "datasets.views_count",
}

var resourceSorts = map[string]string{
	"id":      "resources.id",
	"title":   "resources.title",
	"created": "resources.created_at",
	"format":  "resources.format",
}

// DatasetsStore provides dataset search operations using GORM
type DatasetsStore struct {
	db *gorm.DB
}

// NewDatasetsStore creates a new DatasetsStore
func NewDatasetsStore(db *gorm.DB) *DatasetsStore {
	return &DatasetsStore{db: db}
}

func (s *DatasetsStore) published(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Dataset{}).
		Where("datasets.status = ?", model.PublicationStatusPublished)
}

func publishedResources(db *gorm.DB) *gorm.DB {
	return db.Where("resources.status = ?", model.PublicationStatusPublished).Order("resources.id")
}

// filtered returns published datasets narrowed by the search and filters of p
func (s *DatasetsStore) filtered(ctx context.Context, p jsonapi.ListParams) (*gorm.DB, error) {
	q := s.published(ctx)

	if p.Query != "" {
		pattern := likePattern(p.Query)
		q = q.Where("(datasets.title ILIKE ? OR datasets.notes ILIKE ?)", pattern, pattern)
	}
	if f, ok := p.Filter("id", jsonapi.OpID); ok {
		q = q.Where("datasets.id IN ?", filterIDs(f))
	}
	for _, field := range []string{"institution", "organization"} {
		if f, ok := p.Filter(field, jsonapi.OpID); ok {
			q = q.Where("datasets.organization_id IN ?", filterIDs(f))
		}
	}
	if f, ok := p.Filter("categories", jsonapi.OpID); ok {
		q = q.Where("datasets.id IN (SELECT dataset_id FROM dataset_categories WHERE category_id IN ?)", filterIDs(f))
	}
	if f, ok := p.Filter("categories", jsonapi.OpTerms); ok {
		q = q.Where(`datasets.id IN (SELECT dc.dataset_id FROM dataset_categories dc
			JOIN categories c ON c.id = dc.category_id WHERE c.code IN ?)`, lowerAll(f.Values()))
	}

	var tags []string
	if f, ok := p.Filter("tags", jsonapi.OpTerms); ok {
		tags = append(tags, f.Values()...)
	}
	if f, ok := p.Filter("tags", jsonapi.OpTerm); ok {
		tags = append(tags, f.Value)
	}
	if len(tags) > 0 {
		q = q.Where(`datasets.id IN (SELECT dt.dataset_id FROM dataset_tags dt
			JOIN tags t ON t.id = dt.tag_id WHERE lower(t.name) IN ?)`, lowerAll(tags))
	}

	var formats []string
	if f, ok := p.Filter("formats", jsonapi.OpTerms); ok {
		formats = append(formats, f.Values()...)
	}
	if f, ok := p.Filter("formats", jsonapi.OpTerm); ok {
		formats = append(formats, f.Value)
	}
	if len(formats) > 0 {
		q = q.Where(`datasets.id IN (SELECT r.dataset_id FROM resources r
			WHERE r.deleted_at IS NULL AND r.status = ? AND lower(r.format) IN ?)`,
			model.PublicationStatusPublished, lowerAll(formats))
	}

	q = applyTerms(q, p, "license_code", "datasets.license_code", false)

	for _, field := range []string{"is_high_value", "has_dynamic_data", "has_research_data"} {
		if f, ok := p.Filter(field, jsonapi.OpTerm); ok {
			b, err := f.Bool()
			if err != nil {
				return nil, err
			}
			q = q.Where("datasets."+field+" = ?", b)
		}
	}

	var err error
	if q, err = applyRange(q, p, "created", "datasets.created_at"); err != nil {
		return nil, err
	}
	if q, err = applyRange(q, p, "modified", "datasets.modified_at"); err != nil {
		return nil, err
	}

	if f, ok := p.Filter("source", jsonapi.OpID); ok {
		q = q.Where("datasets.source_id IN ?", filterIDs(f))
	}
	if f, ok := p.Filter("source", jsonapi.OpExists); ok {
		exists, err := f.Bool()
		if err != nil {
			return nil, err
		}
		if exists {
			q = q.Where("datasets.source_id IS NOT NULL")
		} else {
			q = q.Where("datasets.source_id IS NULL")
		}
	}
	return q, nil
}

// ListDatasets returns a page of published datasets matching p
func (s *DatasetsStore) ListDatasets(ctx context.Context, p jsonapi.ListParams) ([]model.Dataset, int64, error) {
	count, err := s.CountDatasets(ctx, p)
	if err != nil {
		return nil, 0, err
	}

	q, err := s.filtered(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	var datasets []model.Dataset
	tx := q.
		Preload("Organization").
		Preload("Categories").
		Preload("Tags").
		Preload("Resources", publishedResources).
		Order(orderBy(p.Sort, datasetSorts)).
		Offset(p.Offset()).
		Limit(p.PerPage).
		Find(&datasets)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return datasets, count, nil
}

// CountDatasets returns the number of published datasets matching p
func (s *DatasetsStore) CountDatasets(ctx context.Context, p jsonapi.ListParams) (int64, error) {
	q, err := s.filtered(ctx, p)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DatasetAggregations returns the facet counts of the datasets matching p
func (s *DatasetsStore) DatasetAggregations(ctx context.Context, p jsonapi.ListParams) (store.Aggregations, error) {
	facets := []struct {
		name  string
		query func(q *gorm.DB) *gorm.DB
	}{
		{"by_institution", func(q *gorm.DB) *gorm.DB {
			return q.Joins("JOIN organizations o ON o.id = datasets.organization_id").
				Select("o.id::text AS key, o.title AS title, count(*) AS doc_count").
				Group("o.id, o.title")
		}},
		{"by_category", func(q *gorm.DB) *gorm.DB {
			return q.Joins("JOIN dataset_categories dc ON dc.dataset_id = datasets.id").
				Joins("JOIN categories c ON c.id = dc.category_id").
				Select("c.code AS key, c.title AS title, count(*) AS doc_count").
				Group("c.code, c.title")
		}},
		{"by_format", func(q *gorm.DB) *gorm.DB {
			return q.Joins("JOIN resources r ON r.dataset_id = datasets.id AND r.deleted_at IS NULL AND r.status = ? AND r.format <> ''",
				model.PublicationStatusPublished).
				Select("lower(r.format) AS key, lower(r.format) AS title, count(DISTINCT datasets.id) AS doc_count").
				Group("lower(r.format)")
		}},
		{"by_license", func(q *gorm.DB) *gorm.DB {
			return q.Where("datasets.license_code <> ''").
				Select("datasets.license_code AS key, datasets.license_code AS title, count(*) AS doc_count").
				Group("datasets.license_code")
		}},
	}

	aggs := store.Aggregations{}
	for _, facet := range facets {
		q, err := s.filtered(ctx, p)
		if err != nil {
			return nil, err
		}
		buckets := []store.Bucket{}
		if err := facet.query(q).Order("doc_count DESC, key").Scan(&buckets).Error; err != nil {
			return nil, err
		}
		aggs[facet.name] = buckets
	}
	return aggs, nil
}

// FetchDataset returns a published dataset with its relations
func (s *DatasetsStore) FetchDataset(ctx context.Context, id uint) (*model.Dataset, error) {
	var ds model.Dataset
	tx := s.published(ctx).
		Preload("Organization").
		Preload("Categories").
		Preload("Tags").
		Preload("Resources", publishedResources).
		Where("datasets.id = ?", id).
		First(&ds)
	if tx.Error != nil {
		return nil, notFound(tx.Error)
	}
	return &ds, nil
}

// ListDatasetResources returns the published resources of a published dataset
func (s *DatasetsStore) ListDatasetResources(ctx context.Context, datasetID uint, p jsonapi.ListParams) ([]model.Resource, int64, error) {
	var exists int64
	if err := s.published(ctx).Where("datasets.id = ?", datasetID).Count(&exists).Error; err != nil {
		return nil, 0, err
	}
	if exists == 0 {
		return nil, 0, store.ErrNotFound
	}

	q := s.db.WithContext(ctx).Model(&model.Resource{}).
		Where("resources.dataset_id = ? AND resources.status = ?", datasetID, model.PublicationStatusPublished)
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var resources []model.Resource
	tx := s.db.WithContext(ctx).
		Where("resources.dataset_id = ? AND resources.status = ?", datasetID, model.PublicationStatusPublished).
		Order(orderBy(p.Sort, resourceSorts)).
		Offset(p.Offset()).
		Limit(p.PerPage).
		Find(&resources)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return resources, count, nil
}

// ListCatalogDatasets returns published datasets ordered by id for the catalog
func (s *DatasetsStore) ListCatalogDatasets(ctx context.Context, offset, limit int) ([]model.Dataset, int64, error) {
	var count int64
	if err := s.published(ctx).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var datasets []model.Dataset
	tx := s.published(ctx).
		Preload("Organization").
		Preload("Categories").
		Preload("Tags").
		Preload("Resources", publishedResources).
		Order("datasets.id").
		Offset(offset).
		Limit(limit).
		Find(&datasets)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return datasets, count, nil
}
