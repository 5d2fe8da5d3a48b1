package gorm

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// Ensure ResourcesStore implements store.ResourcesStore
var _ store.ResourcesStore = (*ResourcesStore)(nil)

// ResourcesStore implements store.ResourcesStore using GORM
type ResourcesStore struct {
	db *gorm.DB
}

// NewResourcesStore creates a new ResourcesStore
func NewResourcesStore(db *gorm.DB) *ResourcesStore {
	return &ResourcesStore{db: db}
}

// published returns published resources whose dataset is published too
func (s *ResourcesStore) published(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Resource{}).
		Joins("JOIN datasets d ON d.id = resources.dataset_id AND d.deleted_at IS NULL AND d.status = ?",
			model.PublicationStatusPublished).
		Where("resources.status = ?", model.PublicationStatusPublished)
}

func (s *ResourcesStore) filtered(ctx context.Context, p jsonapi.ListParams) (*gorm.DB, error) {
	q := s.published(ctx)

	if p.Query != "" {
		pattern := likePattern(p.Query)
		q = q.Where("(resources.title ILIKE ? OR resources.description ILIKE ?)", pattern, pattern)
	}
	if f, ok := p.Filter("id", jsonapi.OpID); ok {
		q = q.Where("resources.id IN ?", filterIDs(f))
	}
	if f, ok := p.Filter("dataset", jsonapi.OpID); ok {
		q = q.Where("resources.dataset_id IN ?", filterIDs(f))
	}
	q = applyTerms(q, p, "formats", "lower(resources.format)", true)

	if f, ok := p.Filter("type", jsonapi.OpTerm); ok {
		t, err := model.ResourceTypeString(f.Value)
		if err != nil {
			return nil, &jsonapi.RequestError{Parameter: "type[term]", Detail: "unknown resource type"}
		}
		q = q.Where("resources.type = ?", t)
	}
	if f, ok := p.Filter("link_status", jsonapi.OpTerm); ok {
		st, err := model.LinkStatusString(f.Value)
		if err != nil {
			return nil, &jsonapi.RequestError{Parameter: "link_status[term]", Detail: "unknown link status"}
		}
		q = q.Where("resources.link_status = ?", st)
	}
	for _, c := range []struct {
		op   jsonapi.Op
		cond string
	}{
		{jsonapi.OpTerm, "resources.openness_score = ?"},
		{jsonapi.OpGte, "resources.openness_score >= ?"},
		{jsonapi.OpLte, "resources.openness_score <= ?"},
	} {
		op, cond := c.op, c.cond
		f, ok := p.Filter("openness_score", op)
		if !ok {
			continue
		}
		score, err := strconv.Atoi(f.Value)
		if err != nil {
			return nil, &jsonapi.RequestError{
				Parameter: "openness_score[" + string(op) + "]",
				Detail:    "must be an integer",
			}
		}
		q = q.Where(cond, score)
	}
	return applyRange(q, p, "created", "resources.created_at")
}

// ListResources returns a page of published resources of published datasets
func (s *ResourcesStore) ListResources(ctx context.Context, p jsonapi.ListParams) ([]model.Resource, int64, error) {
	q, err := s.filtered(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	q, _ = s.filtered(ctx, p)
	var resources []model.Resource
	tx := q.
		Preload("Dataset").
		Order(orderBy(p.Sort, resourceSorts)).
		Offset(p.Offset()).
		Limit(p.PerPage).
		Find(&resources)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return resources, count, nil
}

// FetchResource returns a published resource with its dataset
func (s *ResourcesStore) FetchResource(ctx context.Context, id uint) (*model.Resource, error) {
	var r model.Resource
	tx := s.published(ctx).Preload("Dataset").Where("resources.id = ?", id).First(&r)
	if tx.Error != nil {
		return nil, notFound(tx.Error)
	}
	return &r, nil
}

// ResourcesToCheck returns published resources with a link
func (s *ResourcesStore) ResourcesToCheck(ctx context.Context, datasetID *uint) ([]model.Resource, error) {
	q := s.published(ctx).Where("resources.link <> ''")
	if datasetID != nil {
		q = q.Where("resources.dataset_id = ?", *datasetID)
	}
	var resources []model.Resource
	if err := q.Order("resources.id").Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

// UpdateLinkStatus stores a link check result without touching modified_at
func (s *ResourcesStore) UpdateLinkStatus(ctx context.Context, id uint, status model.LinkStatus, checkedAt time.Time) error {
	tx := s.db.WithContext(ctx).
		Model(&model.Resource{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"link_status":     status,
			"link_checked_at": checkedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpdateFormat fills the format of a resource that has none, leaving
// modified_at alone
func (s *ResourcesStore) UpdateFormat(ctx context.Context, id uint, format, mediaType string, opennessScore int) error {
	tx := s.db.WithContext(ctx).
		Model(&model.Resource{}).
		Where("id = ? AND format = ''", id).
		UpdateColumns(map[string]interface{}{
			"format":         format,
			"media_type":     mediaType,
			"openness_score": opennessScore,
		})
	return tx.Error
}
