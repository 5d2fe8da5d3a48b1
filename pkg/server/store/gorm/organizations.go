package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

var _ store.OrganizationsStore = (*OrganizationsStore)(nil)

var organizationSorts = map[string]string{
	"id":      "organizations.id",
	"title":   "organizations.title",
	"created": "organizations.created_at",
}

const organizationColumns = `organizations.*, (SELECT count(*) FROM datasets d
	WHERE d.organization_id = organizations.id AND d.deleted_at IS NULL AND d.status = ?) AS datasets_count`

// OrganizationsStore provides organization read operations using GORM
type OrganizationsStore struct {
	db *gorm.DB
}

// NewOrganizationsStore creates a new OrganizationsStore
func NewOrganizationsStore(db *gorm.DB) *OrganizationsStore {
	return &OrganizationsStore{db: db}
}

func (s *OrganizationsStore) filtered(ctx context.Context, p jsonapi.ListParams) (*gorm.DB, error) {
	q := s.db.WithContext(ctx).
		Model(&model.Organization{}).
		Where("organizations.status = ?", model.PublicationStatusPublished)

	if p.Query != "" {
		q = q.Where("organizations.title ILIKE ?", likePattern(p.Query))
	}
	if f, ok := p.Filter("id", jsonapi.OpID); ok {
		q = q.Where("organizations.id IN ?", filterIDs(f))
	}

	var types []string
	if f, ok := p.Filter("institution_type", jsonapi.OpTerms); ok {
		types = append(types, f.Values()...)
	}
	if f, ok := p.Filter("institution_type", jsonapi.OpTerm); ok {
		types = append(types, f.Value)
	}
	if len(types) > 0 {
		for _, t := range types {
			if _, err := model.InstitutionTypeString(t); err != nil {
				return nil, &jsonapi.RequestError{Parameter: "institution_type", Detail: "unknown institution type " + t}
			}
		}
		q = q.Where("organizations.institution_type IN ?", lowerAll(types))
	}
	return q, nil
}

// ListOrganizations returns a page of published organizations
func (s *OrganizationsStore) ListOrganizations(ctx context.Context, p jsonapi.ListParams) ([]model.Organization, int64, error) {
	q, err := s.filtered(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	q, _ = s.filtered(ctx, p)
	var orgs []model.Organization
	tx := q.
		Select(organizationColumns, model.PublicationStatusPublished).
		Order(orderBy(p.Sort, organizationSorts)).
		Offset(p.Offset()).
		Limit(p.PerPage).
		Find(&orgs)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return orgs, count, nil
}

// FetchOrganization returns a published organization
func (s *OrganizationsStore) FetchOrganization(ctx context.Context, id uint) (*model.Organization, error) {
	var org model.Organization
	tx := s.db.WithContext(ctx).
		Select(organizationColumns, model.PublicationStatusPublished).
		Where("organizations.id = ? AND organizations.status = ?", id, model.PublicationStatusPublished).
		First(&org)
	if tx.Error != nil {
		return nil, notFound(tx.Error)
	}
	return &org, nil
}
