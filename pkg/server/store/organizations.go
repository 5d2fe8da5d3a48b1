package store

import (
	"context"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
)

// OrganizationListSpec is the allowlist of the organization list
var OrganizationListSpec = jsonapi.ListSpec{
	Sorts:       []string{"id", "title", "created"},
	DefaultSort: "title",
	Filters: map[string][]jsonapi.Op{
		"id":               {jsonapi.OpID},
		"institution_type": {jsonapi.OpTerm, jsonapi.OpTerms},
	},
}

// OrganizationsStore abstracts read access to published organizations
type OrganizationsStore interface {
	// ListOrganizations returns a page of published organizations with
	// DatasetsCount filled
	ListOrganizations(ctx context.Context, p jsonapi.ListParams) ([]model.Organization, int64, error)

	// FetchOrganization returns a published organization, or ErrNotFound
	FetchOrganization(ctx context.Context, id uint) (*model.Organization, error)
}
