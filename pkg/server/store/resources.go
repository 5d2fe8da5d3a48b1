package store

import (
	"context"
	"time"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
)

// ResourceListSpec is the allowlist of the resource search
var ResourceListSpec = jsonapi.ListSpec{
	Sorts:       []string{"id", "title", "created", "format"},
	DefaultSort: "-created",
	Filters: map[string][]jsonapi.Op{
		"id":             {jsonapi.OpID},
		"dataset":        {jsonapi.OpID},
		"formats":        {jsonapi.OpTerms, jsonapi.OpTerm},
		"type":           {jsonapi.OpTerm},
		"link_status":    {jsonapi.OpTerm},
		"openness_score": {jsonapi.OpTerm, jsonapi.OpGte, jsonapi.OpLte},
		"created":        {jsonapi.OpGte, jsonapi.OpLte},
	},
}

// ResourcesStore abstracts resource storage operations
type ResourcesStore interface {
	// ListResources returns a page of published resources of published datasets
	ListResources(ctx context.Context, p jsonapi.ListParams) ([]model.Resource, int64, error)

	// FetchResource returns a published resource, or ErrNotFound
	FetchResource(ctx context.Context, id uint) (*model.Resource, error)

	// ResourcesToCheck returns the resources whose links should be
	// validated, optionally limited to one dataset
	ResourcesToCheck(ctx context.Context, datasetID *uint) ([]model.Resource, error)

	// UpdateLinkStatus stores the outcome of a link check
	UpdateLinkStatus(ctx context.Context, id uint, status model.LinkStatus, checkedAt time.Time) error

	// UpdateFormat stores the format detected for a resource without a
	// declared one
	UpdateFormat(ctx context.Context, id uint, format, mediaType string, opennessScore int) error
}
