package store

import (
	"context"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
)

// DatasetListSpec is the allowlist of the dataset search
var DatasetListSpec = jsonapi.ListSpec{
	Sorts:       []string{"id", "title", "created", "modified", "views_count"},
	DefaultSort: "-created",
	Filters: map[string][]jsonapi.Op{
		"id":                {jsonapi.OpID},
		"institution":       {jsonapi.OpID},
		"organization":      {jsonapi.OpID},
		"categories":        {jsonapi.OpID, jsonapi.OpTerms},
		"tags":              {jsonapi.OpTerms, jsonapi.OpTerm},
		"formats":           {jsonapi.OpTerms, jsonapi.OpTerm},
		"license_code":      {jsonapi.OpTerms, jsonapi.OpTerm},
		"is_high_value":     {jsonapi.OpTerm},
		"has_dynamic_data":  {jsonapi.OpTerm},
		"has_research_data": {jsonapi.OpTerm},
		"created":           {jsonapi.OpGte, jsonapi.OpLte},
		"modified":          {jsonapi.OpGte, jsonapi.OpLte},
		"source":            {jsonapi.OpID, jsonapi.OpExists},
	},
	Flags: []string{"is_high_value", "has_dynamic_data", "has_research_data"},
}

// Bucket is one aggregation bucket
type Bucket struct {
	Key      string `json:"id"`
	Title    string `json:"title"`
	DocCount int64  `json:"doc_count"`
}

// Aggregations are the facet counts of a dataset search, keyed by facet
// name (by_institution, by_category, by_format, by_license)
type Aggregations map[string][]Bucket

// DatasetsStore abstracts read access to published datasets
type DatasetsStore interface {
	// ListDatasets returns a page of published datasets matching p and
	// the total count. Organization, categories, tags and published
	// resources are loaded.
	ListDatasets(ctx context.Context, p jsonapi.ListParams) ([]model.Dataset, int64, error)

	// CountDatasets returns the number of published datasets matching p
	CountDatasets(ctx context.Context, p jsonapi.ListParams) (int64, error)

	// DatasetAggregations returns facet counts for the datasets matching p
	DatasetAggregations(ctx context.Context, p jsonapi.ListParams) (Aggregations, error)

	// FetchDataset returns a published dataset, or ErrNotFound
	FetchDataset(ctx context.Context, id uint) (*model.Dataset, error)

	// ListDatasetResources returns the published resources of a dataset
	ListDatasetResources(ctx context.Context, datasetID uint, p jsonapi.ListParams) ([]model.Resource, int64, error)

	// ListCatalogDatasets returns published datasets with their
	// organization and resources for the DCAT catalog
	ListCatalogDatasets(ctx context.Context, offset, limit int) ([]model.Dataset, int64, error)
}
