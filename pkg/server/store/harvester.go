package store

import (
	"context"

	"github.com/otwartedane/mcod/pkg/model"
)

// DatasetChanges counts the resource writes of one saved dataset
type DatasetChanges struct {
	Created          bool
	ResourcesCreated int
	ResourcesUpdated int
	ResourcesDeleted int
}

// DataSourcesStore abstracts data source and import history storage
type DataSourcesStore interface {
	ListDataSources(ctx context.Context, activeOnly bool) ([]model.DataSource, error)
	FetchDataSource(ctx context.Context, id uint) (*model.DataSource, error)
	// SaveDataSource inserts or updates a data source by name
	SaveDataSource(ctx context.Context, s *model.DataSource) error
	ListImports(ctx context.Context, sourceID uint, offset, limit int) ([]model.DataSourceImport, int64, error)
}

// HarvestStore abstracts the writes of a harvest run
type HarvestStore interface {
	// SourceDatasets returns the live datasets of a source with their resources
	SourceDatasets(ctx context.Context, sourceID uint) ([]model.Dataset, error)

	// ForeignExtIdents returns which of idents belong to live datasets
	// of other sources
	ForeignExtIdents(ctx context.Context, sourceID uint, idents []string) (map[string]bool, error)

	// OrganizationIDs maps organization slugs to ids
	OrganizationIDs(ctx context.Context, slugs []string) (map[string]uint, error)

	// SaveDataset upserts a dataset, its tags, categories and resources
	// in one transaction. Live resources of the dataset missing from
	// ds.Resources are soft-deleted.
	SaveDataset(ctx context.Context, ds *model.Dataset) (DatasetChanges, error)

	// DeleteDatasets soft-deletes datasets and their resources
	DeleteDatasets(ctx context.Context, ids []uint) (int, error)

	// FinishImport stores the import record and updates the source's
	// last import fields
	FinishImport(ctx context.Context, source *model.DataSource, imp *model.DataSourceImport) error
}
