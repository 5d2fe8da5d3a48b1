package gorm

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

var (
	_ store.DataSourcesStore = (*DataSourcesStore)(nil)
	_ store.HarvestStore     = (*HarvestStore)(nil)
)

// DataSourcesStore provides data source storage using GORM
type DataSourcesStore struct {
	db *gorm.DB
}

// NewDataSourcesStore creates a new DataSourcesStore
func NewDataSourcesStore(db *gorm.DB) *DataSourcesStore {
	return &DataSourcesStore{db: db}
}

// ListDataSources returns data sources ordered by name
func (s *DataSourcesStore) ListDataSources(ctx context.Context, activeOnly bool) ([]model.DataSource, error) {
	q := s.db.WithContext(ctx).Preload("Organization")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var sources []model.DataSource
	tx := q.Order("name").Find(&sources)
	return sources, tx.Error
}

func (s *DataSourcesStore) FetchDataSource(ctx context.Context, id uint) (*model.DataSource, error) {
	var src model.DataSource
	if err := s.db.WithContext(ctx).Preload("Organization").Where("id = ?", id).First(&src).Error; err != nil {
		return nil, notFound(err)
	}
	return &src, nil
}

// SaveDataSource inserts a data source or updates the one with the same name.
// Import bookkeeping fields of an existing source are kept.
func (s *DataSourcesStore) SaveDataSource(ctx context.Context, src *model.DataSource) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.DataSource
		err := tx.Where("name = ?", src.Name).First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			return conflict(tx.Omit("Organization").Create(src).Error)
		case err != nil:
			return err
		}
		src.ID = existing.ID
		src.CreatedAt = existing.CreatedAt
		src.LastImportAt = existing.LastImportAt
		src.LastImportStatus = existing.LastImportStatus
		return conflict(tx.Omit("Organization").Save(src).Error)
	})
}

// ListImports returns a page of a source's imports, newest first
func (s *DataSourcesStore) ListImports(ctx context.Context, sourceID uint, offset, limit int) ([]model.DataSourceImport, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.DataSourceImport{}).Where("data_source_id = ?", sourceID).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var imports []model.DataSourceImport
	tx := s.db.WithContext(ctx).
		Where("data_source_id = ?", sourceID).
		Order("start DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&imports)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return imports, count, nil
}

// HarvestStore writes harvested datasets using GORM
type HarvestStore struct {
	db *gorm.DB
}

// NewHarvestStore creates a new HarvestStore
func NewHarvestStore(db *gorm.DB) *HarvestStore {
	return &HarvestStore{db: db}
}

// SourceDatasets returns the live datasets of a source with their categories,
// tags and live resources
func (s *HarvestStore) SourceDatasets(ctx context.Context, sourceID uint) ([]model.Dataset, error) {
	var datasets []model.Dataset
	tx := s.db.WithContext(ctx).
		Preload("Categories").
		Preload("Tags").
		Preload("Resources", func(db *gorm.DB) *gorm.DB { return db.Order("resources.id") }).
		Where("source_id = ?", sourceID).
		Order("id").
		Find(&datasets)
	return datasets, tx.Error
}

// ForeignExtIdents returns the idents already used by datasets of other sources
func (s *HarvestStore) ForeignExtIdents(ctx context.Context, sourceID uint, idents []string) (map[string]bool, error) {
	found := map[string]bool{}
	if len(idents) == 0 {
		return found, nil
	}
	var taken []string
	tx := s.db.WithContext(ctx).
		Model(&model.Dataset{}).
		Where("ext_ident IN ? AND source_id IS NOT NULL AND source_id <> ?", idents, sourceID).
		Pluck("ext_ident", &taken)
	if tx.Error != nil {
		return nil, tx.Error
	}
	for _, ident := range taken {
		found[ident] = true
	}
	return found, nil
}

// OrganizationIDs maps slugs of live organizations to their ids
func (s *HarvestStore) OrganizationIDs(ctx context.Context, slugs []string) (map[string]uint, error) {
	ids := map[string]uint{}
	if len(slugs) == 0 {
		return ids, nil
	}
	var rows []struct {
		ID   uint
		Slug string
	}
	tx := s.db.WithContext(ctx).
		Model(&model.Organization{}).
		Select("id, slug").
		Where("slug IN ?", slugs).
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	for _, r := range rows {
		ids[r.Slug] = r.ID
	}
	return ids, nil
}

// SaveDataset writes a dataset with its relations in one transaction.
// Categories are resolved by code, unknown codes are dropped. Tags are
// matched by name and language and created when missing.
func (s *HarvestStore) SaveDataset(ctx context.Context, ds *model.Dataset) (store.DatasetChanges, error) {
	var changes store.DatasetChanges
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changes = store.DatasetChanges{}

		var categories []model.Category
		if codes := categoryCodes(ds.Categories); len(codes) > 0 {
			if err := tx.Where("code IN ?", codes).Order("id").Find(&categories).Error; err != nil {
				return err
			}
		}

		tags := make([]model.Tag, 0, len(ds.Tags))
		for _, t := range ds.Tags {
			if t.Language == "" {
				t.Language = "pl"
			}
			tag := model.Tag{}
			if err := tx.Where(model.Tag{Name: t.Name, Language: t.Language}).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			tags = append(tags, tag)
		}

		resources := ds.Resources
		ds.Categories, ds.Tags, ds.Resources = nil, nil, nil
		if ds.ID == 0 {
			changes.Created = true
			if err := tx.Omit(clause.Associations).Create(ds).Error; err != nil {
				return err
			}
		} else if err := tx.Omit(clause.Associations).Save(ds).Error; err != nil {
			return err
		}

		if err := tx.Model(ds).Association("Categories").Replace(categories); err != nil {
			return err
		}
		if err := tx.Model(ds).Association("Tags").Replace(tags); err != nil {
			return err
		}
		ds.Categories, ds.Tags = categories, tags

		var live []model.Resource
		if err := tx.Where("dataset_id = ?", ds.ID).Find(&live).Error; err != nil {
			return err
		}
		byID := make(map[uint]*model.Resource, len(live))
		for i := range live {
			byID[live[i].ID] = &live[i]
		}
		kept := map[uint]bool{}
		for i := range resources {
			r := &resources[i]
			r.DatasetID = ds.ID
			switch prev := byID[r.ID]; {
			case r.ID == 0:
				if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
					return err
				}
				changes.ResourcesCreated++
			case prev != nil && prev.SameContent(r):
			default:
				if err := tx.Omit(clause.Associations).Save(r).Error; err != nil {
					return err
				}
				changes.ResourcesUpdated++
			}
			kept[r.ID] = true
		}

		var stale []uint
		for _, r := range live {
			if !kept[r.ID] {
				stale = append(stale, r.ID)
			}
		}
		if len(stale) > 0 {
			res := tx.Where("id IN ?", stale).Delete(&model.Resource{})
			if res.Error != nil {
				return res.Error
			}
			changes.ResourcesDeleted = int(res.RowsAffected)
		}
		ds.Resources = resources
		return nil
	})
	return changes, err
}

func categoryCodes(categories []model.Category) []string {
	codes := make([]string, 0, len(categories))
	for _, c := range categories {
		if c.Code != "" {
			codes = append(codes, c.Code)
		}
	}
	return codes
}

// DeleteDatasets soft-deletes datasets and their resources
func (s *HarvestStore) DeleteDatasets(ctx context.Context, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id IN ?", ids).Delete(&model.Resource{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&model.Dataset{})
		deleted = int(res.RowsAffected)
		return res.Error
	})
	return deleted, err
}

// FinishImport stores an import and copies its outcome onto the source
func (s *HarvestStore) FinishImport(ctx context.Context, source *model.DataSource, imp *model.DataSourceImport) error {
	at := imp.Start
	if imp.End != nil {
		at = *imp.End
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		imp.DataSourceID = source.ID
		if err := tx.Create(imp).Error; err != nil {
			return err
		}
		return tx.Model(&model.DataSource{}).
			Where("id = ?", source.ID).
			UpdateColumns(map[string]interface{}{
				"last_import_at":     at,
				"last_import_status": imp.Status.String(),
			}).Error
	})
	if err != nil {
		return err
	}
	source.LastImportAt = &at
	source.LastImportStatus = imp.Status.String()
	return nil
}
