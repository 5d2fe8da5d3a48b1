package harvester

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/otwartedane/mcod/pkg/audit"
	"github.com/otwartedane/mcod/pkg/formats"
	"github.com/otwartedane/mcod/pkg/logging"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
	"github.com/otwartedane/mcod/pkg/watchers"
)

// Notifier is told about datasets changed by an import
type Notifier interface {
	ObjectChanged(ctx context.Context, objectName, ident string, nt model.NotificationType, refValue string) error
}

// Importer runs harvests of data sources
type Importer struct {
	store    store.HarvestStore
	notifier Notifier
	client   *http.Client
	logger   *zap.Logger
	now      func() time.Time

	adapter func(src *model.DataSource, client *http.Client) (Adapter, error)
}

// NewImporter creates an Importer. notifier may be nil.
func NewImporter(st store.HarvestStore, notifier Notifier, client *http.Client, logger *zap.Logger) *Importer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Importer{
		store:    st,
		notifier: notifier,
		client:   client,
		logger:   logging.OrNop(logger),
		now:      time.Now,
		adapter:  NewAdapter,
	}
}

// Run harvests src and records the run. A catalog that cannot be read
// yields an import with status error, not an error; errors are returned
// only when the run could not be stored.
func (im *Importer) Run(ctx context.Context, src *model.DataSource) (*model.DataSourceImport, error) {
	imp := &model.DataSourceImport{
		RunID:        uuid.NewString(),
		DataSourceID: src.ID,
		Start:        im.now().UTC(),
	}
	logger := im.logger.With(
		zap.Uint("source", src.ID),
		zap.String("source_name", src.Name),
		zap.String("run", imp.RunID))
	logger.Info("harvest started", zap.Stringer("type", src.SourceType))

	records, err := im.fetch(ctx, src)
	if err != nil {
		logger.Error("harvest fetch failed", zap.Error(err))
		imp.Status = model.ImportStatusError
		imp.ErrorDesc = err.Error()
		return imp, im.finish(ctx, src, imp, logger)
	}

	if err := im.apply(ctx, src, imp, records, logger); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Error("harvest failed", zap.Error(err))
		imp.Status = model.ImportStatusError
		imp.ErrorDesc = err.Error()
	}
	return imp, im.finish(ctx, src, imp, logger)
}

func (im *Importer) fetch(ctx context.Context, src *model.DataSource) ([]DatasetRecord, error) {
	adapter, err := im.adapter(src, im.client)
	if err != nil {
		return nil, err
	}
	return adapter.Fetch(ctx)
}

func (im *Importer) apply(ctx context.Context, src *model.DataSource, imp *model.DataSourceImport, records []DatasetRecord, logger *zap.Logger) error {
	errs := Validate(records)

	idents := make([]string, 0, len(records))
	slugs := make([]string, 0, len(records))
	for i, rec := range records {
		if _, bad := errs[i]; !bad {
			idents = append(idents, rec.ExtIdent)
		}
		if rec.Organization != "" {
			slugs = append(slugs, rec.Organization)
		}
	}

	foreign, err := im.store.ForeignExtIdents(ctx, src.ID, idents)
	if err != nil {
		return fmt.Errorf("checking identifiers: %w", err)
	}
	orgs, err := im.store.OrganizationIDs(ctx, slugs)
	if err != nil {
		return fmt.Errorf("resolving organizations: %w", err)
	}
	existing, err := im.store.SourceDatasets(ctx, src.ID)
	if err != nil {
		return fmt.Errorf("loading datasets of source: %w", err)
	}
	byIdent := make(map[string]*model.Dataset, len(existing))
	for i := range existing {
		byIdent[existing[i].ExtIdent] = &existing[i]
	}

	invalid := func(i int, format string, args ...interface{}) {
		e, ok := errs[i]
		if !ok {
			e = &RecordError{ExtIdent: records[i].ExtIdent, Title: records[i].Title}
			errs[i] = e
		}
		e.add(format, args...)
	}

	inPayload := make(map[string]bool, len(records))
	for i := range records {
		rec := &records[i]
		inPayload[rec.ExtIdent] = true
		if _, bad := errs[i]; bad {
			continue
		}
		if foreign[rec.ExtIdent] {
			invalid(i, "dataset %q is already imported from another data source", rec.ExtIdent)
			continue
		}
		orgID, ok := organizationID(rec.Organization, orgs, src)
		if !ok {
			invalid(i, "unknown organization %q", rec.Organization)
			continue
		}

		prev := byIdent[rec.ExtIdent]
		ds := buildDataset(rec, src, orgID, prev)
		if prev != nil && ds.SameContent(prev) {
			imp.DatasetsCount++
			imp.ResourcesCount += len(ds.Resources)
			continue
		}

		changes, err := im.store.SaveDataset(ctx, ds)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			invalid(i, "saving dataset: %v", err)
			logger.Warn("saving dataset failed", zap.String("ext_ident", rec.ExtIdent), zap.Error(err))
			continue
		}

		imp.DatasetsCount++
		imp.ResourcesCount += len(ds.Resources)
		imp.ResourcesCreated += changes.ResourcesCreated
		imp.ResourcesUpdated += changes.ResourcesUpdated
		imp.ResourcesDeleted += changes.ResourcesDeleted
		if changes.Created {
			imp.DatasetsCreated++
			continue
		}
		imp.DatasetsUpdated++
		im.notify(ctx, ds.ID, model.NotificationTypeObjectUpdated, watchers.RefTime(ds.ModifiedAt), logger)
	}

	var stale []uint
	for _, ds := range existing {
		if !inPayload[ds.ExtIdent] {
			stale = append(stale, ds.ID)
		}
	}
	if len(stale) > 0 {
		n, err := im.store.DeleteDatasets(ctx, stale)
		if err != nil {
			return fmt.Errorf("deleting datasets missing from the catalog: %w", err)
		}
		imp.DatasetsDeleted = n
		now := watchers.RefTime(im.now())
		for _, id := range stale {
			im.notify(ctx, id, model.NotificationTypeObjectRemoved, now, logger)
		}
	}

	imp.InvalidCount = len(errs)
	switch {
	case len(errs) == 0:
		imp.Status = model.ImportStatusOk
	case imp.DatasetsCount == 0:
		imp.Status = model.ImportStatusError
		imp.ErrorDesc = "no valid datasets"
	default:
		imp.Status = model.ImportStatusOkPartialErrors
	}
	if len(errs) > 0 {
		details, err := json.Marshal(sortedErrors(errs))
		if err != nil {
			return fmt.Errorf("encoding record errors: %w", err)
		}
		imp.ErrorDetails = string(details)
	}
	return nil
}

func (im *Importer) notify(ctx context.Context, datasetID uint, nt model.NotificationType, refValue string, logger *zap.Logger) {
	if im.notifier == nil {
		return
	}
	ident := strconv.FormatUint(uint64(datasetID), 10)
	if err := im.notifier.ObjectChanged(ctx, watchers.ObjectDataset, ident, nt, refValue); err != nil {
		logger.Warn("notifying watchers failed", zap.Uint("dataset", datasetID), zap.Error(err))
	}
}

func (im *Importer) finish(ctx context.Context, src *model.DataSource, imp *model.DataSourceImport, logger *zap.Logger) error {
	end := im.now().UTC()
	imp.End = &end

	event := audit.HarvestEvent{
		SourceID:     src.ID,
		SourceName:   src.Name,
		RunID:        imp.RunID,
		Status:       imp.Status.String(),
		Created:      imp.DatasetsCreated,
		Updated:      imp.DatasetsUpdated,
		Deleted:      imp.DatasetsDeleted,
		Invalid:      imp.InvalidCount,
		ErrorMessage: imp.ErrorDesc,
	}
	if err := im.store.FinishImport(ctx, src, imp); err != nil {
		event.Status = model.ImportStatusError.String()
		event.ErrorMessage = err.Error()
		audit.Log(event)
		return fmt.Errorf("storing import: %w", err)
	}
	audit.Log(event)

	logger.Info("harvest finished",
		zap.Stringer("status", imp.Status),
		zap.Int("datasets", imp.DatasetsCount),
		zap.Int("created", imp.DatasetsCreated),
		zap.Int("updated", imp.DatasetsUpdated),
		zap.Int("deleted", imp.DatasetsDeleted),
		zap.Int("invalid", imp.InvalidCount),
		zap.Duration("took", end.Sub(imp.Start)))
	return nil
}

func organizationID(slug string, orgs map[string]uint, src *model.DataSource) (uint, bool) {
	if slug != "" {
		if id, ok := orgs[slug]; ok {
			return id, true
		}
	}
	if src.OrganizationID != nil {
		return *src.OrganizationID, true
	}
	return 0, false
}

// buildDataset maps a record onto a dataset, reusing the ids of the
// existing dataset and its resources
func buildDataset(rec *DatasetRecord, src *model.DataSource, orgID uint, existing *model.Dataset) *model.Dataset {
	sourceID := src.ID
	ds := &model.Dataset{
		Slug:            model.Slugify(rec.Title),
		Title:           rec.Title,
		Notes:           rec.Notes,
		OrganizationID:  orgID,
		LicenseCode:     rec.LicenseCode,
		URL:             rec.URL,
		UpdateFrequency: rec.UpdateFrequency,
		Status:          model.PublicationStatusPublished,
		IsHighValue:     rec.IsHighValue,
		HVDCategories:   rec.HVDCategories,
		HasDynamicData:  rec.HasDynamicData,
		HasResearchData: rec.HasResearchData,
		SourceID:        &sourceID,
		ExtIdent:        rec.ExtIdent,
	}
	for _, c := range rec.Categories {
		ds.Categories = append(ds.Categories, model.Category{Code: c})
	}
	for _, t := range rec.Tags {
		ds.Tags = append(ds.Tags, model.Tag{Name: t.Name, Language: t.Language})
	}

	known := map[string]model.Resource{}
	if existing != nil {
		ds.ID = existing.ID
		ds.CreatedAt = existing.CreatedAt
		for _, r := range existing.Resources {
			known[r.ExtIdent] = r
		}
	}
	for _, r := range rec.Resources {
		res := model.Resource{
			DatasetID:             ds.ID,
			Title:                 r.Title,
			Description:           r.Description,
			Link:                  r.Link,
			Format:                resourceFormat(r),
			Type:                  model.ResourceTypeFile,
			Status:                model.PublicationStatusPublished,
			ContainsProtectedData: r.ContainsProtectedData,
			IsHighValue:           r.IsHighValue,
			LinkStatus:            model.LinkStatusUnknown,
			ExtIdent:              r.ExtIdent,
			DataDate:              r.DataDate,
		}
		if f, ok := formats.Lookup(res.Format); ok {
			res.Format = f.Name
			res.MediaType = f.MediaTypes[0]
			res.OpennessScore = f.OpennessScore
		}
		prev, ok := known[r.ExtIdent]
		if ok {
			res.ID = prev.ID
			res.CreatedAt = prev.CreatedAt
		}
		if ok && prev.Link == res.Link {
			res.LinkStatus = prev.LinkStatus
			res.LinkCheckedAt = prev.LinkCheckedAt
			// keep the format the link checker detected
			if res.Format == "" {
				res.Format = prev.Format
				res.MediaType = prev.MediaType
				res.OpennessScore = prev.OpennessScore
			}
		}
		ds.Resources = append(ds.Resources, res)
	}
	return ds
}

func sortedErrors(errs map[int]*RecordError) []*RecordError {
	idx := make([]int, 0, len(errs))
	for i := range errs {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	out := make([]*RecordError, 0, len(idx))
	for _, i := range idx {
		out = append(out, errs[i])
	}
	return out
}
