package harvester

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/otwartedane/mcod/pkg/audit"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
	"github.com/otwartedane/mcod/pkg/server/store/mocks"
)

func init() {
	audit.SetEnabled(false)
}

type fakeAdapter struct {
	records []DatasetRecord
	err     error
}

func (a fakeAdapter) Fetch(ctx context.Context) ([]DatasetRecord, error) {
	return a.records, a.err
}

type notification struct {
	ident string
	nt    model.NotificationType
}

type recordingNotifier struct {
	calls []notification
}

func (n *recordingNotifier) ObjectChanged(ctx context.Context, objectName, ident string, nt model.NotificationType, refValue string) error {
	n.calls = append(n.calls, notification{ident: ident, nt: nt})
	return nil
}

func newTestImporter(st store.HarvestStore, n Notifier, a Adapter) *Importer {
	im := NewImporter(st, n, nil, nil)
	im.adapter = func(*model.DataSource, *http.Client) (Adapter, error) { return a, nil }
	im.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }
	return im
}

func TestImporterRun(t *testing.T) {
	src := &model.DataSource{ID: 3, Name: "gus-ckan", SourceType: model.SourceTypeCkan}

	updated := validRecord("kept")
	created := validRecord("new")
	foreign := validRecord("foreign")
	broken := validRecord("broken")
	broken.Title = ""

	st := &mocks.HarvestStore{}
	st.On("ForeignExtIdents", uint(3), []string{"kept", "new", "foreign"}).Return(map[string]bool{"foreign": true}, nil)
	st.On("OrganizationIDs", []string{"gus", "gus", "gus", "gus"}).Return(map[string]uint{"gus": 11}, nil)
	st.On("SourceDatasets", uint(3)).Return([]model.Dataset{
		{ID: 100, ExtIdent: "kept", Resources: []model.Resource{{ID: 500, ExtIdent: "kept-r1", Link: "https://example.com/kept.csv", LinkStatus: model.LinkStatusOk}}},
		{ID: 101, ExtIdent: "gone"},
	}, nil)
	st.On("SaveDataset", mock.MatchedBy(func(ds *model.Dataset) bool { return ds.ExtIdent == "kept" })).
		Return(store.DatasetChanges{ResourcesUpdated: 1}, nil).
		Run(func(args mock.Arguments) {
			ds := args.Get(0).(*model.Dataset)
			assert.Equal(t, uint(100), ds.ID)
			assert.Equal(t, uint(500), ds.Resources[0].ID)
			assert.Equal(t, model.LinkStatusOk, ds.Resources[0].LinkStatus)
			assert.Equal(t, "csv", ds.Resources[0].Format)
			assert.Equal(t, 3, ds.Resources[0].OpennessScore)
			assert.Equal(t, uint(11), ds.OrganizationID)
		})
	st.On("SaveDataset", mock.MatchedBy(func(ds *model.Dataset) bool { return ds.ExtIdent == "new" })).
		Return(store.DatasetChanges{Created: true, ResourcesCreated: 1}, nil)
	st.On("DeleteDatasets", []uint{101}).Return(1, nil)
	st.On("FinishImport", src, mock.Anything).Return(nil)

	n := &recordingNotifier{}
	imp, err := newTestImporter(st, n, fakeAdapter{records: []DatasetRecord{updated, created, foreign, broken}}).
		Run(context.Background(), src)
	require.NoError(t, err)

	assert.NotEmpty(t, imp.RunID)
	assert.Equal(t, model.ImportStatusOkPartialErrors, imp.Status)
	assert.Equal(t, 2, imp.DatasetsCount)
	assert.Equal(t, 1, imp.DatasetsCreated)
	assert.Equal(t, 1, imp.DatasetsUpdated)
	assert.Equal(t, 1, imp.DatasetsDeleted)
	assert.Equal(t, 1, imp.ResourcesCreated)
	assert.Equal(t, 1, imp.ResourcesUpdated)
	assert.Equal(t, 2, imp.InvalidCount)
	assert.Contains(t, imp.ErrorDetails, "another data source")
	assert.Contains(t, imp.ErrorDetails, "title is required")
	require.NotNil(t, imp.End)

	assert.Equal(t, []notification{
		{"100", model.NotificationTypeObjectUpdated},
		{"101", model.NotificationTypeObjectRemoved},
	}, n.calls)
	st.AssertExpectations(t)
}

func TestImporterFetchFailure(t *testing.T) {
	src := &model.DataSource{ID: 3, Name: "down"}
	st := &mocks.HarvestStore{}
	st.On("FinishImport", src, mock.MatchedBy(func(imp *model.DataSourceImport) bool {
		return imp.Status == model.ImportStatusError && imp.ErrorDesc == "connection refused"
	})).Return(nil)

	imp, err := newTestImporter(st, nil, fakeAdapter{err: errors.New("connection refused")}).Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusError, imp.Status)
	st.AssertNotCalled(t, "SourceDatasets", mock.Anything)
	st.AssertExpectations(t)
}

func TestImporterAllInvalid(t *testing.T) {
	src := &model.DataSource{ID: 3, Name: "bad"}
	rec := validRecord("x")
	rec.Organization = "unknown"

	st := &mocks.HarvestStore{}
	st.On("ForeignExtIdents", uint(3), []string{"x"}).Return(map[string]bool{}, nil)
	st.On("OrganizationIDs", []string{"unknown"}).Return(map[string]uint{}, nil)
	st.On("SourceDatasets", uint(3)).Return(nil, nil)
	st.On("FinishImport", src, mock.Anything).Return(nil)

	imp, err := newTestImporter(st, nil, fakeAdapter{records: []DatasetRecord{rec}}).Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusError, imp.Status)
	assert.Equal(t, 1, imp.InvalidCount)
	assert.Contains(t, imp.ErrorDetails, "unknown organization")
}

func TestImporterStoreFailure(t *testing.T) {
	src := &model.DataSource{ID: 3, Name: "x"}
	st := &mocks.HarvestStore{}
	st.On("FinishImport", src, mock.Anything).Return(errors.New("db down"))

	_, err := newTestImporter(st, nil, fakeAdapter{err: errors.New("timeout")}).Run(context.Background(), src)
	assert.ErrorContains(t, err, "db down")
}

func TestImporterSkipsUnchangedDataset(t *testing.T) {
	src := &model.DataSource{ID: 3, Name: "gus-ckan", SourceType: model.SourceTypeCkan}

	tests := []struct {
		name   string
		record func() DatasetRecord
		stored func(ds *model.Dataset)
	}{
		{
			name:   "identical record",
			record: func() DatasetRecord { return validRecord("kept") },
			stored: func(ds *model.Dataset) {},
		},
		{
			name: "format detected by the link checker",
			record: func() DatasetRecord {
				rec := validRecord("kept")
				rec.Resources[0].Link = "https://example.com/api/kept"
				return rec
			},
			stored: func(ds *model.Dataset) {
				ds.Resources[0].Format = "csv"
				ds.Resources[0].MediaType = "text/csv"
				ds.Resources[0].OpennessScore = 3
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.record()
			stored := buildDataset(&rec, src, 11, nil)
			stored.ID = 100
			stored.ModifiedAt = time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
			stored.Resources[0].ID = 500
			stored.Resources[0].DatasetID = 100
			stored.Resources[0].LinkStatus = model.LinkStatusOk
			tt.stored(stored)

			st := &mocks.HarvestStore{}
			st.On("ForeignExtIdents", uint(3), []string{"kept"}).Return(map[string]bool{}, nil)
			st.On("OrganizationIDs", []string{"gus"}).Return(map[string]uint{"gus": 11}, nil)
			st.On("SourceDatasets", uint(3)).Return([]model.Dataset{*stored}, nil)
			st.On("FinishImport", src, mock.Anything).Return(nil)

			n := &recordingNotifier{}
			for run := 0; run < 3; run++ {
				imp, err := newTestImporter(st, n, fakeAdapter{records: []DatasetRecord{tt.record()}}).
					Run(context.Background(), src)
				require.NoError(t, err)

				assert.Equal(t, model.ImportStatusOk, imp.Status)
				assert.Equal(t, 1, imp.DatasetsCount)
				assert.Equal(t, 1, imp.ResourcesCount)
				assert.Zero(t, imp.DatasetsCreated)
				assert.Zero(t, imp.DatasetsUpdated)
				assert.Zero(t, imp.ResourcesUpdated)
			}

			assert.Empty(t, n.calls)
			st.AssertNotCalled(t, "SaveDataset", mock.Anything)
			st.AssertNumberOfCalls(t, "FinishImport", 3)
		})
	}
}
