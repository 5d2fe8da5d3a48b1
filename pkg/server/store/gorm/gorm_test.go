package gorm

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// newMockDB wraps sqlmock with GORM the same way the server tests do
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)
	return db, mock
}

func listParams(t *testing.T, raw string, spec jsonapi.ListSpec) jsonapi.ListParams {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	p, err := jsonapi.ParseListParams(values, spec, 20, 100)
	require.NoError(t, err)
	return p
}

func TestHealthStore(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewHealthStore(db).CheckConnectivity(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStore(t *testing.T) {
	ctx := context.Background()

	t.Run("by email ignores case", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) = lower\(\$1\)`).
			WithArgs("Jan@Dane.gov.pl").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "is_active"}).
				AddRow(4, "jan@dane.gov.pl", "agent", true))

		u, err := NewUsersStore(db).FetchUserByEmail(ctx, "Jan@Dane.gov.pl")
		require.NoError(t, err)
		assert.Equal(t, uint(4), u.ID)
		assert.Equal(t, model.UserRoleAgent, u.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := NewUsersStore(db).FetchUser(ctx, 9)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err := NewUsersStore(db).CreateUser(ctx, &model.User{Email: "jan@dane.gov.pl", Role: model.UserRoleUser})
		assert.ErrorIs(t, err, store.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCountDatasetsFilters(t *testing.T) {
	db, mock := newMockDB(t)
	p := listParams(t, "q=woda&formats[terms]=CSV,xlsx&is_high_value[term]=true", store.DatasetListSpec)

	mock.ExpectQuery(`(?s)SELECT count\(\*\) FROM "datasets" WHERE .*datasets.status = \$1.*datasets.title ILIKE \$2 OR datasets.notes ILIKE \$3.*lower\(r.format\) IN \(\$5,\$6\).*datasets.is_high_value = \$7.*"datasets"."deleted_at" IS NULL`).
		WithArgs("published", "%woda%", "%woda%", "published", "csv", "xlsx", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := NewDatasetsStore(db).CountDatasets(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountDatasetsBadDate(t *testing.T) {
	db, _ := newMockDB(t)
	p := listParams(t, "created[gte]=yesterday", store.DatasetListSpec)

	_, err := NewDatasetsStore(db).CountDatasets(context.Background(), p)
	var reqErr *jsonapi.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "created[gte]", reqErr.Parameter)
}

func TestCountDatasetsBadFlag(t *testing.T) {
	tests := []jsonapi.Filter{
		{Field: "has_dynamic_data", Op: jsonapi.OpTerm, Value: "maybe"},
		{Field: "source", Op: jsonapi.OpExists, Value: "sometimes"},
	}
	for _, f := range tests {
		t.Run(f.Field, func(t *testing.T) {
			db, mock := newMockDB(t)
			p := jsonapi.ListParams{Page: 1, PerPage: 20, Filters: []jsonapi.Filter{f}}

			_, err := NewDatasetsStore(db).CountDatasets(context.Background(), p)
			var reqErr *jsonapi.RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, f.Field+"["+string(f.Op)+"]", reqErr.Parameter)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFetchDatasetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "datasets" WHERE datasets.status = \$1 AND datasets.id = \$2`).
		WithArgs("published", 12).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewDatasetsStore(db).FetchDataset(context.Background(), 12)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatasetAggregations(t *testing.T) {
	db, mock := newMockDB(t)
	p := listParams(t, "", store.DatasetListSpec)

	mock.ExpectQuery(`SELECT o.id::text AS key, o.title AS title, count\(\*\) AS doc_count FROM "datasets" JOIN organizations o`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "title", "doc_count"}).AddRow("2", "GUS", 5))
	mock.ExpectQuery(`SELECT c.code AS key`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "title", "doc_count"}))
	mock.ExpectQuery(`SELECT lower\(r.format\) AS key`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "title", "doc_count"}).
			AddRow("csv", "csv", 4).
			AddRow("xlsx", "xlsx", 1))
	mock.ExpectQuery(`SELECT datasets.license_code AS key`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "title", "doc_count"}).AddRow("CC0 1.0", "CC0 1.0", 5))

	aggs, err := NewDatasetsStore(db).DatasetAggregations(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []store.Bucket{{Key: "2", Title: "GUS", DocCount: 5}}, aggs["by_institution"])
	assert.Empty(t, aggs["by_category"])
	assert.NotNil(t, aggs["by_category"])
	assert.Len(t, aggs["by_format"], 2)
	assert.Equal(t, int64(5), aggs["by_license"][0].DocCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListResourcesBadType(t *testing.T) {
	db, _ := newMockDB(t)
	p := listParams(t, "type[term]=spreadsheet", store.ResourceListSpec)

	_, _, err := NewResourcesStore(db).ListResources(context.Background(), p)
	var reqErr *jsonapi.RequestError
	assert.True(t, errors.As(err, &reqErr))
}

func TestUpdateLinkStatus(t *testing.T) {
	ctx := context.Background()
	checked := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)

	t.Run("updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "resources" SET "link_checked_at"=\$1,"link_status"=\$2 WHERE id = \$3`).
			WithArgs(checked, "broken", 5).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := NewResourcesStore(db).UpdateLinkStatus(ctx, 5, model.LinkStatusBroken, checked)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing resource", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "resources"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := NewResourcesStore(db).UpdateLinkStatus(ctx, 5, model.LinkStatusOk, checked)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUpdateFormat(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "resources" SET "format"=\$1,"media_type"=\$2,"openness_score"=\$3 WHERE \(?id = \$4 AND format = ''`).
		WithArgs("csv", "text/csv", 3, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewResourcesStore(db).UpdateFormat(context.Background(), 5, "csv", "text/csv", 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotificationsRead(t *testing.T) {
	ctx := context.Background()

	t.Run("selected ids", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "notifications" SET "status"=\$1 WHERE notifications.subscription_id IN \(SELECT id FROM subscriptions WHERE user_id = \$2\) AND notifications.status = \$3 AND notifications.id IN \(\$4,\$5\)`).
			WithArgs("read", 7, "new", 1, 2).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		n, err := NewWatchersStore(db).MarkNotificationsRead(ctx, 7, []uint{1, 2})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty selection", func(t *testing.T) {
		db, mock := newMockDB(t)
		n, err := NewWatchersStore(db).MarkNotificationsRead(ctx, 7, []uint{})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateScheduleConflict(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "schedules"`).WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := NewSchedulesStore(db).CreateSchedule(context.Background(), &model.Schedule{PeriodName: "2024"})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestHarvestStoreLookups(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	hs := NewHarvestStore(db)

	ids, err := hs.OrganizationIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	mock.ExpectQuery(`SELECT id, slug FROM "organizations" WHERE slug IN \(\$1,\$2\)`).
		WithArgs("gus", "mf").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}).AddRow(2, "gus"))
	ids, err = hs.OrganizationIDs(ctx, []string{"gus", "mf"})
	require.NoError(t, err)
	assert.Equal(t, map[string]uint{"gus": 2}, ids)

	mock.ExpectQuery(`SELECT .*ext_ident.* FROM "datasets" WHERE ext_ident IN \(\$1,\$2\) AND source_id IS NOT NULL AND source_id <> \$3`).
		WithArgs("a", "b", 3).
		WillReturnRows(sqlmock.NewRows([]string{"ext_ident"}).AddRow("b"))
	taken, err := hs.ForeignExtIdents(ctx, 3, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"b": true}, taken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDatasets(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "resources" SET "deleted_at"=\$1 WHERE dataset_id IN \(\$2,\$3\)`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`UPDATE "datasets" SET "deleted_at"=\$1 WHERE id IN \(\$2,\$3\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := NewHarvestStore(db).DeleteDatasets(context.Background(), []uint{10, 11})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinishImport(t *testing.T) {
	db, mock := newMockDB(t)
	start := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "data_source_imports"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec(`UPDATE "data_sources" SET "last_import_at"=\$1,"last_import_status"=\$2 WHERE id = \$3`).
		WithArgs(end, "ok-partial-errors", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	src := &model.DataSource{ID: 3, Name: "CKAN Wrocław"}
	imp := &model.DataSourceImport{RunID: "4f1c", Start: start, End: &end, Status: model.ImportStatusOkPartialErrors}
	require.NoError(t, NewHarvestStore(db).FinishImport(context.Background(), src, imp))

	assert.Equal(t, uint(9), imp.ID)
	assert.Equal(t, uint(3), imp.DataSourceID)
	assert.Equal(t, "ok-partial-errors", src.LastImportStatus)
	require.NotNil(t, src.LastImportAt)
	assert.Equal(t, end, *src.LastImportAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderBy(t *testing.T) {
	sorts := []jsonapi.SortField{{Field: "title", Desc: true}, {Field: "bogus"}}
	assert.Equal(t, "datasets.title DESC, datasets.id", orderBy(sorts, datasetSorts))
	assert.Equal(t, "datasets.id", orderBy(nil, datasetSorts))
}

func TestLikePatternEscapes(t *testing.T) {
	assert.Equal(t, `%50\% off\_x%`, likePattern("50% off_x"))
}
