package endpoints

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

func plannedSchedule() *model.Schedule {
	return &model.Schedule{
		ID:         2,
		PeriodName: "2024",
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		State:      model.ScheduleStatePlanned,
		CreatedAt:  created,
	}
}

func TestSchedulesRequireAgent(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do("GET", "/auth/schedules", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do("GET", "/auth/schedules", ts.login(t, testUser), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCurrentSchedule(t *testing.T) {
	ts := newTestServer(t)
	ts.schedules.On("PlannedSchedule").Return(plannedSchedule(), nil)

	rec := ts.do("GET", "/auth/schedules/current", ts.login(t, testAgent), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	obj := decode(t, rec).one(t)
	assert.Equal(t, "schedule", obj.Type)
	assert.Equal(t, "2", obj.ID)
	assert.Equal(t, "2024-01-01", obj.Attributes["start_date"])
	assert.Equal(t, "planned", obj.Attributes["state"])
	assert.Equal(t, "https://api.test/auth/schedules/2", obj.Links["self"])
}

func TestCurrentScheduleFallsBackToLatest(t *testing.T) {
	ts := newTestServer(t)
	latest := plannedSchedule()
	latest.State = model.ScheduleStateArchived
	ts.schedules.On("PlannedSchedule").Return(nil, store.ErrNotFound)
	ts.schedules.On("LatestSchedule").Return(latest, nil)

	rec := ts.do("GET", "/auth/schedules/current", ts.login(t, testAgent), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "archived", decode(t, rec).one(t).Attributes["state"])
}

func TestCreateSchedule(t *testing.T) {
	body := `{"data":{"type":"schedule","attributes":{"period_name":"2025","start_date":"2025-01-01","end_date":"2025-12-31"}}}`

	t.Run("administrator", func(t *testing.T) {
		ts := newTestServer(t)
		ts.schedules.On("PlannedSchedule").Return(nil, store.ErrNotFound)
		ts.schedules.On("CreateSchedule", mock.MatchedBy(func(s *model.Schedule) bool {
			return s.PeriodName == "2025" && s.EndDate.Equal(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
		})).Run(func(args mock.Arguments) {
			args.Get(0).(*model.Schedule).ID = 3
		}).Return(nil)

		rec := ts.do("POST", "/auth/schedules", ts.login(t, testAdmin), body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		obj := decode(t, rec).one(t)
		assert.Equal(t, "3", obj.ID)
		assert.Equal(t, "2025-12-31", obj.Attributes["end_date"])
	})

	t.Run("planned schedule exists", func(t *testing.T) {
		ts := newTestServer(t)
		ts.schedules.On("PlannedSchedule").Return(plannedSchedule(), nil)

		rec := ts.do("POST", "/auth/schedules", ts.login(t, testAdmin), body)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("agent", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do("POST", "/auth/schedules", ts.login(t, testAgent), body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid date", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do("POST", "/auth/schedules", ts.login(t, testAdmin),
			`{"data":{"type":"schedule","attributes":{"period_name":"2025","start_date":"01.01.2025","end_date":"2025-12-31"}}}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "/data/attributes/start_date", decode(t, rec).Errors[0].Source.Pointer)
	})

	t.Run("end before start", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do("POST", "/auth/schedules", ts.login(t, testAdmin),
			`{"data":{"type":"schedule","attributes":{"period_name":"2025","start_date":"2025-06-01","end_date":"2025-01-01"}}}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "/data/attributes/end_date", decode(t, rec).Errors[0].Source.Pointer)
	})
}

func TestScheduleNotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.schedules.On("FetchSchedule", uint(40)).Return(nil, store.ErrNotFound)

	rec := ts.do("GET", "/auth/schedules/40", ts.login(t, testAgent), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHarvesterEndpoints(t *testing.T) {
	ts := newTestServer(t)
	org := sampleOrganization()
	ts.sources.On("ListDataSources", false).Return([]model.DataSource{{
		ID:             1,
		Name:           "CKAN GUS",
		SourceType:     model.SourceTypeCkan,
		APIURL:         "https://ckan.example.org/api/3/action/package_search",
		OrganizationID: &org.ID,
		Organization:   org,
		Active:         true,
		CreatedAt:      created,
	}}, nil)
	ts.sources.On("FetchDataSource", uint(5)).Return(nil, store.ErrNotFound)

	rec := ts.do("GET", "/auth/harvester/sources", ts.login(t, testAgent), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := ts.login(t, testAdmin)
	rec = ts.do("GET", "/auth/harvester/sources", admin, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	doc := decode(t, rec)
	objs := doc.many(t)
	require.Len(t, objs, 1)
	assert.Equal(t, "data_source", objs[0].Type)
	assert.Equal(t, "ckan", objs[0].Attributes["source_type"])
	assert.Equal(t, "https://ckan.example.org/api/3/action/package_search", objs[0].Attributes["source_url"])
	assert.Equal(t, "gus", objs[0].Attributes["organization"])
	assert.Equal(t, float64(1), doc.Meta["count"])

	rec = ts.do("GET", "/auth/harvester/sources/5/imports", admin, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckLinksRejectsBadDataset(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do("POST", "/auth/resources/check-links?dataset=abc", ts.login(t, testAdmin), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "dataset", decode(t, rec).Errors[0].Source.Parameter)

	rec = ts.do("POST", "/auth/resources/check-links", ts.login(t, testUser), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
