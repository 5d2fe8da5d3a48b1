package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

var created = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func sampleOrganization() *model.Organization {
	return &model.Organization{
		ID:              3,
		Slug:            "gus",
		Title:           "Główny Urząd Statystyczny",
		InstitutionType: model.InstitutionTypeState,
		Status:          model.PublicationStatusPublished,
		DatasetsCount:   12,
		CreatedAt:       created,
		ModifiedAt:      created,
	}
}

func sampleDataset() model.Dataset {
	return model.Dataset{
		ID:             1,
		Slug:           "jakosc-wody",
		Title:          "Jakość wody",
		OrganizationID: 3,
		Organization:   sampleOrganization(),
		Status:         model.PublicationStatusPublished,
		LicenseCode:    "CC_BY_4.0",
		Tags:           []model.Tag{{ID: 1, Name: "woda", Language: "pl"}},
		Categories:     []model.Category{{ID: 2, Code: "ENVI", Title: "Środowisko"}},
		Resources: []model.Resource{
			{ID: 10, DatasetID: 1, Title: "Pomiary 2023", Format: "CSV", Status: model.PublicationStatusPublished, CreatedAt: created},
			{ID: 11, DatasetID: 1, Title: "Szkic", Format: "XLSX", Status: model.PublicationStatusDraft, CreatedAt: created},
		},
		CreatedAt:  created,
		ModifiedAt: created,
	}
}

func anyParams() interface{} {
	return mock.AnythingOfType("jsonapi.ListParams")
}

func TestStatusEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do("GET", "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "1.0", status.APIVersion)
	assert.NotEmpty(t, status.Version)

	ts.health.On("CheckConnectivity").Return(nil).Once()
	rec = ts.do("GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)

	ts.health.On("CheckConnectivity").Return(errors.New("connection refused")).Once()
	rec = ts.do("GET", "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}

func TestHandlerHeaders(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.0", rec.Header().Get("X-API-VERSION"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSpecEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do("GET", "/spec", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")

	rec = ts.do("GET", "/spec.json", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	paths, ok := doc["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, paths, "/datasets/{id}")
	assert.Contains(t, paths, "/auth/notifications/unread-count")
}

func TestListDatasets(t *testing.T) {
	ts := newTestServer(t)
	ts.datasets.On("ListDatasets", mock.MatchedBy(func(p jsonapi.ListParams) bool {
		f, ok := p.Filter("formats", jsonapi.OpTerms)
		return p.Query == "woda" && p.PerPage == 1 && ok && f.Value == "csv"
	})).Return([]model.Dataset{sampleDataset()}, 3, nil)

	rec := ts.do("GET", "/datasets?q=woda&formats[terms]=csv&per_page=1&include=organization", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, jsonapi.MediaType, rec.Header().Get("Content-Type"))

	doc := decode(t, rec)
	objs := doc.many(t)
	require.Len(t, objs, 1)
	assert.Equal(t, "dataset", objs[0].Type)
	assert.Equal(t, "1", objs[0].ID)
	assert.Equal(t, "https://api.test/datasets/1,jakosc-wody", objs[0].Links["self"])
	assert.Equal(t, []interface{}{"csv"}, objs[0].Attributes["formats"])
	assert.Equal(t, []interface{}{"woda"}, objs[0].Attributes["tags"])
	assert.Contains(t, objs[0].Relationships, "organization")

	require.Len(t, doc.Included, 1)
	assert.Equal(t, "institution", doc.Included[0]["type"])
	assert.Equal(t, "3", doc.Included[0]["id"])

	assert.Equal(t, float64(3), doc.Meta["count"])
	assert.Contains(t, doc.Links["next"], "page=2")
	assert.NotContains(t, doc.Links, "prev")
}

func TestListDatasetsAggregations(t *testing.T) {
	ts := newTestServer(t)
	ts.datasets.On("DatasetAggregations", anyParams()).Return(store.Aggregations{
		"by_format": {{Key: "csv", Title: "csv", DocCount: 4}},
	}, nil)
	ts.datasets.On("ListDatasets", anyParams()).Return([]model.Dataset{}, 0, nil)

	rec := ts.do("GET", "/datasets?aggregations=true", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc := decode(t, rec)
	assert.Empty(t, doc.many(t))
	aggs, ok := doc.Meta["aggregations"].(map[string]interface{})
	require.True(t, ok)
	formats := aggs["by_format"].([]interface{})
	require.Len(t, formats, 1)
	assert.Equal(t, float64(4), formats[0].(map[string]interface{})["doc_count"])
}

func TestListDatasetsBadRequests(t *testing.T) {
	tests := []struct {
		target    string
		parameter string
	}{
		{"/datasets?colour[terms]=red", "colour[terms]"},
		{"/datasets?sort=size", "sort"},
		{"/datasets?include=tags", "include"},
		{"/datasets?page=0", "page"},
		{"/datasets?aggregations=maybe", "aggregations"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			ts := newTestServer(t)
			rec := ts.do("GET", tt.target, "", "")
			require.Equal(t, http.StatusBadRequest, rec.Code)
			doc := decode(t, rec)
			require.Len(t, doc.Errors, 1)
			assert.Equal(t, tt.parameter, doc.Errors[0].Source.Parameter)
		})
	}
}

func TestListDatasetsStoreFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.datasets.On("ListDatasets", anyParams()).Return(nil, 0, errors.New("boom"))

	rec := ts.do("GET", "/datasets", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestGetDataset(t *testing.T) {
	ts := newTestServer(t)
	ds := sampleDataset()
	ts.datasets.On("FetchDataset", uint(1)).Return(&ds, nil)

	rec := ts.do("GET", "/datasets/1,jakosc-wody?include=resources", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc := decode(t, rec)
	obj := doc.one(t)
	assert.Equal(t, "Jakość wody", obj.Attributes["title"])
	assert.Equal(t, float64(1), obj.Relationships["resources"]["meta"].(map[string]interface{})["count"])
	require.Len(t, doc.Included, 1)
	assert.Equal(t, "resource", doc.Included[0]["type"])
	assert.Equal(t, "10", doc.Included[0]["id"])
}

func TestGetDatasetNotVisible(t *testing.T) {
	ts := newTestServer(t)
	draft := sampleDataset()
	draft.ID = 2
	draft.Status = model.PublicationStatusDraft
	ts.datasets.On("FetchDataset", uint(2)).Return(&draft, nil)
	ts.datasets.On("FetchDataset", uint(4)).Return(nil, store.ErrNotFound)

	for _, target := range []string{"/datasets/2", "/datasets/4,removed", "/datasets/abc", "/datasets/0"} {
		rec := ts.do("GET", target, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}

func TestListDatasetResources(t *testing.T) {
	ts := newTestServer(t)
	ds := sampleDataset()
	ts.datasets.On("ListDatasetResources", uint(1), mock.MatchedBy(func(p jsonapi.ListParams) bool {
		return len(p.Sort) == 1 && p.Sort[0].Field == "id"
	})).Return(ds.Resources[:1], 1, nil)
	ts.datasets.On("ListDatasetResources", uint(2), anyParams()).Return(nil, 0, store.ErrNotFound)

	rec := ts.do("GET", "/datasets/1/resources", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	objs := decode(t, rec).many(t)
	require.Len(t, objs, 1)
	assert.Equal(t, "csv", objs[0].Attributes["format"])
	assert.Equal(t, true, objs[0].Attributes["is_tabular"])

	rec = ts.do("GET", "/datasets/2/resources", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResources(t *testing.T) {
	ts := newTestServer(t)
	ds := sampleDataset()
	res := ds.Resources[0]
	res.Type = model.ResourceTypeApi
	res.Dataset = &ds
	ts.resources.On("ListResources", mock.MatchedBy(func(p jsonapi.ListParams) bool {
		f, ok := p.Filter("type", jsonapi.OpTerm)
		return ok && f.Value == "api"
	})).Return([]model.Resource{res}, 1, nil)
	ts.resources.On("FetchResource", uint(10)).Return(&res, nil)
	ts.resources.On("FetchResource", uint(99)).Return(nil, store.ErrNotFound)

	rec := ts.do("GET", "/resources?type[term]=api", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	objs := decode(t, rec).many(t)
	require.Len(t, objs, 1)
	assert.Equal(t, "api", objs[0].Attributes["type"])

	rec = ts.do("GET", "/resources/10?include=dataset", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode(t, rec)
	assert.Equal(t, "10", doc.one(t).ID)
	require.Len(t, doc.Included, 1)
	assert.Equal(t, "dataset", doc.Included[0]["type"])

	rec = ts.do("GET", "/resources/99", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrganizations(t *testing.T) {
	ts := newTestServer(t)
	org := sampleOrganization()
	ts.organizations.On("ListOrganizations", anyParams()).Return([]model.Organization{*org}, 1, nil)
	ts.organizations.On("FetchOrganization", uint(3)).Return(org, nil)
	ts.organizations.On("FetchOrganization", uint(5)).Return(nil, store.ErrNotFound)

	rec := ts.do("GET", "/organizations", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	objs := decode(t, rec).many(t)
	require.Len(t, objs, 1)
	assert.Equal(t, "institution", objs[0].Type)
	assert.Equal(t, "state", objs[0].Attributes["institution_type"])
	assert.Equal(t, float64(12), objs[0].Attributes["datasets_count"])

	rec = ts.do("GET", "/organizations/3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gus", decode(t, rec).one(t).Attributes["slug"])

	rec = ts.do("GET", "/organizations/5", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrganizationDatasets(t *testing.T) {
	ts := newTestServer(t)
	ts.organizations.On("FetchOrganization", uint(3)).Return(sampleOrganization(), nil)
	ts.organizations.On("FetchOrganization", uint(5)).Return(nil, store.ErrNotFound)
	ts.datasets.On("ListDatasets", mock.MatchedBy(func(p jsonapi.ListParams) bool {
		f, ok := p.Filter("organization", jsonapi.OpID)
		return ok && f.Value == "3"
	})).Return([]model.Dataset{sampleDataset()}, 1, nil).Once()

	rec := ts.do("GET", "/organizations/3/datasets?organization[id]=8", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode(t, rec).many(t), 1)

	rec = ts.do("GET", "/organizations/5/datasets", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrganizationDatasetsIgnoresInstitutionFilter(t *testing.T) {
	ts := newTestServer(t)
	ts.organizations.On("FetchOrganization", uint(5)).Return(sampleOrganization(), nil)
	ts.datasets.On("ListDatasets", mock.MatchedBy(func(p jsonapi.ListParams) bool {
		var fields []string
		for _, f := range p.Filters {
			fields = append(fields, f.Field+"="+f.Value)
		}
		return assert.ObjectsAreEqual([]string{"organization=5"}, fields)
	})).Return([]model.Dataset{sampleDataset()}, 1, nil).Once()

	rec := ts.do("GET", "/organizations/5/datasets?institution[id]=7&organization[id]=8", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode(t, rec).many(t), 1)
	ts.datasets.AssertExpectations(t)
}

func TestScopedFilters(t *testing.T) {
	assert.Equal(t, []string{"organization", "institution"}, scopedFilters("institution"))
	assert.Equal(t, []string{"category"}, scopedFilters("category"))
}

func TestCatalog(t *testing.T) {
	ts := newTestServer(t)
	ts.datasets.On("ListCatalogDatasets", 0, 20).Return([]model.Dataset{sampleDataset()}, 1, nil)

	rec := ts.do("GET", "/catalog", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/turtle; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	assert.Contains(t, rec.Body.String(), "https://api.test/datasets/1")

	rec = ts.do("GET", "/catalog?format=nt", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/n-triples; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = ts.do("GET", "/catalog?format=rdfxml", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
