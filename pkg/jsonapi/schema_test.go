package jsonapi

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOrg struct {
	ID    int
	Title string
}

type testDataset struct {
	ID    int
	Title string
	Notes string
	Org   *testOrg
}

var testOrgSchema = &Schema[*testOrg]{
	Type: "institution",
	ID:   func(o *testOrg) string { return strconv.Itoa(o.ID) },
	Attributes: func(o *testOrg) map[string]interface{} {
		return map[string]interface{}{"title": o.Title}
	},
}

var testDatasetSchema = &Schema[*testDataset]{
	Type: "dataset",
	ID:   func(d *testDataset) string { return strconv.Itoa(d.ID) },
	Attributes: func(d *testDataset) map[string]interface{} {
		return map[string]interface{}{"title": d.Title, "notes": d.Notes}
	},
	SelfLink: func(d *testDataset) string { return "/datasets/" + strconv.Itoa(d.ID) },
	Relationships: map[string]RelationshipDef[*testDataset]{
		"institution": {
			Includable: true,
			Resolve: func(d *testDataset) Linkage {
				obj, _ := testOrgSchema.Object(d.Org, Options{})
				return Linkage{Objects: []*Object{obj}, ToOne: true, Related: "/institutions/" + obj.ID}
			},
		},
		"resources": {
			Resolve: func(d *testDataset) Linkage {
				n := 2
				return Linkage{Related: "/datasets/" + strconv.Itoa(d.ID) + "/resources", Count: &n}
			},
		},
	},
}

func TestSchemaObject(t *testing.T) {
	d := &testDataset{ID: 7, Title: "Air quality", Notes: "<p>hourly</p>", Org: &testOrg{ID: 3, Title: "GIOŚ"}}

	obj, included := testDatasetSchema.Object(d, Options{})

	assert.Equal(t, "7", obj.ID)
	assert.Equal(t, "dataset", obj.Type)
	assert.Equal(t, "Air quality", obj.Attributes["title"])
	assert.Equal(t, "/datasets/7", obj.Links["self"])
	assert.Empty(t, included)

	require.Contains(t, obj.Relationships, "institution")
	assert.Equal(t, &ResourceIdentifier{ID: "3", Type: "institution"}, obj.Relationships["institution"].Data)
	assert.Equal(t, "/institutions/3", obj.Relationships["institution"].Links["related"])

	require.Contains(t, obj.Relationships, "resources")
	assert.Nil(t, obj.Relationships["resources"].Data)
	assert.Equal(t, 2, obj.Relationships["resources"].Meta["count"])
}

func TestSchemaManyIncludesDeduplicated(t *testing.T) {
	org := &testOrg{ID: 3, Title: "GIOŚ"}
	ds := []*testDataset{
		{ID: 1, Title: "a", Org: org},
		{ID: 2, Title: "b", Org: org},
		{ID: 3, Title: "c", Org: &testOrg{ID: 4, Title: "GUS"}},
	}

	objects, included := testDatasetSchema.Many(ds, Options{Include: []string{"institution"}})

	require.Len(t, objects, 3)
	require.Len(t, included, 2)
	assert.Equal(t, "3", included[0].ID)
	assert.Equal(t, "4", included[1].ID)
}

func TestSparseFieldsets(t *testing.T) {
	d := &testDataset{ID: 1, Title: "a", Notes: "n", Org: &testOrg{ID: 3, Title: "GIOŚ"}}
	opts := Options{
		Include: []string{"institution"},
		Fields:  map[string][]string{"dataset": {"title"}, "institution": {"missing"}},
	}

	obj, included := testDatasetSchema.Object(d, opts)

	assert.Equal(t, map[string]interface{}{"title": "a"}, obj.Attributes)
	require.Len(t, included, 1)
	assert.Empty(t, included[0].Attributes)
}

func TestParseOptions(t *testing.T) {
	t.Run("valid include and fields", func(t *testing.T) {
		q := url.Values{"include": {"institution"}, "fields[dataset]": {"title, notes"}}
		opts, err := testDatasetSchema.ParseOptions(q)
		require.NoError(t, err)
		assert.Equal(t, []string{"institution"}, opts.Include)
		assert.Equal(t, []string{"title", "notes"}, opts.Fields["dataset"])
	})

	t.Run("unknown include", func(t *testing.T) {
		_, err := testDatasetSchema.ParseOptions(url.Values{"include": {"tags"}})
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, "include", reqErr.Parameter)
	})

	t.Run("non includable relationship", func(t *testing.T) {
		_, err := testDatasetSchema.ParseOptions(url.Values{"include": {"resources"}})
		assert.Error(t, err)
	})
}
