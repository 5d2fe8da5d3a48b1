package catalog

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store/mocks"
)

func sampleDatasets() []model.Dataset {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []model.Dataset{{
		ID:            12,
		Slug:          "jakosc-powietrza",
		Title:         "Jakość powietrza",
		Notes:         "Pomiary",
		CreatedAt:     created,
		ModifiedAt:    created,
		HVDCategories: []string{"statistics"},
		Tags:          []model.Tag{{Name: "powietrze", Language: "pl"}},
		Organization:  &model.Organization{ID: 4, Slug: "gios", Title: "GIOŚ"},
		Resources: []model.Resource{
			{ID: 30, Title: "Pomiary 2023", Link: "https://example.com/a.csv", Format: "csv", MediaType: "text/csv", Status: model.PublicationStatusPublished, IsHighValue: true},
			{ID: 31, Title: "Szkic", Status: model.PublicationStatusDraft},
		},
	}}
}

func TestWriteNTriples(t *testing.T) {
	c := &Catalog{BaseURL: "https://api.dane.gov.pl/", Title: "Otwarte Dane"}
	triples, err := c.Triples(sampleDatasets())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, NTriples, triples))
	out := buf.String()

	for _, line := range []string{
		`<https://api.dane.gov.pl/catalog> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/ns/dcat#Catalog> .`,
		`<https://api.dane.gov.pl/catalog> <http://www.w3.org/ns/dcat#dataset> <https://api.dane.gov.pl/datasets/12> .`,
		`<https://api.dane.gov.pl/datasets/12> <http://purl.org/dc/terms/description> "Pomiary"@pl .`,
		`<https://api.dane.gov.pl/datasets/12> <http://www.w3.org/ns/dcat#landingPage> <https://api.dane.gov.pl/datasets/12,jakosc-powietrza> .`,
		`<https://api.dane.gov.pl/datasets/12> <http://data.europa.eu/r5r/hvdCategory> <http://data.europa.eu/bna/c_e1da4e07> .`,
		`<https://api.dane.gov.pl/datasets/12> <http://purl.org/dc/terms/publisher> <https://api.dane.gov.pl/organizations/4> .`,
		`<https://api.dane.gov.pl/resources/30> <http://www.w3.org/ns/dcat#accessURL> <https://example.com/a.csv> .`,
	} {
		assert.Contains(t, out, line)
	}
	assert.NotContains(t, out, "/resources/31")
}

func TestWriteTurtle(t *testing.T) {
	c := &Catalog{BaseURL: "https://api.dane.gov.pl", Title: "Otwarte Dane"}
	triples, err := c.Triples(sampleDatasets())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Turtle, triples))
	out := buf.String()
	assert.True(t, strings.Contains(out, "<https://api.dane.gov.pl/datasets/12>"), out)
	assert.Contains(t, out, "Dataset")
}

func TestPage(t *testing.T) {
	st := &mocks.DatasetsStore{}
	st.On("ListCatalogDatasets", 20, 10).Return(sampleDatasets(), 21, nil)

	c := &Catalog{BaseURL: "https://api.dane.gov.pl", Title: "Otwarte Dane", Datasets: st}
	triples, count, err := c.Page(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(21), count)
	assert.NotEmpty(t, triples)
}

func TestSerializationFor(t *testing.T) {
	s, ok := SerializationFor("")
	assert.True(t, ok)
	assert.Equal(t, Turtle, s)
	s, ok = SerializationFor("nt")
	assert.True(t, ok)
	assert.Equal(t, "application/n-triples", s.MediaType)
	_, ok = SerializationFor("jsonld")
	assert.False(t, ok)
}
