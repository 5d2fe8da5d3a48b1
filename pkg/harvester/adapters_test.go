package harvester

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otwartedane/mcod/pkg/model"
)

func ckanPackageJSON(i int) string {
	return fmt.Sprintf(`{
		"id": "pkg-%d",
		"name": "package-%d",
		"title": "Package %d",
		"notes": "Some **bold** notes",
		"license_id": "cc-by",
		"metadata_modified": "2024-02-01T10:00:00.000000",
		"organization": {"name": "gus"},
		"tags": [{"name": "ludność"}],
		"groups": [{"name": "soci"}],
		"extras": [{"key": "hvd", "value": "true"}, {"key": "hvd_categories", "value": "statistics, mobility"}],
		"resources": [{"id": "res-%d", "name": "", "url": "https://example.com/%d.csv", "format": "CSV", "dga": true}]
	}`, i, i, i, i, i)
}

func TestCKANAdapterPaginates(t *testing.T) {
	var starts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/3/action/package_search", r.URL.Path)
		starts = append(starts, r.URL.Query().Get("start"))
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		rows, _ := strconv.Atoi(r.URL.Query().Get("rows"))

		var pkgs []string
		for i := start; i < start+rows && i < 5; i++ {
			pkgs = append(pkgs, ckanPackageJSON(i))
		}
		fmt.Fprintf(w, `{"success": true, "result": {"count": 5, "results": [%s]}}`, strings.Join(pkgs, ","))
	}))
	defer srv.Close()

	a := NewCKANAdapter(srv.URL+"/", srv.Client())
	a.pageSize = 2

	records, err := a.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"0", "2", "4"}, starts)

	rec := records[1]
	assert.Equal(t, "pkg-1", rec.ExtIdent)
	assert.Equal(t, "Package 1", rec.Title)
	assert.Equal(t, "<p>Some <strong>bold</strong> notes</p>", rec.Notes)
	assert.Equal(t, "CC BY 4.0", rec.LicenseCode)
	assert.Equal(t, "gus", rec.Organization)
	assert.Equal(t, []string{"soci"}, rec.Categories)
	assert.Equal(t, []TagRecord{{Name: "ludność", Language: "pl"}}, rec.Tags)
	assert.True(t, rec.IsHighValue)
	assert.Equal(t, []string{"statistics", "mobility"}, rec.HVDCategories)
	require.NotNil(t, rec.Modified)

	require.Len(t, rec.Resources, 1)
	res := rec.Resources[0]
	assert.Equal(t, "res-1", res.ExtIdent)
	assert.Equal(t, "Package 1", res.Title)
	assert.Equal(t, "csv", res.Format)
	assert.True(t, res.ContainsProtectedData)
}

func TestCKANAdapterFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false, "error": {"message": "Access denied", "__type": "Authorization Error"}}`)
	}))
	defer srv.Close()

	_, err := NewCKANAdapter(srv.URL, srv.Client()).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Access denied")
}

func TestCKANAdapterHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewCKANAdapter(srv.URL, srv.Client()).Fetch(context.Background())
	assert.ErrorContains(t, err, "404")
}

const xmlDoc = `<?xml version="1.0" encoding="UTF-8"?>
<datasets version="1.4">
  <dataset>
    <extIdent>ds-1</extIdent>
    <title><polish>Rejestr zabytków</polish><english>Register of monuments</english></title>
    <description><polish>Opis</polish></description>
    <url>https://example.com/zabytki</url>
    <updateFrequency>monthly</updateFrequency>
    <hasDynamicData>false</hasDynamicData>
    <hasHighValueData>true</hasHighValueData>
    <hvdCategories><hvdCategory>geospatial</hvdCategory></hvdCategories>
    <hasResearchData>true</hasResearchData>
    <categories><category>educ</category></categories>
    <tags><tag lang="pl">zabytki</tag><tag lang="en">monuments</tag></tags>
    <licenseCode>CC0 1.0</licenseCode>
    <resources>
      <resource>
        <extIdent>r-1</extIdent>
        <url>https://example.com/zabytki.xlsx</url>
        <title><polish>Zabytki 2023</polish></title>
        <description><polish>Arkusz</polish></description>
        <format>XLSX</format>
        <containsProtectedData>false</containsProtectedData>
        <hasHighValueData>true</hasHighValueData>
        <dataDate>2023-12-31</dataDate>
      </resource>
    </resources>
  </dataset>
</datasets>`

func TestXMLAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, xmlDoc)
	}))
	defer srv.Close()

	records, err := NewXMLAdapter(srv.URL, srv.Client()).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "ds-1", rec.ExtIdent)
	assert.Equal(t, "Rejestr zabytków", rec.Title)
	assert.Equal(t, "Register of monuments", rec.TitleEn)
	assert.True(t, rec.IsHighValue)
	assert.True(t, rec.HasResearchData)
	assert.Equal(t, []string{"geospatial"}, rec.HVDCategories)
	assert.Equal(t, []string{"educ"}, rec.Categories)
	assert.Equal(t, []TagRecord{{"zabytki", "pl"}, {"monuments", "en"}}, rec.Tags)
	require.Len(t, rec.Resources, 1)
	assert.Equal(t, "xlsx", rec.Resources[0].Format)
	require.NotNil(t, rec.Resources[0].DataDate)
	assert.Equal(t, 2023, rec.Resources[0].DataDate.Year())
}

func TestXMLAdapterVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<datasets version="2.0"></datasets>`)
	}))
	defer srv.Close()

	_, err := NewXMLAdapter(srv.URL, srv.Client()).Fetch(context.Background())
	assert.ErrorContains(t, err, "unsupported xml schema version")
}

const dcatTurtle = `
@prefix dcat: <http://www.w3.org/ns/dcat#> .
@prefix dct: <http://purl.org/dc/terms/> .
@prefix dcatap: <http://data.europa.eu/r5r/> .
@prefix foaf: <http://xmlns.com/foaf/0.1/> .

<https://example.com/dataset/1> a dcat:Dataset ;
    dct:identifier "ds-1" ;
    dct:title "Air quality"@en, "Jakość powietrza"@pl ;
    dct:description "Pomiary"@pl ;
    dct:license <http://creativecommons.org/licenses/by/4.0/> ;
    dcat:keyword "powietrze"@pl ;
    dcat:theme <http://publications.europa.eu/resource/authority/data-theme/ENVI> ;
    dcatap:hvdCategory <http://data.europa.eu/bna/c_dd313021> ;
    dct:publisher <https://example.com/org/gios> ;
    dcat:distribution <https://example.com/distribution/1> .

<https://example.com/org/gios> a foaf:Agent ;
    foaf:name "Główny Inspektorat Ochrony Środowiska" .

<https://example.com/distribution/1> a dcat:Distribution ;
    dct:title "Pomiary 2023"@pl ;
    dcat:downloadURL <https://example.com/files/pomiary.csv> ;
    dct:format <http://publications.europa.eu/resource/authority/file-type/CSV> ;
    dcatap:hvdCategory <http://data.europa.eu/bna/c_dd313021> .
`

func TestParseDCAT(t *testing.T) {
	records, err := ParseDCAT(strings.NewReader(dcatTurtle), rdf.Turtle)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "ds-1", rec.ExtIdent)
	assert.Equal(t, "Jakość powietrza", rec.Title)
	assert.Equal(t, "Air quality", rec.TitleEn)
	assert.Equal(t, "CC BY 4.0", rec.LicenseCode)
	assert.Equal(t, []string{"envi"}, rec.Categories)
	assert.True(t, rec.IsHighValue)
	assert.Equal(t, []string{"earth-observation-and-environment"}, rec.HVDCategories)
	assert.Equal(t, "glowny-inspektorat-ochrony-srodowiska", rec.Organization)
	assert.Equal(t, []TagRecord{{"powietrze", "pl"}}, rec.Tags)

	require.Len(t, rec.Resources, 1)
	res := rec.Resources[0]
	assert.Equal(t, "https://example.com/distribution/1", res.ExtIdent)
	assert.Equal(t, "https://example.com/files/pomiary.csv", res.Link)
	assert.Equal(t, "csv", res.Format)
	assert.True(t, res.IsHighValue)
}

func TestRDFFormat(t *testing.T) {
	assert.Equal(t, rdf.Turtle, rdfFormat("text/turtle; charset=utf-8", "https://x/catalog"))
	assert.Equal(t, rdf.NTriples, rdfFormat("", "https://x/catalog.nt"))
	assert.Equal(t, rdf.RDFXML, rdfFormat("application/octet-stream", "https://x/catalog"))
}

func TestNewAdapter(t *testing.T) {
	_, err := NewAdapter(&model.DataSource{Name: "x", SourceType: model.SourceTypeXml}, nil)
	assert.Error(t, err)

	a, err := NewAdapter(&model.DataSource{SourceType: model.SourceTypeDcat, DCATURL: "https://x/catalog.ttl"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &DCATAdapter{}, a)
}
