package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Rejestr zabytków", "rejestr-zabytkow"},
		{"Jakość powietrza  w Łodzi (2023)", "jakosc-powietrza-w-lodzi-2023"},
		{"  --Żółć--  ", "zolc"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.title))
		})
	}
}

func TestParseIdent(t *testing.T) {
	id, ok := ParseIdent("123,rejestr-zabytkow")
	assert.True(t, ok)
	assert.Equal(t, uint(123), id)

	id, ok = ParseIdent("7")
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)

	_, ok = ParseIdent("abc")
	assert.False(t, ok)
	_, ok = ParseIdent("0")
	assert.False(t, ok)
}

func TestDatasetFormats(t *testing.T) {
	d := Dataset{Resources: []Resource{{Format: "CSV"}, {Format: "xlsx"}, {Format: "csv"}, {}}}
	assert.Equal(t, []string{"csv", "xlsx"}, d.Formats())
}

func TestDatasetTagNames(t *testing.T) {
	d := Dataset{Tags: []Tag{{Name: "woda", Language: "pl"}, {Name: "water", Language: "en"}}}
	assert.Equal(t, []string{"woda"}, d.TagNames("pl"))
	assert.Len(t, d.TagNames(""), 2)
}

func TestDatasetSameContent(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	base := func() *Dataset {
		d := day
		return &Dataset{
			ID:         7,
			Title:      "Ludność",
			ExtIdent:   "ludnosc",
			Categories: []Category{{ID: 3, Code: "soci"}},
			Tags:       []Tag{{Name: "gmina"}},
			Resources: []Resource{
				{ID: 1, ExtIdent: "r1", Link: "https://example.com/a.csv", Format: "csv", DataDate: &d},
				{ID: 2, ExtIdent: "r2", Link: "https://example.com/b.json", Format: "json"},
			},
		}
	}

	stored := base()
	stored.ModifiedAt = day
	stored.ViewsCount = 40
	stored.Tags[0].Language = "pl"
	stored.Resources[0], stored.Resources[1] = stored.Resources[1], stored.Resources[0]
	stored.Resources[0].LinkStatus = LinkStatusBroken
	assert.True(t, base().SameContent(stored))

	tests := []struct {
		name   string
		mutate func(d *Dataset)
	}{
		{"title", func(d *Dataset) { d.Title = "Ludność 2024" }},
		{"hvd categories", func(d *Dataset) { d.HVDCategories = []string{"statistics"} }},
		{"category", func(d *Dataset) { d.Categories = []Category{{Code: "econ"}} }},
		{"tag language", func(d *Dataset) { d.Tags[0].Language = "en" }},
		{"resource link", func(d *Dataset) { d.Resources[1].Link = "https://example.com/c.json" }},
		{"resource data date", func(d *Dataset) { d.Resources[0].DataDate = nil }},
		{"resource added", func(d *Dataset) { d.Resources = append(d.Resources, Resource{ExtIdent: "r3"}) }},
		{"resource replaced", func(d *Dataset) { d.Resources[1].ExtIdent = "r9" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base()
			tt.mutate(d)
			assert.False(t, d.SameContent(stored))
		})
	}
}

func TestEnumTextRoundTrip(t *testing.T) {
	status, err := ImportStatusString("ok-partial-errors")
	require.NoError(t, err)
	assert.Equal(t, ImportStatusOkPartialErrors, status)

	data, err := json.Marshal(NotificationTypeResultCountIncresed)
	require.NoError(t, err)
	assert.Equal(t, `"result_count_incresed"`, string(data))

	var role UserRole
	require.NoError(t, role.Scan([]byte("agent")))
	assert.Equal(t, UserRoleAgent, role)
	assert.Error(t, role.Scan("superuser"))

	v, err := LinkStatusBroken.Value()
	require.NoError(t, err)
	assert.Equal(t, "broken", v)
}

func TestUserHasRole(t *testing.T) {
	admin := User{Role: UserRoleAdmin}
	agent := User{Role: UserRoleAgent}
	assert.True(t, admin.HasRole(UserRoleAgent))
	assert.True(t, agent.HasRole(UserRoleAgent, UserRoleEditor))
	assert.False(t, agent.HasRole(UserRoleEditor))
}

func TestDataSourceFrequency(t *testing.T) {
	s := DataSource{SourceType: SourceTypeXml, XMLURL: "https://example.org/feed.xml"}
	assert.Equal(t, "https://example.org/feed.xml", s.SourceURL())
	assert.Equal(t, 24*60*60, int(s.Frequency().Seconds()))
	s.FrequencyInDays = 7
	assert.Equal(t, 7*24, int(s.Frequency().Hours()))
}

func TestHVDCategoryURI(t *testing.T) {
	uri, ok := HVDCategoryURI("statistics")
	require.True(t, ok)
	assert.Equal(t, "http://data.europa.eu/bna/c_e1da4e07", uri)

	code, ok := HVDCategoryFromURI(uri)
	require.True(t, ok)
	assert.Equal(t, "statistics", code)

	code, ok = HVDCategoryFromURI("mobility")
	assert.True(t, ok)
	assert.Equal(t, "mobility", code)

	_, ok = HVDCategoryFromURI("http://data.europa.eu/bna/c_unknown")
	assert.False(t, ok)
	_, ok = HVDCategoryURI("agriculture")
	assert.False(t, ok)
}
