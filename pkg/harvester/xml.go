package harvester

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
)

// XMLAdapter reads the portal XML schema
type XMLAdapter struct {
	url    string
	client *http.Client
}

// NewXMLAdapter creates an adapter for the XML document at url
func NewXMLAdapter(url string, client *http.Client) *XMLAdapter {
	return &XMLAdapter{url: url, client: client}
}

// SupportedXMLVersion is the major version of the schema understood by
// XMLAdapter
const SupportedXMLVersion = "1"

type xmlDocument struct {
	XMLName  xml.Name     `xml:"datasets"`
	Version  string       `xml:"version,attr"`
	Datasets []xmlDataset `xml:"dataset"`
}

type xmlTranslated struct {
	Polish  string `xml:"polish"`
	English string `xml:"english"`
}

type xmlDataset struct {
	ExtIdent         string        `xml:"extIdent"`
	Title            xmlTranslated `xml:"title"`
	Description      xmlTranslated `xml:"description"`
	URL              string        `xml:"url"`
	UpdateFrequency  string        `xml:"updateFrequency"`
	HasDynamicData   string        `xml:"hasDynamicData"`
	HasHighValueData string        `xml:"hasHighValueData"`
	HVDCategories    []string      `xml:"hvdCategories>hvdCategory"`
	HasResearchData  string        `xml:"hasResearchData"`
	Categories       []string      `xml:"categories>category"`
	Tags             []xmlTag      `xml:"tags>tag"`
	LicenseCode      string        `xml:"licenseCode"`
	Organization     string        `xml:"organization"`
	LastUpdateDate   string        `xml:"lastUpdateDate"`
	Resources        []xmlResource `xml:"resources>resource"`
}

type xmlTag struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

type xmlResource struct {
	ExtIdent              string        `xml:"extIdent"`
	URL                   string        `xml:"url"`
	Title                 xmlTranslated `xml:"title"`
	Description           xmlTranslated `xml:"description"`
	Format                string        `xml:"format"`
	ContainsProtectedData string        `xml:"containsProtectedData"`
	HasHighValueData      string        `xml:"hasHighValueData"`
	DataDate              string        `xml:"dataDate"`
	LastUpdateDate        string        `xml:"lastUpdateDate"`
}

// Fetch downloads and decodes the XML document
func (a *XMLAdapter) Fetch(ctx context.Context) ([]DatasetRecord, error) {
	resp, err := get(ctx, a.client, a.url, "application/xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var doc xmlDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding xml: %w", err)
	}
	if err := checkXMLVersion(doc.Version); err != nil {
		return nil, err
	}

	records := make([]DatasetRecord, 0, len(doc.Datasets))
	for _, d := range doc.Datasets {
		records = append(records, d.record())
	}
	return records, nil
}

func checkXMLVersion(v string) error {
	major, _, _ := strings.Cut(strings.TrimSpace(v), ".")
	if major != SupportedXMLVersion {
		return fmt.Errorf("unsupported xml schema version %q", v)
	}
	return nil
}

func (d xmlDataset) record() DatasetRecord {
	rec := DatasetRecord{
		ExtIdent:        strings.TrimSpace(d.ExtIdent),
		Title:           strings.TrimSpace(d.Title.Polish),
		TitleEn:         strings.TrimSpace(d.Title.English),
		Notes:           strings.TrimSpace(d.Description.Polish),
		URL:             strings.TrimSpace(d.URL),
		UpdateFrequency: strings.TrimSpace(d.UpdateFrequency),
		LicenseCode:     strings.TrimSpace(d.LicenseCode),
		Organization:    strings.TrimSpace(d.Organization),
		HasDynamicData:  isTrue(d.HasDynamicData),
		HasResearchData: isTrue(d.HasResearchData),
		IsHighValue:     isTrue(d.HasHighValueData),
		HVDCategories:   trimAll(d.HVDCategories),
		Categories:      trimAll(d.Categories),
		Modified:        parseTime(d.LastUpdateDate),
	}
	for _, t := range d.Tags {
		lang := strings.TrimSpace(t.Lang)
		if lang == "" {
			lang = "pl"
		}
		if name := strings.TrimSpace(t.Value); name != "" {
			rec.Tags = append(rec.Tags, TagRecord{Name: name, Language: lang})
		}
	}
	for _, r := range d.Resources {
		rec.Resources = append(rec.Resources, ResourceRecord{
			ExtIdent:              strings.TrimSpace(r.ExtIdent),
			Title:                 strings.TrimSpace(r.Title.Polish),
			Description:           strings.TrimSpace(r.Description.Polish),
			Link:                  strings.TrimSpace(r.URL),
			Format:                strings.ToLower(strings.TrimSpace(r.Format)),
			ContainsProtectedData: isTrue(r.ContainsProtectedData),
			IsHighValue:           isTrue(r.HasHighValueData),
			DataDate:              parseTime(r.DataDate),
			Modified:              parseTime(r.LastUpdateDate),
		})
	}
	return rec
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
