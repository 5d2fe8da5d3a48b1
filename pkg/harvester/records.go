package harvester

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/otwartedane/mcod/pkg/model"
)

// DatasetRecord is a dataset as read from an external catalog
type DatasetRecord struct {
	ExtIdent        string
	Title           string
	TitleEn         string
	Notes           string
	URL             string
	UpdateFrequency string
	LicenseCode     string
	Organization    string
	Categories      []string
	Tags            []TagRecord
	HasDynamicData  bool
	HasResearchData bool
	IsHighValue     bool
	HVDCategories   []string
	Resources       []ResourceRecord
	Modified        *time.Time
}

// TagRecord is a keyword with its language
type TagRecord struct {
	Name     string
	Language string
}

// ResourceRecord is a distribution of a DatasetRecord
type ResourceRecord struct {
	ExtIdent              string
	Title                 string
	Description           string
	Link                  string
	Format                string
	ContainsProtectedData bool
	IsHighValue           bool
	DataDate              *time.Time
	Modified              *time.Time
}

// Adapter reads all datasets of one catalog
type Adapter interface {
	Fetch(ctx context.Context) ([]DatasetRecord, error)
}

// NewAdapter returns the adapter for the type of src
func NewAdapter(src *model.DataSource, client *http.Client) (Adapter, error) {
	if client == nil {
		client = http.DefaultClient
	}
	u := strings.TrimSpace(src.SourceURL())
	if u == "" {
		return nil, fmt.Errorf("data source %q has no %s url", src.Name, src.SourceType)
	}
	switch src.SourceType {
	case model.SourceTypeCkan:
		return NewCKANAdapter(u, client), nil
	case model.SourceTypeXml:
		return NewXMLAdapter(u, client), nil
	case model.SourceTypeDcat:
		return NewDCATAdapter(u, client), nil
	}
	return nil, fmt.Errorf("unsupported source type %s", src.SourceType)
}

func get(ctx context.Context, client *http.Client, url string, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", "mcod-harvester/1.0")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return resp, nil
}
