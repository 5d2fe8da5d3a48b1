package harvester

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// CKANPageSize is the number of packages requested per page
const CKANPageSize = 100

// CKANAdapter reads a CKAN catalog through package_search
type CKANAdapter struct {
	baseURL  string
	client   *http.Client
	pageSize int
	markdown goldmark.Markdown
}

// NewCKANAdapter creates an adapter for the CKAN instance at baseURL
func NewCKANAdapter(baseURL string, client *http.Client) *CKANAdapter {
	return &CKANAdapter{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		pageSize: CKANPageSize,
		markdown: goldmark.New(),
	}
}

type ckanResponse struct {
	Success bool `json:"success"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"__type"`
	} `json:"error"`
	Result struct {
		Count   int           `json:"count"`
		Results []ckanPackage `json:"results"`
	} `json:"result"`
}

type ckanPackage struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	Notes        string `json:"notes"`
	URL          string `json:"url"`
	LicenseID    string `json:"license_id"`
	Modified     string `json:"metadata_modified"`
	Organization *struct {
		Name string `json:"name"`
	} `json:"organization"`
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
	Groups []struct {
		Name string `json:"name"`
	} `json:"groups"`
	Extras []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"extras"`
	Resources []ckanResource `json:"resources"`
}

type ckanResource struct {
	ID           string                     `json:"id"`
	Name         string                     `json:"name"`
	URL          string                     `json:"url"`
	Format       string                     `json:"format"`
	Description  string                     `json:"description"`
	LastModified string                     `json:"last_modified"`
	Extras       map[string]json.RawMessage `json:"-"`
}

// Fetch pages through package_search until all packages are read
func (a *CKANAdapter) Fetch(ctx context.Context) ([]DatasetRecord, error) {
	var records []DatasetRecord
	for start := 0; ; start += a.pageSize {
		page, err := a.fetchPage(ctx, start)
		if err != nil {
			return nil, err
		}
		for _, p := range page.Result.Results {
			rec, err := a.record(p)
			if err != nil {
				return nil, fmt.Errorf("package %s: %w", p.Name, err)
			}
			records = append(records, rec)
		}
		if len(page.Result.Results) == 0 || start+a.pageSize >= page.Result.Count {
			break
		}
	}
	return records, nil
}

func (a *CKANAdapter) fetchPage(ctx context.Context, start int) (*ckanResponse, error) {
	q := url.Values{}
	q.Set("rows", strconv.Itoa(a.pageSize))
	q.Set("start", strconv.Itoa(start))
	u := a.baseURL + "/api/3/action/package_search?" + q.Encode()

	resp, err := get(ctx, a.client, u, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var page ckanResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding package_search response: %w", err)
	}
	if !page.Success {
		msg := "unknown error"
		if page.Error != nil && page.Error.Message != "" {
			msg = page.Error.Message
		}
		return nil, errors.New("package_search failed: " + msg)
	}
	return &page, nil
}

func (a *CKANAdapter) record(p ckanPackage) (DatasetRecord, error) {
	notes, err := a.renderNotes(p.Notes)
	if err != nil {
		return DatasetRecord{}, err
	}
	rec := DatasetRecord{
		ExtIdent:    p.ID,
		Title:       strings.TrimSpace(p.Title),
		Notes:       notes,
		URL:         p.URL,
		LicenseCode: licenseFromCKAN(p.LicenseID),
		Modified:    parseTime(p.Modified),
	}
	if rec.ExtIdent == "" {
		rec.ExtIdent = p.Name
	}
	if p.Organization != nil {
		rec.Organization = p.Organization.Name
	}
	for _, t := range p.Tags {
		rec.Tags = append(rec.Tags, TagRecord{Name: t.Name, Language: "pl"})
	}
	for _, g := range p.Groups {
		rec.Categories = append(rec.Categories, g.Name)
	}
	for _, e := range p.Extras {
		switch e.Key {
		case "hvd":
			rec.IsHighValue = isTrue(e.Value)
		case "hvd_categories":
			rec.HVDCategories = splitCSV(e.Value)
		case "has_dynamic_data":
			rec.HasDynamicData = isTrue(e.Value)
		case "has_research_data":
			rec.HasResearchData = isTrue(e.Value)
		case "update_frequency":
			rec.UpdateFrequency = e.Value
		}
	}
	for _, r := range p.Resources {
		res := ResourceRecord{
			ExtIdent:    r.ID,
			Title:       strings.TrimSpace(r.Name),
			Description: r.Description,
			Link:        r.URL,
			Format:      strings.ToLower(strings.TrimSpace(r.Format)),
			Modified:    parseTime(r.LastModified),
		}
		res.IsHighValue = extraBool(r.Extras, "hvd")
		res.ContainsProtectedData = extraBool(r.Extras, "dga")
		if res.Title == "" {
			res.Title = rec.Title
		}
		rec.Resources = append(rec.Resources, res)
	}
	return rec, nil
}

// UnmarshalJSON keeps the unknown keys of a resource, CKAN puts resource
// extras at the top level of the object
func (r *ckanResource) UnmarshalJSON(data []byte) error {
	type plain ckanResource
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	return json.Unmarshal(data, &r.Extras)
}

func (a *CKANAdapter) renderNotes(md string) (string, error) {
	if strings.TrimSpace(md) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := a.markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("rendering notes: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func extraBool(extras map[string]json.RawMessage, key string) bool {
	raw, ok := extras[key]
	if !ok {
		return false
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return isTrue(s)
	}
	return false
}

func isTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "tak":
		return true
	}
	return false
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
