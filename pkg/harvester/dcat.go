package harvester

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/knakk/rdf"

	"github.com/otwartedane/mcod/pkg/catalog"
	"github.com/otwartedane/mcod/pkg/formats"
	"github.com/otwartedane/mcod/pkg/model"
)

// DCATAdapter reads a DCAT-AP document in RDF/XML, Turtle or N-Triples
type DCATAdapter struct {
	url    string
	client *http.Client
}

// NewDCATAdapter creates an adapter for the RDF document at url
func NewDCATAdapter(url string, client *http.Client) *DCATAdapter {
	return &DCATAdapter{url: url, client: client}
}

// Fetch downloads the document and extracts every dcat:Dataset
func (a *DCATAdapter) Fetch(ctx context.Context) ([]DatasetRecord, error) {
	resp, err := get(ctx, a.client, a.url, "application/rdf+xml, text/turtle;q=0.9, application/n-triples;q=0.8")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	format := rdfFormat(resp.Header.Get("Content-Type"), a.url)
	return ParseDCAT(resp.Body, format)
}

func rdfFormat(contentType, rawURL string) rdf.Format {
	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "text/turtle", "application/x-turtle":
		return rdf.Turtle
	case "application/n-triples":
		return rdf.NTriples
	case "application/rdf+xml":
		return rdf.RDFXML
	}
	switch strings.ToLower(path.Ext(strings.SplitN(rawURL, "?", 2)[0])) {
	case ".ttl":
		return rdf.Turtle
	case ".nt":
		return rdf.NTriples
	}
	return rdf.RDFXML
}

// ParseDCAT decodes an RDF document and maps its datasets
func ParseDCAT(r io.Reader, format rdf.Format) ([]DatasetRecord, error) {
	dec := rdf.NewTripleDecoder(r, format)
	g := graph{}
	for {
		t, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding rdf: %w", err)
		}
		g.add(t)
	}

	var records []DatasetRecord
	for _, subj := range g.subjectsOfType(catalog.DCATDataset) {
		records = append(records, g.dataset(subj))
	}
	return records, nil
}

// graph indexes triples by subject and predicate. Terms are keyed by
// their N-Triples serialization so blank nodes stay distinct from IRIs.
type graph map[string]map[string][]rdf.Object

func key(t rdf.Term) string {
	return t.Serialize(rdf.NTriples)
}

func (g graph) add(t rdf.Triple) {
	s := key(t.Subj)
	if g[s] == nil {
		g[s] = map[string][]rdf.Object{}
	}
	p := t.Pred.String()
	g[s][p] = append(g[s][p], t.Obj)
}

func (g graph) subjectsOfType(typ string) []string {
	var out []string
	for s, props := range g {
		for _, o := range props[catalog.RDFType] {
			if o.Type() == rdf.TermIRI && o.String() == typ {
				out = append(out, s)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

func (g graph) objects(subj, pred string) []rdf.Object {
	return g[subj][pred]
}

// literal returns the value of pred, preferring Polish, then untagged,
// then any language
func (g graph) literal(subj, pred string) string {
	var untagged, other string
	for _, o := range g.objects(subj, pred) {
		lit, ok := o.(rdf.Literal)
		if !ok {
			continue
		}
		switch lit.Lang() {
		case "pl":
			return strings.TrimSpace(lit.String())
		case "":
			if untagged == "" {
				untagged = lit.String()
			}
		default:
			if other == "" {
				other = lit.String()
			}
		}
	}
	if untagged != "" {
		return strings.TrimSpace(untagged)
	}
	return strings.TrimSpace(other)
}

func (g graph) langLiteral(subj, pred, lang string) string {
	for _, o := range g.objects(subj, pred) {
		if lit, ok := o.(rdf.Literal); ok && lit.Lang() == lang {
			return strings.TrimSpace(lit.String())
		}
	}
	return ""
}

// value returns the first IRI or literal value of pred
func (g graph) value(subj, pred string) string {
	for _, o := range g.objects(subj, pred) {
		if o.Type() != rdf.TermBlank {
			return strings.TrimSpace(o.String())
		}
	}
	return ""
}

func (g graph) dataset(subj string) DatasetRecord {
	rec := DatasetRecord{
		ExtIdent:    g.literal(subj, catalog.DCTIdentifier),
		Title:       g.literal(subj, catalog.DCTTitle),
		TitleEn:     g.langLiteral(subj, catalog.DCTTitle, "en"),
		Notes:       g.literal(subj, catalog.DCTDescription),
		URL:         g.value(subj, catalog.DCATLandingPage),
		LicenseCode: licenseFromURI(g.value(subj, catalog.DCTLicense)),
		Modified:    parseTime(g.literal(subj, catalog.DCTModified)),
	}
	if rec.ExtIdent == "" && strings.HasPrefix(subj, "<") {
		rec.ExtIdent = strings.Trim(subj, "<>")
	}
	for _, o := range g.objects(subj, catalog.DCATKeyword) {
		if lit, ok := o.(rdf.Literal); ok {
			lang := lit.Lang()
			if lang == "" {
				lang = "pl"
			}
			rec.Tags = append(rec.Tags, TagRecord{Name: strings.TrimSpace(lit.String()), Language: lang})
		}
	}
	for _, o := range g.objects(subj, catalog.DCATTheme) {
		if o.Type() == rdf.TermIRI {
			rec.Categories = append(rec.Categories, strings.ToLower(path.Base(o.String())))
		}
	}
	for _, o := range g.objects(subj, catalog.DCATAPHVDCategory) {
		rec.IsHighValue = true
		if code, ok := model.HVDCategoryFromURI(o.String()); ok {
			rec.HVDCategories = append(rec.HVDCategories, code)
		} else {
			rec.HVDCategories = append(rec.HVDCategories, o.String())
		}
	}
	if pubs := g.objects(subj, catalog.DCTPublisher); len(pubs) > 0 {
		pub := key(pubs[0])
		rec.Organization = g.literal(pub, catalog.DCTIdentifier)
		if rec.Organization == "" {
			rec.Organization = model.Slugify(g.literal(pub, catalog.FOAFName))
		}
	}
	for _, o := range g.objects(subj, catalog.DCATDistProp) {
		rec.Resources = append(rec.Resources, g.distribution(key(o), rec.Title))
	}
	return rec
}

func (g graph) distribution(subj, datasetTitle string) ResourceRecord {
	res := ResourceRecord{
		ExtIdent:    g.literal(subj, catalog.DCTIdentifier),
		Title:       g.literal(subj, catalog.DCTTitle),
		Description: g.literal(subj, catalog.DCTDescription),
		Link:        g.value(subj, catalog.DCATDownloadURL),
		Modified:    parseTime(g.literal(subj, catalog.DCTModified)),
	}
	if res.Link == "" {
		res.Link = g.value(subj, catalog.DCATAccessURL)
	}
	if res.ExtIdent == "" {
		if strings.HasPrefix(subj, "<") {
			res.ExtIdent = strings.Trim(subj, "<>")
		} else {
			res.ExtIdent = res.Link
		}
	}
	if res.Title == "" {
		res.Title = datasetTitle
	}
	res.Format = dcatFormat(g.value(subj, catalog.DCTFormat), g.value(subj, catalog.DCATMediaType))
	res.IsHighValue = len(g.objects(subj, catalog.DCATAPHVDCategory)) > 0
	return res
}

// dcatFormat maps dct:format, which is usually a file-type authority IRI,
// or dcat:mediaType to a format name
func dcatFormat(format, mediaType string) string {
	if format != "" {
		name := strings.ToLower(path.Base(format))
		if f, ok := formats.Lookup(name); ok {
			return f.Name
		}
		if f, ok := formats.ByMediaType(format); ok {
			return f.Name
		}
	}
	if mediaType != "" {
		if f, ok := formats.ByMediaType(path.Base(path.Dir(mediaType)) + "/" + path.Base(mediaType)); ok {
			return f.Name
		}
	}
	return ""
}
