package catalog

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/knakk/rdf"

	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// Serialization is an output format of the catalog
type Serialization struct {
	Name      string
	MediaType string
	format    rdf.Format
}

// Supported serializations
var (
	Turtle   = Serialization{Name: "ttl", MediaType: "text/turtle", format: rdf.Turtle}
	NTriples = Serialization{Name: "nt", MediaType: "application/n-triples", format: rdf.NTriples}
)

// SerializationFor returns the serialization named name. An empty name
// selects Turtle.
func SerializationFor(name string) (Serialization, bool) {
	switch strings.ToLower(name) {
	case "", "ttl", "turtle":
		return Turtle, true
	case "nt", "ntriples", "n-triples":
		return NTriples, true
	}
	return Serialization{}, false
}

// Catalog builds the DCAT-AP description of published datasets
type Catalog struct {
	BaseURL     string
	Title       string
	Description string
	Datasets    store.DatasetsStore
}

// Page returns the triples of one page of the catalog and the total
// number of datasets
func (c *Catalog) Page(ctx context.Context, page, perPage int) ([]rdf.Triple, int64, error) {
	if page < 1 {
		page = 1
	}
	datasets, count, err := c.Datasets.ListCatalogDatasets(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("listing datasets: %w", err)
	}
	triples, err := c.Triples(datasets)
	return triples, count, err
}

// Triples describes the catalog node and every dataset
func (c *Catalog) Triples(datasets []model.Dataset) ([]rdf.Triple, error) {
	b := &builder{}
	base := strings.TrimRight(c.BaseURL, "/")

	cat := b.iri(base + "/catalog")
	b.add(cat, RDFType, b.iri(DCATCatalog))
	b.add(cat, DCTTitle, b.lang(c.Title, "pl"))
	if c.Description != "" {
		b.add(cat, DCTDescription, b.lang(c.Description, "pl"))
	}

	for i := range datasets {
		ds := &datasets[i]
		node := b.iri(base + "/datasets/" + strconv.FormatUint(uint64(ds.ID), 10))
		b.add(cat, DCATDatasetProp, node)
		b.dataset(base, node, ds)
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.triples, nil
}

// Write serializes triples
func Write(w io.Writer, s Serialization, triples []rdf.Triple) error {
	enc := rdf.NewTripleEncoder(w, s.format)
	if s.format == rdf.Turtle {
		enc.Namespaces = Prefixes
	}
	if err := enc.EncodeAll(triples); err != nil {
		return err
	}
	return enc.Close()
}

type builder struct {
	triples []rdf.Triple
	err     error
}

func (b *builder) iri(s string) rdf.IRI {
	i, err := rdf.NewIRI(s)
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("invalid iri %q: %w", s, err)
	}
	return i
}

func (b *builder) lang(s, lang string) rdf.Object {
	l, err := rdf.NewLangLiteral(s, lang)
	if err != nil && b.err == nil {
		b.err = err
	}
	return l
}

func (b *builder) literal(s string) rdf.Object {
	l, err := rdf.NewLiteral(s)
	if err != nil && b.err == nil {
		b.err = err
	}
	return l
}

func (b *builder) dateTime(t time.Time) rdf.Object {
	return rdf.NewTypedLiteral(t.UTC().Format(time.RFC3339), b.iri(XSDDateTime))
}

func (b *builder) add(s rdf.Subject, pred string, o rdf.Object) {
	b.triples = append(b.triples, rdf.Triple{Subj: s, Pred: b.iri(pred), Obj: o})
}

func (b *builder) dataset(base string, node rdf.IRI, ds *model.Dataset) {
	b.add(node, RDFType, b.iri(DCATDataset))
	b.add(node, DCTIdentifier, b.literal(strconv.FormatUint(uint64(ds.ID), 10)))
	b.add(node, DCTTitle, b.lang(ds.Title, "pl"))
	if ds.Notes != "" {
		b.add(node, DCTDescription, b.lang(ds.Notes, "pl"))
	}
	if !ds.CreatedAt.IsZero() {
		b.add(node, DCTIssued, b.dateTime(ds.CreatedAt))
	}
	if !ds.ModifiedAt.IsZero() {
		b.add(node, DCTModified, b.dateTime(ds.ModifiedAt))
	}
	b.add(node, DCATLandingPage, b.iri(base+"/datasets/"+ds.IdentSlug()))
	for _, t := range ds.Tags {
		b.add(node, DCATKeyword, b.lang(t.Name, t.Language))
	}
	for _, code := range ds.HVDCategories {
		if uri, ok := model.HVDCategoryURI(code); ok {
			b.add(node, DCATAPHVDCategory, b.iri(uri))
		}
	}
	if ds.Organization != nil {
		org := b.iri(base + "/organizations/" + strconv.FormatUint(uint64(ds.Organization.ID), 10))
		b.add(node, DCTPublisher, org)
		b.add(org, RDFType, b.iri(FOAFAgent))
		b.add(org, FOAFName, b.lang(ds.Organization.Title, "pl"))
		b.add(org, DCTIdentifier, b.literal(ds.Organization.Slug))
	}

	for i := range ds.Resources {
		r := &ds.Resources[i]
		if !r.IsPublished() {
			continue
		}
		dist := b.iri(base + "/resources/" + strconv.FormatUint(uint64(r.ID), 10))
		b.add(node, DCATDistProp, dist)
		b.add(dist, RDFType, b.iri(DCATDistribution))
		b.add(dist, DCTTitle, b.lang(r.Title, "pl"))
		if link, err := rdf.NewIRI(r.Link); err == nil && r.Link != "" {
			b.add(dist, DCATAccessURL, link)
		}
		if r.Format != "" {
			b.add(dist, DCTFormat, b.literal(strings.ToUpper(r.Format)))
		}
		if r.MediaType != "" {
			b.add(dist, DCATMediaType, b.literal(r.MediaType))
		}
		if r.IsHighValue {
			for _, code := range ds.HVDCategories {
				if uri, ok := model.HVDCategoryURI(code); ok {
					b.add(dist, DCATAPHVDCategory, b.iri(uri))
				}
			}
		}
	}
}
