package jsonapi

import "time"

// MediaType is the content type of every response
const MediaType = "application/vnd.api+json"

// Version is the JSON:API version advertised in documents
const Version = "1.0"

var now = time.Now

// Document is a top-level JSON:API document
type Document struct {
	Data     interface{}            `json:"data,omitempty"`
	Included []*Object              `json:"included,omitempty"`
	Links    map[string]string      `json:"links,omitempty"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
	Errors   []*ErrorObject         `json:"errors,omitempty"`
	JSONAPI  *Info                  `json:"jsonapi,omitempty"`
}

// Info is the jsonapi member of a document
type Info struct {
	Version string `json:"version"`
}

// Object is a resource object
type Object struct {
	ID            string                   `json:"id"`
	Type          string                   `json:"type"`
	Attributes    map[string]interface{}   `json:"attributes,omitempty"`
	Relationships map[string]*Relationship `json:"relationships,omitempty"`
	Links         map[string]string        `json:"links,omitempty"`
	Meta          map[string]interface{}   `json:"meta,omitempty"`
}

// Identifier returns the resource identifier of o
func (o *Object) Identifier() ResourceIdentifier {
	return ResourceIdentifier{ID: o.ID, Type: o.Type}
}

// ResourceIdentifier identifies an object by type and id
type ResourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Relationship links an object to related objects. Data holds a
// *ResourceIdentifier for to-one relationships and a []ResourceIdentifier
// for to-many ones. It is left nil when linkage is not rendered.
type Relationship struct {
	Data  interface{}            `json:"data,omitempty"`
	Links map[string]string      `json:"links,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// NewDocument returns a document carrying data
func NewDocument(data interface{}) *Document {
	return &Document{
		Data:    data,
		JSONAPI: &Info{Version: Version},
	}
}

// NewListDocument returns a document for a page of objects. Data is always
// an array, even when empty.
func NewListDocument(objects []*Object, included []*Object) *Document {
	if objects == nil {
		objects = []*Object{}
	}
	doc := NewDocument(objects)
	doc.Included = included
	return doc
}

// SetMeta sets one meta member
func (d *Document) SetMeta(key string, value interface{}) {
	if d.Meta == nil {
		d.Meta = map[string]interface{}{}
	}
	d.Meta[key] = value
}
