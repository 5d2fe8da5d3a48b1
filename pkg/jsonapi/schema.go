package jsonapi

import (
	"net/url"
	"sort"
	"strings"
)

// Linkage is the resolved value of one relationship of an object
type Linkage struct {
	// Objects are the related objects, rendered as identifiers and added
	// to included when the relationship is requested.
	Objects []*Object
	// ToOne renders Data as a single identifier instead of an array.
	ToOne bool
	// Related is the related resource link.
	Related string
	// Count is rendered as meta.count when set.
	Count *int
}

// RelationshipDef resolves one named relationship of T
type RelationshipDef[T any] struct {
	Resolve    func(v T) Linkage
	Includable bool
}

// Schema describes how values of T are rendered as resource objects
type Schema[T any] struct {
	Type          string
	ID            func(v T) string
	Attributes    func(v T) map[string]interface{}
	Relationships map[string]RelationshipDef[T]
	SelfLink      func(v T) string
}

// Options are the include and sparse fieldset parameters of a request
type Options struct {
	Include []string
	Fields  map[string][]string
}

// Includes reports whether relationship name was requested
func (o Options) Includes(name string) bool {
	for _, n := range o.Include {
		if n == name {
			return true
		}
	}
	return false
}

// Includable returns the relationship names that may be included
func (s *Schema[T]) Includable() []string {
	var names []string
	for name, def := range s.Relationships {
		if def.Includable {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ParseOptions reads include and fields[type] from a query string. Unknown
// relationship names in include are rejected.
func (s *Schema[T]) ParseOptions(q url.Values) (Options, error) {
	opts := Options{Fields: map[string][]string{}}
	if raw := q.Get("include"); raw != "" {
		for _, name := range splitList(raw) {
			def, ok := s.Relationships[name]
			if !ok || !def.Includable {
				return Options{}, &RequestError{
					Parameter: "include",
					Detail:    "cannot include " + name + ", allowed: " + strings.Join(s.Includable(), ","),
				}
			}
			opts.Include = append(opts.Include, name)
		}
	}
	for key, values := range q {
		if !strings.HasPrefix(key, "fields[") || !strings.HasSuffix(key, "]") {
			continue
		}
		typ := key[len("fields[") : len(key)-1]
		if typ == "" || len(values) == 0 {
			continue
		}
		opts.Fields[typ] = splitList(values[0])
	}
	return opts, nil
}

// Object renders v and returns it together with the objects of the
// requested included relationships.
func (s *Schema[T]) Object(v T, opts Options) (*Object, []*Object) {
	inc := newIncludedSet()
	obj := s.render(v, opts, inc)
	inc.exclude(obj)
	return obj, inc.list()
}

// Many renders vs. Included objects are de-duplicated across all values.
func (s *Schema[T]) Many(vs []T, opts Options) ([]*Object, []*Object) {
	inc := newIncludedSet()
	objects := make([]*Object, 0, len(vs))
	for _, v := range vs {
		objects = append(objects, s.render(v, opts, inc))
	}
	for _, o := range objects {
		inc.exclude(o)
	}
	return objects, inc.list()
}

func (s *Schema[T]) render(v T, opts Options, inc *includedSet) *Object {
	obj := &Object{
		ID:   s.ID(v),
		Type: s.Type,
	}
	if s.Attributes != nil {
		obj.Attributes = restrict(s.Attributes(v), opts.Fields[s.Type])
	}
	if s.SelfLink != nil {
		obj.Links = map[string]string{"self": s.SelfLink(v)}
	}

	names := make([]string, 0, len(s.Relationships))
	for name := range s.Relationships {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := s.Relationships[name]
		linkage := def.Resolve(v)
		rel := &Relationship{}
		if linkage.Related != "" {
			rel.Links = map[string]string{"related": linkage.Related}
		}
		if linkage.Count != nil {
			rel.Meta = map[string]interface{}{"count": *linkage.Count}
		}
		if linkage.ToOne {
			if len(linkage.Objects) > 0 && linkage.Objects[0] != nil {
				id := linkage.Objects[0].Identifier()
				rel.Data = &id
			}
		} else if linkage.Objects != nil {
			ids := make([]ResourceIdentifier, 0, len(linkage.Objects))
			for _, o := range linkage.Objects {
				ids = append(ids, o.Identifier())
			}
			rel.Data = ids
		}
		if rel.Data == nil && rel.Links == nil && rel.Meta == nil {
			continue
		}
		if obj.Relationships == nil {
			obj.Relationships = map[string]*Relationship{}
		}
		obj.Relationships[name] = rel

		if def.Includable && opts.Includes(name) {
			for _, o := range linkage.Objects {
				if o == nil {
					continue
				}
				c := *o
				c.Attributes = restrict(o.Attributes, opts.Fields[o.Type])
				inc.add(&c)
			}
		}
	}
	return obj
}

func restrict(attrs map[string]interface{}, fields []string) map[string]interface{} {
	if len(fields) == 0 || attrs == nil {
		return attrs
	}
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		if v, ok := attrs[f]; ok {
			out[f] = v
		}
	}
	return out
}

type includedSet struct {
	seen    map[ResourceIdentifier]bool
	objects []*Object
}

func newIncludedSet() *includedSet {
	return &includedSet{seen: map[ResourceIdentifier]bool{}}
}

func (s *includedSet) add(o *Object) {
	id := o.Identifier()
	if s.seen[id] {
		return
	}
	s.seen[id] = true
	s.objects = append(s.objects, o)
}

// exclude drops o from included; primary data is never repeated there
func (s *includedSet) exclude(o *Object) {
	id := o.Identifier()
	if !s.seen[id] {
		s.seen[id] = true
		return
	}
	kept := s.objects[:0]
	for _, c := range s.objects {
		if c.Identifier() != id {
			kept = append(kept, c)
		}
	}
	s.objects = kept
}

func (s *includedSet) list() []*Object {
	return s.objects
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
