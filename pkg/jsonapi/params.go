package jsonapi

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Op is a filter operator used as name[op]=value
type Op string

const (
	OpID     Op = "id"
	OpTerms  Op = "terms"
	OpTerm   Op = "term"
	OpGte    Op = "gte"
	OpLte    Op = "lte"
	OpExists Op = "exists"
)

func (o Op) valid() bool {
	switch o {
	case OpID, OpTerms, OpTerm, OpGte, OpLte, OpExists:
		return true
	}
	return false
}

// ListSpec is the allowlist of sort fields and filters of a list endpoint.
// Flags name the filters whose value must be a boolean.
type ListSpec struct {
	Sorts       []string
	DefaultSort string
	Filters     map[string][]Op
	Flags       []string
}

// Filter is one parsed name[op]=value filter
type Filter struct {
	Field string
	Op    Op
	Value string
}

// Values splits the filter value on commas
func (f Filter) Values() []string {
	return splitList(f.Value)
}

// Bool parses the value as a boolean flag
func (f Filter) Bool() (bool, error) {
	b, err := strconv.ParseBool(f.Value)
	if err != nil {
		return false, &RequestError{Parameter: f.Field + "[" + string(f.Op) + "]", Detail: "must be a boolean"}
	}
	return b, nil
}

// SortField is one entry of the sort parameter
type SortField struct {
	Field string
	Desc  bool
}

// ListParams are the paging, sorting and filtering parameters of a request
type ListParams struct {
	Page    int
	PerPage int
	Sort    []SortField
	Query   string
	Filters []Filter
}

// Offset returns the number of rows to skip
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Filter returns the filter for field and op, if present
func (p ListParams) Filter(field string, op Op) (Filter, bool) {
	for _, f := range p.Filters {
		if f.Field == field && f.Op == op {
			return f, true
		}
	}
	return Filter{}, false
}

// ParseListParams reads list parameters from q and validates them against
// spec. per_page defaults to defaultSize and is clamped to maxSize.
func ParseListParams(q url.Values, spec ListSpec, defaultSize, maxSize int) (ListParams, error) {
	p := ListParams{
		Page:    1,
		PerPage: defaultSize,
		Query:   strings.TrimSpace(q.Get("q")),
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return ListParams{}, &RequestError{Parameter: "page", Detail: "must be a positive integer"}
		}
		p.Page = page
	}
	if raw := q.Get("per_page"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return ListParams{}, &RequestError{Parameter: "per_page", Detail: "must be a positive integer"}
		}
		p.PerPage = size
	}
	if maxSize > 0 && p.PerPage > maxSize {
		p.PerPage = maxSize
	}

	sortRaw := q.Get("sort")
	if sortRaw == "" {
		sortRaw = spec.DefaultSort
	}
	for _, name := range splitList(sortRaw) {
		field := SortField{Field: name}
		if strings.HasPrefix(name, "-") {
			field = SortField{Field: name[1:], Desc: true}
		}
		if !contains(spec.Sorts, field.Field) {
			return ListParams{}, &RequestError{
				Parameter: "sort",
				Detail:    "unsupported sort field " + field.Field + ", allowed: " + strings.Join(spec.Sorts, ","),
			}
		}
		p.Sort = append(p.Sort, field)
	}

	for key, values := range q {
		open := strings.IndexByte(key, '[')
		if open <= 0 || !strings.HasSuffix(key, "]") {
			continue
		}
		name, op := key[:open], Op(key[open+1:len(key)-1])
		if name == "fields" {
			continue
		}
		allowed, ok := spec.Filters[name]
		if !ok {
			return ListParams{}, &RequestError{Parameter: key, Detail: "unknown filter " + name}
		}
		if !op.valid() || !containsOp(allowed, op) {
			return ListParams{}, &RequestError{Parameter: key, Detail: "unsupported operator " + string(op) + " for " + name}
		}
		if len(values) == 0 || values[0] == "" {
			return ListParams{}, &RequestError{Parameter: key, Detail: "value required"}
		}
		if op == OpID {
			for _, v := range splitList(values[0]) {
				if _, err := strconv.ParseUint(v, 10, 64); err != nil {
					return ListParams{}, &RequestError{Parameter: key, Detail: "ids must be integers"}
				}
			}
		}
		f := Filter{Field: name, Op: op, Value: values[0]}
		if op == OpExists || contains(spec.Flags, name) {
			if _, err := f.Bool(); err != nil {
				return ListParams{}, err
			}
		}
		p.Filters = append(p.Filters, f)
	}
	sortFilters(p.Filters)

	return p, nil
}

// PageLinks returns self, first, last, prev and next links for a page.
// prev and next are omitted at the edges.
func PageLinks(self *url.URL, p ListParams, count int) map[string]string {
	last := int(math.Ceil(float64(count) / float64(p.PerPage)))
	if last < 1 {
		last = 1
	}
	link := func(page int) string {
		u := *self
		q := u.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(p.PerPage))
		u.RawQuery = q.Encode()
		return u.String()
	}
	links := map[string]string{
		"self":  link(p.Page),
		"first": link(1),
		"last":  link(last),
	}
	if p.Page > 1 {
		links["prev"] = link(p.Page - 1)
	}
	if p.Page < last {
		links["next"] = link(p.Page + 1)
	}
	return links
}

// ListMeta returns the meta members of a list response
func ListMeta(p ListParams, count int) map[string]interface{} {
	return map[string]interface{}{
		"count":       count,
		"page":        p.Page,
		"per_page":    p.PerPage,
		"server_time": now().UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsOp(list []Op, op Op) bool {
	for _, v := range list {
		if v == op {
			return true
		}
	}
	return false
}

// sortFilters orders filters by field then op so that query building is
// deterministic regardless of map iteration
func sortFilters(fs []Filter) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Field != fs[j].Field {
			return fs[i].Field < fs[j].Field
		}
		return fs[i].Op < fs[j].Op
	})
}
