package endpoints

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// datasetResourcesSpec pages the resources of one dataset
var datasetResourcesSpec = jsonapi.ListSpec{
	Sorts:       store.ResourceListSpec.Sorts,
	DefaultSort: "id",
}

// RegisterDatasetsEndpoints registers the public dataset endpoints
func RegisterDatasetsEndpoints(s *server.Server, sch *schemas) {
	s.Router.HandleFunc("/datasets", handleListDatasets(s, sch, nil)).Methods("GET")
	s.Router.HandleFunc("/datasets/{id}", handleGetDataset(s, sch)).Methods("GET")
	s.Router.HandleFunc("/datasets/{id}/resources", handleListDatasetResources(s, sch)).Methods("GET")
}

// handleListDatasets serves the dataset search. scope, when set, adds a
// filter derived from the request path.
func handleListDatasets(s *server.Server, sch *schemas, scope func(r *http.Request) (jsonapi.Filter, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		p, err := listParams(s, r, store.DatasetListSpec)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		opts, err := sch.dataset.ParseOptions(q)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		if scope != nil {
			f, err := scope(r)
			if err != nil {
				writeError(s.Logger, w, r, err)
				return
			}
			p.Filters = append(withoutFilter(p.Filters, scopedFilters(f.Field)...), f)
		}

		var aggregations store.Aggregations
		if raw := q.Get("aggregations"); raw != "" {
			want, err := strconv.ParseBool(raw)
			if err != nil {
				writeError(s.Logger, w, r, &jsonapi.RequestError{Parameter: "aggregations", Detail: "must be a boolean"})
				return
			}
			if want {
				if aggregations, err = s.DatasetsStore.DatasetAggregations(r.Context(), p); err != nil {
					writeError(s.Logger, w, r, err)
					return
				}
			}
		}

		datasets, count, err := s.DatasetsStore.ListDatasets(r.Context(), p)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		objects, included := sch.dataset.Many(ptrs(datasets), opts)
		doc := listDocument(s, r, objects, included, p, count)
		if aggregations != nil {
			doc.SetMeta("aggregations", aggregations)
		}
		jsonapi.Write(w, http.StatusOK, doc)
	}
}

// sameColumnFilters groups the dataset filters that select the same column
var sameColumnFilters = [][]string{
	{"organization", "institution"},
}

// scopedFilters returns the filters a path scope on field replaces
func scopedFilters(field string) []string {
	for _, group := range sameColumnFilters {
		if slices.Contains(group, field) {
			return group
		}
	}
	return []string{field}
}

func withoutFilter(filters []jsonapi.Filter, fields ...string) []jsonapi.Filter {
	kept := make([]jsonapi.Filter, 0, len(filters))
	for _, f := range filters {
		if !slices.Contains(fields, f.Field) {
			kept = append(kept, f)
		}
	}
	return kept
}

func handleGetDataset(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		opts, err := sch.dataset.ParseOptions(r.URL.Query())
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		ds, err := s.DatasetsStore.FetchDataset(r.Context(), id)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		if !ds.IsPublished() {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		ds.Resources = publishedResources(ds.Resources)

		obj, included := sch.dataset.Object(ds, opts)
		doc := jsonapi.NewDocument(obj)
		doc.Included = included
		doc.Links = map[string]string{"self": sch.base + "/datasets/" + ds.IdentSlug()}
		jsonapi.Write(w, http.StatusOK, doc)
	}
}

func publishedResources(resources []model.Resource) []model.Resource {
	kept := resources[:0]
	for _, r := range resources {
		if r.IsPublished() {
			kept = append(kept, r)
		}
	}
	return kept
}

func handleListDatasetResources(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		p, err := listParams(s, r, datasetResourcesSpec)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		resources, count, err := s.DatasetsStore.ListDatasetResources(r.Context(), id, p)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		objects, included := sch.resource.Many(ptrs(resources), jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, listDocument(s, r, objects, included, p, count))
	}
}
