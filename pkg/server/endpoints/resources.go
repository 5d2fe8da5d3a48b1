package endpoints

import (
	"net/http"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/server"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// RegisterResourcesEndpoints registers the public resource endpoints
func RegisterResourcesEndpoints(s *server.Server, sch *schemas) {
	s.Router.HandleFunc("/resources", handleListResources(s, sch)).Methods("GET")
	s.Router.HandleFunc("/resources/{id}", handleGetResource(s, sch)).Methods("GET")
}

func handleListResources(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := listParams(s, r, store.ResourceListSpec)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		opts, err := sch.resource.ParseOptions(r.URL.Query())
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		resources, count, err := s.ResourcesStore.ListResources(r.Context(), p)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		objects, included := sch.resource.Many(ptrs(resources), opts)
		jsonapi.Write(w, http.StatusOK, listDocument(s, r, objects, included, p, count))
	}
}

func handleGetResource(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		opts, err := sch.resource.ParseOptions(r.URL.Query())
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		res, err := s.ResourcesStore.FetchResource(r.Context(), id)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		obj, included := sch.resource.Object(res, opts)
		doc := jsonapi.NewDocument(obj)
		doc.Included = included
		jsonapi.Write(w, http.StatusOK, doc)
	}
}
