package endpoints

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server"
	"github.com/otwartedane/mcod/pkg/server/store"
)

var importListSpec = jsonapi.ListSpec{Sorts: []string{"start"}, DefaultSort: "-start"}

// RegisterHarvesterEndpoints registers the administrator harvester
// endpoints
func RegisterHarvesterEndpoints(s *server.Server, sch *schemas) {
	r := authRouter(s, model.UserRoleAdmin)
	r.HandleFunc("/harvester/sources", handleListSources(s, sch)).Methods("GET")
	r.HandleFunc("/harvester/sources/{id:[0-9]+}/imports", handleListImports(s, sch)).Methods("GET")
	r.HandleFunc("/harvester/sources/{id:[0-9]+}/imports", handleRunImport(s, sch)).Methods("POST")
}

func handleListSources(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sources, err := s.DataSourcesStore.ListDataSources(r.Context(), false)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		objects, _ := sch.source.Many(ptrs(sources), jsonapi.Options{})
		doc := jsonapi.NewListDocument(objects, nil)
		doc.SetMeta("count", len(objects))
		jsonapi.Write(w, http.StatusOK, doc)
	}
}

func handleListImports(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		p, err := listParams(s, r, importListSpec)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		if _, err := s.DataSourcesStore.FetchDataSource(r.Context(), id); err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		imports, count, err := s.DataSourcesStore.ListImports(r.Context(), id, p.Offset(), p.PerPage)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		objects, _ := sch.sourceImport.Many(ptrs(imports), jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, listDocument(s, r, objects, nil, p, count))
	}
}

// handleRunImport harvests a source synchronously and returns the import
func handleRunImport(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}

		imp, err := s.Harvester.RunNow(r.Context(), id)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		s.Logger.Info("harvest requested",
			zap.Uint("source", id),
			zap.Uint("user", currentUser(r).ID),
			zap.Stringer("status", imp.Status))

		obj, _ := sch.sourceImport.Object(imp, jsonapi.Options{})
		jsonapi.Write(w, http.StatusCreated, jsonapi.NewDocument(obj))
	}
}
