package endpoints

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/otwartedane/mcod/pkg/catalog"
	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/server"
)

// catalogSpec pages the catalog; it has no sorts or filters of its own
var catalogSpec = jsonapi.ListSpec{Sorts: []string{"id"}, DefaultSort: "id"}

// RegisterCatalogEndpoints registers the DCAT-AP catalog
func RegisterCatalogEndpoints(s *server.Server) {
	s.Router.HandleFunc("/catalog", handleCatalog(s)).Methods("GET")
}

func handleCatalog(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		ser, ok := catalog.SerializationFor(format)
		if !ok {
			writeError(s.Logger, w, r, &jsonapi.RequestError{Parameter: "format", Detail: "supported formats: ttl, nt"})
			return
		}
		p, err := listParams(s, r, catalogSpec)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		triples, count, err := s.Catalog.Page(r.Context(), p.Page, p.PerPage)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		var buf bytes.Buffer
		if err := catalog.Write(&buf, ser, triples); err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		w.Header().Set("Content-Type", ser.MediaType+"; charset=utf-8")
		w.Header().Set("X-Total-Count", strconv.FormatInt(count, 10))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
