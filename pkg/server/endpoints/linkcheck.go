package endpoints

import (
	"net/http"
	"strconv"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server"
)

// RegisterLinkCheckEndpoints registers the administrator link validation
func RegisterLinkCheckEndpoints(s *server.Server) {
	r := authRouter(s, model.UserRoleAdmin)
	r.HandleFunc("/resources/check-links", handleCheckLinks(s)).Methods("POST")
}

func handleCheckLinks(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var datasetID *uint
		if raw := r.URL.Query().Get("dataset"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				writeError(s.Logger, w, r, &jsonapi.RequestError{Parameter: "dataset", Detail: "must be a dataset id"})
				return
			}
			v := uint(id)
			datasetID = &v
		}

		summary, err := s.LinkChecker.CheckResources(r.Context(), s.ResourcesStore, datasetID)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		doc := &jsonapi.Document{JSONAPI: &jsonapi.Info{Version: jsonapi.Version}}
		doc.SetMeta("checked", summary.Checked)
		doc.SetMeta("ok", summary.Ok)
		doc.SetMeta("broken", summary.Broken)
		doc.SetMeta("detected", summary.Detected)
		jsonapi.Write(w, http.StatusOK, doc)
	}
}
