package endpoints

import (
	"net/http"
	"strconv"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/server"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// RegisterOrganizationsEndpoints registers the public institution endpoints
func RegisterOrganizationsEndpoints(s *server.Server, sch *schemas) {
	s.Router.HandleFunc("/organizations", handleListOrganizations(s, sch)).Methods("GET")
	s.Router.HandleFunc("/organizations/{id}", handleGetOrganization(s, sch)).Methods("GET")
	s.Router.HandleFunc("/organizations/{id}/datasets", handleListDatasets(s, sch, organizationScope(s))).Methods("GET")
}

func handleListOrganizations(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := listParams(s, r, store.OrganizationListSpec)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		orgs, count, err := s.OrganizationsStore.ListOrganizations(r.Context(), p)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		objects, included := sch.institution.Many(ptrs(orgs), jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, listDocument(s, r, objects, included, p, count))
	}
}

func handleGetOrganization(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		org, err := s.OrganizationsStore.FetchOrganization(r.Context(), id)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		obj, _ := sch.institution.Object(org, jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, jsonapi.NewDocument(obj))
	}
}

// organizationScope limits a dataset search to the institution in the
// path, which must be published
func organizationScope(s *server.Server) func(r *http.Request) (jsonapi.Filter, error) {
	return func(r *http.Request) (jsonapi.Filter, error) {
		id, ok := pathID(r)
		if !ok {
			return jsonapi.Filter{}, store.ErrNotFound
		}
		if _, err := s.OrganizationsStore.FetchOrganization(r.Context(), id); err != nil {
			return jsonapi.Filter{}, err
		}
		return jsonapi.Filter{
			Field: "organization",
			Op:    jsonapi.OpID,
			Value: strconv.FormatUint(uint64(id), 10),
		}, nil
	}
}
