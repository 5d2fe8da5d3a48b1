package endpoints

import (
	"github.com/otwartedane/mcod/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	sch := newSchemas(srv.Config.BaseURL)

	RegisterStatusEndpoints(srv)
	RegisterSpecEndpoints(srv)
	RegisterDatasetsEndpoints(srv, sch)
	RegisterResourcesEndpoints(srv, sch)
	RegisterOrganizationsEndpoints(srv, sch)
	RegisterCatalogEndpoints(srv)

	// Authenticated
	RegisterAuthEndpoints(srv, sch)
	RegisterSubscriptionsEndpoints(srv, sch)
	RegisterNotificationsEndpoints(srv, sch)
	RegisterSchedulesEndpoints(srv, sch)
	RegisterHarvesterEndpoints(srv, sch)
	RegisterLinkCheckEndpoints(srv)
}
