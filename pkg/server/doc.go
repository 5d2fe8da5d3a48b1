// Package server provides the HTTP server of the open data portal API.
//
// The server uses gorilla/mux for routing. Handler wraps the router in
// panic recovery, a combined access log, CORS, request ids and the
// X-API-VERSION header.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, db, tokens, logger, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// Tests build a server on mock stores with New:
//
//	srv := server.New(cfg, server.Stores{Datasets: datasets}, tokens, nil)
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - DB: Database connection (nil when built with New)
//   - Stores: storage interfaces implemented in store/gorm
//   - Watchers, Schedules: user facing services
//   - Importer, Harvester: harvest runs and their cron scheduler
//   - LinkChecker: broken link validation
//   - Catalog: DCAT-AP catalog builder
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - /datasets, /resources, /organizations - search and detail
//   - /catalog - DCAT-AP catalog in Turtle or N-Triples
//   - /spec, /spec.json - OpenAPI description
//   - /auth/... - login, subscriptions, notifications, schedules,
//     harvester and link checks
package server
