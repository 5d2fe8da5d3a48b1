// Package harvester imports datasets and resources from external
// catalogs.
//
// A data source names one catalog and the adapter that reads it: the CKAN
// action API, the portal XML schema or a DCAT-AP RDF document. Every
// adapter produces the same DatasetRecord values. The Importer validates
// them, resolves conflicts with datasets of other sources and writes the
// result, one transaction per dataset. Each run is stored as a
// DataSourceImport and reported to the audit log.
//
// Runs are triggered by the Scheduler, one cron entry per active source,
// or on demand from the API and the command line.
package harvester
