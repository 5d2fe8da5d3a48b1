// Package watchers lets users follow datasets, resources, organizations
// and saved searches and delivers notifications when they change.
//
// A Watcher holds the last reference value of one watched object: the
// modification time for model objects or the result count for a search
// query. Subscriptions link users to watchers. When an object changes,
// ObjectChanged stores the new reference value and creates one
// notification per subscription. Query watchers are re-counted
// periodically by RefreshQueryWatchers.
package watchers
