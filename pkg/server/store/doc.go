// Package store defines the storage interfaces used by the API endpoints
// and the background services (harvester, link checker, watchers and
// schedules).
//
// Interfaces are implemented with GORM in pkg/server/store/gorm and with
// testify mocks in pkg/server/store/mocks. Lookups of a single object
// return ErrNotFound when the object does not exist or is not visible:
//
//	ds, err := datasets.FetchDataset(ctx, id)
//	if errors.Is(err, store.ErrNotFound) {
//	    // 404
//	}
package store
