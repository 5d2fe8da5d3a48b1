package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/otwartedane/mcod/pkg/jsonapi"
)

// QueryCounter counts the datasets matched by a saved search. The query
// is the path and query string of a dataset search, e.g.
// "/datasets?q=woda&formats[terms]=csv".
type QueryCounter struct {
	Datasets DatasetsStore
}

// Count returns the number of datasets matching query
func (c QueryCounter) Count(ctx context.Context, query string) (int64, error) {
	raw := query
	if i := strings.IndexByte(query, '?'); i >= 0 {
		raw = query[i+1:]
	} else {
		raw = ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing query %q: %w", query, err)
	}
	p, err := jsonapi.ParseListParams(values, DatasetListSpec, 1, 1)
	if err != nil {
		return 0, err
	}
	return c.Datasets.CountDatasets(ctx, p)
}
