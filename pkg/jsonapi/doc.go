// Package jsonapi renders portal objects as JSON:API documents.
//
// A Schema describes how a Go value becomes a resource object: its type,
// id, attributes and relationships. Relationships named in the request's
// include parameter are added to the top-level included list, and the
// fields[type] parameter restricts the attributes of objects of that type.
//
// # List requests
//
// ParseListParams reads page, per_page, sort, q and name[op] filters and
// checks them against the endpoint's ListSpec:
//
//	params, err := jsonapi.ParseListParams(r.URL.Query(), spec, 20, 100)
//	if err != nil {
//	    jsonapi.WriteError(w, err)
//	    return
//	}
//
// Errors are written as JSON:API error objects. ValidationError becomes a
// 422 response with one error per field message and RequestError a 400.
package jsonapi
