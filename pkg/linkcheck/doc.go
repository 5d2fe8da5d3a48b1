// Package linkcheck validates resource links.
//
// Links are checked concurrently with a bounded number of requests in
// flight. Each link is probed with HEAD and, when the server does not
// allow it, with GET. Results are returned in input order and can be
// persisted as the link status of the resources they came from.
package linkcheck
