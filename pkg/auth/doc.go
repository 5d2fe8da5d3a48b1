// Package auth provides password hashing, API token issuing and the
// request context carrying the authenticated user.
package auth
