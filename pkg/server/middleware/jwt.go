package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/otwartedane/mcod/pkg/auth"
	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// JWTAuthenticator is middleware that validates bearer tokens and loads
// the token's user into the request context
type JWTAuthenticator struct {
	Tokens *auth.TokenIssuer
	Users  store.UsersStore
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(tokens *auth.TokenIssuer, users store.UsersStore) *JWTAuthenticator {
	return &JWTAuthenticator{Tokens: tokens, Users: users}
}

// BearerToken extracts the token of an "Authorization: Bearer" header
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Middleware returns an HTTP middleware that validates JWT tokens
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			jsonapi.WriteStatus(w, http.StatusUnauthorized, "Authorization missing")
			return
		}

		tokenStr, ok := BearerToken(authHeader)
		if !ok {
			jsonapi.WriteStatus(w, http.StatusUnauthorized, "Malformed authorization header")
			return
		}

		claims, err := j.Tokens.Verify(tokenStr)
		if err != nil {
			jsonapi.WriteStatus(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			jsonapi.WriteStatus(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := j.Users.FetchUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				jsonapi.WriteStatus(w, http.StatusUnauthorized, "Unknown user")
				return
			}
			jsonapi.WriteStatus(w, http.StatusInternalServerError, "")
			return
		}
		if !user.IsActive {
			jsonapi.WriteStatus(w, http.StatusUnauthorized, "Account is inactive")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

// RequireRole rejects requests whose user has none of roles. Admins pass
// every check.
func RequireRole(roles ...model.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok {
				jsonapi.WriteStatus(w, http.StatusUnauthorized, "Authorization missing")
				return
			}
			if !user.HasRole(roles...) {
				jsonapi.WriteStatus(w, http.StatusForbidden, "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
