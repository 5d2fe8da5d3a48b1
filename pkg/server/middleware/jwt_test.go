package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otwartedane/mcod/pkg/auth"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
	"github.com/otwartedane/mcod/pkg/server/store/mocks"
)

func newIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{`Token token="abc"`, "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestMiddleware_MissingAuthorization(t *testing.T) {
	authn := NewJWTAuthenticator(newIssuer(t), &mocks.UsersStore{})

	handler := authn.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/auth/user", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization missing")
}

func TestMiddleware_RejectsBadTokens(t *testing.T) {
	issuer := newIssuer(t)
	other, err := auth.NewTokenIssuer([]byte("other-secret"), time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue(&model.User{ID: 1, Role: model.UserRoleUser})
	require.NoError(t, err)

	authn := NewJWTAuthenticator(issuer, &mocks.UsersStore{})
	handler := authn.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	for name, header := range map[string]string{
		"basic auth":     "Basic dXNlcjpwYXNz",
		"garbage":        "Bearer not-a-jwt",
		"foreign secret": "Bearer " + foreign,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/auth/user", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestMiddleware_LoadsUser(t *testing.T) {
	issuer := newIssuer(t)
	user := &model.User{ID: 7, Email: "jan@dane.gov.pl", Role: model.UserRoleAgent, IsActive: true}
	token, _, err := issuer.Issue(user)
	require.NoError(t, err)

	users := &mocks.UsersStore{}
	users.On("FetchUser", uint(7)).Return(user, nil)

	var seen *model.User
	handler := NewJWTAuthenticator(issuer, users).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("GET", "/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "jan@dane.gov.pl", seen.Email)
	users.AssertExpectations(t)
}

func TestMiddleware_UserStates(t *testing.T) {
	issuer := newIssuer(t)
	token, _, err := issuer.Issue(&model.User{ID: 7, Role: model.UserRoleUser})
	require.NoError(t, err)

	tests := []struct {
		name   string
		user   *model.User
		err    error
		status int
	}{
		{"deleted user", nil, store.ErrNotFound, http.StatusUnauthorized},
		{"inactive user", &model.User{ID: 7}, nil, http.StatusUnauthorized},
		{"store failure", nil, errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mocks.UsersStore{}
			if tt.user != nil {
				users.On("FetchUser", uint(7)).Return(tt.user, tt.err)
			} else {
				users.On("FetchUser", uint(7)).Return(nil, tt.err)
			}
			handler := NewJWTAuthenticator(issuer, users).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be called")
			}))

			req := httptest.NewRequest("GET", "/auth/user", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole(model.UserRoleAgent)(ok)

	tests := []struct {
		name   string
		user   *model.User
		status int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"plain user", &model.User{Role: model.UserRoleUser}, http.StatusForbidden},
		{"agent", &model.User{Role: model.UserRoleAgent}, http.StatusOK},
		{"admin", &model.User{Role: model.UserRoleAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/auth/schedules", nil)
			if tt.user != nil {
				req = req.WithContext(auth.WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	var fromCtx string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, fromCtx)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestAPIVersion(t *testing.T) {
	handler := APIVersion("1.0")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, "1.0", rec.Header().Get("X-API-VERSION"))
}
