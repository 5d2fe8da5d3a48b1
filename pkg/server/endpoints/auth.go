package endpoints

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/otwartedane/mcod/pkg/audit"
	"github.com/otwartedane/mcod/pkg/auth"
	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server"
	"github.com/otwartedane/mcod/pkg/server/middleware"
	"github.com/otwartedane/mcod/pkg/server/store"
)

const invalidCredentials = "Invalid email or password"

type loginAttributes struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterAuthEndpoints registers login and the current user endpoint
func RegisterAuthEndpoints(s *server.Server, sch *schemas) {
	s.Router.HandleFunc("/auth/login", handleLogin(s, sch)).Methods("POST")

	r := authRouter(s)
	r.HandleFunc("/user", handleCurrentUser(sch)).Methods("GET")
}

// authRouter returns a subrouter for /auth paths requiring a bearer token
// and, when given, one of roles
func authRouter(s *server.Server, roles ...model.UserRole) *mux.Router {
	r := s.Router.PathPrefix("/auth").Subrouter()
	r.Use(s.Authenticated().Middleware)
	if len(roles) > 0 {
		r.Use(middleware.RequireRole(roles...))
	}
	return r
}

func handleLogin(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var attrs loginAttributes
		if _, err := jsonapi.DecodeObject(r.Body, "user", &attrs); err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		attrs.Email = strings.TrimSpace(attrs.Email)

		verr := jsonapi.NewValidationError()
		if attrs.Email == "" {
			verr.Add("email", "This field is required.")
		}
		if attrs.Password == "" {
			verr.Add("password", "This field is required.")
		}
		if err := verr.OrNil(); err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		event := audit.LoginEvent{Email: attrs.Email, ClientIP: clientIP(r)}
		fail := func(status int, detail string) {
			event.ErrorMessage = detail
			audit.Log(event)
			jsonapi.WriteStatus(w, status, detail)
		}

		user, err := s.UsersStore.FetchUserByEmail(r.Context(), attrs.Email)
		if errors.Is(err, store.ErrNotFound) {
			fail(http.StatusUnauthorized, invalidCredentials)
			return
		}
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		if !auth.VerifyPassword(attrs.Password, user.Password) {
			fail(http.StatusUnauthorized, invalidCredentials)
			return
		}
		if !user.IsActive {
			fail(http.StatusUnauthorized, "Account is inactive")
			return
		}

		token, expiresAt, err := s.Tokens.Issue(user)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		event.Success = true
		audit.Log(event)
		s.Logger.Info("user logged in", zap.Uint("user", user.ID))

		obj, _ := sch.user.Object(user, jsonapi.Options{})
		doc := jsonapi.NewDocument(obj)
		doc.SetMeta("token", token)
		doc.SetMeta("expires_at", expiresAt.UTC().Format(time.RFC3339))
		jsonapi.Write(w, http.StatusCreated, doc)
	}
}

func handleCurrentUser(sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		obj, _ := sch.user.Object(currentUser(r), jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, jsonapi.NewDocument(obj))
	}
}
