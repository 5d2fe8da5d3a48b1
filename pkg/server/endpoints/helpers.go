package endpoints

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/otwartedane/mcod/pkg/auth"
	"github.com/otwartedane/mcod/pkg/harvester"
	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/schedules"
	"github.com/otwartedane/mcod/pkg/server"
	"github.com/otwartedane/mcod/pkg/server/middleware"
	"github.com/otwartedane/mcod/pkg/server/store"
	"github.com/otwartedane/mcod/pkg/watchers"
)

// writeError maps err to an error document. Unexpected errors are logged
// and reported as 500 without details.
func writeError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if jsonapi.WriteError(w, err) {
		return
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonapi.WriteStatus(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, watchers.ErrAlreadySubscribed),
		errors.Is(err, harvester.ErrAlreadyRunning):
		jsonapi.WriteStatus(w, http.StatusConflict, err.Error())
	case errors.Is(err, schedules.ErrNotAllowed):
		jsonapi.WriteStatus(w, http.StatusForbidden, err.Error())
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		jsonapi.WriteStatus(w, http.StatusInternalServerError, "")
	}
}

// pathID parses the {id} route variable. Dataset ids may carry a slug
// suffix ("123,slug").
func pathID(r *http.Request) (uint, bool) {
	raw, err := url.PathUnescape(mux.Vars(r)["id"])
	if err != nil {
		return 0, false
	}
	return model.ParseIdent(raw)
}

func listParams(s *server.Server, r *http.Request, spec jsonapi.ListSpec) (jsonapi.ListParams, error) {
	return jsonapi.ParseListParams(r.URL.Query(), spec, s.Config.APIPageSizeDefault, s.Config.APIPageSizeMax)
}

// selfURL is the absolute URL of the request, used for paging links
func selfURL(s *server.Server, r *http.Request) *url.URL {
	u, err := url.Parse(strings.TrimRight(s.Config.BaseURL, "/") + r.URL.Path)
	if err != nil {
		u = &url.URL{Path: r.URL.Path}
	}
	u.RawQuery = r.URL.RawQuery
	return u
}

// listDocument builds a paged list document with links and meta
func listDocument(s *server.Server, r *http.Request, objects, included []*jsonapi.Object, p jsonapi.ListParams, count int64) *jsonapi.Document {
	doc := jsonapi.NewListDocument(objects, included)
	doc.Links = jsonapi.PageLinks(selfURL(s, r), p, int(count))
	doc.Meta = jsonapi.ListMeta(p, int(count))
	return doc
}

func currentUser(r *http.Request) *model.User {
	u, _ := auth.UserFromContext(r.Context())
	return u
}

// clientIP returns the remote address of the request without the port.
// Forwarding headers are honoured only through handlers.ProxyHeaders when
// trust_proxy_headers is set.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
