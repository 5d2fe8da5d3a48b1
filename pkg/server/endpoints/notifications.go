package endpoints

import (
	"net/http"
	"strconv"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server"
)

var notificationListSpec = jsonapi.ListSpec{Sorts: []string{"created"}, DefaultSort: "-created"}

// RegisterNotificationsEndpoints registers the notification endpoints of
// the authenticated user
func RegisterNotificationsEndpoints(s *server.Server, sch *schemas) {
	r := authRouter(s)
	r.HandleFunc("/notifications", handleListNotifications(s, sch)).Methods("GET")
	r.HandleFunc("/notifications", handleMarkNotifications(s)).Methods("PATCH")
	r.HandleFunc("/notifications/unread-count", handleUnreadCount(s)).Methods("GET")
}

func handleListNotifications(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		p, err := listParams(s, r, notificationListSpec)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		opts, err := sch.notification.ParseOptions(q)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		var status *model.NotificationStatus
		if raw := q.Get("status"); raw != "" {
			st, err := model.NotificationStatusString(raw)
			if err != nil {
				writeError(s.Logger, w, r, &jsonapi.RequestError{Parameter: "status", Detail: "must be new or read"})
				return
			}
			status = &st
		}

		notifications, count, err := s.Watchers.Notifications(r.Context(), currentUser(r).ID, status, p)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		objects, included := sch.notification.Many(ptrs(notifications), opts)
		jsonapi.Write(w, http.StatusOK, listDocument(s, r, objects, included, p, count))
	}
}

// handleMarkNotifications marks the notifications identified in data as
// read, or all of them when meta.all is true
func handleMarkNotifications(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := jsonapi.DecodeDocument(r.Body)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		user := currentUser(r)

		var updated int64
		if doc.MetaBool("all") {
			updated, err = s.Watchers.MarkAllRead(r.Context(), user.ID)
		} else {
			var idents []jsonapi.ResourceIdentifier
			idents, err = doc.Identifiers("notification")
			if err != nil {
				writeError(s.Logger, w, r, err)
				return
			}
			if len(idents) == 0 {
				writeError(s.Logger, w, r, &jsonapi.RequestError{Pointer: "/data", Detail: "notification identifiers or meta.all are required"})
				return
			}
			ids := make([]uint, 0, len(idents))
			for _, ident := range idents {
				id, err := strconv.ParseUint(ident.ID, 10, 64)
				if err != nil || id == 0 {
					writeError(s.Logger, w, r, &jsonapi.RequestError{Pointer: "/data/id", Detail: "invalid notification id " + strconv.Quote(ident.ID)})
					return
				}
				ids = append(ids, uint(id))
			}
			updated, err = s.Watchers.MarkRead(r.Context(), user.ID, ids)
		}
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}

		out := &jsonapi.Document{JSONAPI: &jsonapi.Info{Version: jsonapi.Version}}
		out.SetMeta("updated", updated)
		jsonapi.Write(w, http.StatusOK, out)
	}
}

func handleUnreadCount(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := s.Watchers.UnreadCount(r.Context(), currentUser(r).ID)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		doc := &jsonapi.Document{JSONAPI: &jsonapi.Info{Version: jsonapi.Version}}
		doc.SetMeta("count", count)
		jsonapi.Write(w, http.StatusOK, doc)
	}
}
