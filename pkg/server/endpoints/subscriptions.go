package endpoints

import (
	"net/http"

	"github.com/otwartedane/mcod/pkg/audit"
	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/server"
	"github.com/otwartedane/mcod/pkg/server/store"
	"github.com/otwartedane/mcod/pkg/watchers"
)

// subscriptionListSpec pages subscriptions, newest first
var subscriptionListSpec = jsonapi.ListSpec{Sorts: []string{"created"}, DefaultSort: "-created"}

// RegisterSubscriptionsEndpoints registers the subscription endpoints of
// the authenticated user
func RegisterSubscriptionsEndpoints(s *server.Server, sch *schemas) {
	r := authRouter(s)
	r.HandleFunc("/subscriptions", handleListSubscriptions(s, sch)).Methods("GET")
	r.HandleFunc("/subscriptions", handleSubscribe(s, sch)).Methods("POST")
	r.HandleFunc("/subscriptions/{id}", handleGetSubscription(s, sch)).Methods("GET")
	r.HandleFunc("/subscriptions/{id}", handleUnsubscribe(s)).Methods("DELETE")
}

func handleListSubscriptions(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := listParams(s, r, subscriptionListSpec)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		subs, count, err := s.Watchers.ListSubscriptions(r.Context(), currentUser(r).ID, p)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		objects, _ := sch.subscription.Many(ptrs(subs), jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, listDocument(s, r, objects, nil, p, count))
	}
}

func handleSubscribe(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in watchers.SubscribeInput
		if _, err := jsonapi.DecodeObject(r.Body, "subscription", &in); err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		user := currentUser(r)
		event := audit.SubscriptionEvent{
			UserID:      user.ID,
			ClientIP:    clientIP(r),
			ObjectName:  in.ObjectName,
			ObjectIdent: in.ObjectIdent,
			Operation:   "subscribe",
		}

		sub, err := s.Watchers.Subscribe(r.Context(), user.ID, in)
		if err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			writeError(s.Logger, w, r, err)
			return
		}
		event.Success = true
		audit.Log(event)

		obj, _ := sch.subscription.Object(sub, jsonapi.Options{})
		jsonapi.Write(w, http.StatusCreated, jsonapi.NewDocument(obj))
	}
}

func handleGetSubscription(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		sub, err := s.Watchers.GetSubscription(r.Context(), currentUser(r).ID, id)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		obj, _ := sch.subscription.Object(sub, jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, jsonapi.NewDocument(obj))
	}
}

func handleUnsubscribe(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		user := currentUser(r)
		event := audit.SubscriptionEvent{UserID: user.ID, ClientIP: clientIP(r), Operation: "unsubscribe"}

		sub, err := s.Watchers.Unsubscribe(r.Context(), user.ID, id)
		if err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			writeError(s.Logger, w, r, err)
			return
		}
		if sub.Watcher != nil {
			event.ObjectName = sub.Watcher.ObjectName
			event.ObjectIdent = sub.Watcher.ObjectIdent
		}
		event.Success = true
		audit.Log(event)
		w.WriteHeader(http.StatusNoContent)
	}
}
