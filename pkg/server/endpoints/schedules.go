package endpoints

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/schedules"
	"github.com/otwartedane/mcod/pkg/server"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// scheduleAttributes accepts dates as "2006-01-02" or RFC 3339
type scheduleAttributes struct {
	PeriodName string  `json:"period_name"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	NewEndDate *string `json:"new_end_date"`
	Link       *string `json:"link"`
	State      *string `json:"state"`
	IsBlocked  *bool   `json:"is_blocked"`
}

func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	verr := jsonapi.NewValidationError()
	verr.Add(field, "Enter a valid date.")
	return time.Time{}, verr
}

// RegisterSchedulesEndpoints registers the publication schedule workflow.
// Agents and administrators only; finer rules are enforced by the service.
func RegisterSchedulesEndpoints(s *server.Server, sch *schemas) {
	r := authRouter(s, model.UserRoleAgent)
	r.HandleFunc("/schedules", handleListSchedules(s, sch)).Methods("GET")
	r.HandleFunc("/schedules", handleCreateSchedule(s, sch)).Methods("POST")
	r.HandleFunc("/schedules/current", handleCurrentSchedule(s, sch)).Methods("GET")
	r.HandleFunc("/schedules/{id:[0-9]+}", handleGetSchedule(s, sch)).Methods("GET")
	r.HandleFunc("/schedules/{id:[0-9]+}", handleUpdateSchedule(s, sch)).Methods("PATCH")
	r.HandleFunc("/schedules/{id:[0-9]+}/items", handleScheduleItems(s, sch)).Methods("GET")
	r.HandleFunc("/schedules/{id:[0-9]+}/export.csv", handleExportSchedule(s)).Methods("GET")
	r.HandleFunc("/user_schedule_items", handleCreateItem(s, sch)).Methods("POST")
	r.HandleFunc("/user_schedule_items/{id:[0-9]+}", handleUpdateItem(s, sch)).Methods("PATCH")
	r.HandleFunc("/user_schedules/ready", handleMarkReady(s, sch)).Methods("POST")
}

func handleListSchedules(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Schedules.Schedules(r.Context())
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		objects, _ := sch.schedule.Many(ptrs(list), jsonapi.Options{})
		doc := jsonapi.NewListDocument(objects, nil)
		doc.SetMeta("count", len(objects))
		jsonapi.Write(w, http.StatusOK, doc)
	}
}

func handleCreateSchedule(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var attrs scheduleAttributes
		if _, err := jsonapi.DecodeObject(r.Body, "schedule", &attrs); err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		start, err := parseDate("start_date", attrs.StartDate)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		end, err := parseDate("end_date", attrs.EndDate)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		in := schedules.ScheduleInput{PeriodName: attrs.PeriodName, StartDate: start, EndDate: end}
		if attrs.Link != nil {
			in.Link = *attrs.Link
		}

		created, err := s.Schedules.CreateSchedule(r.Context(), currentUser(r), in)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		obj, _ := sch.schedule.Object(created, jsonapi.Options{})
		jsonapi.Write(w, http.StatusCreated, jsonapi.NewDocument(obj))
	}
}

func handleCurrentSchedule(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := s.Schedules.CurrentSchedule(r.Context())
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		obj, _ := sch.schedule.Object(current, jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, jsonapi.NewDocument(obj))
	}
}

func handleGetSchedule(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		found, err := s.Schedules.Schedule(r.Context(), id)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		obj, _ := sch.schedule.Object(found, jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, jsonapi.NewDocument(obj))
	}
}

func handleUpdateSchedule(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		var attrs scheduleAttributes
		if _, err := jsonapi.DecodeObject(r.Body, "schedule", &attrs); err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		in := schedules.ScheduleUpdate{State: attrs.State, IsBlocked: attrs.IsBlocked, Link: attrs.Link}
		if attrs.NewEndDate != nil {
			end, err := parseDate("new_end_date", *attrs.NewEndDate)
			if err != nil {
				writeError(s.Logger, w, r, err)
				return
			}
			if !end.IsZero() {
				in.NewEndDate = &end
			}
		}

		updated, err := s.Schedules.UpdateSchedule(r.Context(), currentUser(r), id, in)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		obj, _ := sch.schedule.Object(updated, jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, jsonapi.NewDocument(obj))
	}
}

func handleScheduleItems(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		items, err := s.Schedules.Items(r.Context(), currentUser(r), id)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		objects, _ := sch.item.Many(ptrs(items), jsonapi.Options{})
		doc := jsonapi.NewListDocument(objects, nil)
		doc.SetMeta("count", len(objects))
		jsonapi.Write(w, http.StatusOK, doc)
	}
}

func handleExportSchedule(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		var buf bytes.Buffer
		if err := s.Schedules.ExportCSV(r.Context(), currentUser(r), id, &buf); err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="schedule-`+strconv.FormatUint(uint64(id), 10)+`.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func handleCreateItem(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in schedules.ItemInput
		if _, err := jsonapi.DecodeObject(r.Body, "user_schedule_item", &in); err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		item, err := s.Schedules.AddItem(r.Context(), currentUser(r), in)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		obj, _ := sch.item.Object(item, jsonapi.Options{})
		jsonapi.Write(w, http.StatusCreated, jsonapi.NewDocument(obj))
	}
}

func handleUpdateItem(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(s.Logger, w, r, store.ErrNotFound)
			return
		}
		var in schedules.ItemUpdate
		if _, err := jsonapi.DecodeObject(r.Body, "user_schedule_item", &in); err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		item, err := s.Schedules.UpdateItem(r.Context(), currentUser(r), id, in)
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		obj, _ := sch.item.Object(item, jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, jsonapi.NewDocument(obj))
	}
}

func handleMarkReady(s *server.Server, sch *schemas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		us, err := s.Schedules.MarkReady(r.Context(), currentUser(r))
		if err != nil {
			writeError(s.Logger, w, r, err)
			return
		}
		obj, _ := sch.userSchedule.Object(us, jsonapi.Options{})
		jsonapi.Write(w, http.StatusOK, jsonapi.NewDocument(obj))
	}
}
