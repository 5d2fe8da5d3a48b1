package endpoints

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/otwartedane/mcod/pkg/formats"
	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/watchers"
)

// schemas renders models as JSON:API resource objects. Links are absolute,
// built from the configured base URL.
type schemas struct {
	base string

	dataset      *jsonapi.Schema[*model.Dataset]
	resource     *jsonapi.Schema[*model.Resource]
	institution  *jsonapi.Schema[*model.Organization]
	user         *jsonapi.Schema[*model.User]
	subscription *jsonapi.Schema[*model.Subscription]
	notification *jsonapi.Schema[*model.Notification]
	schedule     *jsonapi.Schema[*model.Schedule]
	userSchedule *jsonapi.Schema[*model.UserSchedule]
	item         *jsonapi.Schema[*model.UserScheduleItem]
	source       *jsonapi.Schema[*model.DataSource]
	sourceImport *jsonapi.Schema[*model.DataSourceImport]
}

func id(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func timeAttr(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func timePtrAttr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return timeAttr(*t)
}

func dateAttr(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format("2006-01-02")
}

func newSchemas(baseURL string) *schemas {
	s := &schemas{base: strings.TrimRight(baseURL, "/")}

	s.institution = &jsonapi.Schema[*model.Organization]{
		Type: "institution",
		ID:   func(o *model.Organization) string { return id(o.ID) },
		Attributes: func(o *model.Organization) map[string]interface{} {
			return map[string]interface{}{
				"title":            o.Title,
				"slug":             o.Slug,
				"description":      o.Description,
				"institution_type": o.InstitutionType.String(),
				"email":            o.Email,
				"website":          o.Website,
				"datasets_count":   o.DatasetsCount,
				"created":          timeAttr(o.CreatedAt),
				"modified":         timeAttr(o.ModifiedAt),
			}
		},
		SelfLink: func(o *model.Organization) string { return s.base + "/organizations/" + id(o.ID) },
		Relationships: map[string]jsonapi.RelationshipDef[*model.Organization]{
			"datasets": {
				Resolve: func(o *model.Organization) jsonapi.Linkage {
					n := o.DatasetsCount
					return jsonapi.Linkage{Related: s.base + "/organizations/" + id(o.ID) + "/datasets", Count: &n}
				},
			},
		},
	}

	s.resource = &jsonapi.Schema[*model.Resource]{
		Type: "resource",
		ID:   func(r *model.Resource) string { return id(r.ID) },
		Attributes: func(r *model.Resource) map[string]interface{} {
			return map[string]interface{}{
				"title":                   r.Title,
				"description":             r.Description,
				"link":                    r.Link,
				"format":                  strings.ToLower(r.Format),
				"media_type":              r.MediaType,
				"file_size":               r.FileSize,
				"type":                    r.Type.String(),
				"openness_score":          r.OpennessScore,
				"is_tabular":              formats.IsTabular(r.Format),
				"contains_protected_data": r.ContainsProtectedData,
				"is_high_value":           r.IsHighValue,
				"link_status":             r.LinkStatus.String(),
				"link_checked":            timePtrAttr(r.LinkCheckedAt),
				"data_date":               dateAttr(r.DataDate),
				"created":                 timeAttr(r.CreatedAt),
				"modified":                timeAttr(r.ModifiedAt),
			}
		},
		SelfLink: func(r *model.Resource) string { return s.base + "/resources/" + id(r.ID) },
		Relationships: map[string]jsonapi.RelationshipDef[*model.Resource]{
			"dataset": {
				Includable: true,
				Resolve: func(r *model.Resource) jsonapi.Linkage {
					obj := &jsonapi.Object{ID: id(r.DatasetID), Type: "dataset"}
					if r.Dataset != nil {
						obj, _ = s.dataset.Object(r.Dataset, jsonapi.Options{})
					}
					return jsonapi.Linkage{
						Objects: []*jsonapi.Object{obj},
						ToOne:   true,
						Related: s.base + "/datasets/" + id(r.DatasetID),
					}
				},
			},
		},
	}

	s.dataset = &jsonapi.Schema[*model.Dataset]{
		Type: "dataset",
		ID:   func(d *model.Dataset) string { return id(d.ID) },
		Attributes: func(d *model.Dataset) map[string]interface{} {
			categories := make([]map[string]string, 0, len(d.Categories))
			for _, c := range d.Categories {
				categories = append(categories, map[string]string{"code": c.Code, "title": c.Title})
			}
			hvd := []string(d.HVDCategories)
			if hvd == nil {
				hvd = []string{}
			}
			formatList := d.Formats()
			if formatList == nil {
				formatList = []string{}
			}
			return map[string]interface{}{
				"title":             d.Title,
				"notes":             d.Notes,
				"slug":              d.Slug,
				"url":               d.URL,
				"license_code":      d.LicenseCode,
				"update_frequency":  d.UpdateFrequency,
				"categories":        categories,
				"tags":              d.TagNames(""),
				"formats":           formatList,
				"is_high_value":     d.IsHighValue,
				"hvd_categories":    hvd,
				"has_dynamic_data":  d.HasDynamicData,
				"has_research_data": d.HasResearchData,
				"views_count":       d.ViewsCount,
				"downloads_count":   d.DownloadsCount,
				"verified":          timePtrAttr(d.VerifiedAt),
				"created":           timeAttr(d.CreatedAt),
				"modified":          timeAttr(d.ModifiedAt),
			}
		},
		SelfLink: func(d *model.Dataset) string { return s.base + "/datasets/" + d.IdentSlug() },
		Relationships: map[string]jsonapi.RelationshipDef[*model.Dataset]{
			"organization": {
				Includable: true,
				Resolve: func(d *model.Dataset) jsonapi.Linkage {
					obj := &jsonapi.Object{ID: id(d.OrganizationID), Type: "institution"}
					if d.Organization != nil {
						obj, _ = s.institution.Object(d.Organization, jsonapi.Options{})
					}
					return jsonapi.Linkage{
						Objects: []*jsonapi.Object{obj},
						ToOne:   true,
						Related: s.base + "/organizations/" + id(d.OrganizationID),
					}
				},
			},
			"resources": {
				Includable: true,
				Resolve: func(d *model.Dataset) jsonapi.Linkage {
					objects := make([]*jsonapi.Object, 0, len(d.Resources))
					for i := range d.Resources {
						r := d.Resources[i]
						r.Dataset = nil
						obj, _ := s.resource.Object(&r, jsonapi.Options{})
						objects = append(objects, obj)
					}
					n := len(objects)
					return jsonapi.Linkage{
						Objects: objects,
						Related: s.base + "/datasets/" + id(d.ID) + "/resources",
						Count:   &n,
					}
				},
			},
		},
	}

	s.user = &jsonapi.Schema[*model.User]{
		Type: "user",
		ID:   func(u *model.User) string { return id(u.ID) },
		Attributes: func(u *model.User) map[string]interface{} {
			return map[string]interface{}{
				"email":     u.Email,
				"fullname":  u.Fullname,
				"role":      u.Role.String(),
				"is_active": u.IsActive,
				"created":   timeAttr(u.CreatedAt),
			}
		},
	}

	s.subscription = &jsonapi.Schema[*model.Subscription]{
		Type: "subscription",
		ID:   func(sub *model.Subscription) string { return id(sub.ID) },
		Attributes: func(sub *model.Subscription) map[string]interface{} {
			attrs := map[string]interface{}{
				"name":            sub.Name,
				"customized_link": sub.CustomizedLink,
				"created":         timeAttr(sub.CreatedAt),
			}
			if w := sub.Watcher; w != nil {
				attrs["object_name"] = w.ObjectName
				attrs["object_ident"] = w.ObjectIdent
				attrs["watcher_type"] = w.WatcherType.String()
				attrs["ref_value"] = w.RefValue
				attrs["last_ref_change"] = timePtrAttr(w.LastRefChange)
				attrs["object_url"] = s.objectURL(w)
			}
			return attrs
		},
		SelfLink: func(sub *model.Subscription) string { return s.base + "/auth/subscriptions/" + id(sub.ID) },
	}

	s.notification = &jsonapi.Schema[*model.Notification]{
		Type: "notification",
		ID:   func(n *model.Notification) string { return id(n.ID) },
		Attributes: func(n *model.Notification) map[string]interface{} {
			return map[string]interface{}{
				"notification_type": n.NotificationType.String(),
				"status":            n.Status.String(),
				"ref_value":         n.RefValue,
				"created":           timeAttr(n.CreatedAt),
			}
		},
		Relationships: map[string]jsonapi.RelationshipDef[*model.Notification]{
			"subscription": {
				Includable: true,
				Resolve: func(n *model.Notification) jsonapi.Linkage {
					obj := &jsonapi.Object{ID: id(n.SubscriptionID), Type: "subscription"}
					if n.Subscription != nil {
						obj, _ = s.subscription.Object(n.Subscription, jsonapi.Options{})
					}
					return jsonapi.Linkage{
						Objects: []*jsonapi.Object{obj},
						ToOne:   true,
						Related: s.base + "/auth/subscriptions/" + id(n.SubscriptionID),
					}
				},
			},
		},
	}

	s.schedule = &jsonapi.Schema[*model.Schedule]{
		Type: "schedule",
		ID:   func(sch *model.Schedule) string { return id(sch.ID) },
		Attributes: func(sch *model.Schedule) map[string]interface{} {
			return map[string]interface{}{
				"period_name":  sch.PeriodName,
				"start_date":   dateAttr(&sch.StartDate),
				"end_date":     dateAttr(&sch.EndDate),
				"new_end_date": dateAttr(sch.NewEndDate),
				"link":         sch.Link,
				"state":        sch.State.String(),
				"is_blocked":   sch.IsBlocked,
				"created":      timeAttr(sch.CreatedAt),
			}
		},
		SelfLink: func(sch *model.Schedule) string { return s.base + "/auth/schedules/" + id(sch.ID) },
		Relationships: map[string]jsonapi.RelationshipDef[*model.Schedule]{
			"items": {
				Resolve: func(sch *model.Schedule) jsonapi.Linkage {
					return jsonapi.Linkage{Related: s.base + "/auth/schedules/" + id(sch.ID) + "/items"}
				},
			},
		},
	}

	s.userSchedule = &jsonapi.Schema[*model.UserSchedule]{
		Type: "user_schedule",
		ID:   func(us *model.UserSchedule) string { return id(us.ID) },
		Attributes: func(us *model.UserSchedule) map[string]interface{} {
			return map[string]interface{}{
				"schedule_id": us.ScheduleID,
				"user_id":     us.UserID,
				"is_ready":    us.IsReady,
				"created":     timeAttr(us.CreatedAt),
			}
		},
	}

	s.item = &jsonapi.Schema[*model.UserScheduleItem]{
		Type: "user_schedule_item",
		ID:   func(it *model.UserScheduleItem) string { return id(it.ID) },
		Attributes: func(it *model.UserScheduleItem) map[string]interface{} {
			attrs := map[string]interface{}{
				"organization_name":           it.OrganizationName,
				"dataset_title":               it.DatasetTitle,
				"format":                      it.Format,
				"is_new":                      it.IsNew,
				"is_openness_score_increased": it.IsOpennessScoreIncreased,
				"is_quality_improved":         it.IsQualityImproved,
				"description":                 it.Description,
				"recommendation_state":        it.RecommendationState.String(),
				"recommendation_notes":        it.RecommendationNotes,
				"is_resource_added":           it.IsResourceAdded,
				"resource_link":               it.ResourceLink,
				"created":                     timeAttr(it.CreatedAt),
				"modified":                    timeAttr(it.ModifiedAt),
			}
			if it.UserSchedule != nil {
				attrs["user_id"] = it.UserSchedule.UserID
				attrs["schedule_id"] = it.UserSchedule.ScheduleID
			}
			return attrs
		},
		SelfLink: func(it *model.UserScheduleItem) string { return s.base + "/auth/user_schedule_items/" + id(it.ID) },
	}

	s.source = &jsonapi.Schema[*model.DataSource]{
		Type: "data_source",
		ID:   func(src *model.DataSource) string { return id(src.ID) },
		Attributes: func(src *model.DataSource) map[string]interface{} {
			attrs := map[string]interface{}{
				"name":               src.Name,
				"description":        src.Description,
				"source_type":        src.SourceType.String(),
				"source_url":         src.SourceURL(),
				"frequency_in_days":  src.FrequencyInDays,
				"active":             src.Active,
				"last_import_at":     timePtrAttr(src.LastImportAt),
				"last_import_status": src.LastImportStatus,
				"created":            timeAttr(src.CreatedAt),
				"modified":           timeAttr(src.ModifiedAt),
			}
			if src.Organization != nil {
				attrs["organization"] = src.Organization.Slug
			}
			return attrs
		},
		Relationships: map[string]jsonapi.RelationshipDef[*model.DataSource]{
			"imports": {
				Resolve: func(src *model.DataSource) jsonapi.Linkage {
					return jsonapi.Linkage{Related: s.base + "/auth/harvester/sources/" + id(src.ID) + "/imports"}
				},
			},
		},
	}

	s.sourceImport = &jsonapi.Schema[*model.DataSourceImport]{
		Type: "data_source_import",
		ID:   func(imp *model.DataSourceImport) string { return id(imp.ID) },
		Attributes: func(imp *model.DataSourceImport) map[string]interface{} {
			var details interface{}
			if imp.ErrorDetails != "" && json.Valid([]byte(imp.ErrorDetails)) {
				details = json.RawMessage(imp.ErrorDetails)
			}
			return map[string]interface{}{
				"run_id":            imp.RunID,
				"start":             timeAttr(imp.Start),
				"end":               timePtrAttr(imp.End),
				"status":            imp.Status.String(),
				"error_desc":        imp.ErrorDesc,
				"datasets_count":    imp.DatasetsCount,
				"datasets_created":  imp.DatasetsCreated,
				"datasets_updated":  imp.DatasetsUpdated,
				"datasets_deleted":  imp.DatasetsDeleted,
				"resources_count":   imp.ResourcesCount,
				"resources_created": imp.ResourcesCreated,
				"resources_updated": imp.ResourcesUpdated,
				"resources_deleted": imp.ResourcesDeleted,
				"invalid_count":     imp.InvalidCount,
				"error_details":     details,
			}
		},
	}

	return s
}

// objectURL is the API location of a watched object
func (s *schemas) objectURL(w *model.Watcher) string {
	switch w.ObjectName {
	case watchers.ObjectDataset:
		return s.base + "/datasets/" + w.ObjectIdent
	case watchers.ObjectResource:
		return s.base + "/resources/" + w.ObjectIdent
	case watchers.ObjectOrganization:
		return s.base + "/organizations/" + w.ObjectIdent
	default:
		return s.base + w.ObjectIdent
	}
}

func ptrs[T any](vs []T) []*T {
	out := make([]*T, len(vs))
	for i := range vs {
		out[i] = &vs[i]
	}
	return out
}
