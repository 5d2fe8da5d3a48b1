package audit

import (
	"fmt"
	"strconv"
)

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}

// LoginEvent represents a login attempt
type LoginEvent struct {
	Email        string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e LoginEvent) MessageID() string {
	return "login"
}

func (e LoginEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully logged in", e.Email)
	}
	return withError(fmt.Sprintf("%s failed to log in", e.Email), e.ErrorMessage)
}

func (e LoginEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e LoginEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LoginEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "login",
			"result":    result(e.Success),
		},
	}
}

// SubscriptionEvent represents a subscription being created or removed
type SubscriptionEvent struct {
	UserID       uint
	ClientIP     string
	ObjectName   string
	ObjectIdent  string
	Operation    string // "subscribe", "unsubscribe"
	Success      bool
	ErrorMessage string
}

func (e SubscriptionEvent) MessageID() string {
	return "subscription"
}

func (e SubscriptionEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("user %d %sd %s %s", e.UserID, e.Operation, e.ObjectName, e.ObjectIdent)
	}
	return withError(fmt.Sprintf("user %d tried to %s %s %s", e.UserID, e.Operation, e.ObjectName, e.ObjectIdent), e.ErrorMessage)
}

func (e SubscriptionEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e SubscriptionEvent) Facility() int {
	return FacilityUser
}

func (e SubscriptionEvent) Subject() (string, string) {
	return e.ObjectName, e.ObjectIdent
}

func (e SubscriptionEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": strconv.FormatUint(uint64(e.UserID), 10),
		},
		SDIDSubject: {
			"object": e.ObjectName,
			"ident":  e.ObjectIdent,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}

// HarvestEvent represents a finished harvest run
type HarvestEvent struct {
	SourceID     uint
	SourceName   string
	RunID        string
	Status       string
	Created      int
	Updated      int
	Deleted      int
	Invalid      int
	ErrorMessage string
}

func (e HarvestEvent) MessageID() string {
	return "harvest"
}

func (e HarvestEvent) Message() string {
	if e.Status == "error" {
		return withError(fmt.Sprintf("harvest of %s failed", e.SourceName), e.ErrorMessage)
	}
	return fmt.Sprintf("harvest of %s finished with status %s: %d created, %d updated, %d deleted, %d invalid",
		e.SourceName, e.Status, e.Created, e.Updated, e.Deleted, e.Invalid)
}

func (e HarvestEvent) Severity() Severity {
	switch e.Status {
	case "error":
		return SeverityError
	case "ok-partial-errors":
		return SeverityWarning
	}
	return SeverityInfo
}

func (e HarvestEvent) Facility() int {
	return FacilityUser
}

func (e HarvestEvent) Subject() (string, string) {
	return "data_source", strconv.FormatUint(uint64(e.SourceID), 10)
}

func (e HarvestEvent) HarvestRun() string {
	return e.RunID
}

func (e HarvestEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDHarvest: {
			"source": strconv.FormatUint(uint64(e.SourceID), 10),
			"run":    e.RunID,
			"status": e.Status,
		},
		SDIDAction: {
			"operation": "harvest",
			"result":    result(e.Status != "error"),
		},
	}
}

// ScheduleEvent represents a change of an agent schedule
type ScheduleEvent struct {
	UserID     uint
	ScheduleID uint
	Operation  string // "create", "state", "block", "unblock", "ready"
	Detail     string
}

func (e ScheduleEvent) MessageID() string {
	return "schedule"
}

func (e ScheduleEvent) Message() string {
	msg := fmt.Sprintf("user %d performed %s on schedule %d", e.UserID, e.Operation, e.ScheduleID)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e ScheduleEvent) Severity() Severity {
	return SeverityNotice
}

func (e ScheduleEvent) Facility() int {
	return FacilityUser
}

func (e ScheduleEvent) Subject() (string, string) {
	return "schedule", strconv.FormatUint(uint64(e.ScheduleID), 10)
}

func (e ScheduleEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": strconv.FormatUint(uint64(e.UserID), 10),
		},
		SDIDSubject: {
			"schedule": strconv.FormatUint(uint64(e.ScheduleID), 10),
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    "success",
		},
	}
}

// LinkCheckEvent represents a finished broken-link validation run
type LinkCheckEvent struct {
	Checked int
	Ok      int
	Broken  int
}

func (e LinkCheckEvent) MessageID() string {
	return "link-check"
}

func (e LinkCheckEvent) Message() string {
	return fmt.Sprintf("checked %d resource links: %d ok, %d broken", e.Checked, e.Ok, e.Broken)
}

func (e LinkCheckEvent) Severity() Severity {
	if e.Broken > 0 {
		return SeverityNotice
	}
	return SeverityInfo
}

func (e LinkCheckEvent) Facility() int {
	return FacilityUser
}

func (e LinkCheckEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAction: {
			"operation": "check-links",
			"checked":   strconv.Itoa(e.Checked),
			"broken":    strconv.Itoa(e.Broken),
		},
	}
}
