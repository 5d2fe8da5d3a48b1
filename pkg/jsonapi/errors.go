package jsonapi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrorObject is a JSON:API error
type ErrorObject struct {
	Status string       `json:"status"`
	Code   string       `json:"code,omitempty"`
	Title  string       `json:"title,omitempty"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
}

// ErrorSource points at the part of the request causing an error
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// NewError builds an error object for an HTTP status
func NewError(status int, title, detail string) *ErrorObject {
	return &ErrorObject{
		Status: strconv.Itoa(status),
		Title:  title,
		Detail: detail,
	}
}

// RequestError is a malformed request parameter or body
type RequestError struct {
	Parameter string
	Pointer   string
	Detail    string
}

func (e *RequestError) Error() string {
	if e.Parameter != "" {
		return fmt.Sprintf("invalid parameter %s: %s", e.Parameter, e.Detail)
	}
	return "malformed request: " + e.Detail
}

// ErrorObject renders e as a 400 error
func (e *RequestError) ErrorObject() *ErrorObject {
	obj := NewError(400, "Bad Request", e.Detail)
	if e.Parameter != "" || e.Pointer != "" {
		obj.Source = &ErrorSource{Parameter: e.Parameter, Pointer: e.Pointer}
	}
	return obj
}

// ValidationError collects messages per attribute
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Add records a message for field
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any message was recorded
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns e when it has errors and nil otherwise
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, f := range e.fieldNames() {
		parts = append(parts, f+": "+strings.Join(e.Fields[f], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrorObjects renders one 422 error per message with a pointer to the
// offending attribute
func (e *ValidationError) ErrorObjects() []*ErrorObject {
	var objs []*ErrorObject
	for _, f := range e.fieldNames() {
		for _, msg := range e.Fields[f] {
			obj := NewError(422, "Unprocessable Entity", msg)
			obj.Code = "invalid"
			obj.Source = &ErrorSource{Pointer: "/data/attributes/" + f}
			objs = append(objs, obj)
		}
	}
	return objs
}

func (e *ValidationError) fieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}
