package jsonapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
)

// Write encodes doc with status
func Write(w http.ResponseWriter, status int, doc *Document) {
	body, err := json.Marshal(doc)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(&Document{Errors: []*ErrorObject{
			NewError(status, "Internal Server Error", ""),
		}})
	}
	w.Header().Set("Content-Type", MediaType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteErrors writes an error document
func WriteErrors(w http.ResponseWriter, status int, errs ...*ErrorObject) {
	Write(w, status, &Document{Errors: errs, JSONAPI: &Info{Version: Version}})
}

// WriteError writes err if it is a RequestError or ValidationError and
// reports whether it did
func WriteError(w http.ResponseWriter, err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		WriteErrors(w, http.StatusBadRequest, reqErr.ErrorObject())
		return true
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		WriteErrors(w, http.StatusUnprocessableEntity, valErr.ErrorObjects()...)
		return true
	}
	return false
}

// WriteStatus writes a single error object for status with detail
func WriteStatus(w http.ResponseWriter, status int, detail string) {
	WriteErrors(w, status, NewError(status, http.StatusText(status), detail))
}

// RequestDocument is a decoded request body
type RequestDocument struct {
	Data json.RawMessage        `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

type requestObject struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes json.RawMessage `json:"attributes"`
}

// DecodeDocument reads a request document from body
func DecodeDocument(body io.Reader) (*RequestDocument, error) {
	var doc RequestDocument
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		return nil, &RequestError{Detail: "invalid JSON document: " + err.Error()}
	}
	return &doc, nil
}

// DecodeObject reads a single resource object of type typ from body and
// decodes its attributes into attrs. It returns the object id, which may
// be empty for new objects.
func DecodeObject(body io.Reader, typ string, attrs interface{}) (string, error) {
	doc, err := DecodeDocument(body)
	if err != nil {
		return "", err
	}
	if len(doc.Data) == 0 || string(doc.Data) == "null" {
		return "", &RequestError{Pointer: "/data", Detail: "data is required"}
	}
	var obj requestObject
	if err := json.Unmarshal(doc.Data, &obj); err != nil {
		return "", &RequestError{Pointer: "/data", Detail: "data must be a resource object"}
	}
	if obj.Type != typ {
		return "", &RequestError{Pointer: "/data/type", Detail: "type must be " + strconv.Quote(typ)}
	}
	if len(obj.Attributes) > 0 && attrs != nil {
		if err := json.Unmarshal(obj.Attributes, attrs); err != nil {
			return "", &RequestError{Pointer: "/data/attributes", Detail: err.Error()}
		}
	}
	return obj.ID, nil
}

// Identifiers returns the identifiers in data, which may be a single
// identifier or an array. Every identifier must have type typ.
func (d *RequestDocument) Identifiers(typ string) ([]ResourceIdentifier, error) {
	if len(d.Data) == 0 || string(d.Data) == "null" {
		return nil, nil
	}
	var ids []ResourceIdentifier
	if err := json.Unmarshal(d.Data, &ids); err != nil {
		var one ResourceIdentifier
		if err := json.Unmarshal(d.Data, &one); err != nil {
			return nil, &RequestError{Pointer: "/data", Detail: "data must be resource identifiers"}
		}
		ids = []ResourceIdentifier{one}
	}
	for _, id := range ids {
		if id.Type != typ {
			return nil, &RequestError{Pointer: "/data/type", Detail: "type must be " + strconv.Quote(typ)}
		}
	}
	return ids, nil
}

// MetaBool returns a boolean meta member
func (d *RequestDocument) MetaBool(key string) bool {
	b, _ := d.Meta[key].(bool)
	return b
}
