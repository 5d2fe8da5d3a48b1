package harvester

import (
	"fmt"
	"net/url"
	"unicode/utf8"

	"github.com/otwartedane/mcod/pkg/formats"
	"github.com/otwartedane/mcod/pkg/model"
)

// MaxTitleLength is the longest accepted dataset title, in characters
const MaxTitleLength = 300

// RecordError lists the problems of one invalid record
type RecordError struct {
	ExtIdent string   `json:"ext_ident"`
	Title    string   `json:"title,omitempty"`
	Messages []string `json:"messages"`
}

func (e *RecordError) add(format string, args ...interface{}) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

// Validate checks every record and returns the errors keyed by record
// index. Records missing from the result are valid.
//
// Beyond the per-record rules it enforces the rules that span the
// payload: unique ext_idents and at most one protected-data resource per
// organization.
func Validate(records []DatasetRecord) map[int]*RecordError {
	errs := map[int]*RecordError{}
	get := func(i int) *RecordError {
		if e, ok := errs[i]; ok {
			return e
		}
		e := &RecordError{ExtIdent: records[i].ExtIdent, Title: records[i].Title}
		errs[i] = e
		return e
	}

	seen := map[string]int{}
	protected := map[string]int{}
	for i := range records {
		rec := &records[i]
		if rec.ExtIdent == "" {
			get(i).add("ext_ident is required")
		} else if first, dup := seen[rec.ExtIdent]; dup {
			get(i).add("ext_ident %q duplicates record %d", rec.ExtIdent, first+1)
		} else {
			seen[rec.ExtIdent] = i
		}

		for _, msg := range validateDataset(rec) {
			get(i).add("%s", msg)
		}

		for _, r := range rec.Resources {
			if !r.ContainsProtectedData {
				continue
			}
			protected[rec.Organization]++
			if protected[rec.Organization] > 1 {
				get(i).add("resource %q: organization %q already has a protected-data resource in this import", r.ExtIdent, rec.Organization)
			}
		}
	}
	return errs
}

func validateDataset(rec *DatasetRecord) []string {
	var msgs []string
	if rec.Title == "" {
		msgs = append(msgs, "title is required")
	} else if utf8.RuneCountInString(rec.Title) > MaxTitleLength {
		msgs = append(msgs, fmt.Sprintf("title is longer than %d characters", MaxTitleLength))
	}
	if rec.LicenseCode != "" && !IsKnownLicense(rec.LicenseCode) {
		msgs = append(msgs, fmt.Sprintf("unknown license code %q", rec.LicenseCode))
	}
	if len(rec.Resources) == 0 {
		msgs = append(msgs, "dataset has no resources")
	}

	if rec.IsHighValue {
		known := 0
		for _, c := range rec.HVDCategories {
			if model.IsHighValueCategory(c) {
				known++
			} else {
				msgs = append(msgs, fmt.Sprintf("unknown high-value category %q", c))
			}
		}
		if known == 0 {
			msgs = append(msgs, "high-value dataset requires a high-value category")
		}
	}

	idents := map[string]bool{}
	for _, r := range rec.Resources {
		name := r.ExtIdent
		switch {
		case name == "":
			msgs = append(msgs, "resource ext_ident is required")
		case idents[name]:
			msgs = append(msgs, fmt.Sprintf("resource ext_ident %q is not unique", name))
		}
		idents[name] = true

		if !isHTTPURL(r.Link) {
			msgs = append(msgs, fmt.Sprintf("resource %q: link must be an absolute http(s) url", name))
		}
		if r.IsHighValue && !rec.IsHighValue {
			msgs = append(msgs, fmt.Sprintf("resource %q: high-value resource requires a high-value dataset", name))
		}
		if r.ContainsProtectedData {
			if r.IsHighValue {
				msgs = append(msgs, fmt.Sprintf("resource %q: protected-data resource cannot be high-value", name))
			}
			if !formats.IsTabular(resourceFormat(r)) {
				msgs = append(msgs, fmt.Sprintf("resource %q: protected-data resource must be csv, xls or xlsx", name))
			}
		}
	}
	return msgs
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// resourceFormat returns the declared format, or the one implied by the
// link
func resourceFormat(r ResourceRecord) string {
	if r.Format != "" {
		return r.Format
	}
	if f, ok := formats.FromURL(r.Link); ok {
		return f.Name
	}
	return ""
}
