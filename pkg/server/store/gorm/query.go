package gorm

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/otwartedane/mcod/pkg/jsonapi"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// notFound maps gorm.ErrRecordNotFound to store.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

// conflict maps unique violations to store.ErrConflict
func conflict(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return store.ErrConflict
	}
	if strings.Contains(err.Error(), "SQLSTATE 23505") {
		return store.ErrConflict
	}
	return err
}

// orderBy builds an ORDER BY clause from sort fields allowed by columns
func orderBy(sorts []jsonapi.SortField, columns map[string]string) string {
	parts := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		col, ok := columns[s.Field]
		if !ok {
			continue
		}
		if s.Desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	if id, ok := columns["id"]; ok {
		parts = append(parts, id)
	}
	return strings.Join(parts, ", ")
}

func filterIDs(f jsonapi.Filter) []uint64 {
	var ids []uint64
	for _, v := range f.Values() {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func lowerAll(vs []string) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = strings.ToLower(v)
	}
	return out
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func filterTime(f jsonapi.Filter) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, f.Value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &jsonapi.RequestError{
		Parameter: f.Field + "[" + string(f.Op) + "]",
		Detail:    "must be a date (YYYY-MM-DD) or an RFC 3339 timestamp",
	}
}

// applyRange adds gte/lte conditions on column for field
func applyRange(q *gorm.DB, p jsonapi.ListParams, field, column string) (*gorm.DB, error) {
	if f, ok := p.Filter(field, jsonapi.OpGte); ok {
		t, err := filterTime(f)
		if err != nil {
			return nil, err
		}
		q = q.Where(column+" >= ?", t)
	}
	if f, ok := p.Filter(field, jsonapi.OpLte); ok {
		t, err := filterTime(f)
		if err != nil {
			return nil, err
		}
		if len(f.Value) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		q = q.Where(column+" <= ?", t)
	}
	return q, nil
}

// applyTerms adds an IN condition for the term and terms operators
func applyTerms(q *gorm.DB, p jsonapi.ListParams, field, expr string, lower bool) *gorm.DB {
	var values []string
	if f, ok := p.Filter(field, jsonapi.OpTerms); ok {
		values = append(values, f.Values()...)
	}
	if f, ok := p.Filter(field, jsonapi.OpTerm); ok {
		values = append(values, f.Value)
	}
	if len(values) == 0 {
		return q
	}
	if lower {
		values = lowerAll(values)
	}
	return q.Where(expr+" IN ?", values)
}

func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + r.Replace(q) + "%"
}
