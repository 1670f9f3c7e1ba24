// Package query translates list query strings into SQL. Every list endpoint
// shares the same pipeline: filter, sort, field selection, pagination. The
// builder only composes; callers execute the returned statement and decide
// how to treat an empty result.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrBadParam marks a query string the builder refuses to translate, such as
// a filter or sort on a field the resource does not expose.
var ErrBadParam = errors.New("invalid query parameter")

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// Reserved control keys; everything else in the query string is a filter.
var reservedKeys = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
}

var comparatorKey = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\[(gte|gt|lte|lt)\]$`)

var comparatorSQL = map[string]string{
	"eq":  "=",
	"gte": ">=",
	"gt":  ">",
	"lte": "<=",
	"lt":  "<",
}

// Field maps an API-facing name onto its SQL column.
type Field struct {
	Name   string
	Column string
}

// Resource describes one listable table. Only listed fields may be filtered,
// sorted or projected; request input never reaches SQL as an identifier.
type Resource struct {
	Table       string
	Fields      []Field
	DefaultSort string // SQL column used for the created-at-descending default
}

func (r Resource) column(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Column, true
		}
	}
	return "", false
}

func (r Resource) allColumns() []string {
	cols := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		cols = append(cols, f.Column)
	}
	return cols
}

type Filter struct {
	Column     string
	Comparator string
	Value      any
}

type Sort struct {
	Column string
	Desc   bool
}

// ListQuery is a composed, not yet executed statement.
type ListQuery struct {
	resource Resource
	Filters  []Filter
	Sorts    []Sort
	Columns  []string
	Limit    int
	Offset   int
}

// Parse runs the filter → sort → fields → paginate pipeline over the raw
// query values.
func Parse(values url.Values, res Resource) (*ListQuery, error) {
	q := &ListQuery{resource: res}

	if err := q.parseFilters(values); err != nil {
		return nil, err
	}
	if err := q.parseSort(values.Get("sort")); err != nil {
		return nil, err
	}
	if err := q.parseFields(values.Get("fields")); err != nil {
		return nil, err
	}
	if err := q.parsePagination(values.Get("page"), values.Get("limit")); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *ListQuery) parseFilters(values url.Values) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		keys = append(keys, key)
	}
	// url.Values iterates in map order; sorting keeps argument order stable.
	sort.Strings(keys)

	for _, key := range keys {
		name, comparator := key, "eq"
		if m := comparatorKey.FindStringSubmatch(key); m != nil {
			name, comparator = m[1], m[2]
		}
		column, ok := q.resource.column(name)
		if !ok {
			return fmt.Errorf("%w: unknown filter field %q", ErrBadParam, name)
		}
		q.Filters = append(q.Filters, Filter{
			Column:     column,
			Comparator: comparator,
			Value:      coerce(values.Get(key)),
		})
	}
	return nil
}

func (q *ListQuery) parseSort(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		q.Sorts = []Sort{{Column: q.resource.DefaultSort, Desc: true}}
		return nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		column, ok := q.resource.column(name)
		if !ok {
			return fmt.Errorf("%w: unknown sort field %q", ErrBadParam, name)
		}
		q.Sorts = append(q.Sorts, Sort{Column: column, Desc: desc})
	}
	if len(q.Sorts) == 0 {
		q.Sorts = []Sort{{Column: q.resource.DefaultSort, Desc: true}}
	}
	return nil
}

func (q *ListQuery) parseFields(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		q.Columns = q.resource.allColumns()
		return nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		column, ok := q.resource.column(part)
		if !ok {
			return fmt.Errorf("%w: unknown field %q", ErrBadParam, part)
		}
		q.Columns = append(q.Columns, column)
	}
	if len(q.Columns) == 0 {
		q.Columns = q.resource.allColumns()
	}
	return nil
}

func (q *ListQuery) parsePagination(rawPage, rawLimit string) error {
	page := DefaultPage
	if rawPage != "" {
		parsed, err := strconv.Atoi(rawPage)
		if err != nil || parsed < 1 {
			return fmt.Errorf("%w: page must be a positive integer", ErrBadParam)
		}
		page = parsed
	}
	limit := DefaultLimit
	if rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			return fmt.Errorf("%w: limit must be a positive integer", ErrBadParam)
		}
		limit = parsed
	}
	q.Limit = limit
	q.Offset = (page - 1) * limit
	return nil
}

// SQL renders the composed SELECT with positional arguments.
func (q *ListQuery) SQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.Columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.resource.Table)

	args := make([]any, 0, len(q.Filters))
	for i, f := range q.Filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(&b, "%s %s $%d", f.Column, comparatorSQL[f.Comparator], len(args))
	}

	b.WriteString(" ORDER BY ")
	for i, s := range q.Sorts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.Column)
		if s.Desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}

	fmt.Fprintf(&b, " LIMIT %d OFFSET %d", q.Limit, q.Offset)
	return b.String(), args
}

// coerce turns a filter value into a typed argument so Postgres can compare
// numeric and timestamp columns without text casts.
func coerce(raw string) any {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	if v, err := time.Parse(time.RFC3339, raw); err == nil {
		return v
	}
	if v, err := time.Parse("2006-01-02", raw); err == nil {
		return v
	}
	return raw
}
