// Package table provides the sort and filter state behind tabular views.
package table

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending".
// Anything else yields def.
func ParseDirection(s string, def Direction) Direction {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return Ascending
	case "desc", "descending":
		return Descending
	}
	return def
}

// Accessor extracts a column value. Supported kinds are strings, integer
// and float numbers, time.Time, bool, Ranked and nil. Pointers of any
// type are dereferenced, a nil pointer counts as nil.
type Accessor[T any] func(T) any

// Ranked values sort by Rank and are filtered on their text.
type Ranked interface {
	Rank() int
}

// Filter is a case-insensitive substring match against one column.
// An empty Query matches everything.
type Filter struct {
	Column string
	Query  string
}

// Sorter holds the active sort column and direction for a set of columns.
type Sorter[T any] struct {
	columns map[string]Accessor[T]
	key     string
	dir     Direction
}

// NewSorter starts sorted by key in dir.
func NewSorter[T any](columns map[string]Accessor[T], key string, dir Direction) *Sorter[T] {
	return &Sorter[T]{columns: columns, key: key, dir: dir}
}

func (s *Sorter[T]) Key() string          { return s.key }
func (s *Sorter[T]) Direction() Direction { return s.dir }

// HasColumn reports whether key names a known column.
func (s *Sorter[T]) HasColumn(key string) bool {
	_, ok := s.columns[key]
	return ok
}

// Toggle selects a column. Selecting the active column flips the
// direction; selecting another column starts ascending.
func (s *Sorter[T]) Toggle(key string) {
	if key == s.key {
		if s.dir == Ascending {
			s.dir = Descending
		} else {
			s.dir = Ascending
		}
		return
	}
	s.key = key
	s.dir = Ascending
}

// Set selects a column and direction explicitly.
func (s *Sorter[T]) Set(key string, dir Direction) {
	s.key = key
	s.dir = dir
}

// Apply returns a filtered, then stably sorted copy of items. Unknown
// filter or sort columns are ignored.
func (s *Sorter[T]) Apply(items []T, f Filter) []T {
	out := make([]T, 0, len(items))
	match, hasFilter := s.columns[f.Column]
	query := strings.ToLower(strings.TrimSpace(f.Query))
	for _, item := range items {
		if hasFilter && query != "" && !strings.Contains(strings.ToLower(render(match(item))), query) {
			continue
		}
		out = append(out, item)
	}

	get, ok := s.columns[s.key]
	if !ok {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		c := compare(get(a), get(b))
		if s.dir == Descending {
			return -c
		}
		return c
	})
	return out
}

// deref follows pointers of any type; a nil pointer yields nil.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

const (
	kindNil = iota
	kindRanked
	kindNumber
	kindTime
	kindBool
	kindText
)

func kindOf(v any) int {
	if v == nil {
		return kindNil
	}
	if _, ok := v.(Ranked); ok {
		return kindRanked
	}
	if _, ok := toFloat(v); ok {
		return kindNumber
	}
	switch v.(type) {
	case time.Time:
		return kindTime
	case bool:
		return kindBool
	}
	return kindText
}

// compare orders two column values. Values of different kinds order by
// kind: nil, ranked, numbers, times, bools, then text.
func compare(a, b any) int {
	a, b = deref(a), deref(b)
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}
	switch ka {
	case kindNil:
		return 0
	case kindRanked:
		return cmp.Compare(a.(Ranked).Rank(), b.(Ranked).Rank())
	case kindNumber:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return cmp.Compare(fa, fb)
	case kindTime:
		return a.(time.Time).Compare(b.(time.Time))
	case kindBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
	return strings.Compare(strings.ToLower(render(a)), strings.ToLower(render(b)))
}

func render(v any) string {
	v = deref(v)
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(v)
}
