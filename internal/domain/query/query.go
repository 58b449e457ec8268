// Package query turns a flat URL query string into a typed list request:
// filters, projection, sort order and pagination. It knows nothing about the
// store; repositories translate a Spec into their own query language.
package query

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

// Operator is a comparison applied by a filter.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

var operators = map[string]Operator{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

// Control keys shape the result instead of filtering it.
const (
	KeySelect = "select"
	KeySort   = "sort"
	KeyPage   = "page"
	KeyLimit  = "limit"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	DefaultSort  = "-createdAt"

	// MaxLimit caps page size; larger requests are clamped.
	MaxLimit = 100
)

// Filter is one predicate. Values has exactly one element unless Op is OpIn.
type Filter struct {
	Field  string
	Op     Operator
	Values []string
}

type SortField struct {
	Field string
	Desc  bool
}

// Spec is a parsed list request. Filters are combined with logical AND.
type Spec struct {
	Filters []Filter
	Select  []string
	Sort    []SortField
	Page    int
	Limit   int
}

// Skip is the number of matching items before the requested page.
func (s Spec) Skip() int { return (s.Page - 1) * s.Limit }

// filterKey matches "field" or "field[op]"; op must be a whole word.
var filterKey = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)(?:\[([A-Za-z]+)\])?$`)

// Parse builds a Spec from query values. Malformed page/limit fall back to
// defaults; an unknown operator or a malformed key is a validation error.
func Parse(values url.Values) (Spec, error) {
	spec := Spec{
		Select: splitList(values.Get(KeySelect)),
		Sort:   parseSort(values.Get(KeySort)),
		Page:   positiveOr(values.Get(KeyPage), DefaultPage),
		Limit:  min(positiveOr(values.Get(KeyLimit), DefaultLimit), MaxLimit),
	}
	// a page whose offset does not fit in an int is as malformed as "abc"
	if spec.Page-1 > math.MaxInt/spec.Limit {
		spec.Page = DefaultPage
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		switch k {
		case KeySelect, KeySort, KeyPage, KeyLimit:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		f, err := parseFilter(k, values[k])
		if err != nil {
			return Spec{}, err
		}
		spec.Filters = append(spec.Filters, f)
	}
	return spec, nil
}

func parseFilter(key string, raw []string) (Filter, error) {
	m := filterKey.FindStringSubmatch(key)
	if m == nil {
		return Filter{}, apperror.BadRequest("Invalid filter %q", key)
	}
	f := Filter{Field: m[1], Op: OpEq}
	if m[2] != "" {
		op, ok := operators[m[2]]
		if !ok {
			return Filter{}, apperror.BadRequest("Unsupported operator %q on %s", m[2], m[1])
		}
		f.Op = op
	}

	switch {
	case f.Op == OpIn:
		for _, v := range raw {
			f.Values = append(f.Values, splitList(v)...)
		}
	case f.Op == OpEq && len(raw) > 1:
		f.Op = OpIn
		f.Values = append(f.Values, raw...)
	default:
		if len(raw) > 1 {
			return Filter{}, apperror.BadRequest("Filter %s[%s] takes a single value", f.Field, f.Op)
		}
		f.Values = raw
	}
	if len(f.Values) == 0 {
		return Filter{}, apperror.BadRequest("Filter %s has no value", f.Field)
	}
	return f, nil
}

func parseSort(raw string) []SortField {
	if strings.TrimSpace(raw) == "" {
		raw = DefaultSort
	}
	var out []SortField
	for _, part := range splitList(raw) {
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimLeft(part, "-+")
		if name == "" {
			continue
		}
		out = append(out, SortField{Field: name, Desc: desc})
	}
	return out
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func positiveOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
