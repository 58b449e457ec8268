package query

import (
	"math"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

func mustParse(t *testing.T, raw string) Spec {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	spec, err := Parse(v)
	require.NoError(t, err)
	return spec
}

func TestParse_Defaults(t *testing.T) {
	spec := mustParse(t, "")
	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, 25, spec.Limit)
	assert.Equal(t, 0, spec.Skip())
	assert.Equal(t, []SortField{{Field: "createdAt", Desc: true}}, spec.Sort)
	assert.Nil(t, spec.Select)
	assert.Empty(t, spec.Filters)
}

func TestParse_ControlKeysAreNotFilters(t *testing.T) {
	spec := mustParse(t, "select=name,description&sort=name,-averageCost&page=3&limit=10")
	assert.Empty(t, spec.Filters)
	assert.Equal(t, []string{"name", "description"}, spec.Select)
	assert.Equal(t, []SortField{{Field: "name"}, {Field: "averageCost", Desc: true}}, spec.Sort)
	assert.Equal(t, 3, spec.Page)
	assert.Equal(t, 10, spec.Limit)
	assert.Equal(t, 20, spec.Skip())
}

func TestParse_MalformedPaginationFallsBack(t *testing.T) {
	for _, raw := range []string{"page=abc&limit=x", "page=0&limit=-5", "page=&limit=", "page=1.5&limit=2e3"} {
		spec := mustParse(t, raw)
		assert.Equal(t, DefaultPage, spec.Page, raw)
		assert.Equal(t, DefaultLimit, spec.Limit, raw)
	}
}

func TestParse_HugePaginationStaysInRange(t *testing.T) {
	cases := []struct {
		raw         string
		page, limit int
	}{
		{"page=368934881474191034&limit=25", DefaultPage, 25},
		{"page=99999999999999999999&limit=25", DefaultPage, 25},
		{"page=2&limit=1000000", 2, MaxLimit},
		{"page=1&limit=9223372036854775807", 1, MaxLimit},
		{"page=4&limit=100", 4, 100},
	}
	for _, tc := range cases {
		spec := mustParse(t, tc.raw)
		assert.Equal(t, tc.page, spec.Page, tc.raw)
		assert.Equal(t, tc.limit, spec.Limit, tc.raw)
		assert.GreaterOrEqual(t, spec.Skip(), 0, tc.raw)
	}
}

func TestParse_SkipFormula(t *testing.T) {
	for page := 1; page <= 5; page++ {
		for _, limit := range []int{1, 2, 7, 25} {
			spec := Spec{Page: page, Limit: limit}
			assert.Equal(t, (page-1)*limit, spec.Skip())
		}
	}
}

func TestParse_Operators(t *testing.T) {
	spec := mustParse(t, "averageCost[lte]=10000&tuition[gte]=1000&careers[in]=Business,UI/UX&housing=true")
	assert.Equal(t, []Filter{
		{Field: "averageCost", Op: OpLte, Values: []string{"10000"}},
		{Field: "careers", Op: OpIn, Values: []string{"Business", "UI/UX"}},
		{Field: "housing", Op: OpEq, Values: []string{"true"}},
		{Field: "tuition", Op: OpGte, Values: []string{"1000"}},
	}, spec.Filters)
}

func TestParse_OperatorWordsInsideValuesOrNamesAreLiteral(t *testing.T) {
	// "in", "gt", "lt" appear inside field names and values; none is an operator.
	spec := mustParse(t, "housing=integrity&title=gt&jobGuarantee=lte&minimumSkill=intermediate")
	for _, f := range spec.Filters {
		assert.Equal(t, OpEq, f.Op, f.Field)
	}
	assert.Equal(t, []Filter{
		{Field: "housing", Op: OpEq, Values: []string{"integrity"}},
		{Field: "jobGuarantee", Op: OpEq, Values: []string{"lte"}},
		{Field: "minimumSkill", Op: OpEq, Values: []string{"intermediate"}},
		{Field: "title", Op: OpEq, Values: []string{"gt"}},
	}, spec.Filters)
}

func TestParse_UnknownOperator(t *testing.T) {
	for _, raw := range []string{"tuition[gtx]=1", "tuition[ne]=1", "tuition[$gt]=1", "tuition[gt]extra=1"} {
		v, _ := url.ParseQuery(raw)
		_, err := Parse(v)
		require.Error(t, err, raw)
		ae := apperror.From(err)
		assert.Equal(t, http.StatusBadRequest, ae.Status, raw)
	}
}

func TestParse_RepeatedEqualityBecomesIn(t *testing.T) {
	spec := mustParse(t, "minimumSkill=beginner&minimumSkill=advanced")
	require.Len(t, spec.Filters, 1)
	assert.Equal(t, OpIn, spec.Filters[0].Op)
	assert.Equal(t, []string{"beginner", "advanced"}, spec.Filters[0].Values)
}

func TestParse_RepeatedComparisonRejected(t *testing.T) {
	v, _ := url.ParseQuery("tuition[gt]=1&tuition[gt]=2")
	_, err := Parse(v)
	assert.Error(t, err)
}

func TestParse_EmptyInRejected(t *testing.T) {
	v, _ := url.ParseQuery("careers[in]=,")
	_, err := Parse(v)
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		page, limit int
		total       int64
		next, prev  bool
	}{
		{1, 25, 0, false, false},
		{1, 2, 2, false, false},
		{1, 2, 3, true, false},
		{2, 2, 3, false, true},
		{2, 2, 5, true, true},
		{9, 2, 5, false, true},
		{368934881474191034, 25, 3, false, true},
		{math.MaxInt, math.MaxInt, 3, false, true},
	}
	for _, tc := range cases {
		p := Paginate(tc.page, tc.limit, tc.total)
		assert.Equal(t, tc.next, p.Next != nil, "next page=%d limit=%d total=%d", tc.page, tc.limit, tc.total)
		assert.Equal(t, tc.prev, p.Prev != nil, "prev page=%d limit=%d total=%d", tc.page, tc.limit, tc.total)
		if p.Next != nil {
			assert.Equal(t, PageRef{Page: tc.page + 1, Limit: tc.limit}, *p.Next)
		}
		if p.Prev != nil {
			assert.Equal(t, PageRef{Page: tc.page - 1, Limit: tc.limit}, *p.Prev)
		}
	}
}
