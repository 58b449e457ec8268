package postgres

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

func parse(t *testing.T, raw string) query.Spec {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	spec, err := query.Parse(v)
	require.NoError(t, err)
	return spec
}

func TestBuild_ComparisonSortAndPaging(t *testing.T) {
	spec := parse(t, "tuition[gte]=1000&sort=-createdAt&limit=2&page=1")

	q, err := courseResource.build(spec, false)
	require.NoError(t, err)

	assert.Contains(t, q.sql, "WHERE c.tuition >= $1")
	assert.Contains(t, q.sql, "ORDER BY c.created_at DESC, c.id ASC")
	assert.True(t, strings.HasSuffix(q.sql, "LIMIT $2 OFFSET $3"), q.sql)
	assert.Equal(t, []any{1000.0, 2, 0}, q.args)

	assert.Equal(t, "SELECT COUNT(*) FROM courses c WHERE c.tuition >= $1", q.countSQL)
	assert.Equal(t, []any{1000.0}, q.countArgs)
}

func TestBuild_SecondPageOffset(t *testing.T) {
	spec := parse(t, "page=3&limit=10")

	q, err := bootcampResource.build(spec, false)
	require.NoError(t, err)

	assert.Equal(t, []any{10, 20}, q.args)
	assert.Equal(t, "SELECT COUNT(*) FROM bootcamps b", q.countSQL)
	assert.Empty(t, q.countArgs)
}

func TestBuild_SelectAlwaysIncludesID(t *testing.T) {
	spec := parse(t, "select=name,description,nope&sort=name")

	q, err := bootcampResource.build(spec, false)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(q.sql,
		`SELECT b.id::text AS "id", b.name AS "name", b.description AS "description" FROM bootcamps b`), q.sql)
	assert.Contains(t, q.sql, "ORDER BY b.name ASC, b.id ASC")
}

func TestBuild_DefaultProjectionSkipsVirtualAndFilterOnly(t *testing.T) {
	q, err := bootcampResource.build(parse(t, ""), false)
	require.NoError(t, err)

	assert.NotContains(t, q.sql, `AS "courses"`)
	assert.NotContains(t, q.sql, `AS "location.city"`)
	assert.Contains(t, q.sql, `AS "location"`)

	q, err = bootcampResource.build(parse(t, ""), true)
	require.NoError(t, err)
	assert.Contains(t, q.sql, `AS "courses"`)
}

func TestBuild_PopulateSwapsBootcampReference(t *testing.T) {
	q, err := courseResource.build(parse(t, "select=title,bootcamp"), true)
	require.NoError(t, err)
	assert.Contains(t, q.sql, courseBootcampExpr+` AS "bootcamp"`)

	q, err = courseResource.build(parse(t, "select=title,bootcamp"), false)
	require.NoError(t, err)
	assert.Contains(t, q.sql, `c.bootcamp_id::text AS "bootcamp"`)
}

func TestBuild_InOperator(t *testing.T) {
	q, err := courseResource.build(parse(t, "minimumSkill[in]=beginner,advanced"), false)
	require.NoError(t, err)

	assert.Contains(t, q.sql, "WHERE c.minimum_skill = ANY($1)")
	assert.Equal(t, []string{"beginner", "advanced"}, q.args[0])
}

func TestBuild_CareersArrayPredicates(t *testing.T) {
	q, err := bootcampResource.build(parse(t, "careers=Business"), false)
	require.NoError(t, err)
	assert.Contains(t, q.sql, "WHERE $1 = ANY(b.careers)")
	assert.Equal(t, "Business", q.args[0])

	q, err = bootcampResource.build(parse(t, "careers[in]=Business,UI/UX"), false)
	require.NoError(t, err)
	assert.Contains(t, q.sql, "WHERE b.careers && $1::text[]")
	assert.Equal(t, []string{"Business", "UI/UX"}, q.args[0])

	_, err = bootcampResource.build(parse(t, "careers[gt]=Business"), false)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestBuild_NestedLocationFilter(t *testing.T) {
	q, err := bootcampResource.build(parse(t, "location.state=MA&housing=true"), false)
	require.NoError(t, err)

	assert.Contains(t, q.sql, "WHERE b.housing = $1 AND b.state = $2")
	assert.Equal(t, []any{true, "MA", 25, 0}, q.args)
}

func TestBuild_TypedCasts(t *testing.T) {
	q, err := reviewResource.build(parse(t, "rating[in]=8,10"), false)
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 10}, q.args[0])

	_, err = reviewResource.build(parse(t, "rating=high"), false)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = courseResource.build(parse(t, "scholarshipAvailable=perhaps"), false)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = courseResource.build(parse(t, "bootcamp=not-a-uuid"), false)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestBuild_UnknownFilterMatchesNothing(t *testing.T) {
	q, err := bootcampResource.build(parse(t, "tuition[gte]=1000&sort=-createdAt&limit=2&page=1"), false)
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM bootcamps b WHERE FALSE", q.countSQL)
	assert.Equal(t, []any{2, 0}, q.args)

	q, err = userResource.build(parse(t, "password=secret"), false)
	require.NoError(t, err)
	assert.Contains(t, q.sql, "WHERE FALSE")
	assert.NotContains(t, q.sql, "secret")

	q, err = bootcampResource.build(parse(t, "courses=x&housing=true"), true)
	require.NoError(t, err)
	assert.Contains(t, q.sql, "WHERE FALSE AND b.housing = $1")
}

func TestUserResource_HidesSecrets(t *testing.T) {
	q, err := userResource.build(parse(t, "select=password,resetPasswordToken,name"), false)
	require.NoError(t, err)

	assert.NotContains(t, q.sql, "password")
	assert.Contains(t, q.sql, `u.name AS "name"`)
}

func TestBuild_UnknownSortFallsBackToCreatedAt(t *testing.T) {
	q, err := reviewResource.build(parse(t, "sort=whatever"), false)
	require.NoError(t, err)
	assert.Contains(t, q.sql, "ORDER BY r.created_at DESC, r.id ASC")
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, status, apperror.From(err).Status)
}
