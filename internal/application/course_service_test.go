package application_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
)

func course(title string, tuition float64) application.CourseInput {
	return application.CourseInput{
		Title: title, Description: "x", Weeks: 8, Tuition: tuition, MinimumSkill: entity.SkillIntermediate,
	}
}

func averageCost(t *testing.T, f *fixture, id string) *float64 {
	t.Helper()
	b, err := f.bootcamps.Get(context.Background(), id)
	require.NoError(t, err)
	return b.AverageCost
}

func TestCourseCreate_RecomputesAverageCost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", entity.RolePublisher)
	b := f.bootcamp(t, owner, "Camp")
	assert.Nil(t, averageCost(t, f, b.ID))

	_, err := f.courses.Create(ctx, owner, b.ID, course("A", 8000))
	require.NoError(t, err)
	_, err = f.courses.Create(ctx, owner, b.ID, course("B", 10001))
	require.NoError(t, err)

	got := averageCost(t, f, b.ID)
	require.NotNil(t, got)
	assert.Equal(t, 9010.0, *got, "mean 9000.5 rounds up to the next ten")
}

func TestCourseCreateThenDelete_RestoresAverageCost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", entity.RolePublisher)
	b := f.bootcamp(t, owner, "Camp")
	_, err := f.courses.Create(ctx, owner, b.ID, course("Base", 5000))
	require.NoError(t, err)
	before := *averageCost(t, f, b.ID)

	c, err := f.courses.Create(ctx, owner, b.ID, course("Extra", 20000))
	require.NoError(t, err)
	assert.NotEqual(t, before, *averageCost(t, f, b.ID))

	require.NoError(t, f.courses.Delete(ctx, owner, c.ID))
	assert.Equal(t, before, *averageCost(t, f, b.ID))
}

func TestCourseDeleteLast_ClearsAverageCost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", entity.RolePublisher)
	b := f.bootcamp(t, owner, "Camp")
	c, err := f.courses.Create(ctx, owner, b.ID, course("Only", 5000))
	require.NoError(t, err)

	require.NoError(t, f.courses.Delete(ctx, owner, c.ID))
	assert.Nil(t, averageCost(t, f, b.ID))
	requireStatus(t, f.courses.Delete(ctx, owner, c.ID), http.StatusNotFound)
}

func TestCourseCreate_RequiresBootcampOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", entity.RolePublisher)
	other := f.user(t, "other", entity.RolePublisher)
	admin := f.user(t, "admin", entity.RoleAdmin)
	b := f.bootcamp(t, owner, "Camp")

	_, err := f.courses.Create(ctx, other, b.ID, course("Nope", 1))
	requireStatus(t, err, http.StatusForbidden)

	_, err = f.courses.Create(ctx, admin, b.ID, course("Admin", 1))
	require.NoError(t, err)

	_, err = f.courses.Create(ctx, owner, "00000000-0000-0000-0000-000000000000", course("Orphan", 1))
	requireStatus(t, err, http.StatusNotFound)
}

func TestCourseUpdate_OwnershipAndRecompute(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", entity.RolePublisher)
	b := f.bootcamp(t, owner, "Camp")
	c, err := f.courses.Create(ctx, owner, b.ID, course("A", 1000))
	require.NoError(t, err)

	tuition := 2000.0
	_, err = f.courses.Update(ctx, f.user(t, "other", entity.RolePublisher), c.ID, application.CoursePatch{Tuition: &tuition})
	requireStatus(t, err, http.StatusForbidden)
	assert.Equal(t, 1000.0, *averageCost(t, f, b.ID))

	got, err := f.courses.Update(ctx, owner, c.ID, application.CoursePatch{Tuition: &tuition})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got.Tuition)
	assert.Equal(t, 2000.0, *averageCost(t, f, b.ID))
}

func TestCourseListByBootcamp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.user(t, "admin", entity.RoleAdmin)
	b1 := f.bootcamp(t, admin, "One")
	b2 := f.bootcamp(t, admin, "Two")
	_, err := f.courses.Create(ctx, admin, b1.ID, course("A", 1))
	require.NoError(t, err)
	_, err = f.courses.Create(ctx, admin, b1.ID, course("B", 1))
	require.NoError(t, err)
	_, err = f.courses.Create(ctx, admin, b2.ID, course("C", 1))
	require.NoError(t, err)

	got, err := f.courses.ListByBootcamp(ctx, b1.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Title, "newest first")
}
