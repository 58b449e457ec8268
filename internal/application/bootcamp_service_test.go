package application_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
)

func TestBootcampCreate_SlugLocationAndIndex(t *testing.T) {
	f := newFixture()
	pub := f.user(t, "pub", entity.RolePublisher)

	b := f.bootcamp(t, pub, "Devworks Bootcamp")

	assert.Equal(t, "devworks-bootcamp", b.Slug)
	assert.Equal(t, pub.ID, b.UserID)
	assert.Equal(t, entity.DefaultPhoto, b.Photo)
	require.NotNil(t, b.Location)
	assert.Equal(t, "Boston", b.Location.City)
	assert.Equal(t, 1, f.index.Len())
}

func TestBootcampCreate_OnePerPublisher(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	pub := f.user(t, "pub", entity.RolePublisher)
	admin := f.user(t, "admin", entity.RoleAdmin)

	f.bootcamp(t, pub, "First")
	_, err := f.bootcamps.Create(ctx, pub, application.BootcampInput{Name: "Second", Description: "x"})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "has already published a bootcamp")

	f.bootcamp(t, admin, "Admin One")
	f.bootcamp(t, admin, "Admin Two")
}

func TestBootcampCreate_DuplicateName(t *testing.T) {
	f := newFixture()
	f.bootcamp(t, f.user(t, "a", entity.RolePublisher), "Same")

	_, err := f.bootcamps.Create(context.Background(), f.user(t, "b", entity.RolePublisher),
		application.BootcampInput{Name: "Same", Description: "x"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestBootcampCreate_GeocodeFailureLeavesNoLocation(t *testing.T) {
	f := newFixture()
	b, err := f.bootcamps.Create(context.Background(), f.user(t, "pub", entity.RolePublisher),
		application.BootcampInput{Name: "Nowhere", Description: "x", Address: "unknown street"})
	require.NoError(t, err)
	assert.Nil(t, b.Location)
}

func TestBootcampUpdate_Ownership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", entity.RolePublisher)
	other := f.user(t, "other", entity.RolePublisher)
	admin := f.user(t, "admin", entity.RoleAdmin)
	b := f.bootcamp(t, owner, "Owned")

	name := "Hijacked"
	_, err := f.bootcamps.Update(ctx, other, b.ID, application.BootcampPatch{Name: &name})
	requireStatus(t, err, http.StatusForbidden)

	got, err := f.bootcamps.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Owned", got.Name, "forbidden update must not mutate")

	name = "Renamed By Admin"
	got, err = f.bootcamps.Update(ctx, admin, b.ID, application.BootcampPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed-by-admin", got.Slug)
}

func TestBootcampUpdate_RegeocodesChangedAddress(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", entity.RolePublisher)
	b := f.bootcamp(t, owner, "Mover")

	addr := "10001"
	got, err := f.bootcamps.Update(context.Background(), owner, b.ID, application.BootcampPatch{Address: &addr})
	require.NoError(t, err)
	require.NotNil(t, got.Location)
	assert.Equal(t, "New York", got.Location.City)
}

func TestBootcampDelete_CascadesAndIsNotIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", entity.RolePublisher)
	b := f.bootcamp(t, owner, "Doomed")
	c, err := f.courses.Create(ctx, owner, b.ID, application.CourseInput{Title: "Go", Description: "x", Weeks: 4, Tuition: 1000, MinimumSkill: entity.SkillBeginner})
	require.NoError(t, err)

	requireStatus(t, f.bootcamps.Delete(ctx, f.user(t, "other", entity.RolePublisher), b.ID), http.StatusForbidden)
	require.NoError(t, f.bootcamps.Delete(ctx, owner, b.ID))
	requireStatus(t, f.bootcamps.Delete(ctx, owner, b.ID), http.StatusNotFound)

	_, err = f.courses.Get(ctx, c.ID)
	requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, 0, f.index.Len())
}

func TestBootcampInRadius(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.bootcamp(t, f.user(t, "pub", entity.RolePublisher), "Boston Camp")

	near, err := f.bootcamps.InRadius(ctx, "02118", "10")
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, "Boston Camp", near[0].Name)

	far, err := f.bootcamps.InRadius(ctx, "10001", "10")
	require.NoError(t, err)
	assert.Empty(t, far)

	_, err = f.bootcamps.InRadius(ctx, "99999", "10")
	requireStatus(t, err, http.StatusNotFound)

	_, err = f.bootcamps.InRadius(ctx, "02118", "far")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestBootcampUploadPhoto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", entity.RolePublisher)
	b := f.bootcamp(t, owner, "Photogenic")

	_, err := f.bootcamps.UploadPhoto(ctx, owner, b.ID, &application.Upload{
		Filename: "x.txt", ContentType: "text/plain", Size: 3, Body: strings.NewReader("abc"),
	})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.bootcamps.UploadPhoto(ctx, owner, b.ID, &application.Upload{
		Filename: "big.jpg", ContentType: "image/jpeg", Size: 4096, Body: strings.NewReader("abc"),
	})
	requireStatus(t, err, http.StatusBadRequest)

	name, err := f.bootcamps.UploadPhoto(ctx, owner, b.ID, &application.Upload{
		Filename: "Cover.JPG", ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("abc"),
	})
	require.NoError(t, err)
	assert.Equal(t, "photo_"+b.ID+".jpg", name)
	assert.Equal(t, []byte("abc"), f.files.Saved[name])

	got, err := f.bootcamps.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Photo)
}

func TestBootcampUploadPhoto_StorageFailure(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", entity.RolePublisher)
	b := f.bootcamp(t, owner, "Unlucky")
	f.files.Err = errors.New("disk full")

	_, err := f.bootcamps.UploadPhoto(context.Background(), owner, b.ID, &application.Upload{
		Filename: "a.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("a"),
	})
	requireStatus(t, err, http.StatusInternalServerError)
	assert.Contains(t, err.Error(), "Problem with file upload")
}

func TestBootcampSearch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.bootcamp(t, f.user(t, "pub", entity.RolePublisher), "Codemasters")

	hits, err := f.bootcamps.Search(ctx, "codemasters", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	_, err = f.bootcamps.Search(ctx, "  ", 10)
	requireStatus(t, err, http.StatusBadRequest)

	f.bootcamps.Index = nil
	_, err = f.bootcamps.Search(ctx, "codemasters", 10)
	requireStatus(t, err, http.StatusServiceUnavailable)
}

func TestBootcampList_Pagination(t *testing.T) {
	f := newFixture()
	admin := f.user(t, "admin", entity.RoleAdmin)
	for _, n := range []string{"One", "Two", "Three"} {
		f.bootcamp(t, admin, n)
	}

	res, err := f.bootcamps.List(context.Background(), query.Spec{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.EqualValues(t, 3, res.Total)
	p := res.Pagination()
	assert.Nil(t, p.Next)
	require.NotNil(t, p.Prev)
	assert.Equal(t, 1, p.Prev.Page)
}
