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

func TestReviewCreate_RecomputesAverageRating(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.bootcamp(t, f.user(t, "pub", entity.RolePublisher), "Camp")
	alice := f.user(t, "alice", entity.RoleUser)
	bob := f.user(t, "bob", entity.RoleUser)

	_, err := f.reviews.Create(ctx, alice, b.ID, application.ReviewInput{Title: "Great", Text: "x", Rating: 8})
	require.NoError(t, err)
	r, err := f.reviews.Create(ctx, bob, b.ID, application.ReviewInput{Title: "Fine", Text: "x", Rating: 5})
	require.NoError(t, err)

	got, err := f.bootcamps.Get(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AverageRating)
	assert.InDelta(t, 6.5, *got.AverageRating, 1e-9)

	require.NoError(t, f.reviews.Delete(ctx, bob, r.ID))
	got, err = f.bootcamps.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, *got.AverageRating, 1e-9)
}

func TestReviewCreate_OnePerUserPerBootcamp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.bootcamp(t, f.user(t, "pub", entity.RolePublisher), "Camp")
	alice := f.user(t, "alice", entity.RoleUser)

	_, err := f.reviews.Create(ctx, alice, b.ID, application.ReviewInput{Title: "One", Text: "x", Rating: 7})
	require.NoError(t, err)
	_, err = f.reviews.Create(ctx, alice, b.ID, application.ReviewInput{Title: "Two", Text: "x", Rating: 2})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestReviewCreate_RatingBounds(t *testing.T) {
	f := newFixture()
	b := f.bootcamp(t, f.user(t, "pub", entity.RolePublisher), "Camp")

	_, err := f.reviews.Create(context.Background(), f.user(t, "alice", entity.RoleUser), b.ID,
		application.ReviewInput{Title: "Too good", Text: "x", Rating: 11})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestReviewUpdateDelete_Ownership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.bootcamp(t, f.user(t, "pub", entity.RolePublisher), "Camp")
	alice := f.user(t, "alice", entity.RoleUser)
	mallory := f.user(t, "mallory", entity.RoleUser)
	admin := f.user(t, "admin", entity.RoleAdmin)
	r, err := f.reviews.Create(ctx, alice, b.ID, application.ReviewInput{Title: "Mine", Text: "x", Rating: 9})
	require.NoError(t, err)

	rating := 1
	_, err = f.reviews.Update(ctx, mallory, r.ID, application.ReviewPatch{Rating: &rating})
	requireStatus(t, err, http.StatusForbidden)
	requireStatus(t, f.reviews.Delete(ctx, mallory, r.ID), http.StatusForbidden)

	got, err := f.reviews.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Rating)

	updated, err := f.reviews.Update(ctx, alice, r.ID, application.ReviewPatch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Rating)

	require.NoError(t, f.reviews.Delete(ctx, admin, r.ID))
	requireStatus(t, f.reviews.Delete(ctx, admin, r.ID), http.StatusNotFound)

	camp, err := f.bootcamps.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, camp.AverageRating)
}
