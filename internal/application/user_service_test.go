package application_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

func TestUserUpdate_RehashesOnlyNewPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user(t, "jane", entity.RoleUser)
	hash := u.Password

	name := "Jane Doe"
	got, err := f.users.Update(ctx, u.ID, application.UserPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, hash, got.Password)

	pw := "secret99"
	got, err = f.users.Update(ctx, u.ID, application.UserPatch{Password: &pw})
	require.NoError(t, err)
	assert.NotEqual(t, hash, got.Password)
	assert.True(t, helpers.CompareHashAndPassword(got.Password, pw))
}

func TestUserUpdate_InvalidRole(t *testing.T) {
	f := newFixture()
	u := f.user(t, "jane", entity.RoleUser)
	role := entity.Role("root")
	_, err := f.users.Update(context.Background(), u.ID, application.UserPatch{Role: &role})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestUserDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user(t, "jane", entity.RoleUser)

	require.NoError(t, f.users.Delete(ctx, u.ID))
	requireStatus(t, f.users.Delete(ctx, u.ID), http.StatusNotFound)
	_, err := f.users.Get(ctx, u.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestUserList_NeverExposesSecrets(t *testing.T) {
	f := newFixture()
	f.user(t, "jane", entity.RoleUser)

	res, err := f.users.List(context.Background(), query.Spec{Page: 1, Limit: 25})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.NotContains(t, res.Items[0], "password")
	assert.Equal(t, "jane@example.com", res.Items[0]["email"])
}
