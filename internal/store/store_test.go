package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/go-identity/internal/db"
	"github.com/diewo77/go-identity/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	d, err := db.Open(ctx, "file:"+t.Name()+"?mode=memory&cache=shared", db.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(d) })
	require.NoError(t, db.Migrate(ctx, d))
	return New(d)
}

func mustUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@x.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func mustRole(t *testing.T, s *Store, name, dept string) *models.Role {
	t.Helper()
	r := &models.Role{RoleName: name, DepartmentName: dept}
	require.NoError(t, s.CreateRole(context.Background(), r))
	return r
}

func TestCreateUserDefaults(t *testing.T) {
	s := newTestStore(t)
	u := mustUser(t, s, "alice")

	assert.NotEqual(t, uuid.Nil, u.PublicID)
	got, err := s.UserByPublicID(context.Background(), u.PublicID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, got.Status)
	assert.Nil(t, got.InactiveDate)

	_, err = s.UserByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUniqueKeysReturnErrDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "alice")

	err := s.CreateUser(ctx, &models.User{Username: "alice", Email: "other@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicate)

	mustRole(t, s, "admin", "it")
	err = s.CreateRole(ctx, &models.Role{RoleName: "admin", DepartmentName: "it"})
	assert.ErrorIs(t, err, ErrDuplicate)
	// Same name in another department is a different role.
	mustRole(t, s, "admin", "hr")
}

func TestExistingIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r1 := mustRole(t, s, "a", "d")
	r2 := mustRole(t, s, "b", "d")

	found, err := s.ExistingRoleIDs(ctx, []uint{r2.ID, 999, r1.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{r1.ID, r2.ID}, found)

	found, err = s.ExistingUserIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestMemberships(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	r1 := mustRole(t, s, "a", "d")
	r2 := mustRole(t, s, "b", "d")

	require.NoError(t, s.AddMemberships(ctx, []models.UserRole{
		{UserID: u.ID, RoleID: r1.ID},
		{UserID: u.ID, RoleID: r2.ID},
	}))
	ids, err := s.RoleIDsForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{r1.ID, r2.ID}, ids)

	err = s.AddMemberships(ctx, []models.UserRole{{UserID: u.ID, RoleID: r1.ID}})
	assert.Error(t, err, "composite key rejects a repeated link")

	require.NoError(t, s.RemoveRolesFromUser(ctx, u.ID, []uint{r1.ID}))
	users, err := s.UserIDsForRole(ctx, r2.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{u.ID}, users)

	loaded, err := s.UserWithRelations(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Roles, 1)
	assert.Equal(t, r2.ID, loaded.Roles[0].ID)
	assert.Nil(t, loaded.Profile)

	require.NoError(t, s.RemoveUsersFromRole(ctx, r2.ID, []uint{u.ID}))
	role, err := s.RoleWithUsers(ctx, r2.ID)
	require.NoError(t, err)
	assert.Empty(t, role.Users)
}

func TestTransactionRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "alice")
	r1 := mustRole(t, s, "a", "d")
	r2 := mustRole(t, s, "b", "d")
	require.NoError(t, s.AddMemberships(ctx, []models.UserRole{{UserID: u.ID, RoleID: r1.ID}}))

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *Store) error {
		if err := tx.RemoveRolesFromUser(ctx, u.ID, []uint{r1.ID}); err != nil {
			return err
		}
		if err := tx.AddMemberships(ctx, []models.UserRole{{UserID: u.ID, RoleID: r2.ID}}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	ids, err := s.RoleIDsForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{r1.ID}, ids)
}

func TestSaveStatusAndProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "alice")

	u.Status = models.StatusActive
	require.NoError(t, s.SaveStatus(ctx, u))
	got, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)

	missing := &models.User{ID: 4242, Status: models.StatusActive}
	assert.ErrorIs(t, s.SaveStatus(ctx, missing), ErrNotFound)

	p := &models.Profile{UserID: u.ID, FirstName: "alice"}
	require.NoError(t, s.CreateProfile(ctx, p))
	assert.ErrorIs(t, s.CreateProfile(ctx, &models.Profile{UserID: u.ID}), ErrDuplicate)

	require.NoError(t, s.UpdateProfile(ctx, p, map[string]any{"bio": "hello", "last_name": ""}))
	assert.Equal(t, "hello", p.Bio)
	assert.Equal(t, "alice", p.FirstName)

	all, err := s.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
