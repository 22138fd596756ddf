package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-identity/internal/db"
	"github.com/diewo77/go-identity/internal/models"
	"github.com/diewo77/go-identity/internal/store"
)

type env struct {
	db    *gorm.DB
	store *store.Store
	cache *recordingCache
	users *UserService
	roles *RoleService
	creds *CredentialVerifier
	life  *LifecycleManager
	recon *MembershipReconciler
	profs *ProfileService
}

type recordingCache struct {
	invalidated []uuid.UUID
	all         int
}

func (c *recordingCache) Invalidate(id uuid.UUID) { c.invalidated = append(c.invalidated, id) }
func (c *recordingCache) InvalidateAll() { c.all++ }

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	d, err := db.Open(ctx, "file:"+t.Name()+"?mode=memory&cache=shared", db.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(d) })
	if err := db.Migrate(ctx, d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	s := store.New(d)
	h := BcryptHasher{Cost: bcrypt.MinCost}
	cache := &recordingCache{}
	return &env{
		db:    d,
		store: s,
		cache: cache,
		users: NewUserService(s, h),
		roles: NewRoleService(s),
		creds: NewCredentialVerifier(s, h),
		life:  NewLifecycleManager(s, cache),
		recon: NewMembershipReconciler(s, cache),
		profs: NewProfileService(s),
	}
}

func (e *env) register(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{
		Username: name,
		Email:    name + "@x.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

func (e *env) role(t *testing.T, name, dept string) *models.Role {
	t.Helper()
	r, err := e.roles.CreateRole(context.Background(), RoleInput{RoleName: name, DepartmentName: dept})
	if err != nil {
		t.Fatalf("create role %s/%s: %v", name, dept, err)
	}
	return r
}

// failWrites makes every create or update against table fail until the test ends.
func (e *env) failWrites(t *testing.T, table string) {
	t.Helper()
	hook := func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errors.New("disk full"))
		}
	}
	name := "test:fail_" + table
	require.NoError(t, e.db.Callback().Create().Before("gorm:create").Register(name, hook))
	require.NoError(t, e.db.Callback().Update().Before("gorm:update").Register(name, hook))
	t.Cleanup(func() {
		_ = e.db.Callback().Create().Remove(name)
		_ = e.db.Callback().Update().Remove(name)
	})
}

func requireKind(t *testing.T, err error, want Kind) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if se.Kind != want {
		t.Fatalf("kind = %s, want %s (%v)", se.Kind, want, err)
	}
	return se
}
