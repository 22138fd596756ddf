package services

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/go-identity/internal/models"
	"github.com/diewo77/go-identity/internal/store"
)

// RoleInput is the payload for CreateRole.
type RoleInput struct {
	RoleName       string `json:"role_name"`
	DepartmentName string `json:"department_name"`
}

// RoleService creates and reads roles.
type RoleService struct {
	store *store.Store
}

func NewRoleService(s *store.Store) *RoleService {
	return &RoleService{store: s}
}

// CreateRole inserts a role. It returns either the new role or an *Error:
// Validation for blank fields, Conflict when the (role, department) pair is taken.
func (s *RoleService) CreateRole(ctx context.Context, in RoleInput) (*models.Role, error) {
	name := strings.TrimSpace(in.RoleName)
	dept := strings.TrimSpace(in.DepartmentName)
	if name == "" || dept == "" {
		return nil, invalid("role_name and department_name are required", nil)
	}

	role := &models.Role{RoleName: name, DepartmentName: dept}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		_, err := tx.RoleByKey(ctx, name, dept)
		if err == nil {
			return conflict("Role already exists for this department", nil)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.CreateRole(ctx, role)
	})
	if errors.Is(err, store.ErrDuplicate) {
		// Lost a race with a concurrent insert of the same pair.
		return nil, conflict("Role already exists for this department", err)
	}
	if err != nil {
		return nil, asServiceError(err)
	}
	return role, nil
}

// ListRoles returns every role.
func (s *RoleService) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return nil, operational(err)
	}
	return roles, nil
}

// GetRole returns a role with its members.
func (s *RoleService) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	r, err := s.store.RoleWithUsers(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("Role not found")
	}
	if err != nil {
		return nil, operational(err)
	}
	return r, nil
}
