package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/diewo77/go-identity/internal/models"
)

func orderByID(db *gorm.DB) *gorm.DB { return db.Order("id") }

// RoleByID loads a role without relations.
func (s *Store) RoleByID(ctx context.Context, id uint) (*models.Role, error) {
	var r models.Role
	if err := s.first(ctx, &r, "id = ?", id); err != nil {
		return nil, err
	}
	return &r, nil
}

// RoleByKey loads the role for a (role_name, department_name) pair.
func (s *Store) RoleByKey(ctx context.Context, roleName, department string) (*models.Role, error) {
	var r models.Role
	if err := s.first(ctx, &r, "role_name = ? AND department_name = ?", roleName, department); err != nil {
		return nil, err
	}
	return &r, nil
}

// RoleWithUsers loads a role and its members ordered by id.
func (s *Store) RoleWithUsers(ctx context.Context, id uint) (*models.Role, error) {
	var r models.Role
	err := s.conn(ctx).Preload("Users", orderByID).Where("id = ?", id).First(&r).Error
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// ListRoles returns every role ordered by id.
func (s *Store) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := s.conn(ctx).Order("id").Find(&roles).Error
	return roles, translate(err)
}

// RolesByIDs returns the roles with the given ids ordered by id.
func (s *Store) RolesByIDs(ctx context.Context, ids []uint) ([]models.Role, error) {
	roles := []models.Role{}
	if len(ids) == 0 {
		return roles, nil
	}
	err := s.conn(ctx).Where("id IN ?", ids).Order("id").Find(&roles).Error
	return roles, translate(err)
}

// ExistingRoleIDs returns the subset of ids that name a role.
func (s *Store) ExistingRoleIDs(ctx context.Context, ids []uint) ([]uint, error) {
	return s.existing(ctx, &models.Role{}, ids)
}

// CreateRole inserts the role. A taken (role_name, department_name) pair
// returns ErrDuplicate.
func (s *Store) CreateRole(ctx context.Context, r *models.Role) error {
	return translate(s.conn(ctx).Omit("Users").Create(r).Error)
}

func (s *Store) existing(ctx context.Context, model any, ids []uint) ([]uint, error) {
	found := []uint{}
	if len(ids) == 0 {
		return found, nil
	}
	err := s.conn(ctx).Model(model).Where("id IN ?", ids).Order("id").Pluck("id", &found).Error
	return found, translate(err)
}
