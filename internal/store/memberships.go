package store

import (
	"context"

	"github.com/diewo77/go-identity/internal/models"
)

// RoleIDsForUser returns the ids of the roles linked to a user.
func (s *Store) RoleIDsForUser(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := s.conn(ctx).Model(&models.UserRole{}).
		Where("user_id = ?", userID).Order("role_id").Pluck("role_id", &ids).Error
	return ids, translate(err)
}

// UserIDsForRole returns the ids of the users linked to a role.
func (s *Store) UserIDsForRole(ctx context.Context, roleID uint) ([]uint, error) {
	ids := []uint{}
	err := s.conn(ctx).Model(&models.UserRole{}).
		Where("role_id = ?", roleID).Order("user_id").Pluck("user_id", &ids).Error
	return ids, translate(err)
}

// AddMemberships inserts the given links.
func (s *Store) AddMemberships(ctx context.Context, links []models.UserRole) error {
	if len(links) == 0 {
		return nil
	}
	return translate(s.conn(ctx).Create(&links).Error)
}

// RemoveRolesFromUser deletes the links between userID and roleIDs.
func (s *Store) RemoveRolesFromUser(ctx context.Context, userID uint, roleIDs []uint) error {
	if len(roleIDs) == 0 {
		return nil
	}
	return translate(s.conn(ctx).
		Where("user_id = ? AND role_id IN ?", userID, roleIDs).
		Delete(&models.UserRole{}).Error)
}

// RemoveUsersFromRole deletes the links between roleID and userIDs.
func (s *Store) RemoveUsersFromRole(ctx context.Context, roleID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	return translate(s.conn(ctx).
		Where("role_id = ? AND user_id IN ?", roleID, userIDs).
		Delete(&models.UserRole{}).Error)
}
