package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/diewo77/go-identity/internal/models"
)

// UserByID loads a user without relations.
func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.first(ctx, &u, "id = ?", id); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByEmail loads a user by its unique email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.first(ctx, &u, "email = ?", email); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByPublicID loads a user by its opaque public identifier.
func (s *Store) UserByPublicID(ctx context.Context, publicID uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.first(ctx, &u, "public_id = ?", publicID); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserWithRelations loads a user with its profile and roles ordered by id.
func (s *Store) UserWithRelations(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.conn(ctx).
		Preload("Profile").
		Preload("Roles", orderByID).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// ListUsers returns every user with profile and roles, ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.conn(ctx).
		Preload("Profile").
		Preload("Roles", orderByID).
		Order("id").
		Find(&users).Error
	return users, translate(err)
}

// UsersByIDs returns the users with the given ids ordered by id.
func (s *Store) UsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := s.conn(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error
	return users, translate(err)
}

// ExistingUserIDs returns the subset of ids that name a user.
func (s *Store) ExistingUserIDs(ctx context.Context, ids []uint) ([]uint, error) {
	return s.existing(ctx, &models.User{}, ids)
}

// CreateUser inserts the user. Unique collisions return ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.conn(ctx).Omit("Profile", "Roles").Create(u).Error)
}

// SaveStatus persists the lifecycle columns of u.
func (s *Store) SaveStatus(ctx context.Context, u *models.User) error {
	res := s.conn(ctx).Model(u).Select("status", "inactive_date").Updates(map[string]any{
		"status":        u.Status,
		"inactive_date": u.InactiveDate,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
