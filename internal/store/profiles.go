package store

import (
	"context"

	"github.com/diewo77/go-identity/internal/models"
)

// ProfileByID loads a profile.
func (s *Store) ProfileByID(ctx context.Context, id uint) (*models.Profile, error) {
	var p models.Profile
	if err := s.first(ctx, &p, "id = ?", id); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfiles returns every profile ordered by id.
func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.conn(ctx).Order("id").Find(&profiles).Error
	return profiles, translate(err)
}

// CreateProfile inserts the profile. A user owning a profile already
// returns ErrDuplicate.
func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	return translate(s.conn(ctx).Create(p).Error)
}

// UpdateProfile writes the given columns and refreshes p.
func (s *Store) UpdateProfile(ctx context.Context, p *models.Profile, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.conn(ctx).Model(p).Updates(fields).Error; err != nil {
		return translate(err)
	}
	return s.first(ctx, p, "id = ?", p.ID)
}
