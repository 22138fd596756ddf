package services

import (
	"context"
	"errors"

	"github.com/diewo77/go-identity/internal/models"
	"github.com/diewo77/go-identity/internal/store"
)

// ProfilePatch lists the editable profile fields. A nil field is left
// unchanged; JSON null and an absent key mean the same thing.
type ProfilePatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

func (p ProfilePatch) fields() map[string]any {
	f := map[string]any{}
	if p.FirstName != nil {
		f["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		f["last_name"] = *p.LastName
	}
	if p.Bio != nil {
		f["bio"] = *p.Bio
	}
	return f
}

type ProfileService struct {
	store *store.Store
}

func NewProfileService(s *store.Store) *ProfileService {
	return &ProfileService{store: s}
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, operational(err)
	}
	return profiles, nil
}

func (s *ProfileService) Get(ctx context.Context, id uint) (*models.Profile, error) {
	p, err := s.store.ProfileByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("Profile not found")
	}
	if err != nil {
		return nil, operational(err)
	}
	return p, nil
}

// Update applies the non-nil fields of patch to the profile.
func (s *ProfileService) Update(ctx context.Context, id uint, patch ProfilePatch) (*models.Profile, error) {
	var out *models.Profile
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		p, err := tx.ProfileByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Profile not found")
		}
		if err != nil {
			return err
		}
		if err := tx.UpdateProfile(ctx, p, patch.fields()); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}
	return out, nil
}
