package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/diewo77/go-identity/internal/models"
	"github.com/diewo77/go-identity/internal/store"
	"github.com/diewo77/go-identity/validation"
)

const minPasswordLength = 6

// RegisterInput is the payload for Register.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserService registers and looks up users.
type UserService struct {
	store  *store.Store
	hasher Hasher
}

func NewUserService(s *store.Store, h Hasher) *UserService {
	return &UserService{store: s, hasher: h}
}

// Register creates an INACTIVE user and its profile in one unit of work.
// The profile starts with the username as first name.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	v := validation.Violations{}
	validation.Required("username", in.Username, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	validation.Required("password", in.Password, v)
	validation.MinLength("password", in.Password, minPasswordLength, v)
	if !v.Empty() {
		return nil, invalid("username, email and password are required", v)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, operational(err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Status:       models.StatusInactive,
	}
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		profile := &models.Profile{UserID: user.ID, FirstName: user.Username}
		if err := tx.CreateProfile(ctx, profile); err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, conflict("Username or email already registered", err)
	}
	if err != nil {
		return nil, operational(err)
	}
	user.Roles = []models.Role{}
	return user, nil
}

// List returns every user with profile and roles.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, operational(err)
	}
	return users, nil
}

// ByEmail finds a user by email.
func (s *UserService) ByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalid("email is required", validation.Violations{"email": validation.CodeRequired})
	}
	u, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, operational(err)
	}
	return u, nil
}

// Detailed loads a user with profile and roles.
func (s *UserService) Detailed(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.store.UserWithRelations(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, operational(err)
	}
	return u, nil
}

// ByPublicID finds a user by public identifier.
func (s *UserService) ByPublicID(ctx context.Context, publicID uuid.UUID) (*models.User, error) {
	u, err := s.store.UserByPublicID(ctx, publicID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, operational(err)
	}
	return u, nil
}
