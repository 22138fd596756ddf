package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/diewo77/go-identity/internal/models"
	"github.com/diewo77/go-identity/internal/store"
	"github.com/diewo77/go-identity/internal/telemetry"
)

// Invalidator drops cached caller state after a user changes.
type Invalidator interface {
	Invalidate(publicID uuid.UUID)
	InvalidateAll()
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(uuid.UUID) {}
func (noopInvalidator) InvalidateAll() {}

// LifecycleManager flips accounts between ACTIVE and INACTIVE.
type LifecycleManager struct {
	store *store.Store
	cache Invalidator
	now   func() time.Time
}

func NewLifecycleManager(s *store.Store, cache Invalidator) *LifecycleManager {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &LifecycleManager{store: s, cache: cache, now: time.Now}
}

// ToggleStatus flips the user's status. Entering INACTIVE stamps
// inactive_date with the current UTC instant; entering ACTIVE leaves it as
// the time of the last deactivation.
func (m *LifecycleManager) ToggleStatus(ctx context.Context, userID uint) (*models.User, error) {
	var user *models.User
	err := m.store.Transaction(ctx, func(tx *store.Store) error {
		u, err := tx.UserByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("User not found")
		}
		if err != nil {
			return err
		}
		u.Status = u.Status.Toggled()
		if u.Status == models.StatusInactive {
			stamp := m.now().UTC()
			u.InactiveDate = &stamp
		}
		if err := tx.SaveStatus(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}
	m.cache.Invalidate(user.PublicID)
	telemetry.StatusToggles.WithLabelValues(string(user.Status)).Inc()
	return user, nil
}
