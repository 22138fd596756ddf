package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-identity/internal/models"
	"github.com/diewo77/go-identity/internal/store"
	"github.com/diewo77/go-identity/internal/telemetry"
	"github.com/diewo77/go-identity/validation"
)

// Delta is the membership change applied by one reconciliation.
type Delta struct {
	Added   []uint
	Removed []uint
}

// Empty reports whether the reconciliation was a no-op.
func (d Delta) Empty() bool { return len(d.Added) == 0 && len(d.Removed) == 0 }

// UserRoles is the outcome of SetRolesForUser.
type UserRoles struct {
	User  *models.User
	Roles []models.Role
	Delta Delta
}

// RoleUsers is the outcome of SetUsersForRole.
type RoleUsers struct {
	Role  *models.Role
	Users []models.User
	Delta Delta
}

// MembershipReconciler brings a user's roles, or a role's users, to an
// exact desired set by applying the set difference in one unit of work.
//
// Checks run in a fixed order for both directions: anchor exists, id list is
// well formed, every id exists. Nothing is written until all three pass.
type MembershipReconciler struct {
	store *store.Store
	cache Invalidator
}

func NewMembershipReconciler(s *store.Store, cache Invalidator) *MembershipReconciler {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &MembershipReconciler{store: s, cache: cache}
}

// SetRolesForUser makes desired the exact role set of the user.
func (m *MembershipReconciler) SetRolesForUser(ctx context.Context, userID uint, desired validation.IDList) (*UserRoles, error) {
	out := &UserRoles{}
	err := m.store.Transaction(ctx, func(tx *store.Store) error {
		u, err := tx.UserByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("User not found")
		}
		if err != nil {
			return err
		}
		delta, err := reconcile(ctx, tx, desired, side{
			field:    "roles",
			label:    "Role",
			existing: tx.ExistingRoleIDs,
			current:  func(ctx context.Context) ([]uint, error) { return tx.RoleIDsForUser(ctx, u.ID) },
			remove:   func(ctx context.Context, ids []uint) error { return tx.RemoveRolesFromUser(ctx, u.ID, ids) },
			link:     func(id uint) models.UserRole { return models.UserRole{UserID: u.ID, RoleID: id} },
		})
		if err != nil {
			return err
		}
		loaded, err := tx.UserWithRelations(ctx, u.ID)
		if err != nil {
			return err
		}
		out.User, out.Roles, out.Delta = loaded, loaded.Roles, delta
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}
	if out.Roles == nil {
		out.Roles = []models.Role{}
	}
	m.cache.Invalidate(out.User.PublicID)
	record("user", out.Delta)
	return out, nil
}

// SetUsersForRole makes desired the exact member set of the role.
func (m *MembershipReconciler) SetUsersForRole(ctx context.Context, roleID uint, desired validation.IDList) (*RoleUsers, error) {
	out := &RoleUsers{}
	err := m.store.Transaction(ctx, func(tx *store.Store) error {
		r, err := tx.RoleByID(ctx, roleID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Role not found")
		}
		if err != nil {
			return err
		}
		delta, err := reconcile(ctx, tx, desired, side{
			field:    "user_ids",
			label:    "User",
			existing: tx.ExistingUserIDs,
			current:  func(ctx context.Context) ([]uint, error) { return tx.UserIDsForRole(ctx, r.ID) },
			remove:   func(ctx context.Context, ids []uint) error { return tx.RemoveUsersFromRole(ctx, r.ID, ids) },
			link:     func(id uint) models.UserRole { return models.UserRole{UserID: id, RoleID: r.ID} },
		})
		if err != nil {
			return err
		}
		loaded, err := tx.RoleWithUsers(ctx, r.ID)
		if err != nil {
			return err
		}
		out.Role, out.Users, out.Delta = loaded, loaded.Users, delta
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}
	if out.Users == nil {
		out.Users = []models.User{}
	}
	// Roles are embedded in cached caller views of every affected user.
	if !out.Delta.Empty() {
		m.cache.InvalidateAll()
	}
	record("role", out.Delta)
	return out, nil
}

// side describes the non-anchor half of a membership.
type side struct {
	field    string
	label    string
	existing func(ctx context.Context, ids []uint) ([]uint, error)
	current  func(ctx context.Context) ([]uint, error)
	remove   func(ctx context.Context, ids []uint) error
	link     func(id uint) models.UserRole
}

func reconcile(ctx context.Context, tx *store.Store, desired validation.IDList, s side) (Delta, error) {
	ids, violations := desired.Values(s.field)
	if violations != nil {
		return Delta{}, invalid(shapeMessage(s.field, violations[s.field]), violations)
	}

	found, err := s.existing(ctx, ids)
	if err != nil {
		return Delta{}, err
	}
	if missing := difference(ids, found); len(missing) > 0 {
		return Delta{}, invalid(
			fmt.Sprintf("%s IDs %s do not exist", s.label, formatIDs(missing)),
			map[string][]uint{"missing_ids": missing},
		)
	}

	current, err := s.current(ctx)
	if err != nil {
		return Delta{}, err
	}
	delta := Delta{
		Added:   difference(ids, current),
		Removed: difference(current, ids),
	}
	if err := s.remove(ctx, delta.Removed); err != nil {
		return Delta{}, err
	}
	links := make([]models.UserRole, 0, len(delta.Added))
	for _, id := range delta.Added {
		links = append(links, s.link(id))
	}
	if err := tx.AddMemberships(ctx, links); err != nil {
		return Delta{}, err
	}
	return delta, nil
}

// difference returns the members of a absent from b, preserving a's order.
func difference(a, b []uint) []uint {
	in := make(map[uint]struct{}, len(b))
	for _, id := range b {
		in[id] = struct{}{}
	}
	out := []uint{}
	for _, id := range a {
		if _, ok := in[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func formatIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func shapeMessage(field, code string) string {
	switch code {
	case validation.CodeRequired:
		return field + " is required"
	case validation.CodeNotPositive:
		return field + " must contain positive integers"
	}
	return field + " must be a list of integers"
}

func record(anchor string, d Delta) {
	if n := len(d.Added); n > 0 {
		telemetry.MembershipChanges.WithLabelValues(anchor, "add").Add(float64(n))
	}
	if n := len(d.Removed); n > 0 {
		telemetry.MembershipChanges.WithLabelValues(anchor, "remove").Add(float64(n))
	}
}
