// Package view projects models into the external JSON representation.
// Password hashes never appear in any projection, and embedded entities are
// reduced to primitive fields so projections never recurse.
package view

import (
	"time"

	"github.com/diewo77/go-identity/internal/models"
)

// Timestamp formats t as RFC 3339 in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func optionalTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Timestamp(*t)
	return &s
}

type Role struct {
	ID             uint   `json:"id"`
	RoleName       string `json:"role_name"`
	DepartmentName string `json:"department_name"`
}

func RoleOf(r *models.Role) Role {
	return Role{ID: r.ID, RoleName: r.RoleName, DepartmentName: r.DepartmentName}
}

// Roles never returns nil so the JSON output is [] rather than null.
func Roles(roles []models.Role) []Role {
	out := make([]Role, len(roles))
	for i := range roles {
		out[i] = RoleOf(&roles[i])
	}
	return out
}

// UserRef is the short form of a user embedded under a role.
type UserRef struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

func UserRefs(users []models.User) []UserRef {
	out := make([]UserRef, len(users))
	for i, u := range users {
		out[i] = UserRef{ID: u.ID, Email: u.Email}
	}
	return out
}

type Profile struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ProfileOf returns nil for a nil profile, which encodes as null.
func ProfileOf(p *models.Profile) *Profile {
	if p == nil {
		return nil
	}
	return &Profile{
		ID:        p.ID,
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Bio:       p.Bio,
		CreatedAt: Timestamp(p.CreatedAt),
		UpdatedAt: Timestamp(p.UpdatedAt),
	}
}

func Profiles(profiles []models.Profile) []Profile {
	out := make([]Profile, len(profiles))
	for i := range profiles {
		out[i] = *ProfileOf(&profiles[i])
	}
	return out
}

// User is the full public projection of an account.
type User struct {
	ID           uint     `json:"id"`
	PublicID     string   `json:"public_id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Status       string   `json:"status"`
	InactiveDate *string  `json:"inactive_date"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
	Profile      *Profile `json:"profile"`
	Roles        []Role   `json:"roles"`
}

func UserOf(u *models.User) User {
	return User{
		ID:           u.ID,
		PublicID:     u.PublicID.String(),
		Username:     u.Username,
		Email:        u.Email,
		Status:       string(u.Status),
		InactiveDate: optionalTimestamp(u.InactiveDate),
		CreatedAt:    Timestamp(u.CreatedAt),
		UpdatedAt:    Timestamp(u.UpdatedAt),
		Profile:      ProfileOf(u.Profile),
		Roles:        Roles(u.Roles),
	}
}

func Users(users []models.User) []User {
	out := make([]User, len(users))
	for i := range users {
		out[i] = UserOf(&users[i])
	}
	return out
}

// UserSummary is returned by the user details lookup.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}

func SummaryOf(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, Status: string(u.Status)}
}

// UserStatus is returned by the status toggle.
type UserStatus struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

func StatusOf(u *models.User) UserStatus {
	return UserStatus{ID: u.ID, Status: string(u.Status)}
}

// UserRoles is returned after reconciling a user's roles.
type UserRoles struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Roles    []Role `json:"roles"`
}

func UserRolesOf(u *models.User, roles []models.Role) UserRoles {
	return UserRoles{ID: u.ID, Email: u.Email, Username: u.Username, Roles: Roles(roles)}
}

// RoleUsers is a role together with its members.
type RoleUsers struct {
	Message string    `json:"message,omitempty"`
	Role    Role      `json:"role"`
	Users   []UserRef `json:"users"`
}

func RoleUsersOf(r *models.Role, users []models.User) RoleUsers {
	return RoleUsers{Role: RoleOf(r), Users: UserRefs(users)}
}
