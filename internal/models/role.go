package models

import "time"

// Role is a named grant scoped to a department.
// The (RoleName, DepartmentName) pair is unique.
type Role struct {
	ID             uint   `gorm:"primaryKey"`
	RoleName       string `gorm:"size:100;not null;uniqueIndex:idx_role_department"`
	DepartmentName string `gorm:"size:100;not null;uniqueIndex:idx_role_department"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Users []User `gorm:"many2many:users_roles"`
}

// UserRole is the membership join row between users and roles.
type UserRole struct {
	UserID    uint `gorm:"primaryKey"`
	RoleID    uint `gorm:"primaryKey"`
	CreatedAt time.Time
}

// TableName pins the join table shared by User.Roles and Role.Users.
func (UserRole) TableName() string { return "users_roles" }
