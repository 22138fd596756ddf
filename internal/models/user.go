package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the account lifecycle state of a User.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Toggled returns the opposite lifecycle state.
func (s Status) Toggled() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// User is an account known to the identity service.
// PasswordHash is never serialized; use the view package for external output.
type User struct {
	ID           uint       `gorm:"primaryKey"`
	PublicID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	Username     string     `gorm:"size:100;uniqueIndex;not null"`
	Email        string     `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password;size:255;not null"`
	Status       Status     `gorm:"size:20;not null;default:INACTIVE"`
	InactiveDate *time.Time // last transition into INACTIVE
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Profile holds the foreign key, so deleting it never touches the user row.
	Profile *Profile `gorm:"foreignKey:UserID"`
	Roles   []Role   `gorm:"many2many:users_roles"`
}

// BeforeCreate assigns the public identifier and the default status.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.PublicID == uuid.Nil {
		u.PublicID = uuid.New()
	}
	if u.Status == "" {
		u.Status = StatusInactive
	}
	return nil
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool { return u.Status == StatusActive }
