package models

import "time"

// Profile carries the editable personal details of one User.
type Profile struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`
	Bio       string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// All lists every entity the schema migrates, join table last.
func All() []any {
	return []any{&User{}, &Role{}, &Profile{}, &UserRole{}}
}
