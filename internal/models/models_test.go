package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestStatus_Toggled(t *testing.T) {
	tests := []struct {
		in, want Status
	}{
		{StatusActive, StatusInactive},
		{StatusInactive, StatusActive},
		{"", StatusActive},
	}
	for _, tt := range tests {
		if got := tt.in.Toggled(); got != tt.want {
			t.Errorf("%q.Toggled() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUser_BeforeCreateDefaults(t *testing.T) {
	u := &User{}
	if err := u.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if u.PublicID == uuid.Nil {
		t.Error("expected a public id to be assigned")
	}
	if u.Status != StatusInactive {
		t.Errorf("Status = %q, want %q", u.Status, StatusInactive)
	}
	if u.IsActive() {
		t.Error("new user should not be active")
	}
}

func TestUser_BeforeCreateKeepsExplicitValues(t *testing.T) {
	id := uuid.New()
	u := &User{PublicID: id, Status: StatusActive}
	if err := u.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if u.PublicID != id || u.Status != StatusActive {
		t.Errorf("BeforeCreate overwrote explicit values: %+v", u)
	}
}

func TestUserRole_TableName(t *testing.T) {
	if got := (UserRole{}).TableName(); got != "users_roles" {
		t.Errorf("TableName() = %q", got)
	}
}
