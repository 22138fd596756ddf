package view

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/go-identity/internal/models"
)

func TestUserProjectionExcludesHashAndEmbedsRelations(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 2*3600))
	u := &models.User{
		ID:           1,
		PublicID:     uuid.MustParse("7d0f3a4e-8f62-4c1c-9a8e-2a9b6b7c1d2e"),
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "$2a$10$secret-hash",
		Status:       models.StatusActive,
		CreatedAt:    created,
		UpdatedAt:    created,
		Profile:      &models.Profile{ID: 3, UserID: 1, FirstName: "alice", CreatedAt: created, UpdatedAt: created},
		Roles:        []models.Role{{ID: 2, RoleName: "dev", DepartmentName: "it"}},
	}

	b, err := json.Marshal(UserOf(u))
	require.NoError(t, err)
	body := string(b)
	assert.NotContains(t, body, "secret-hash")
	assert.NotContains(t, body, "password")

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "ACTIVE", got["status"])
	assert.Equal(t, "2026-01-02T01:04:05Z", got["created_at"])
	assert.Nil(t, got["inactive_date"])
	assert.Equal(t, u.PublicID.String(), got["public_id"])

	profile := got["profile"].(map[string]any)
	assert.Equal(t, "alice", profile["first_name"])
	_, nested := profile["user"]
	assert.False(t, nested, "profile must not embed its user")

	roles := got["roles"].([]any)
	require.Len(t, roles, 1)
	assert.Equal(t, map[string]any{"id": float64(2), "role_name": "dev", "department_name": "it"}, roles[0])
}

func TestUserProjectionNullProfileAndEmptyRoles(t *testing.T) {
	stamp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	b, err := json.Marshal(UserOf(&models.User{ID: 9, Status: models.StatusInactive, InactiveDate: &stamp}))
	require.NoError(t, err)
	body := string(b)
	assert.True(t, strings.Contains(body, `"profile":null`), body)
	assert.True(t, strings.Contains(body, `"roles":[]`), body)
	assert.True(t, strings.Contains(body, `"inactive_date":"2026-05-01T00:00:00Z"`), body)
}

func TestRoleUsersProjection(t *testing.T) {
	r := &models.Role{ID: 4, RoleName: "ops", DepartmentName: "it"}
	b, err := json.Marshal(RoleUsersOf(r, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":{"id":4,"role_name":"ops","department_name":"it"},"users":[]}`, string(b))

	b, err = json.Marshal(UserRolesOf(&models.User{ID: 1, Email: "a@x.com", Username: "a"}, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"email":"a@x.com","username":"a","roles":[]}`, string(b))

	refs := UserRefs([]models.User{{ID: 1, Email: "a@x.com", PasswordHash: "h"}})
	assert.Equal(t, []UserRef{{ID: 1, Email: "a@x.com"}}, refs)
}

func TestSmallProjections(t *testing.T) {
	u := &models.User{ID: 5, Username: "bob", Email: "bob@x.com", Status: models.StatusInactive}
	assert.Equal(t, UserStatus{ID: 5, Status: "INACTIVE"}, StatusOf(u))
	assert.Equal(t, UserSummary{ID: 5, Username: "bob", Email: "bob@x.com", Status: "INACTIVE"}, SummaryOf(u))
	assert.Nil(t, ProfileOf(nil))
	assert.Empty(t, Profiles(nil))
}
