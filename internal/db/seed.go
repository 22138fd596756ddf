package db

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/go-identity/internal/models"
)

// RoleSeed names a default role to create.
type RoleSeed struct {
	RoleName       string
	DepartmentName string
}

// ParseRoleSeeds reads "role:department" entries. Blank entries are skipped.
func ParseRoleSeeds(entries []string) ([]RoleSeed, error) {
	seeds := make([]RoleSeed, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		role, dept, ok := strings.Cut(e, ":")
		role, dept = strings.TrimSpace(role), strings.TrimSpace(dept)
		if !ok || role == "" || dept == "" {
			return nil, fmt.Errorf("invalid role seed %q, want role:department", e)
		}
		seeds = append(seeds, RoleSeed{RoleName: role, DepartmentName: dept})
	}
	return seeds, nil
}

// Seed inserts the default roles. Existing (role, department) pairs are left alone,
// so running it repeatedly is safe.
func Seed(ctx context.Context, database *gorm.DB, roles []RoleSeed) error {
	for _, rs := range roles {
		role := models.Role{RoleName: rs.RoleName, DepartmentName: rs.DepartmentName}
		if err := database.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&role).Error; err != nil {
			return fmt.Errorf("seed role %s/%s: %w", rs.RoleName, rs.DepartmentName, err)
		}
	}
	return nil
}
