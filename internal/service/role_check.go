package service

import (
	"context"
	"fmt"
	"strings"

	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/session"

	"gorm.io/gorm"
)

// VerifyRoles checks that the roles table stores every session role under
// the id users.role_id is written with. Sessions are built from those ids,
// so a drifted table would hand out the wrong capabilities.
func VerifyRoles(ctx context.Context, db *gorm.DB, roleRepo repository.RoleRepository) error {
	var problems []string
	for _, role := range session.Roles() {
		stored, err := roleRepo.FindByName(db.WithContext(ctx), string(role))
		if err != nil {
			return fmt.Errorf("failed to read role %s: %w", role, err)
		}
		switch {
		case stored == nil:
			problems = append(problems, fmt.Sprintf("role %s is missing", role))
		case stored.ID != role.ID():
			problems = append(problems, fmt.Sprintf("role %s has id %d, want %d", role, stored.ID, role.ID()))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("roles table does not match: %s", strings.Join(problems, "; "))
	}
	return nil
}
