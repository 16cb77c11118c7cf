package memory

import (
	"context"

	"github.com/storely/auth-service/internal/domain"
)

// PermissionRepo serves the seeded role→permission grants from memory.
type PermissionRepo struct {
	grants map[int][]int
}

func NewPermissionRepo() *PermissionRepo {
	return &PermissionRepo{grants: domain.DefaultGrants}
}

func (r *PermissionRepo) PermissionsForRoles(ctx context.Context, roleIDs []int) ([]string, error) {
	var names []string
	for _, roleID := range roleIDs {
		for _, permID := range r.grants[roleID] {
			if p, ok := domain.PermissionFromID(permID); ok {
				names = append(names, p.Name)
			}
		}
	}
	return names, nil
}
