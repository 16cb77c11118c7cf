package auth

import (
	"context"
	"sort"

	"github.com/storely/auth-service/internal/domain"
)

// PermissionsForUser resolves the deduplicated union of permission names
// granted by the user's roles. A user without roles or permissions gets an
// empty set; absence of permission is not a failure.
func (s *Service) PermissionsForUser(ctx context.Context, u domain.User) ([]string, error) {
	roleIDs := u.RoleIDs()
	if len(roleIDs) == 0 {
		return []string{}, nil
	}

	names, err := s.permissions.PermissionsForRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// HasPermission is the authorization predicate: allow iff required is
// present among the claims. Empty or missing claims deny.
func HasPermission(claims []string, required string) bool {
	if required == "" {
		return false
	}
	for _, c := range claims {
		if c == required {
			return true
		}
	}
	return false
}
