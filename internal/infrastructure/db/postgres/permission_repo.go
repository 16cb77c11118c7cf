package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/storely/auth-service/internal/domain"
)

// PermissionRepo reads the role→permission relation. Read-only.
type PermissionRepo struct {
	db *sql.DB
}

func NewPermissionRepo(db *sql.DB) *PermissionRepo {
	return &PermissionRepo{db: db}
}

// PermissionsForRoles returns the permission names granted to any of the
// given roles. The DISTINCT keeps the wire result small; the service still
// dedupes on its side.
func (r *PermissionRepo) PermissionsForRoles(ctx context.Context, roleIDs []int) ([]string, error) {
	if len(roleIDs) == 0 {
		return []string{}, nil
	}

	placeholders := make([]string, len(roleIDs))
	args := make([]any, len(roleIDs))
	for i, id := range roleIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	q := `
SELECT DISTINCT p.name
FROM role_permissions rp
JOIN permissions p ON p.id = rp.permission_id
WHERE rp.role_id IN (` + strings.Join(placeholders, ", ") + `)
ORDER BY p.name;
`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return names, nil
}
