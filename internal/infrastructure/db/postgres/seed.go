package postgres

import (
	"context"
	"database/sql"

	"github.com/storely/auth-service/internal/domain"
	"github.com/storely/auth-service/internal/logger"
)

// SeedReferenceData inserts the closed role/permission enumerations and the
// role→permission grants. Restart safe: existing rows are left alone.
func SeedReferenceData(ctx context.Context, db *sql.DB) error {
	for _, r := range domain.Roles() {
		const q = `INSERT INTO roles (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING;`
		if _, err := db.ExecContext(ctx, q, r.ID, r.Name); err != nil {
			return domain.ErrDBUnavailable(err)
		}
	}
	for _, p := range domain.Permissions() {
		const q = `INSERT INTO permissions (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING;`
		if _, err := db.ExecContext(ctx, q, p.ID, p.Name); err != nil {
			return domain.ErrDBUnavailable(err)
		}
	}
	for roleID, permIDs := range domain.DefaultGrants {
		for _, permID := range permIDs {
			const q = `INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;`
			if _, err := db.ExecContext(ctx, q, roleID, permID); err != nil {
				return domain.ErrDBUnavailable(err)
			}
		}
	}
	return nil
}

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedAdmin creates the bootstrap admin if missing. Dev environments only.
func SeedAdmin(ctx context.Context, repo SeederRepo, hasher SeederHasher, password string) {
	const (
		adminID       = "e5521f4c-c677-4b6e-81e4-e0dcd8a0ea2d"
		adminUsername = "fritz"
		adminEmail    = "fritz@gmail.com"
	)

	if _, err := repo.GetByUsername(ctx, adminUsername); err == nil {
		return
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("seed: hashing admin password failed")
		return
	}

	_, err = repo.Create(ctx, domain.User{
		ID:           adminID,
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: hash,
		Active:       true,
		Name:         "Andrea",
		Surname:      "Frigerio",
		Roles:        []domain.Role{domain.RoleRegistered, domain.RoleAdmin},
	})
	if err != nil {
		// ignore duplicates (restart safe)
		logger.Logger.Debug().Err(err).Msg("seed: admin create skipped")
		return
	}
	logger.Logger.Info().Str("username", adminUsername).Msg("seed: bootstrap admin created")
}
