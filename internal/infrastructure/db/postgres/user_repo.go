package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/storely/auth-service/internal/domain"
)

const userColumns = `id, username, email, password_hash, access_failed_count, lockout_end, refresh_token, active, name, surname, profile_pic`

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func scanUserRow(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Username,
		&ur.Email,
		&ur.PasswordHash,
		&ur.AccessFailedCount,
		&ur.LockoutEnd,
		&ur.RefreshToken,
		&ur.Active,
		&ur.Name,
		&ur.Surname,
		&ur.ProfilePic,
	)
	return ur, err
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (domain.User, error) {
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	u := ur.toDomain()
	roles, err := r.rolesFor(ctx, u.ID)
	if err != nil {
		return domain.User{}, err
	}
	u.Roles = roles
	return u, nil
}

func (r *UserRepo) rolesFor(ctx context.Context, userID string) ([]domain.Role, error) {
	const q = `
SELECT ro.id, ro.name
FROM user_roles ur
JOIN roles ro ON ro.id = ur.role_id
WHERE ur.user_id = $1
ORDER BY ro.id;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var ro domain.Role
		if err := rows.Scan(&ro.ID, &ro.Name); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		roles = append(roles, ro)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return roles, nil
}

// ---------- auth.UserRepo ----------

// Email and username lookups are case-insensitive; the collation choice
// lives here, not in the service.

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE LOWER(email) = LOWER($1)
LIMIT 1;
`
	return r.getOne(ctx, q, email)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE LOWER(username) = LOWER($1)
LIMIT 1;
`
	return r.getOne(ctx, q, username)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	return r.getOne(ctx, q, id)
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
INSERT INTO users (id, username, email, password_hash, access_failed_count, lockout_end, refresh_token, active, name, surname, profile_pic)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`
	_, err = tx.ExecContext(ctx, q,
		u.ID, u.Username, u.Email, u.PasswordHash,
		u.AccessFailedCount, nullTimePtr(u), nullString(u.RefreshToken),
		u.Active, nullString(u.Name), nullString(u.Surname), nullString(u.ProfilePic),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}

	for _, role := range u.Roles {
		const rq = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;`
		if _, err := tx.ExecContext(ctx, rq, u.ID, role.ID); err != nil {
			return domain.User{}, domain.ErrDBUnavailable(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return u, nil
}

func (r *UserRepo) Save(ctx context.Context, u domain.User) error {
	if u.ID == "" {
		return domain.ErrMissingField("id")
	}
	const q = `
UPDATE users
SET username = $2,
    email = $3,
    password_hash = $4,
    access_failed_count = $5,
    lockout_end = $6,
    refresh_token = $7,
    active = $8,
    name = $9,
    surname = $10,
    profile_pic = $11
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q,
		u.ID, u.Username, u.Email, u.PasswordHash,
		u.AccessFailedCount, nullTimePtr(u), nullString(u.RefreshToken),
		u.Active, nullString(u.Name), nullString(u.Surname), nullString(u.ProfilePic),
	)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) AddRole(ctx context.Context, userID string, roleID int) error {
	const q = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;`
	if _, err := r.db.ExecContext(ctx, q, userID, roleID); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *UserRepo) RemoveRole(ctx context.Context, userID string, roleID int) error {
	const q = `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2;`
	if _, err := r.db.ExecContext(ctx, q, userID, roleID); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *UserRepo) CountActiveByRole(ctx context.Context, roleID int) (int, error) {
	const q = `
SELECT COUNT(*)
FROM users u
JOIN user_roles ur ON ur.user_id = u.id
WHERE u.active AND ur.role_id = $1;
`
	var n int
	if err := r.db.QueryRowContext(ctx, q, roleID).Scan(&n); err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY username;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var ur userRow
		if err := rows.Scan(
			&ur.ID, &ur.Username, &ur.Email, &ur.PasswordHash,
			&ur.AccessFailedCount, &ur.LockoutEnd, &ur.RefreshToken,
			&ur.Active, &ur.Name, &ur.Surname, &ur.ProfilePic,
		); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		users = append(users, ur.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}

	for i := range users {
		roles, err := r.rolesFor(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Roles = roles
	}
	return users, nil
}
