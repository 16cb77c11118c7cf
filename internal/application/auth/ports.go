package auth

import (
	"context"
	"time"

	"github.com/storely/auth-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the auth service needs, not HOW it's stored.
Lookups by email/username are case-insensitive (normalization is the
store's job) and always return the user's role set.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// Save persists the mutable fields of the user row: failure counter,
	// lockout end, refresh token, password hash, profile fields, active flag.
	// Last write wins; login/refresh mutate a single row sequentially.
	Save(ctx context.Context, u domain.User) error

	AddRole(ctx context.Context, userID string, roleID int) error
	RemoveRole(ctx context.Context, userID string, roleID int) error
	CountActiveByRole(ctx context.Context, roleID int) (int, error)
	List(ctx context.Context) ([]domain.User, error)
}

/*
PermissionRepo
--------------
Read-only view over the role→permission relation.
*/
type PermissionRepo interface {
	// PermissionsForRoles returns the permission names granted by any of the
	// given roles. Duplicates across roles may be returned; callers dedupe.
	PermissionsForRoles(ctx context.Context, roleIDs []int) ([]string, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt. Compare returns nil on match; any failure, including a
malformed hash, is a mismatch.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// TokenClaims is the identity bundle extracted from a validated access token.
type TokenClaims struct {
	UserID      string
	Permissions []string
	Exp         time.Time
}

/*
TokenIssuer
-----------
Issues and verifies signed tokens (JWT, HS256).
Access tokens carry permission claims; refresh tokens carry identity only.
*/
type TokenIssuer interface {
	IssueAccessToken(userID string, permissions []string) (string, error)
	IssueRefreshToken(userID string) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)

	// ExtractSubject reads the subject of a possibly-expired token.
	// The signature is still verified; only the expiry check is skipped.
	ExtractSubject(token string) (string, error)

	// TokenExpiry returns the expiry embedded in a signed token.
	TokenExpiry(token string) (time.Time, error)
}

/*
EventPublisher
--------------
Publishes security events to the broker. Downstream services (email,
alerting) consume these; the auth service never sends mail itself.
*/
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
	PublishUserLockedOut(ctx context.Context, evt UserLockedOutEvent) error
}

type UserRegisteredEvent struct {
	UserID   string
	Username string
	Email    string
}

type UserLockedOutEvent struct {
	UserID      string
	Username    string
	LockedUntil time.Time
}
