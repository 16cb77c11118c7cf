package auth

import (
	"context"

	"github.com/storely/auth-service/internal/domain"
)

// Refresh exchanges a valid refresh token for fresh tokens.
// The access token may be expired; only its subject is needed, and its
// signature is still verified. Permissions are re-resolved, never reused
// from the original login. The refresh token rotates on every success:
// the newly persisted value invalidates the presented one.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (AuthTokens, domain.User, error) {
	userID, err := s.issuer.ExtractSubject(accessToken)
	if err != nil {
		return AuthTokens{}, domain.User{}, domain.ErrTokenInvalid()
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return AuthTokens{}, domain.User{}, domain.ErrUserNotFound()
		}
		return AuthTokens{}, domain.User{}, err
	}

	if !u.Active {
		return AuthTokens{}, domain.User{}, domain.ErrUserDeactivated()
	}
	if u.IsLockedOut(s.now()) {
		return AuthTokens{}, domain.User{}, domain.ErrLockedOut(*u.LockoutEnd)
	}

	// Exactly one refresh token is outstanding per user: the stored one.
	if refreshToken == "" || u.RefreshToken != refreshToken {
		return AuthTokens{}, domain.User{}, domain.ErrRefreshTokenInvalid()
	}

	exp, err := s.issuer.TokenExpiry(refreshToken)
	if err != nil {
		return AuthTokens{}, domain.User{}, domain.ErrRefreshTokenInvalid()
	}
	if exp.Before(s.now()) {
		// Spent token: clear it so it cannot be replayed, then fail.
		u.RefreshToken = ""
		if err := s.users.Save(ctx, u); err != nil {
			return AuthTokens{}, domain.User{}, err
		}
		return AuthTokens{}, domain.User{}, domain.ErrRefreshTokenExpired()
	}

	perms, err := s.PermissionsForUser(ctx, u)
	if err != nil {
		return AuthTokens{}, domain.User{}, err
	}

	toks, err := s.issueTokens(u.ID, perms)
	if err != nil {
		return AuthTokens{}, domain.User{}, err
	}

	u.RefreshToken = toks.RefreshToken
	if err := s.users.Save(ctx, u); err != nil {
		return AuthTokens{}, domain.User{}, err
	}

	s.audit("token_refreshed", map[string]string{"user_id": u.ID})
	return toks, u, nil
}
