package auth

import (
	"context"
	"strings"

	"github.com/storely/auth-service/internal/domain"
)

// Login authenticates a user by email or username and issues tokens.
// Identifiers containing '@' are resolved against the email column,
// anything else against the username column.
func (s *Service) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	var (
		u   domain.User
		err error
	)
	if strings.Contains(identifier, "@") {
		u, err = s.users.GetByEmail(ctx, identifier)
	} else {
		u, err = s.users.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if isNotFound(err) {
			return LoginResult{}, domain.ErrUserNotFound()
		}
		return LoginResult{}, err
	}

	if !u.Active {
		return LoginResult{}, domain.ErrUserDeactivated()
	}

	now := s.now()
	if u.IsLockedOut(now) {
		return LoginResult{}, domain.ErrLockedOut(*u.LockoutEnd)
	}

	// The lock trips only once the stored counter already exceeds the
	// maximum, so the attempt after the (max+1)-th failure is the one that
	// flips it. Legacy counter semantics; keep as is.
	if u.AccessFailedCount > s.accessFailedMax {
		until := now.Add(s.lockoutDuration)
		u.AccessFailedCount = 0
		u.LockoutEnd = &until
		if err := s.users.Save(ctx, u); err != nil {
			return LoginResult{}, err
		}
		s.audit("login_locked_out", map[string]string{"user_id": u.ID})
		if s.pub != nil {
			_ = s.pub.PublishUserLockedOut(ctx, UserLockedOutEvent{
				UserID:      u.ID,
				Username:    u.Username,
				LockedUntil: until,
			})
		}
		return LoginResult{}, domain.ErrLockedOut(until)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		u.AccessFailedCount++
		if err := s.users.Save(ctx, u); err != nil {
			return LoginResult{}, err
		}
		s.audit("login_failed", map[string]string{"user_id": u.ID})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	// Successful credential check clears any accumulated failures.
	if u.AccessFailedCount != 0 || u.LockoutEnd != nil {
		u.AccessFailedCount = 0
		u.LockoutEnd = nil
		if err := s.users.Save(ctx, u); err != nil {
			return LoginResult{}, err
		}
	}

	perms, err := s.PermissionsForUser(ctx, u)
	if err != nil {
		return LoginResult{}, err
	}

	toks, err := s.issueTokens(u.ID, perms)
	if err != nil {
		return LoginResult{}, err
	}

	u.RefreshToken = toks.RefreshToken
	if err := s.users.Save(ctx, u); err != nil {
		return LoginResult{}, err
	}

	s.audit("login_success", map[string]string{"user_id": u.ID})
	return LoginResult{User: u, Tokens: toks}, nil
}
