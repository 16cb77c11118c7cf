package auth

import (
	"context"

	"github.com/storely/auth-service/internal/domain"
)

// SelfDeactivate soft-deletes the caller's account after a password
// re-check. The row survives; only the active flag flips. Refused when the
// caller is the last active admin, so the system never loses all admins.
func (s *Service) SelfDeactivate(ctx context.Context, userID, password string) error {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.Active {
		return domain.ErrUserDeactivated()
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return domain.ErrInvalidCredentials()
	}

	if u.HasRole(domain.RoleAdmin) {
		n, err := s.users.CountActiveByRole(ctx, domain.RoleAdmin.ID)
		if err != nil {
			return err
		}
		if n <= 1 {
			return domain.ErrLastAdminProtected()
		}
	}

	u.Active = false
	u.RefreshToken = ""
	if err := s.users.Save(ctx, u); err != nil {
		return err
	}

	s.audit("user_deactivated", map[string]string{"user_id": u.ID})
	return nil
}
