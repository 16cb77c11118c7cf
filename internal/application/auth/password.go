package auth

import (
	"context"

	"github.com/storely/auth-service/internal/domain"
)

// ChangePassword verifies the current password before accepting the new one.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return domain.ErrMissingField("new_password")
	}

	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.Active {
		return domain.ErrUserDeactivated()
	}

	if err := s.hasher.Compare(u.PasswordHash, currentPassword); err != nil {
		return domain.ErrInvalidCredentials()
	}
	if newPassword == currentPassword {
		return domain.ErrPasswordUnchanged()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	u.PasswordHash = hash
	if err := s.users.Save(ctx, u); err != nil {
		return err
	}

	s.audit("password_changed", map[string]string{"user_id": u.ID})
	return nil
}
