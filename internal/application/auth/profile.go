package auth

import (
	"context"
	"strings"

	"github.com/storely/auth-service/internal/domain"
)

// ChangeUsername renames the account after a password re-check.
func (s *Service) ChangeUsername(ctx context.Context, userID, currentPassword, newUsername string) error {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return domain.ErrMissingField("new_username")
	}
	if strings.Contains(newUsername, " ") {
		return domain.ErrInvalidField("new_username", "must not contain spaces")
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

	if other, err := s.users.GetByUsername(ctx, newUsername); err == nil {
		if other.ID != u.ID {
			return domain.ErrUsernameAlreadyExists()
		}
	} else if !isNotFound(err) {
		return err
	}

	u.Username = newUsername
	if err := s.users.Save(ctx, u); err != nil {
		return err
	}
	s.audit("username_changed", map[string]string{"user_id": u.ID})
	return nil
}

// ChangeEmail replaces the account email after a password re-check.
func (s *Service) ChangeEmail(ctx context.Context, userID, currentPassword, newEmail string) error {
	newEmail = strings.TrimSpace(newEmail)
	if newEmail == "" {
		return domain.ErrMissingField("new_email")
	}
	if !strings.Contains(newEmail, "@") {
		return domain.ErrInvalidField("new_email", "invalid format")
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

	if other, err := s.users.GetByEmail(ctx, newEmail); err == nil {
		if other.ID != u.ID {
			return domain.ErrEmailAlreadyExists()
		}
	} else if !isNotFound(err) {
		return err
	}

	u.Email = newEmail
	if err := s.users.Save(ctx, u); err != nil {
		return err
	}
	s.audit("email_changed", map[string]string{"user_id": u.ID})
	return nil
}
