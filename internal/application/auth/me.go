package auth

import (
	"context"

	"github.com/storely/auth-service/internal/domain"
)

// GetUserByID loads a user including roles.
func (s *Service) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, err
	}
	return u, nil
}

// ListUsers returns all users, roles included.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}
