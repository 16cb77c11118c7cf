package auth

import (
	"context"

	"github.com/storely/auth-service/internal/domain"
)

// PromoteToAdmin grants the Admin role. Idempotent for existing admins.
func (s *Service) PromoteToAdmin(ctx context.Context, targetID string) error {
	u, err := s.GetUserByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !u.Active {
		return domain.ErrUserDeactivated()
	}
	if u.HasRole(domain.RoleAdmin) {
		return nil
	}

	if err := s.users.AddRole(ctx, u.ID, domain.RoleAdmin.ID); err != nil {
		return err
	}
	s.audit("user_promoted", map[string]string{"user_id": u.ID})
	return nil
}

// DemoteToUser revokes the Admin role. Admins cannot demote themselves,
// and the last active admin is protected.
func (s *Service) DemoteToUser(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return domain.ErrCannotDemoteSelf()
	}

	u, err := s.GetUserByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !u.HasRole(domain.RoleAdmin) {
		return nil
	}

	n, err := s.users.CountActiveByRole(ctx, domain.RoleAdmin.ID)
	if err != nil {
		return err
	}
	if n <= 1 {
		return domain.ErrLastAdminProtected()
	}

	if err := s.users.RemoveRole(ctx, u.ID, domain.RoleAdmin.ID); err != nil {
		return err
	}
	s.audit("user_demoted", map[string]string{"user_id": u.ID})
	return nil
}
