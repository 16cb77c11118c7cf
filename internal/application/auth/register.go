package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/storely/auth-service/internal/domain"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Surname  string
}

// Register creates a new active account with the Registered role.
// Username and email must be unique among active users.
func (s *Service) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" {
		return RegisterResult{}, domain.ErrMissingField("username")
	}
	if email == "" {
		return RegisterResult{}, domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return RegisterResult{}, domain.ErrMissingField("password")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return RegisterResult{}, domain.ErrUsernameAlreadyExists()
	} else if !isNotFound(err) {
		return RegisterResult{}, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return RegisterResult{}, domain.ErrEmailAlreadyExists()
	} else if !isNotFound(err) {
		return RegisterResult{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return RegisterResult{}, err
	}

	u, err := s.users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		Roles:        []domain.Role{domain.RoleRegistered},
	})
	if err != nil {
		return RegisterResult{}, err
	}

	s.audit("user_registered", map[string]string{"user_id": u.ID})
	if s.pub != nil {
		_ = s.pub.PublishUserRegistered(ctx, UserRegisteredEvent{
			UserID:   u.ID,
			Username: u.Username,
			Email:    u.Email,
		})
	}
	return RegisterResult{User: u}, nil
}
