package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/storely/auth-service/internal/domain"
)

// UserRepo is an in-memory auth.UserRepo used in tests and when no
// database is configured in dev. Lookups are case-insensitive, matching
// the postgres repo's collation choice.
type UserRepo struct {
	mu    sync.RWMutex
	users map[string]domain.User // keyed by id
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]domain.User)}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.ToLower(u.Email) == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.ToLower(u.Username) == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *UserRepo) Save(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound()
	}
	r.users[u.ID] = u
	return nil
}

func (r *UserRepo) AddRole(ctx context.Context, userID string, roleID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	role, ok := domain.RoleFromID(roleID)
	if !ok {
		return domain.ErrInvalidField("role_id", "unknown role")
	}
	if u.HasRole(role) {
		return nil
	}
	u.Roles = append(u.Roles, role)
	r.users[userID] = u
	return nil
}

func (r *UserRepo) RemoveRole(ctx context.Context, userID string, roleID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	kept := u.Roles[:0]
	for _, role := range u.Roles {
		if role.ID != roleID {
			kept = append(kept, role)
		}
	}
	u.Roles = kept
	r.users[userID] = u
	return nil
}

func (r *UserRepo) CountActiveByRole(ctx context.Context, roleID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, u := range r.users {
		if !u.Active {
			continue
		}
		for _, role := range u.Roles {
			if role.ID == roleID {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
