package domain

import "time"

// User is the account aggregate. Login mutates AccessFailedCount,
// LockoutEnd and RefreshToken; profile operations mutate the rest.
type User struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	AccessFailedCount int
	LockoutEnd        *time.Time
	RefreshToken      string
	Active            bool
	Name              string
	Surname           string
	ProfilePic        string
	Roles             []Role
}

// IsLockedOut reports whether the account is locked at the given instant.
// A user is locked out iff LockoutEnd is set and strictly in the future.
func (u User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnd != nil && u.LockoutEnd.After(now)
}

func (u User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have.ID == r.ID {
			return true
		}
	}
	return false
}

// RoleIDs returns the ids of the user's roles, in assignment order.
func (u User) RoleIDs() []int {
	ids := make([]int, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}

// RoleNames returns the names of the user's roles, in assignment order.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
