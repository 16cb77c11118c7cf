package domain

import (
	"testing"
	"time"
)

func TestIsLockedOut(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var u User
	if u.IsLockedOut(now) {
		t.Fatalf("nil LockoutEnd must not lock")
	}

	past := now.Add(-time.Second)
	u.LockoutEnd = &past
	if u.IsLockedOut(now) {
		t.Fatalf("past LockoutEnd must not lock")
	}

	// the boundary instant is not locked; only a strictly future end is
	exact := now
	u.LockoutEnd = &exact
	if u.IsLockedOut(now) {
		t.Fatalf("LockoutEnd == now must not lock")
	}

	future := now.Add(time.Second)
	u.LockoutEnd = &future
	if !u.IsLockedOut(now) {
		t.Fatalf("future LockoutEnd must lock")
	}
}

func TestUserRoles(t *testing.T) {
	t.Parallel()

	u := User{Roles: []Role{RoleRegistered, RoleAdmin}}

	if !u.HasRole(RoleAdmin) || !u.HasRole(RoleRegistered) {
		t.Fatalf("expected both roles present")
	}
	if (User{}).HasRole(RoleAdmin) {
		t.Fatalf("empty user must have no roles")
	}

	ids := u.RoleIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("unexpected role ids %v", ids)
	}
	names := u.RoleNames()
	if len(names) != 2 || names[0] != "Registered" || names[1] != "Admin" {
		t.Fatalf("unexpected role names %v", names)
	}
}
