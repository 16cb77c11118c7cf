package domain

import "testing"

func TestRoleRegistry(t *testing.T) {
	t.Parallel()

	if r, ok := RoleFromID(1); !ok || r.Name != "Registered" {
		t.Fatalf("expected Registered for id 1, got %+v ok=%v", r, ok)
	}
	if r, ok := RoleFromName("Admin"); !ok || r.ID != 2 {
		t.Fatalf("expected Admin id 2, got %+v ok=%v", r, ok)
	}
	if _, ok := RoleFromID(99); ok {
		t.Fatalf("unknown role id must not resolve")
	}
}

func TestPermissionRegistry(t *testing.T) {
	t.Parallel()

	if p, ok := PermissionFromName("ManageUsers"); !ok || p.ID != 2 {
		t.Fatalf("expected ManageUsers id 2, got %+v ok=%v", p, ok)
	}
	if _, ok := PermissionFromName("manageusers"); ok {
		t.Fatalf("permission names are case-sensitive")
	}
}

func TestDefaultGrants(t *testing.T) {
	t.Parallel()

	reg := DefaultGrants[RoleRegistered.ID]
	if len(reg) != 1 || reg[0] != PermissionManageMyself.ID {
		t.Fatalf("Registered must grant exactly ManageMyself, got %v", reg)
	}

	adm := DefaultGrants[RoleAdmin.ID]
	if len(adm) != 2 {
		t.Fatalf("Admin must grant both permissions, got %v", adm)
	}
}
