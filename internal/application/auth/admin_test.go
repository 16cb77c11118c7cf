package auth

import (
	"context"
	"testing"

	"github.com/storely/auth-service/internal/domain"
)

func (fx svcFixture) adminUser(id, username, email string) domain.User {
	u := fx.activeUser(id, username, email)
	u.Roles = []domain.Role{domain.RoleRegistered, domain.RoleAdmin}
	fx.users.put(u)
	return u
}

func TestPromoteToAdmin(t *testing.T) {
	t.Parallel()
	fx := newSvcForTest(t)
	fx.activeUser("u1", "fritz", "fritz@gmail.com")

	if err := fx.svc.PromoteToAdmin(context.Background(), "u1"); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if !fx.users.get("u1").HasRole(domain.RoleAdmin) {
		t.Fatalf("expected Admin role after promotion")
	}
	requireAuditAction(t, fx.audits, "user_promoted")

	// promoting an admin again is a no-op, not an error
	if err := fx.svc.PromoteToAdmin(context.Background(), "u1"); err != nil {
		t.Fatalf("second promote failed: %v", err)
	}
	if n := len(fx.users.get("u1").Roles); n != 2 {
		t.Fatalf("expected 2 roles, got %d", n)
	}
}

func TestPromoteToAdmin_UnknownUser(t *testing.T) {
	t.Parallel()
	fx := newSvcForTest(t)

	err := fx.svc.PromoteToAdmin(context.Background(), "ghost")
	requireErrCode(t, err, "user_not_found")
}

func TestDemoteToUser(t *testing.T) {
	t.Parallel()
	fx := newSvcForTest(t)
	fx.adminUser("a1", "admin1", "a1@example.com")
	fx.adminUser("a2", "admin2", "a2@example.com")

	if err := fx.svc.DemoteToUser(context.Background(), "a1", "a2"); err != nil {
		t.Fatalf("demote failed: %v", err)
	}
	if fx.users.get("a2").HasRole(domain.RoleAdmin) {
		t.Fatalf("expected Admin role removed")
	}
	if !fx.users.get("a2").HasRole(domain.RoleRegistered) {
		t.Fatalf("Registered role must survive demotion")
	}
	requireAuditAction(t, fx.audits, "user_demoted")
}

func TestDemoteToUser_SelfDemotionRefused(t *testing.T) {
	t.Parallel()
	fx := newSvcForTest(t)
	fx.adminUser("a1", "admin1", "a1@example.com")
	fx.adminUser("a2", "admin2", "a2@example.com")

	err := fx.svc.DemoteToUser(context.Background(), "a1", "a1")
	requireErrCode(t, err, "cannot_demote_self")
}

func TestDemoteToUser_LastAdminProtected(t *testing.T) {
	t.Parallel()
	fx := newSvcForTest(t)
	fx.adminUser("a1", "admin1", "a1@example.com")
	fx.activeUser("u1", "fritz", "fritz@gmail.com")

	err := fx.svc.DemoteToUser(context.Background(), "u1", "a1")
	requireErrCode(t, err, "last_admin_protected")
}

func TestDemoteToUser_NonAdminIsNoop(t *testing.T) {
	t.Parallel()
	fx := newSvcForTest(t)
	fx.adminUser("a1", "admin1", "a1@example.com")
	fx.activeUser("u1", "fritz", "fritz@gmail.com")

	if err := fx.svc.DemoteToUser(context.Background(), "a1", "u1"); err != nil {
		t.Fatalf("demoting a non-admin should be a no-op, got %v", err)
	}
}
