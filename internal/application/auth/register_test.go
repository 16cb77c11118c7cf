package auth

import (
	"context"
	"testing"

	"github.com/storely/auth-service/internal/domain"
)

func TestRegister_CreatesActiveRegisteredUser(t *testing.T) {
	t.Parallel()
	fx := newSvcForTest(t)

	res, err := fx.svc.Register(context.Background(), RegisterInput{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "Sup3rSecret",
		Name:     "New",
		Surname:  "Bie",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	u := res.User
	if u.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !u.Active {
		t.Fatalf("expected active user")
	}
	if !u.HasRole(domain.RoleRegistered) || u.HasRole(domain.RoleAdmin) {
		t.Fatalf("expected exactly the Registered role, got %v", u.Roles)
	}
	if u.PasswordHash == "Sup3rSecret" {
		t.Fatalf("password stored in clear")
	}

	if len(fx.pub.registered) != 1 || fx.pub.registered[0].Username != "newbie" {
		t.Fatalf("expected one registered event, got %+v", fx.pub.registered)
	}
	requireAuditAction(t, fx.audits, "user_registered")

	// and the new account can log in
	if _, err := fx.svc.Login(context.Background(), "newbie", "Sup3rSecret"); err != nil {
		t.Fatalf("login after register failed: %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()
	fx := newSvcForTest(t)
	fx.activeUser("u1", "fritz", "fritz@gmail.com")

	_, err := fx.svc.Register(context.Background(), RegisterInput{
		Username: "FRITZ", // lookups are case-insensitive
		Email:    "other@example.com",
		Password: "Sup3rSecret",
	})
	requireErrCode(t, err, "username_already_exists")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	fx := newSvcForTest(t)
	fx.activeUser("u1", "fritz", "fritz@gmail.com")

	_, err := fx.svc.Register(context.Background(), RegisterInput{
		Username: "somebody",
		Email:    "Fritz@Gmail.com",
		Password: "Sup3rSecret",
	})
	requireErrCode(t, err, "email_already_exists")
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()
	fx := newSvcForTest(t)

	_, err := fx.svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "x"})
	requireErrCode(t, err, "missing_field")

	_, err = fx.svc.Register(context.Background(), RegisterInput{Username: "a", Password: "x"})
	requireErrCode(t, err, "missing_field")

	_, err = fx.svc.Register(context.Background(), RegisterInput{Username: "a", Email: "a@b.c"})
	requireErrCode(t, err, "missing_field")
}
