package authz

import (
	"errors"
	"testing"
)

func TestDecideAdminSatisfiesEverything(t *testing.T) {
	actor := Actor{Email: "root@hub.test", Roles: []string{RoleAdmin}}
	for _, required := range []string{RoleAdmin, RoleUser, RoleManager} {
		if err := Decide(actor, required); err != nil {
			t.Fatalf("admin denied %s: %v", required, err)
		}
	}
}

func TestDecideManagerGetsUserAccess(t *testing.T) {
	actor := Actor{Email: "jane@hub.test", Roles: []string{RoleManager}}
	if err := Decide(actor, RoleUser); err != nil {
		t.Fatalf("manager denied user access: %v", err)
	}
	if err := Decide(actor, RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestManagerScope(t *testing.T) {
	manager := Actor{Email: " Jane@Hub.Test ", Roles: []string{RoleManager}}
	if scope := ManagerScope(manager); scope != "jane@hub.test" {
		t.Fatalf("expected normalized manager scope, got %q", scope)
	}
	user := Actor{Email: "joe@hub.test", Roles: []string{RoleUser, RoleManager}}
	if scope := ManagerScope(user); scope != "" {
		t.Fatalf("expected empty scope for user role, got %q", scope)
	}
}
