package unit

import (
	"context"
	"errors"
	"testing"

	manager "crmhub/contexts/client-relations/manager-service"
	managererrors "crmhub/contexts/client-relations/manager-service/domain/errors"
	managerhttp "crmhub/contexts/client-relations/manager-service/transport/http"
)

func TestUpsertManagerConvergesOnOneRow(t *testing.T) {
	module := manager.NewInMemoryModule(nil)
	ctx := context.Background()
	actor := adminActor(4)

	first, err := module.Handler.UpsertManagerHandler(ctx, actor, managerhttp.UpsertManagerRequest{
		Name:  "Old Name",
		Email: "Sam@Crm.Example",
	})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	second, err := module.Handler.UpsertManagerHandler(ctx, actor, managerhttp.UpsertManagerRequest{
		Name:  "New Name",
		Email: "sam@crm.example",
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if first.Manager.ManagerID != second.Manager.ManagerID {
		t.Fatalf("expected one manager row for the (hub, email) pair")
	}
	if second.Manager.Name != "New Name" {
		t.Fatalf("expected last name to win, got %q", second.Manager.Name)
	}
	if second.Manager.Email != "sam@crm.example" {
		t.Fatalf("expected normalized email, got %q", second.Manager.Email)
	}

	listed, err := module.Handler.ListManagersHandler(ctx, actor)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Managers) != 1 {
		t.Fatalf("expected one manager listed, got %d", len(listed.Managers))
	}
}

func TestUpsertManagerNeverDemotesUserFlag(t *testing.T) {
	module := manager.NewInMemoryModule(nil)
	ctx := context.Background()
	actor := adminActor(4)

	promoted, err := module.Handler.UpsertManagerHandler(ctx, actor, managerhttp.UpsertManagerRequest{
		Name:   "Sam",
		Email:  "sam@crm.example",
		IsUser: true,
	})
	if err != nil {
		t.Fatalf("promoting upsert failed: %v", err)
	}
	if !promoted.Manager.IsUser {
		t.Fatalf("expected is_user set")
	}

	// A later worker-style upsert without the flag keeps it.
	refreshed, err := module.Handler.UpsertManagerHandler(ctx, actor, managerhttp.UpsertManagerRequest{
		Name:  "Sam Refreshed",
		Email: "sam@crm.example",
	})
	if err != nil {
		t.Fatalf("refreshing upsert failed: %v", err)
	}
	if !refreshed.Manager.IsUser {
		t.Fatalf("expected is_user to survive a plain refresh")
	}
}

func TestAssignClientsReplacesWholesale(t *testing.T) {
	module := manager.NewInMemoryModule(nil)
	ctx := context.Background()
	actor := adminActor(9)

	created, err := module.Handler.UpsertManagerHandler(ctx, actor, managerhttp.UpsertManagerRequest{
		Name:  "Mia",
		Email: "mia@crm.example",
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	managerID := created.Manager.ManagerID

	if err := module.Handler.AssignClientsHandler(ctx, actor, managerID, managerhttp.AssignClientsRequest{
		ClientIDs: []string{"client-a", "client-b"},
	}); err != nil {
		t.Fatalf("first assignment failed: %v", err)
	}
	if err := module.Handler.AssignClientsHandler(ctx, actor, managerID, managerhttp.AssignClientsRequest{
		ClientIDs: []string{"client-c"},
	}); err != nil {
		t.Fatalf("second assignment failed: %v", err)
	}

	listed, err := module.Handler.ListManagersHandler(ctx, actor)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Managers) != 1 {
		t.Fatalf("expected one manager, got %d", len(listed.Managers))
	}
	got := listed.Managers[0].ClientIDs
	if len(got) != 1 || got[0] != "client-c" {
		t.Fatalf("expected assignments replaced wholesale, got %v", got)
	}

	assigned, err := module.Store.IsClientAssignedToManager(ctx, "client-a", "mia@crm.example")
	if err != nil {
		t.Fatalf("assignment check failed: %v", err)
	}
	if assigned {
		t.Fatalf("expected prior assignment cleared")
	}
}

func TestManagerAdminGates(t *testing.T) {
	module := manager.NewInMemoryModule(nil)
	ctx := context.Background()

	if _, err := module.Handler.UpsertManagerHandler(ctx, userActor(4), managerhttp.UpsertManagerRequest{
		Name:  "Nope",
		Email: "nope@crm.example",
	}); !errors.Is(err, managererrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin upsert, got %v", err)
	}
	if _, err := module.Handler.ListManagersHandler(ctx, userActor(4)); !errors.Is(err, managererrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin listing, got %v", err)
	}
	if _, err := module.Handler.DeleteManagerHandler(ctx, adminActor(4), "missing"); !errors.Is(err, managererrors.ErrManagerNotFound) {
		t.Fatalf("expected not found for unknown manager, got %v", err)
	}
}

func TestListClientManagersOrderedAndScoped(t *testing.T) {
	module := manager.NewInMemoryModule(nil)
	ctx := context.Background()
	admin := adminActor(4)

	second, err := module.Handler.UpsertManagerHandler(ctx, admin, managerhttp.UpsertManagerRequest{
		Name:  "Second",
		Email: "second@crm.example",
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	first, err := module.Handler.UpsertManagerHandler(ctx, admin, managerhttp.UpsertManagerRequest{
		Name:  "First",
		Email: "first@crm.example",
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	// Assign in reverse so the response ordering is clearly by manager id,
	// not assignment order.
	if err := module.Handler.AssignClientsHandler(ctx, admin, first.Manager.ManagerID, managerhttp.AssignClientsRequest{
		ClientIDs: []string{"client-1"},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := module.Handler.AssignClientsHandler(ctx, admin, second.Manager.ManagerID, managerhttp.AssignClientsRequest{
		ClientIDs: []string{"client-1"},
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	listed, err := module.Handler.ListClientManagersHandler(ctx, admin, "client-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Managers) != 2 {
		t.Fatalf("expected both managers, got %d", len(listed.Managers))
	}
	if listed.Managers[0].ManagerID >= listed.Managers[1].ManagerID {
		t.Fatalf("expected managers ordered by id asc")
	}

	// A manager not assigned to the client cannot read its manager list.
	if _, err := module.Handler.ListClientManagersHandler(ctx, managerActor(4, "outsider@crm.example"), "client-1"); !errors.Is(err, managererrors.ErrForbidden) {
		t.Fatalf("expected forbidden for unassigned manager, got %v", err)
	}
	if _, err := module.Handler.ListClientManagersHandler(ctx, managerActor(4, "second@crm.example"), "client-1"); err != nil {
		t.Fatalf("assigned manager listing failed: %v", err)
	}
}
