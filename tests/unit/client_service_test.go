package unit

import (
	"context"
	"errors"
	"testing"

	client "crmhub/contexts/client-relations/client-service"
	clienterrors "crmhub/contexts/client-relations/client-service/domain/errors"
	httptransport "crmhub/contexts/client-relations/client-service/transport/http"
	"crmhub/internal/shared/authz"
)

func adminActor(hubID int) authz.Actor {
	return authz.Actor{
		Name:  "Ada Admin",
		Email: "ada@crm.example",
		HubID: hubID,
		Roles: []string{authz.RoleAdmin},
	}
}

func userActor(hubID int) authz.Actor {
	return authz.Actor{
		Name:  "Uma User",
		Email: "uma@crm.example",
		HubID: hubID,
		Roles: []string{authz.RoleUser},
	}
}

func managerActor(hubID int, email string) authz.Actor {
	return authz.Actor{
		Name:  "Mia Manager",
		Email: email,
		HubID: hubID,
		Roles: []string{authz.RoleManager},
	}
}

func TestImportClientsRoundTripsCustomFields(t *testing.T) {
	module := client.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	imported, err := module.Handler.ImportClientsHandler(ctx, userActor(7), httptransport.ImportClientsRequest{
		Clients: []httptransport.ImportClientRecord{{
			Name:   "Alice Example",
			Email:  "alice@x.com",
			Fields: map[string]string{"vip": "true"},
		}},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if imported.Written != 1 {
		t.Fatalf("expected 1 written record, got %d", imported.Written)
	}

	listed, err := module.Handler.ListClientsHandler(ctx, userActor(7), httptransport.ListClientsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Clients) != 1 {
		t.Fatalf("expected 1 client, got %d", len(listed.Clients))
	}

	got, err := module.Handler.GetClientHandler(ctx, userActor(7), listed.Clients[0].ClientID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got.Client.Fields) != 1 || got.Client.Fields["vip"] != "true" {
		t.Fatalf("expected fields map {vip:true}, got %v", got.Client.Fields)
	}
	if len(got.AvailableFields) != 1 || got.AvailableFields[0] != "vip" {
		t.Fatalf("expected available fields [vip], got %v", got.AvailableFields)
	}
}

func TestImportClientsUpsertsByHubAndEmail(t *testing.T) {
	module := client.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	_, err := module.Handler.ImportClientsHandler(ctx, userActor(7), httptransport.ImportClientsRequest{
		Clients: []httptransport.ImportClientRecord{{
			Name:   "Alice",
			Email:  "alice@x.com",
			Phone:  "+1111",
			Fields: map[string]string{"tier": "silver", "city": "Riga"},
		}},
	})
	if err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	// Second import for the same (hub, email): name overwritten, empty phone
	// kept, field keys merged instead of replaced.
	_, err = module.Handler.ImportClientsHandler(ctx, userActor(7), httptransport.ImportClientsRequest{
		Clients: []httptransport.ImportClientRecord{{
			Name:   "Alice Renamed",
			Email:  "ALICE@x.com",
			Fields: map[string]string{"tier": "gold", "ref": "partner"},
		}},
	})
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	listed, err := module.Handler.ListClientsHandler(ctx, userActor(7), httptransport.ListClientsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed.Total != 1 {
		t.Fatalf("expected one row after upsert, got %d", listed.Total)
	}
	got := listed.Clients[0]
	if got.Name != "Alice Renamed" {
		t.Fatalf("expected overwritten name, got %q", got.Name)
	}
	if got.Phone != "+1111" {
		t.Fatalf("expected phone retained, got %q", got.Phone)
	}
	if got.Fields["tier"] != "gold" || got.Fields["city"] != "Riga" || got.Fields["ref"] != "partner" {
		t.Fatalf("expected merged fields, got %v", got.Fields)
	}
}

func TestListClientsSearchAndPagination(t *testing.T) {
	module := client.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	records := []httptransport.ImportClientRecord{
		{Name: "Alice Baker", Email: "alice@x.com"},
		{Name: "Bob Carter", Email: "bob@x.com"},
		{Name: "Carol Baker", Email: "carol@x.com"},
	}
	if _, err := module.Handler.ImportClientsHandler(ctx, userActor(7), httptransport.ImportClientsRequest{Clients: records}); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	found, err := module.Handler.ListClientsHandler(ctx, userActor(7), httptransport.ListClientsRequest{Search: "baker"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if found.Total != 2 {
		t.Fatalf("expected 2 matches for baker, got %d", found.Total)
	}

	// A page past the end keeps the total and returns an empty item list.
	past, err := module.Handler.ListClientsHandler(ctx, userActor(7), httptransport.ListClientsRequest{Page: 99, PerPage: 2})
	if err != nil {
		t.Fatalf("past-the-end list failed: %v", err)
	}
	if past.Total != 3 {
		t.Fatalf("expected total unchanged past the end, got %d", past.Total)
	}
	if len(past.Clients) != 0 {
		t.Fatalf("expected empty page past the end, got %d items", len(past.Clients))
	}
}

func TestManagerScopedListingAndDetailAccess(t *testing.T) {
	module := client.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, err := module.Handler.ImportClientsHandler(ctx, userActor(3), httptransport.ImportClientsRequest{
		Clients: []httptransport.ImportClientRecord{
			{Name: "Assigned", Email: "assigned@x.com"},
			{Name: "Unassigned", Email: "unassigned@x.com"},
		},
	}); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	all, err := module.Handler.ListClientsHandler(ctx, userActor(3), httptransport.ListClientsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var assignedID, unassignedID string
	for _, c := range all.Clients {
		if c.Email == "assigned@x.com" {
			assignedID = c.ClientID
		} else {
			unassignedID = c.ClientID
		}
	}
	module.Store.AssignManager(assignedID, "mia@crm.example")

	actor := managerActor(3, "mia@crm.example")
	scoped, err := module.Handler.ListClientsHandler(ctx, actor, httptransport.ListClientsRequest{})
	if err != nil {
		t.Fatalf("scoped list failed: %v", err)
	}
	if scoped.Total != 1 || scoped.Clients[0].ClientID != assignedID {
		t.Fatalf("expected only the assigned client, got %+v", scoped.Clients)
	}

	if _, err := module.Handler.GetClientHandler(ctx, actor, unassignedID); !errors.Is(err, clienterrors.ErrForbidden) {
		t.Fatalf("expected forbidden for unassigned detail access, got %v", err)
	}
}

func TestSaveClientValidatesEmailAndDuplicate(t *testing.T) {
	module := client.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, err := module.Handler.ImportClientsHandler(ctx, userActor(5), httptransport.ImportClientsRequest{
		Clients: []httptransport.ImportClientRecord{
			{Name: "First", Email: "first@x.com"},
			{Name: "Second", Email: "second@x.com"},
		},
	}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	all, err := module.Handler.ListClientsHandler(ctx, userActor(5), httptransport.ListClientsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var firstID string
	for _, c := range all.Clients {
		if c.Email == "first@x.com" {
			firstID = c.ClientID
		}
	}

	if _, err := module.Handler.SaveClientHandler(ctx, userActor(5), firstID, httptransport.SaveClientRequest{
		Name:  "First",
		Email: "not-an-email",
	}); !errors.Is(err, clienterrors.ErrInvalidEmail) {
		t.Fatalf("expected invalid email error, got %v", err)
	}

	if _, err := module.Handler.SaveClientHandler(ctx, userActor(5), firstID, httptransport.SaveClientRequest{
		Name:  "First",
		Email: "second@x.com",
	}); !errors.Is(err, clienterrors.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestDeleteClientRequiresAdmin(t *testing.T) {
	module := client.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, err := module.Handler.ImportClientsHandler(ctx, userActor(2), httptransport.ImportClientsRequest{
		Clients: []httptransport.ImportClientRecord{{Name: "Gone Soon", Email: "gone@x.com"}},
	}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	all, err := module.Handler.ListClientsHandler(ctx, userActor(2), httptransport.ListClientsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	clientID := all.Clients[0].ClientID

	if _, err := module.Handler.DeleteClientHandler(ctx, userActor(2), clientID); !errors.Is(err, clienterrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin delete, got %v", err)
	}
	if _, err := module.Handler.DeleteClientHandler(ctx, adminActor(2), clientID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, err := module.Handler.GetClientHandler(ctx, adminActor(2), clientID); !errors.Is(err, clienterrors.ErrClientNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestImportClientsDropsEmptyFieldValues(t *testing.T) {
	module := client.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, err := module.Handler.ImportClientsHandler(ctx, userActor(7), httptransport.ImportClientsRequest{
		Clients: []httptransport.ImportClientRecord{{
			Name:  "Cara Clean",
			Email: "cara@x.com",
			Fields: map[string]string{
				"vip":   "true",
				"notes": "   ",
			},
		}},
	}); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	listed, err := module.Handler.ListClientsHandler(ctx, userActor(7), httptransport.ListClientsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got, err := module.Handler.GetClientHandler(ctx, userActor(7), listed.Clients[0].ClientID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Client.Fields["vip"] != "true" {
		t.Fatalf("expected vip field retained, got %v", got.Client.Fields)
	}
	if _, ok := got.Client.Fields["notes"]; ok {
		t.Fatalf("expected empty field value dropped on insert, got %v", got.Client.Fields)
	}
	for _, field := range got.AvailableFields {
		if field == "notes" {
			t.Fatalf("expected no available-field entry for an empty value")
		}
	}
}
