package unit

import (
	"context"
	"errors"
	"testing"

	timeline "crmhub/contexts/client-relations/timeline-service"
	timelineerrors "crmhub/contexts/client-relations/timeline-service/domain/errors"
	"crmhub/contexts/client-relations/timeline-service/ports"
	timelinehttp "crmhub/contexts/client-relations/timeline-service/transport/http"
)

func seedTimelineClient(module timeline.Module, hubID int, clientID, email string) {
	module.Store.SeedClient(ports.ClientRef{
		ClientID: clientID,
		HubID:    hubID,
		Name:     "Seeded Client",
		Email:    email,
	})
}

func TestAddCommentAppendsAndResolvesManager(t *testing.T) {
	module := timeline.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	seedTimelineClient(module, 7, "client-1", "alice@x.com")

	resp, err := module.Handler.AddCommentHandler(ctx, userActor(7), "client-1", timelinehttp.AddCommentRequest{
		Text: "called, interested in renewal",
	})
	if err != nil {
		t.Fatalf("add comment failed: %v", err)
	}
	if resp.Event.Type != "comment" {
		t.Fatalf("expected comment event, got %q", resp.Event.Type)
	}
	if resp.Event.Payload["text"] != "called, interested in renewal" {
		t.Fatalf("unexpected payload: %v", resp.Event.Payload)
	}

	listed, err := module.Handler.ListEventsHandler(ctx, userActor(7), "client-1", timelinehttp.ListEventsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed.Total != 1 {
		t.Fatalf("expected one event, got %d", listed.Total)
	}
	if listed.Events[0].ManagerEmail != "uma@crm.example" {
		t.Fatalf("expected event attributed to the acting user, got %q", listed.Events[0].ManagerEmail)
	}
}

func TestAppendIsSoftIdempotent(t *testing.T) {
	module := timeline.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	seedTimelineClient(module, 7, "client-1", "alice@x.com")
	actor := userActor(7)

	first, err := module.Handler.AddCommentHandler(ctx, actor, "client-1", timelinehttp.AddCommentRequest{Text: "same note"})
	if err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	second, err := module.Handler.AddCommentHandler(ctx, actor, "client-1", timelinehttp.AddCommentRequest{Text: "same note"})
	if err != nil {
		t.Fatalf("second append failed: %v", err)
	}
	if first.Event.EventID != second.Event.EventID {
		t.Fatalf("expected immediate duplicate to return the stored event")
	}

	// A distinct payload always inserts.
	if _, err := module.Handler.AddCommentHandler(ctx, actor, "client-1", timelinehttp.AddCommentRequest{Text: "different note"}); err != nil {
		t.Fatalf("distinct append failed: %v", err)
	}

	// The original payload again: only the most recent event is consulted,
	// so the old match no longer suppresses the insert.
	third, err := module.Handler.AddCommentHandler(ctx, actor, "client-1", timelinehttp.AddCommentRequest{Text: "same note"})
	if err != nil {
		t.Fatalf("third append failed: %v", err)
	}
	if third.Event.EventID == first.Event.EventID {
		t.Fatalf("expected a new row after an intervening different event")
	}

	listed, err := module.Handler.ListEventsHandler(ctx, actor, "client-1", timelinehttp.ListEventsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed.Total != 3 {
		t.Fatalf("expected 3 stored events, got %d", listed.Total)
	}
}

func TestListEventsOrderingFilterAndPagination(t *testing.T) {
	module := timeline.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	seedTimelineClient(module, 7, "client-1", "alice@x.com")
	actor := userActor(7)

	if _, err := module.Handler.AddCommentHandler(ctx, actor, "client-1", timelinehttp.AddCommentRequest{Text: "first"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, err := module.Handler.AddAttachmentHandler(ctx, actor, "client-1", timelinehttp.AddAttachmentRequest{
		URL:   "https://files.example/contract.pdf",
		Title: "contract",
	}); err != nil {
		t.Fatalf("attachment failed: %v", err)
	}
	if _, err := module.Handler.AddCommentHandler(ctx, actor, "client-1", timelinehttp.AddCommentRequest{Text: "second"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	listed, err := module.Handler.ListEventsHandler(ctx, actor, "client-1", timelinehttp.ListEventsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed.Total != 3 {
		t.Fatalf("expected 3 events, got %d", listed.Total)
	}
	if listed.Events[0].Payload["text"] != "second" {
		t.Fatalf("expected newest first, got %v", listed.Events[0].Payload)
	}

	links, err := module.Handler.ListEventsHandler(ctx, actor, "client-1", timelinehttp.ListEventsRequest{Type: "document_link"})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if links.Total != 1 || links.Events[0].Payload["url"] != "https://files.example/contract.pdf" {
		t.Fatalf("expected one document link, got %+v", links.Events)
	}

	past, err := module.Handler.ListEventsHandler(ctx, actor, "client-1", timelinehttp.ListEventsRequest{Page: 50, PerPage: 2})
	if err != nil {
		t.Fatalf("past-the-end list failed: %v", err)
	}
	if past.Total != 3 || len(past.Events) != 0 {
		t.Fatalf("expected unchanged total and empty page, got total=%d items=%d", past.Total, len(past.Events))
	}
}

func TestTimelineAccessRules(t *testing.T) {
	module := timeline.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	seedTimelineClient(module, 7, "client-1", "alice@x.com")

	// Wrong hub: the client is invisible.
	if _, err := module.Handler.ListEventsHandler(ctx, userActor(8), "client-1", timelinehttp.ListEventsRequest{}); !errors.Is(err, timelineerrors.ErrClientNotFound) {
		t.Fatalf("expected not found across hubs, got %v", err)
	}

	// Manager without an assignment is rejected.
	mgr := managerActor(7, "mia@crm.example")
	if _, err := module.Handler.ListEventsHandler(ctx, mgr, "client-1", timelinehttp.ListEventsRequest{}); !errors.Is(err, timelineerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for unassigned manager, got %v", err)
	}

	manager, err := module.Store.UpsertManager(ctx, ports.ManagerUpsert{HubID: 7, Name: "Mia", Email: "mia@crm.example"})
	if err != nil {
		t.Fatalf("seed manager failed: %v", err)
	}
	module.Store.SeedAssignment("client-1", manager.ManagerID)

	if _, err := module.Handler.ListEventsHandler(ctx, mgr, "client-1", timelinehttp.ListEventsRequest{}); err != nil {
		t.Fatalf("assigned manager listing failed: %v", err)
	}
}

func TestAddAttachmentRejectsBadURL(t *testing.T) {
	module := timeline.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	seedTimelineClient(module, 7, "client-1", "alice@x.com")

	if _, err := module.Handler.AddAttachmentHandler(ctx, userActor(7), "client-1", timelinehttp.AddAttachmentRequest{
		URL: "not a url",
	}); !errors.Is(err, timelineerrors.ErrInvalidEventInput) {
		t.Fatalf("expected invalid input for bad url, got %v", err)
	}
}
