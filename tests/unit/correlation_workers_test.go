package unit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	client "crmhub/contexts/client-relations/client-service"
	clienthttp "crmhub/contexts/client-relations/client-service/transport/http"
	timeline "crmhub/contexts/client-relations/timeline-service"
	"crmhub/contexts/client-relations/timeline-service/domain/entities"
	"crmhub/contexts/client-relations/timeline-service/ports"
	timelinehttp "crmhub/contexts/client-relations/timeline-service/transport/http"
	contractsv1 "crmhub/contracts/gen/events/v1"
	"crmhub/internal/platform/messaging"
)

func newBus(t *testing.T) *messaging.Kafka {
	t.Helper()
	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("bus init failed: %v", err)
	}
	return bus
}

func envelope(t *testing.T, eventType string, payload any) contractsv1.Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("payload marshal failed: %v", err)
	}
	return contractsv1.Envelope{
		EventID:       "evt-" + eventType,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC(),
		SourceService: "emailer",
		SchemaVersion: 1,
		Data:          data,
	}
}

// waitFor polls condition until it holds or the deadline passes. Both
// correlation consumers hand off to goroutines, so assertions on their
// effects have to poll.
func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached before deadline")
}

func TestReplyAttributedToFirstAssociatedManager(t *testing.T) {
	bus := newBus(t)
	module := timeline.NewInMemoryModule(nil, bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedTimelineClient(module, 7, "client-1", "alice@x.com")
	first, err := module.Store.UpsertManager(ctx, ports.ManagerUpsert{HubID: 7, Name: "First", Email: "first@crm.example"})
	if err != nil {
		t.Fatalf("seed manager failed: %v", err)
	}
	second, err := module.Store.UpsertManager(ctx, ports.ManagerUpsert{HubID: 7, Name: "Second", Email: "second@crm.example"})
	if err != nil {
		t.Fatalf("seed manager failed: %v", err)
	}
	// Assignment order is irrelevant: attribution picks the smallest manager id.
	module.Store.SeedAssignment("client-1", second.ManagerID)
	module.Store.SeedAssignment("client-1", first.ManagerID)

	if err := module.ReplyConsumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}
	if err := bus.Publish(ctx, "emailer.email.reply", envelope(t, "email.reply", map[string]any{
		"hub_id":  7,
		"from":    "Alice@X.com",
		"name":    "Alice",
		"subject": "Re: offer",
		"text":    "sounds good",
	})); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	waitFor(t, func() bool { return len(module.Store.Events()) == 1 })
	stored := module.Store.Events()[0]
	if stored.Type != entities.EventTypeReply {
		t.Fatalf("expected reply event, got %q", stored.Type)
	}
	if stored.ManagerID != first.ManagerID {
		t.Fatalf("expected attribution to first manager %s, got %s", first.ManagerID, stored.ManagerID)
	}
	if stored.Payload["text"] != "sounds good" || stored.Payload["subject"] != "Re: offer" {
		t.Fatalf("unexpected payload: %v", stored.Payload)
	}
}

func TestReplyWithoutManagersUpsertsSender(t *testing.T) {
	bus := newBus(t)
	module := timeline.NewInMemoryModule(nil, bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedTimelineClient(module, 7, "client-1", "alice@x.com")
	if err := module.ReplyConsumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}
	if err := bus.Publish(ctx, "emailer.email.reply", envelope(t, "email.reply", map[string]any{
		"hub_id": 7,
		"from":   "alice@x.com",
		"text":   "replying without a manager",
	})); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	waitFor(t, func() bool { return len(module.Store.Events()) == 1 })

	listed, err := module.Handler.ListEventsHandler(ctx, adminActor(7), "client-1", timelinehttp.ListEventsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed.Events[0].ManagerEmail != "alice@x.com" {
		t.Fatalf("expected event attributed to a manager upserted from the sender, got %q", listed.Events[0].ManagerEmail)
	}
}

func TestReplyFromUnknownSenderIsSkipped(t *testing.T) {
	bus := newBus(t)
	module := timeline.NewInMemoryModule(nil, bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedTimelineClient(module, 7, "client-1", "alice@x.com")
	if err := module.ReplyConsumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}

	unknown := envelope(t, "email.reply", map[string]any{
		"hub_id": 7,
		"from":   "stranger@nowhere.example",
		"text":   "who dis",
	})
	known := envelope(t, "email.reply", map[string]any{
		"hub_id": 7,
		"from":   "alice@x.com",
		"text":   "hello again",
	})
	if err := bus.Publish(ctx, "emailer.email.reply", unknown); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := bus.Publish(ctx, "emailer.email.reply", known); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	// Reply handling is serial, so once the second notification has landed
	// the first one is fully resolved.
	waitFor(t, func() bool { return len(module.Store.Events()) == 1 })
	if got := module.Store.Events()[0].Payload["text"]; got != "hello again" {
		t.Fatalf("expected only the correlated reply stored, got %v", got)
	}
}

func TestEmailSentSkipsUnknownRecipients(t *testing.T) {
	bus := newBus(t)
	module := timeline.NewInMemoryModule(nil, bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedTimelineClient(module, 7, "client-1", "alice@x.com")
	if err := module.EmailSentConsumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}
	if err := bus.Publish(ctx, "emailer.email.sent", envelope(t, "email.sent", map[string]any{
		"hub_id":       7,
		"sender_name":  "Uma User",
		"sender_email": "uma@crm.example",
		"subject":      "March offer",
		"text":         "see attached",
		"recipients": []map[string]any{
			{"email": "stranger@nowhere.example", "name": "Stranger"},
			{"email": "ALICE@x.com", "name": "Alice"},
		},
	})); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	// The unknown recipient precedes the known one in the same notification,
	// so once the known recipient's event exists the skip already happened.
	waitFor(t, func() bool { return len(module.Store.Events()) == 1 })
	stored := module.Store.Events()[0]
	if stored.Type != entities.EventTypeEmail {
		t.Fatalf("expected email event, got %q", stored.Type)
	}
	if stored.ClientID != "client-1" {
		t.Fatalf("expected event on the correlated client, got %q", stored.ClientID)
	}
	if stored.Payload["subject"] != "March offer" {
		t.Fatalf("unexpected payload: %v", stored.Payload)
	}

	listed, err := module.Handler.ListEventsHandler(ctx, adminActor(7), "client-1", timelinehttp.ListEventsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed.Events[0].ManagerEmail != "uma@crm.example" {
		t.Fatalf("expected attribution to the sender, got %q", listed.Events[0].ManagerEmail)
	}
}

func TestClientImportConsumerWritesRecords(t *testing.T) {
	bus := newBus(t)
	module := client.NewInMemoryModule(nil, bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := module.ImportConsumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}
	if err := bus.Publish(ctx, "emailer.client.import", envelope(t, "client.import", map[string]any{
		"hub_id": 7,
		"name":   "Bea Baker",
		"email":  "bea@x.com",
		"phone":  "+1 555 0100",
		"fields": map[string]string{"segment": "smb"},
	})); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	waitFor(t, func() bool {
		listed, err := module.Handler.ListClientsHandler(ctx, adminActor(7), clienthttp.ListClientsRequest{})
		return err == nil && listed.Total == 1
	})

	listed, err := module.Handler.ListClientsHandler(ctx, adminActor(7), clienthttp.ListClientsRequest{Search: "baker"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed.Total != 1 {
		t.Fatalf("expected imported client to be searchable, got total=%d", listed.Total)
	}
	got := listed.Clients[0]
	if got.Email != "bea@x.com" || got.Phone != "+1 555 0100" {
		t.Fatalf("unexpected client record: %+v", got)
	}
	if got.Fields["segment"] != "smb" {
		t.Fatalf("expected custom field to survive import, got %v", got.Fields)
	}
}

func TestUnsubscribeNotificationAppendsEvent(t *testing.T) {
	bus := newBus(t)
	module := timeline.NewInMemoryModule(nil, bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedTimelineClient(module, 7, "client-1", "alice@x.com")
	assigned, err := module.Store.UpsertManager(ctx, ports.ManagerUpsert{HubID: 7, Name: "Mia", Email: "mia@crm.example"})
	if err != nil {
		t.Fatalf("seed manager failed: %v", err)
	}
	module.Store.SeedAssignment("client-1", assigned.ManagerID)

	if err := module.ReplyConsumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}
	if err := bus.Publish(ctx, "emailer.email.reply", envelope(t, "email.unsubscribe", map[string]any{
		"hub_id": 7,
		"email":  "Alice@X.com",
		"reason": "too many emails",
	})); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	waitFor(t, func() bool { return len(module.Store.Events()) == 1 })
	stored := module.Store.Events()[0]
	if stored.Type != entities.EventTypeUnsubscribed {
		t.Fatalf("expected unsubscribed event, got %q", stored.Type)
	}
	if stored.ClientID != "client-1" || stored.ManagerID != assigned.ManagerID {
		t.Fatalf("expected attribution to the assigned manager, got client=%q manager=%q", stored.ClientID, stored.ManagerID)
	}
	if stored.Payload["reason"] != "too many emails" {
		t.Fatalf("unexpected payload: %v", stored.Payload)
	}

	// An unsubscribe for an address with no client record is skipped, and
	// replies keep flowing on the shared subscription.
	if err := bus.Publish(ctx, "emailer.email.reply", envelope(t, "email.unsubscribe", map[string]any{
		"hub_id": 7,
		"email":  "stranger@nowhere.example",
		"reason": "spam",
	})); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := bus.Publish(ctx, "emailer.email.reply", envelope(t, "email.reply", map[string]any{
		"hub_id": 7,
		"from":   "alice@x.com",
		"text":   "actually, resubscribe me",
	})); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	waitFor(t, func() bool { return len(module.Store.Events()) == 2 })
	if got := module.Store.Events()[1].Type; got != entities.EventTypeReply {
		t.Fatalf("expected the follow-up reply stored, got %q", got)
	}
}
