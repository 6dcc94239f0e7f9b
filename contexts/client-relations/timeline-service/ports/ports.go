package ports

import (
	"context"
	"time"

	"crmhub/contexts/client-relations/timeline-service/domain/entities"
	contractsv1 "crmhub/contracts/gen/events/v1"
	"crmhub/internal/shared/pagination"
)

// EventListQuery selects a client's timeline. Type, when non-empty, narrows
// to one event type; Pagination is optional.
type EventListQuery struct {
	ClientID   string
	Type       entities.EventType
	Pagination *pagination.Request
}

type EventStore interface {
	// AppendEvent inserts the event unless the most recent stored event for
	// the same (client, manager, type) carries an equal payload; in that case
	// the stored event is returned unchanged. The check-and-insert is atomic.
	AppendEvent(ctx context.Context, event entities.Event) (entities.Event, error)
	// ListEvents returns (total, page) ordered by created_at descending with
	// the attributed manager joined in. A page past the end yields an empty
	// list with the unchanged total.
	ListEvents(ctx context.Context, query EventListQuery) (int, []entities.EventWithManager, error)
}

// ClientRef is the slice of a client record the timeline needs for
// correlation and access checks.
type ClientRef struct {
	ClientID string
	HubID    int
	Name     string
	Email    string
}

type ClientDirectory interface {
	FindClientByEmail(ctx context.Context, hubID int, email string) (ClientRef, error)
	FindClientByID(ctx context.Context, hubID int, clientID string) (ClientRef, error)
	IsClientAssignedToManager(ctx context.Context, clientID string, managerEmail string) (bool, error)
}

// ManagerRef is the slice of a manager record the timeline attributes
// events to.
type ManagerRef struct {
	ManagerID string
	HubID     int
	Name      string
	Email     string
}

// ManagerUpsert resolves an actor or message sender to a manager row,
// creating or refreshing it.
type ManagerUpsert struct {
	HubID  int
	Name   string
	Email  string
	IsUser bool
}

type ManagerDirectory interface {
	UpsertManager(ctx context.Context, upsert ManagerUpsert) (ManagerRef, error)
	// ListManagersForClient is ordered by manager id ascending; the head is
	// the attribution target for correlated events.
	ListManagersForClient(ctx context.Context, clientID string) ([]ManagerRef, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
