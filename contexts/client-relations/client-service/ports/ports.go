package ports

import (
	"context"

	"crmhub/contexts/client-relations/client-service/domain/entities"
	contractsv1 "crmhub/contracts/gen/events/v1"
	"crmhub/internal/shared/pagination"
)

// ClientListQuery is the dynamic listing descriptor. HubID always scopes the
// query; ManagerEmail, Search and Pagination are optional refinements.
// Search and plain listing return identical (total, items) shapes.
type ClientListQuery struct {
	HubID        int
	ManagerEmail string
	Search       string
	Pagination   *pagination.Request
}

type ClientReader interface {
	FindClientByID(ctx context.Context, hubID int, clientID string) (entities.Client, error)
	FindClientByEmail(ctx context.Context, hubID int, email string) (entities.Client, error)
	ListClients(ctx context.Context, query ClientListQuery) (int, []entities.Client, error)
	ListAvailableFields(ctx context.Context, hubID int) ([]string, error)
	IsClientAssignedToManager(ctx context.Context, clientID string, managerEmail string) (bool, error)
}

type ClientWriter interface {
	UpsertClients(ctx context.Context, items []entities.NewClient) (int, error)
	UpdateClient(ctx context.Context, clientID string, update entities.ClientUpdate) (entities.Client, error)
	ReplaceClientFields(ctx context.Context, clientID string, fields map[string]string) error
	DeleteClient(ctx context.Context, clientID string) error
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
