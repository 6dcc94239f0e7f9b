package ports

import (
	"context"

	"crmhub/contexts/client-relations/manager-service/domain/entities"
)

// ManagerWithClients pairs a manager with the ids of its assigned clients,
// used by the admin listing.
type ManagerWithClients struct {
	Manager   entities.Manager
	ClientIDs []string
}

type ManagerReader interface {
	FindManagerByID(ctx context.Context, hubID int, managerID string) (entities.Manager, error)
	FindManagerByEmail(ctx context.Context, hubID int, email string) (entities.Manager, error)
	// ListManagersForClient returns the client's managers ordered by manager
	// id ascending; the head of the list is the attribution target for
	// correlated events.
	ListManagersForClient(ctx context.Context, clientID string) ([]entities.Manager, error)
	IsClientAssignedToManager(ctx context.Context, clientID string, managerEmail string) (bool, error)
	ListManagersWithClients(ctx context.Context, hubID int) ([]ManagerWithClients, error)
}

type ManagerWriter interface {
	// UpsertManager inserts or updates by (hub_id, email) atomically; on
	// update the name is overwritten and is_user is OR-ed in.
	UpsertManager(ctx context.Context, manager entities.NewManager) (entities.Manager, error)
	// AssignClients replaces the manager's full client assignment set in one
	// transaction.
	AssignClients(ctx context.Context, managerID string, clientIDs []string) error
	DeleteManager(ctx context.Context, managerID string) error
}
