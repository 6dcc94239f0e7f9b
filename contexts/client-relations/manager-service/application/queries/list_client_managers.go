package queries

import (
	"context"
	"log/slog"

	application "crmhub/contexts/client-relations/manager-service/application"
	"crmhub/contexts/client-relations/manager-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/manager-service/domain/errors"
	"crmhub/contexts/client-relations/manager-service/ports"
	"crmhub/internal/shared/authz"
)

type ListClientManagersQuery struct {
	Actor    authz.Actor
	ClientID string
}

// ListClientManagersUseCase returns a client's managers ordered by manager
// id; the head of that ordering is the attribution target for correlated
// events. Manager-scoped actors only see clients assigned to them.
type ListClientManagersUseCase struct {
	Managers ports.ManagerReader
	Logger   *slog.Logger
}

func (uc ListClientManagersUseCase) Execute(ctx context.Context, query ListClientManagersQuery) ([]entities.Manager, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(query.Actor, authz.RoleUser); err != nil {
		return nil, domainerrors.ErrForbidden
	}
	if scope := authz.ManagerScope(query.Actor); scope != "" {
		assigned, err := uc.Managers.IsClientAssignedToManager(ctx, query.ClientID, scope)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, domainerrors.ErrForbidden
		}
	}

	managers, err := uc.Managers.ListManagersForClient(ctx, query.ClientID)
	if err != nil {
		return nil, err
	}
	logger.Debug("client managers listed",
		"event", "client_managers_listed",
		"module", "client-relations/manager-service",
		"layer", "application",
		"client_id", query.ClientID,
		"count", len(managers),
	)
	return managers, nil
}
