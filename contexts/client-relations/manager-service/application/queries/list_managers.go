package queries

import (
	"context"
	"log/slog"

	application "crmhub/contexts/client-relations/manager-service/application"
	domainerrors "crmhub/contexts/client-relations/manager-service/domain/errors"
	"crmhub/contexts/client-relations/manager-service/ports"
	"crmhub/internal/shared/authz"
)

type ListManagersQuery struct {
	Actor authz.Actor
}

// ListManagersUseCase is the admin view over the hub's managers with their
// assigned client ids.
type ListManagersUseCase struct {
	Managers ports.ManagerReader
	Logger   *slog.Logger
}

func (uc ListManagersUseCase) Execute(ctx context.Context, query ListManagersQuery) ([]ports.ManagerWithClients, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(query.Actor, authz.RoleAdmin); err != nil {
		return nil, domainerrors.ErrForbidden
	}
	if query.Actor.HubID <= 0 {
		return nil, domainerrors.ErrInvalidHub
	}

	managers, err := uc.Managers.ListManagersWithClients(ctx, query.Actor.HubID)
	if err != nil {
		return nil, err
	}
	logger.Info("managers listed",
		"event", "managers_listed",
		"module", "client-relations/manager-service",
		"layer", "application",
		"hub_id", query.Actor.HubID,
		"count", len(managers),
	)
	return managers, nil
}
