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

type GetManagerQuery struct {
	Actor     authz.Actor
	ManagerID string
}

type GetManagerUseCase struct {
	Managers ports.ManagerReader
	Logger   *slog.Logger
}

func (uc GetManagerUseCase) Execute(ctx context.Context, query GetManagerQuery) (entities.Manager, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(query.Actor, authz.RoleUser); err != nil {
		return entities.Manager{}, domainerrors.ErrForbidden
	}
	manager, err := uc.Managers.FindManagerByID(ctx, query.Actor.HubID, query.ManagerID)
	if err != nil {
		return entities.Manager{}, err
	}
	logger.Debug("manager loaded",
		"event", "manager_loaded",
		"module", "client-relations/manager-service",
		"layer", "application",
		"manager_id", manager.ManagerID,
	)
	return manager, nil
}
