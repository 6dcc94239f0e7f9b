package queries

import (
	"context"
	"log/slog"

	application "crmhub/contexts/client-relations/client-service/application"
	"crmhub/contexts/client-relations/client-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/client-service/domain/errors"
	"crmhub/contexts/client-relations/client-service/ports"
	"crmhub/internal/shared/authz"
)

type GetClientQuery struct {
	Actor    authz.Actor
	ClientID string
}

type GetClientResult struct {
	Client          entities.Client
	AvailableFields []string
}

type GetClientUseCase struct {
	Clients ports.ClientReader
	Logger  *slog.Logger
}

func (uc GetClientUseCase) Execute(ctx context.Context, query GetClientQuery) (GetClientResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(query.Actor, authz.RoleUser); err != nil {
		return GetClientResult{}, domainerrors.ErrForbidden
	}
	if err := application.EnsureClientAccess(ctx, uc.Clients, query.Actor, query.ClientID); err != nil {
		return GetClientResult{}, err
	}

	client, err := uc.Clients.FindClientByID(ctx, query.Actor.HubID, query.ClientID)
	if err != nil {
		return GetClientResult{}, err
	}
	available, err := uc.Clients.ListAvailableFields(ctx, query.Actor.HubID)
	if err != nil {
		return GetClientResult{}, err
	}

	logger.Debug("client loaded",
		"event", "client_loaded",
		"module", "client-relations/client-service",
		"layer", "application",
		"client_id", client.ClientID,
	)
	return GetClientResult{Client: client, AvailableFields: available}, nil
}
