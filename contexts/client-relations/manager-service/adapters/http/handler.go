package httpadapter

import (
	"context"
	"log/slog"

	application "crmhub/contexts/client-relations/manager-service/application"
	"crmhub/contexts/client-relations/manager-service/application/commands"
	"crmhub/contexts/client-relations/manager-service/application/queries"
	"crmhub/contexts/client-relations/manager-service/domain/entities"
	httptransport "crmhub/contexts/client-relations/manager-service/transport/http"
	"crmhub/internal/shared/authz"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	GetManager         queries.GetManagerUseCase
	ListManagers       queries.ListManagersUseCase
	ListClientManagers queries.ListClientManagersUseCase
	Upsert             commands.UpsertManagerUseCase
	AssignClients      commands.AssignClientsUseCase
	DeleteManager      commands.DeleteManagerUseCase
	Logger             *slog.Logger
}

func (h Handler) UpsertManagerHandler(
	ctx context.Context,
	actor authz.Actor,
	request httptransport.UpsertManagerRequest,
) (httptransport.UpsertManagerResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http manager upsert received",
		"event", "manager_http_upsert_received",
		"module", "client-relations/manager-service",
		"layer", "transport",
		"hub_id", actor.HubID,
	)

	manager, err := h.Upsert.Execute(ctx, commands.UpsertManagerCommand{
		Actor:  actor,
		HubID:  request.HubID,
		Name:   request.Name,
		Email:  request.Email,
		IsUser: request.IsUser,
	})
	if err != nil {
		logger.Error("http manager upsert failed",
			"event", "manager_http_upsert_failed",
			"module", "client-relations/manager-service",
			"layer", "transport",
			"hub_id", actor.HubID,
			"error", err.Error(),
		)
		return httptransport.UpsertManagerResponse{}, err
	}
	return httptransport.UpsertManagerResponse{Manager: managerDTO(manager)}, nil
}

func (h Handler) GetManagerHandler(
	ctx context.Context,
	actor authz.Actor,
	managerID string,
) (httptransport.ManagerDTO, error) {
	manager, err := h.GetManager.Execute(ctx, queries.GetManagerQuery{Actor: actor, ManagerID: managerID})
	if err != nil {
		return httptransport.ManagerDTO{}, err
	}
	return managerDTO(manager), nil
}

func (h Handler) ListManagersHandler(
	ctx context.Context,
	actor authz.Actor,
) (httptransport.ListManagersResponse, error) {
	managers, err := h.ListManagers.Execute(ctx, queries.ListManagersQuery{Actor: actor})
	if err != nil {
		return httptransport.ListManagersResponse{}, err
	}
	items := make([]httptransport.ManagerWithClientsDTO, 0, len(managers))
	for _, entry := range managers {
		items = append(items, httptransport.ManagerWithClientsDTO{
			Manager:   managerDTO(entry.Manager),
			ClientIDs: entry.ClientIDs,
		})
	}
	return httptransport.ListManagersResponse{Managers: items}, nil
}

func (h Handler) ListClientManagersHandler(
	ctx context.Context,
	actor authz.Actor,
	clientID string,
) (httptransport.ListClientManagersResponse, error) {
	managers, err := h.ListClientManagers.Execute(ctx, queries.ListClientManagersQuery{
		Actor:    actor,
		ClientID: clientID,
	})
	if err != nil {
		return httptransport.ListClientManagersResponse{}, err
	}
	items := make([]httptransport.ManagerDTO, 0, len(managers))
	for _, manager := range managers {
		items = append(items, managerDTO(manager))
	}
	return httptransport.ListClientManagersResponse{ClientID: clientID, Managers: items}, nil
}

func (h Handler) AssignClientsHandler(
	ctx context.Context,
	actor authz.Actor,
	managerID string,
	request httptransport.AssignClientsRequest,
) error {
	return h.AssignClients.Execute(ctx, commands.AssignClientsCommand{
		Actor:     actor,
		ManagerID: managerID,
		ClientIDs: request.ClientIDs,
	})
}

func (h Handler) DeleteManagerHandler(
	ctx context.Context,
	actor authz.Actor,
	managerID string,
) (httptransport.DeleteManagerResponse, error) {
	if err := h.DeleteManager.Execute(ctx, commands.DeleteManagerCommand{
		Actor:     actor,
		ManagerID: managerID,
	}); err != nil {
		return httptransport.DeleteManagerResponse{}, err
	}
	return httptransport.DeleteManagerResponse{ManagerID: managerID, Deleted: true}, nil
}

func managerDTO(manager entities.Manager) httptransport.ManagerDTO {
	return httptransport.ManagerDTO{
		ManagerID: manager.ManagerID,
		HubID:     manager.HubID,
		Name:      manager.Name,
		Email:     manager.Email,
		IsUser:    manager.IsUser,
		CreatedAt: manager.CreatedAt,
		UpdatedAt: manager.UpdatedAt,
	}
}
