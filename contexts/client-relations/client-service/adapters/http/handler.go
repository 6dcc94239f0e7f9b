package httpadapter

import (
	"context"
	"log/slog"

	application "crmhub/contexts/client-relations/client-service/application"
	"crmhub/contexts/client-relations/client-service/application/commands"
	"crmhub/contexts/client-relations/client-service/application/queries"
	"crmhub/contexts/client-relations/client-service/domain/entities"
	httptransport "crmhub/contexts/client-relations/client-service/transport/http"
	"crmhub/internal/shared/authz"
	"crmhub/internal/shared/pagination"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	ListClients   queries.ListClientsUseCase
	GetClient     queries.GetClientUseCase
	ImportClients commands.ImportClientsUseCase
	SaveClient    commands.SaveClientUseCase
	ReplaceFields commands.ReplaceFieldsUseCase
	DeleteClient  commands.DeleteClientUseCase
	Logger        *slog.Logger
}

// ListClientsHandler serves both plain listing and search; an empty search
// term means no full-text predicate.
func (h Handler) ListClientsHandler(
	ctx context.Context,
	actor authz.Actor,
	request httptransport.ListClientsRequest,
) (httptransport.ListClientsResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http client list received",
		"event", "client_http_list_received",
		"module", "client-relations/client-service",
		"layer", "transport",
		"hub_id", actor.HubID,
		"search", request.Search != "",
	)

	result, err := h.ListClients.Execute(ctx, queries.ListClientsQuery{
		Actor:   actor,
		Search:  request.Search,
		Page:    request.Page,
		PerPage: request.PerPage,
	})
	if err != nil {
		logger.Error("http client list failed",
			"event", "client_http_list_failed",
			"module", "client-relations/client-service",
			"layer", "transport",
			"hub_id", actor.HubID,
			"error", err.Error(),
		)
		return httptransport.ListClientsResponse{}, err
	}

	items := make([]httptransport.ClientDTO, 0, len(result.Clients.Items))
	for _, client := range result.Clients.Items {
		items = append(items, clientDTO(client))
	}
	return httptransport.ListClientsResponse{
		Total:   result.Total,
		Page:    result.Clients.Page,
		Pages:   pageDTOs(result.Clients.Pages),
		Clients: items,
	}, nil
}

func (h Handler) GetClientHandler(
	ctx context.Context,
	actor authz.Actor,
	clientID string,
) (httptransport.GetClientResponse, error) {
	result, err := h.GetClient.Execute(ctx, queries.GetClientQuery{Actor: actor, ClientID: clientID})
	if err != nil {
		return httptransport.GetClientResponse{}, err
	}
	return httptransport.GetClientResponse{
		Client:          clientDTO(result.Client),
		AvailableFields: result.AvailableFields,
	}, nil
}

func (h Handler) ImportClientsHandler(
	ctx context.Context,
	actor authz.Actor,
	request httptransport.ImportClientsRequest,
) (httptransport.ImportClientsResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("http client import received",
		"event", "client_http_import_received",
		"module", "client-relations/client-service",
		"layer", "transport",
		"hub_id", actor.HubID,
		"record_count", len(request.Clients),
	)

	records := make([]entities.NewClient, 0, len(request.Clients))
	for _, record := range request.Clients {
		records = append(records, entities.NewClient{
			HubID:   record.HubID,
			Name:    record.Name,
			Email:   record.Email,
			Phone:   record.Phone,
			Address: record.Address,
			Fields:  record.Fields,
		})
	}
	written, err := h.ImportClients.Execute(ctx, commands.ImportClientsCommand{
		Actor:   actor,
		Clients: records,
	})
	if err != nil {
		return httptransport.ImportClientsResponse{}, err
	}
	return httptransport.ImportClientsResponse{Written: written}, nil
}

func (h Handler) SaveClientHandler(
	ctx context.Context,
	actor authz.Actor,
	clientID string,
	request httptransport.SaveClientRequest,
) (httptransport.SaveClientResponse, error) {
	updated, err := h.SaveClient.Execute(ctx, commands.SaveClientCommand{
		Actor:    actor,
		ClientID: clientID,
		Update: entities.ClientUpdate{
			Name:    request.Name,
			Email:   request.Email,
			Phone:   request.Phone,
			Address: request.Address,
			Fields:  request.Fields,
		},
	})
	if err != nil {
		return httptransport.SaveClientResponse{}, err
	}
	return httptransport.SaveClientResponse{Client: clientDTO(updated)}, nil
}

func (h Handler) ReplaceFieldsHandler(
	ctx context.Context,
	actor authz.Actor,
	clientID string,
	request httptransport.ReplaceFieldsRequest,
) error {
	return h.ReplaceFields.Execute(ctx, commands.ReplaceFieldsCommand{
		Actor:    actor,
		ClientID: clientID,
		Fields:   request.Fields,
	})
}

func (h Handler) DeleteClientHandler(
	ctx context.Context,
	actor authz.Actor,
	clientID string,
) (httptransport.DeleteClientResponse, error) {
	if err := h.DeleteClient.Execute(ctx, commands.DeleteClientCommand{
		Actor:    actor,
		ClientID: clientID,
	}); err != nil {
		return httptransport.DeleteClientResponse{}, err
	}
	return httptransport.DeleteClientResponse{ClientID: clientID, Deleted: true}, nil
}

func clientDTO(client entities.Client) httptransport.ClientDTO {
	return httptransport.ClientDTO{
		ClientID:  client.ClientID,
		HubID:     client.HubID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Address:   client.Address,
		Fields:    client.Fields,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

func pageDTOs(pages []pagination.Page) []httptransport.PageDTO {
	out := make([]httptransport.PageDTO, 0, len(pages))
	for _, page := range pages {
		if page.Ellipsis {
			out = append(out, httptransport.PageDTO{Ellipsis: true})
			continue
		}
		number := page.Number
		out = append(out, httptransport.PageDTO{Number: &number})
	}
	return out
}
